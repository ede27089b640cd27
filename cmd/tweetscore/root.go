package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vadim/tweetlab/internal/scoring"
)

type globalOptions struct {
	lexicon  string
	timezone string
	at       string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "tweetscore",
		Short:         "Score short posts with the reach heuristic",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.lexicon, "lexicon", "", "lexicon YAML file (default: embedded tr-v1)")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", "Europe/Istanbul", "timezone of the timing multiplier")
	root.PersistentFlags().StringVar(&opts.at, "at", "", "evaluate at this RFC3339 time instead of now")

	root.AddCommand(newScoreCmd(opts))
	root.AddCommand(newTimesCmd(opts))

	return root
}

// engine builds a scoring engine from the global flags
func (o *globalOptions) engine() (*scoring.Engine, error) {
	lex := scoring.Default()
	if o.lexicon != "" {
		loaded, err := scoring.Load(o.lexicon)
		if err != nil {
			return nil, err
		}
		lex = loaded
	}

	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", o.timezone, err)
	}

	opts := []scoring.Option{scoring.WithLocation(loc)}
	if o.at != "" {
		at, err := time.Parse(time.RFC3339, o.at)
		if err != nil {
			return nil, fmt.Errorf("invalid --at, use RFC3339: %w", err)
		}
		opts = append(opts, scoring.WithClock(scoring.FixedClock(at)))
	}

	return scoring.New(lex, opts...), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
