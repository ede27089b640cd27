package main

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadim/tweetlab/internal/scoring"
)

func newScoreCmd(global *globalOptions) *cobra.Command {
	var (
		mode       string
		verified   bool
		reputation float64
		recent     int
		total      int
	)

	cmd := &cobra.Command{
		Use:   "score [text]",
		Short: "Score a post and print the JSON result",
		Long: `Score a post with the reach heuristic. The text is read from the
arguments or, when none are given, from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				text = strings.TrimRight(string(data), "\n")
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("no text to score")
			}

			m, err := scoring.ParseMode(mode)
			if err != nil {
				return err
			}

			engine, err := global.engine()
			if err != nil {
				return err
			}

			var profile *scoring.AuthorProfile
			flags := cmd.Flags()
			if flags.Changed("verified") || flags.Changed("reputation") || flags.Changed("recent") || flags.Changed("total") {
				profile = &scoring.AuthorProfile{
					Verified:        verified,
					RecentPostCount: recent,
					TotalPosts:      total,
				}
				if flags.Changed("reputation") {
					profile.Reputation = &reputation
				}
			}

			return printJSON(cmd.OutOrStdout(), engine.Score(scoring.Input{
				Text:    text,
				Profile: profile,
				Mode:    m,
			}))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "analysis", "scoring mode: analysis|generation")
	cmd.Flags().BoolVar(&verified, "verified", false, "author is verified")
	cmd.Flags().Float64Var(&reputation, "reputation", 0, "author reputation score")
	cmd.Flags().IntVar(&recent, "recent", 0, "posts published by the author in the last 24h")
	cmd.Flags().IntVar(&total, "total", 0, "total posts of the author")

	return cmd
}
