package main

import (
	"github.com/spf13/cobra"
)

func newTimesCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "times",
		Short: "Rate the current hour and list the best posting hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := global.engine()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), engine.OptimalTimes())
		},
	}
}
