package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/utakatalp/prode/internal/league"
	"github.com/utakatalp/prode/internal/service"
)

var tableUser string

var tableCmd = &cobra.Command{
	Use:   "table group",
	Short: "Print a group table from results, or from a user's guesses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := parseID(args[0], "group id")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		svc := service.NewGroupService(a.store, a.cfg.Scoring, a.logger)
		var standings *service.Standings
		if tableUser != "" {
			standings, err = svc.GuessedTable(ctx, groupID, tableUser)
		} else {
			standings, err = svc.Table(ctx, groupID)
		}
		if err != nil {
			return err
		}

		label := fmt.Sprintf("Group %s", standings.Group.Name)
		if tableUser != "" {
			label += fmt.Sprintf(" (guesses of %s)", tableUser)
		}
		if err := league.WriteTable(cmd.OutOrStdout(), label, standings.Table); err != nil {
			return err
		}

		if tableUser != "" {
			score, err := svc.Score(ctx, groupID, tableUser)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nqualifier points: %d (exact %d, qualified %d)\n",
				score.Points, score.ExactPositions, score.CorrectQualifiers)
		}
		return nil
	},
}

func init() {
	tableCmd.Flags().StringVar(&tableUser, "user", "", "Compute the table from this user's guesses")
	rootCmd.AddCommand(tableCmd)
}
