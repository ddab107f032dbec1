package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/utakatalp/prode/internal/league"
)

var resultCmd = &cobra.Command{
	Use:   "result match home-goals away-goals",
	Short: "Record the confirmed score of a match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := parseID(args[0], "match id")
		if err != nil {
			return err
		}
		outcome, err := parseOutcome(args[1], args[2])
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.RecordResult(cmd.Context(), matchID, outcome); err != nil {
			return err
		}
		a.logger.WithField("match_id", matchID).Info("Result recorded")
		return nil
	},
}

var guessCmd = &cobra.Command{
	Use:   "guess user match home-goals away-goals",
	Short: "Store a user's predicted score for a match",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := parseID(args[1], "match id")
		if err != nil {
			return err
		}
		outcome, err := parseOutcome(args[2], args[3])
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		g := league.Guess{
			MatchID:   matchID,
			UserID:    args[0],
			HomeGoals: outcome.HomeGoals,
			AwayGoals: outcome.AwayGoals,
		}
		if err := a.store.SaveGuess(cmd.Context(), g); err != nil {
			return err
		}
		a.logger.WithFields(logrus.Fields{
			"match_id": matchID,
			"user_id":  g.UserID,
		}).Info("Guess saved")
		return nil
	},
}

func parseOutcome(home, away string) (league.Outcome, error) {
	hg, err := parseGoals(home)
	if err != nil {
		return league.Outcome{}, err
	}
	ag, err := parseGoals(away)
	if err != nil {
		return league.Outcome{}, err
	}
	return league.Outcome{HomeGoals: hg, AwayGoals: ag}, nil
}

func init() {
	rootCmd.AddCommand(resultCmd, guessCmd)
}
