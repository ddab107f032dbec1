package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/utakatalp/prode/internal/league"
)

var (
	seedName            string
	seedHeadToHeadFirst bool
	seedLegs            int
)

var seedCmd = &cobra.Command{
	Use:   "seed team...",
	Short: "Create a group with its teams and round-robin fixtures",
	Long: `Create a group from the given teams. Each team is id or id=Name; the
order given is the group's seed order, used as the last tiebreak.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedLegs != 1 && seedLegs != 2 {
			return fmt.Errorf("--legs must be 1 or 2, got %d", seedLegs)
		}
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		teams := make([]*league.Team, 0, len(args))
		ids := make([]string, 0, len(args))
		for _, arg := range args {
			id, name, ok := strings.Cut(arg, "=")
			if !ok {
				name = id
			}
			teams = append(teams, &league.Team{ID: id, Name: name})
			ids = append(ids, id)
		}

		rounds := league.GenerateSchedule(ids)
		if seedLegs == 2 {
			rounds = league.GenerateFullSeason(ids)
		}

		group := &league.Group{Name: seedName, HeadToHeadFirst: seedHeadToHeadFirst}
		if err := a.store.SeedGroup(ctx, group, teams, rounds); err != nil {
			return err
		}

		a.logger.WithFields(logrus.Fields{
			"group_id": group.ID,
			"teams":    len(teams),
			"weeks":    len(rounds),
		}).Info("Group created")

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "group %d (%s)\n", group.ID, group.Name)
		for _, round := range rounds {
			for _, f := range round {
				m := league.Match{Home: f.Home, Away: f.Away}
				fmt.Fprintf(out, "  week %d  match %d  %s\n", f.Week, f.ID, m.ScoreLine())
			}
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedName, "name", "", "Group name")
	seedCmd.Flags().BoolVar(&seedHeadToHeadFirst, "h2h", false,
		"Break ties on points by the matches between the tied teams first")
	seedCmd.Flags().IntVar(&seedLegs, "legs", 1, "Number of times each pair meets (1 or 2)")
	_ = seedCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(seedCmd)
}
