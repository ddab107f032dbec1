package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Administer groups",
}

var groupH2HCmd = &cobra.Command{
	Use:   "h2h group true|false",
	Short: "Turn head-to-head tiebreaking on or off for a group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := parseID(args[0], "group id")
		if err != nil {
			return err
		}
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid flag value %q", args[1])
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.SetHeadToHeadFirst(cmd.Context(), groupID, enabled); err != nil {
			return err
		}
		a.logger.WithFields(logrus.Fields{
			"group_id":           groupID,
			"head_to_head_first": enabled,
		}).Info("Group updated")
		return nil
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete group",
	Short: "Delete a group with its teams, matches and guesses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID, err := parseID(args[0], "group id")
		if err != nil {
			return err
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.store.DeleteGroup(cmd.Context(), groupID); err != nil {
			return err
		}
		a.logger.WithField("group_id", groupID).Info("Group deleted")
		return nil
	},
}

func init() {
	groupCmd.AddCommand(groupH2HCmd, groupDeleteCmd)
	rootCmd.AddCommand(groupCmd)
}
