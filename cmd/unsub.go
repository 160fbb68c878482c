package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var unsubCmd = &cobra.Command{
	Use:     "unsub --id <subscription-id>",
	Aliases: []string{"unsubscribe"},
	Short:   "Close an event subscription",
	Args:    cobra.NoArgs,
	RunE:    runUnsub,
}

func init() {
	rootCmd.AddCommand(unsubCmd)
	unsubCmd.Flags().String("id", "", "Subscription id printed by sub")
	_ = unsubCmd.MarkFlagRequired("id")
}

func runUnsub(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	if _, err := uuid.Parse(id); err != nil {
		return err
	}
	_, err := requestWM(cmd, "unsub --id "+id)
	return err
}
