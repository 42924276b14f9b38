package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GopalOmotec/echolearn-updated/internal/store"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete stored session snapshots",
	Long: "Delete the snapshots of one session (--session) or of every session (--all). " +
		"The event log and the question bank are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("session")
		all, _ := cmd.Flags().GetBool("all")
		if (id == "") == !all {
			return errors.New("pass exactly one of --session or --all")
		}

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		n, err := st.SnapshotRepo().DeleteSession(ctx, id)
		if err != nil {
			return err
		}
		err = st.EventRepo().AppendSessionEvent(ctx, store.SessionEventData{
			SessionID: id,
			Action:    store.ActionReset,
		})
		if err != nil {
			return fmt.Errorf("record reset: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshots.\n", n)
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("session", "s", "", "Session ID to reset")
	resetCmd.Flags().Bool("all", false, "Reset every session")
}
