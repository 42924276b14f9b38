package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GopalOmotec/echolearn-updated/internal/report"
	"github.com/GopalOmotec/echolearn-updated/internal/session"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show analytics for the latest snapshot of a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("session")

		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.SnapshotRepo().Latest(cmd.Context(), id)
		if err != nil {
			return err
		}
		if snap == nil {
			if id != "" {
				return fmt.Errorf("no snapshots for session %s", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded yet.")
			return nil
		}

		parsed, err := session.ParseDocument(snap.Data)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Render(parsed))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("session", "s", "", "Session ID (default: most recent session)")
}
