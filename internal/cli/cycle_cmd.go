package cli

import (
	"github.com/spf13/cobra"
)

// UpdateCmd returns the update command, the one cron runs every minute.
func UpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Refresh room temperatures, then decide and apply the thermostat state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.closeLogged()

			res, err := a.services.Cycle(cmd.Context())
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

// RefreshCmd returns the refresh command. It only touches the room table.
func RefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Poll every room sensor and store the readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.closeLogged()

			temps, err := a.services.RefreshRooms(cmd.Context())
			if err != nil {
				return err
			}
			printRoomTemps(cmd.OutOrStdout(), temps)
			return nil
		},
	}
}

// ApplyCmd returns the apply command: update from the stored readings without polling.
func ApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Decide and apply the thermostat state from stored room readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.closeLogged()

			res, err := a.services.Update(cmd.Context())
			if err != nil {
				return err
			}
			printCycle(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied state and every room",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.closeLogged()

			st, err := a.services.GetState(cmd.Context())
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
