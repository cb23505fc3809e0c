package main

import (
	"fmt"
	"os"

	"home_thermostat/internal/cli"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thermostat",
		Short: "Home thermostat controller",
		Long: `thermostat polls the room sensors, picks the target from the override or
the time-of-day schedule and drives the HVAC relays.

Run 'thermostat update' from cron every minute, or 'thermostat serve' with
control.interval set to run the loop in-process.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String(cli.ConfigDirFlag, "configs", "directory holding config.yml")

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.UpdateCmd())
	rootCmd.AddCommand(cli.RefreshCmd())
	rootCmd.AddCommand(cli.ApplyCmd())
	rootCmd.AddCommand(cli.StatusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
