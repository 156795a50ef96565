package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "calendar",
	Short: "SMC-CalendarService - календарь слотов и сессий сотрудников",
	// Без подкоманды запускаем HTTP сервер
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), serveMigrate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to TOML config")
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newRolloverCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
