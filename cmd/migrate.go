package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-CalendarService/internal/infra/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции схемы и выйти",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			applied, err := migrations.NewRunner(a.db, a.log).Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			a.log.Info("Migrations applied: %d", applied)
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}
}
