package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRolloverCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Продлить недельные серии на год",
		Long: `Продлевает все повторяющиеся слоты и дни на указанный год.
По умолчанию берется текущий год: серии из последней недели
прошлого года продлеваются до 31 декабря.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			uc := a.rolloverUseCase()
			if year == 0 {
				year = uc.CurrentYear()
			}

			report, err := uc.Execute(cmd.Context(), year)
			if err != nil {
				return fmt.Errorf("rollover %d failed: %w", year, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "year=%d employees=%d slots=%d dates=%d failed=%d\n",
				report.Year, report.Employees, report.Slots, report.Dates, len(report.Failed))
			for _, id := range report.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "  failed employee %s\n", id)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "target year (default: current year)")
	return cmd
}
