package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"greensteps/config"
	"greensteps/internal/domain"
)

var weekCmd = &cobra.Command{
	Use:   "week [YYYY-MM-DD]",
	Short: "Print the week key for a date",
	Long:  `Prints the Monday that starts the week containing the date (today by default).`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWeek,
}

func init() {
	rootCmd.AddCommand(weekCmd)
}

func runWeek(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	day := time.Now().In(loc)
	if len(args) == 1 {
		parsed, err := time.ParseInLocation(domain.DateLayout, args[0], loc)
		if err != nil {
			return fmt.Errorf("parsing date: %w", err)
		}
		// Midday keeps the date stable across DST shifts.
		day = parsed.Add(12 * time.Hour)
	}

	fmt.Fprintln(cmd.OutOrStdout(), domain.WeekStart(day))
	return nil
}
