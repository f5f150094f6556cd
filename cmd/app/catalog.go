package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"greensteps/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the seed catalog",
	Long:  `Prints the built-in user, default settings, tips and badge rules as YAML.`,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	seed, err := catalog.Default()
	if err != nil {
		return err
	}
	out, err := seed.Marshal()
	if err != nil {
		return fmt.Errorf("rendering catalog: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
