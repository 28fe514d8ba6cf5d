package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lattice-Labs/lattice/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a new lattice project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitializeProject(); err != nil {
			return err
		}
		color.Green("✅ Created lattice.yaml and entities/")
		color.Cyan("📋 Declare your entities under entities/ and run 'lattice validate'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
