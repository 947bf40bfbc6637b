package main

import (
	"os"

	"github.com/aretw0/tinytop/internal/cli"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment the launcher needs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		headless, _ := cmd.Flags().GetBool("headless")
		cfg.Headless = cfg.Headless || headless
		return cli.Doctor(cmd.Context(), cfg, os.Stdin, os.Stdout, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().Bool("headless", false, "Skip the terminal check")
}
