package main

import (
	"os"

	"github.com/aretw0/tinytop/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the games found in the games directory",
	Long:  `Scans the games directory and prints every playable game, followed by the directories that were skipped and why.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		plain, _ := cmd.Flags().GetBool("plain")
		return cli.List(cmd.Context(), cfg.GamesDir, os.Stdout, plain)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("plain", false, "Print raw markdown instead of rendering it")
}
