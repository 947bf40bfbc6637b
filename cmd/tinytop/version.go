package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/tinytop"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tinytop",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tinytop version %s\n", strings.TrimSpace(tinytop.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
