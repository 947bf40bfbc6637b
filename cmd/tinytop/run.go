package main

import (
	"os"

	"github.com/aretw0/tinytop/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the launcher",
	Long:  `Opens the game menu on the terminal and runs games until the launcher is quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("fps") {
			cfg.FPS, _ = flags.GetInt("fps")
		}
		if flags.Changed("headless") {
			cfg.Headless, _ = flags.GetBool("headless")
		}
		if flags.Changed("debug") {
			cfg.Debug, _ = flags.GetBool("debug")
		}
		if flags.Changed("log-file") {
			cfg.LogFile, _ = flags.GetString("log-file")
		}
		if flags.Changed("metrics-addr") {
			cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Execute(ctx, cli.RunOptions{
			Config: cfg,
			In:     os.Stdin,
			Out:    os.Stdout,
			Stderr: os.Stderr,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Int("fps", 60, "Frames per second")
	runCmd.Flags().Bool("headless", false, "Run without a terminal display")
	runCmd.Flags().Bool("debug", false, "Log debug messages and session lifecycle")
	runCmd.Flags().String("log-file", "tinytop.log", "Log file used while the terminal display is active")
	runCmd.Flags().String("metrics-addr", "", "Serve health, session and metrics endpoints on this address")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
