package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/tilewm/internal/config"
	"github.com/mj1618/tilewm/internal/output"
	"github.com/mj1618/tilewm/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tilewm",
	Short: "A tiling window manager",
	Long: `tilewm arranges windows into tiling layouts organized by workspace and
monitor. Run without arguments to start the window manager; the other
subcommands talk to a running instance over IPC.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runStart,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("address", config.DefaultIPCAddress, "IPC address of the running window manager")
	addStartFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Use the root persistent flags directly so subcommand flags of the
		// same name cannot shadow them.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}
