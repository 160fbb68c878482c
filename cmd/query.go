package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/tilewm/internal/output"
	"github.com/mj1618/tilewm/internal/wm"
)

var queryCmd = &cobra.Command{
	Use:     "query <" + strings.Join(wm.QueryNames, "|") + ">",
	Aliases: []string{"q"},
	Short:   "Query the state of the running window manager",
	Long: `Print a snapshot of the running window manager.

Examples:
  tilewm query workspaces
  tilewm query focused --format json`,
	ValidArgs: wm.QueryNames,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	resp, err := requestWM(cmd, "query "+args[0])
	if err != nil {
		return fmt.Errorf("query %s: %w", args[0], err)
	}
	return output.Print(resp.Data)
}
