package cmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mj1618/tilewm/internal/command"
	"github.com/mj1618/tilewm/internal/output"
)

var commandCmd = &cobra.Command{
	Use:     "command [--id <container-id>] <invoke-command> [flags]",
	Aliases: []string{"c"},
	Short:   "Run a command in the running window manager",
	Long: `Run an invoke command against a container of the running window manager.
Without --id the command applies to the focused container.

Examples:
  tilewm command focus --direction left
  tilewm command --id 6a1f... resize --width 30%
  tilewm c shell-exec -- code --new-window`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

func init() {
	rootCmd.AddCommand(commandCmd)
	commandCmd.Flags().String("id", "", "Id of the subject container")
	// Everything after the invoke command name belongs to it.
	commandCmd.Flags().SetInterspersed(false)
}

// buildCommandMessage validates the invoke command locally and returns the
// IPC message for it.
func buildCommandMessage(id string, args []string) (string, error) {
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return "", err
		}
	}
	if _, err := command.Parse(args); err != nil {
		return "", err
	}
	msg := "command "
	if id != "" {
		msg += "--id " + id + " "
	}
	return msg + joinArgs(args), nil
}

func runCommand(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	msg, err := buildCommandMessage(id, args)
	if err != nil {
		return err
	}
	resp, err := requestWM(cmd, msg)
	if err != nil {
		return err
	}
	return output.Print(resp.Data)
}
