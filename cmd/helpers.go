package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/tilewm/internal/ipc"
)

// dialWM connects to the running window manager at the --address flag.
func dialWM(ctx context.Context) (*ipc.Client, error) {
	addr, _ := rootCmd.PersistentFlags().GetString("address")
	return ipc.Dial(ctx, addr)
}

// requestWM sends one IPC message and returns the response.
func requestWM(cmd *cobra.Command, msg string) (ipc.Message, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := dialWM(ctx)
	if err != nil {
		return ipc.Message{}, err
	}
	defer client.Close()
	return client.Request(ctx, msg)
}

// joinArgs rebuilds a message line from argv, quoting words the IPC
// server's shell-style splitter would otherwise break apart.
func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quoteArg(a)
	}
	return strings.Join(quoted, " ")
}

func quoteArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
