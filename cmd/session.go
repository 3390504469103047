package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/kebab-dashboard/internal/session"
)

// sessionCmd classifies a raw token the way the web session gate does.
var sessionCmd = &cobra.Command{
	Use:   "session [token]",
	Short: "Check a session token (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw string
		if len(args) == 1 {
			raw = args[0]
		} else {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			if scanner.Scan() {
				raw = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return err
			}
		}

		gate := session.NewGate(nil, session.WithLogger(appLogger.WithComponent("session")))
		state := gate.Check(strings.TrimSpace(raw))
		fmt.Fprintln(cmd.OutOrStdout(), state)

		if state != session.Authenticated {
			return fmt.Errorf("session is %s", state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}
