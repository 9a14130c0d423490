package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imprint/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and store status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Daemon Status", colorize) {
					fmt.Fprintln(stdout, line)
				}

				runningKind := statusOK
				runningMsg := fmt.Sprintf("pid %d", resp.PID)
				if !resp.Running {
					runningKind = statusWarn
					runningMsg = "not serving"
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", runningKind, runningMsg, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Listen address", statusInfo, resp.ListenAddr, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, resp.DBPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, resp.LockPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Fingerprints", statusInfo, fmt.Sprintf("%d stored", resp.Fingerprints), colorize))
				return nil
			})
		},
	}
}
