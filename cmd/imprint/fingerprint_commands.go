package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"imprint/internal/ipc"
)

func newFingerprintCommand(ctx *commandContext) *cobra.Command {
	fingerprintCmd := &cobra.Command{
		Use:     "fingerprint",
		Aliases: []string{"fp"},
		Short:   "Inspect and manage stored fingerprints",
	}

	fingerprintCmd.AddCommand(newFingerprintListCommand(ctx))
	fingerprintCmd.AddCommand(newFingerprintShowCommand(ctx))
	fingerprintCmd.AddCommand(newFingerprintDeleteCommand(ctx))
	fingerprintCmd.AddCommand(newFingerprintClearCommand(ctx))

	return fingerprintCmd
}

func newFingerprintListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FingerprintList()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(stdout, "No fingerprints stored")
					return nil
				}
				rows := buildFingerprintRows(resp.Items)
				table := renderTable(
					[]string{"Hash", "Size", "Preview", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				fmt.Fprintf(stdout, "%d fingerprint(s)\n", len(resp.Items))
				return nil
			})
		},
	}
}

func buildFingerprintRows(items []ipc.FingerprintView) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			shortHash(item.Hash),
			strconv.Itoa(item.DataSize),
			item.Preview,
			item.UpdatedAt,
		})
	}
	return rows
}

// shortHash keeps listings readable; `fingerprint show` prints the full hash.
func shortHash(hash string) string {
	const width = 16
	if len(hash) <= width {
		return hash
	}
	return hash[:width] + "…"
}

func newFingerprintShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <hash>",
		Short: "Show a stored fingerprint with its full payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := strings.TrimSpace(args[0])
			if hash == "" {
				return fmt.Errorf("fingerprint hash is required")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FingerprintDescribe(hash)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Found {
					return fmt.Errorf("no fingerprint with hash %s", hash)
				}
				fmt.Fprintf(stdout, "Hash:       %s\n", resp.Item.Hash)
				fmt.Fprintf(stdout, "Data size:  %d bytes\n", resp.Item.DataSize)
				fmt.Fprintf(stdout, "Created at: %s\n", resp.Item.CreatedAt)
				fmt.Fprintf(stdout, "Updated at: %s\n", resp.Item.UpdatedAt)
				fmt.Fprintln(stdout, "Data:")
				fmt.Fprintln(stdout, resp.Data)
				return nil
			})
		},
	}
}

func newFingerprintDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <hash>",
		Short: "Delete a stored fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := strings.TrimSpace(args[0])
			if hash == "" {
				return fmt.Errorf("fingerprint hash is required")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FingerprintDelete(hash)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Removed {
					fmt.Fprintf(stdout, "No fingerprint with hash %s\n", hash)
					return nil
				}
				fmt.Fprintf(stdout, "Deleted fingerprint %s\n", hash)
				return nil
			})
		},
	}
}

func newFingerprintClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored fingerprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear the fingerprint store without --force")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.FingerprintClear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d fingerprint(s)\n", resp.Removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm removal of every stored fingerprint")
	return cmd
}
