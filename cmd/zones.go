package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newZonesCmd lists the active zones on the account. It doubles as a
// connection test: an invalid token fails here with a clear message.
func newZonesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "zones",
		Short: "List active zones on the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := resolveClient(cmd.Context())
			if err != nil {
				return err
			}
			zones, err := client.ListZones(cmd.Context())
			if err != nil {
				return fmt.Errorf("list zones: %w", err)
			}

			if outputMode == "pretty" {
				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.AppendHeader(table.Row{"Name", "Type"})
				for _, z := range zones {
					t.AppendRow(table.Row{z.Name, z.Type})
				}
				t.Render()
				return nil
			}

			raw, err := json.MarshalIndent(zones, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal zones: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}

// newAccountCmd prints account metadata derived from the zones list.
func newAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show account information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := resolveClient(cmd.Context())
			if err != nil {
				return err
			}
			info, err := client.GetAccountInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("get account info: %w", err)
			}
			raw, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal account info: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}
