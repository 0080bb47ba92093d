package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(periodsCmd)
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "Prints the report periods available on the assignments page.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := mustSetup(ctx)
		client := mustLogin(ctx, config)

		list, err := client.ListPeriods(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Period", "Current"})
		for _, p := range list.Periods {
			current := ""
			if p == list.Current {
				current = "*"
			}
			t.AppendRow(table.Row{p, current})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
