package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyPeriod string

func init() {
	historyCmd.Flags().StringVar(
		&historyPeriod, "period", "1",
		"report period to print snapshots for",
	)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints saved grade snapshots for a report period.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := mustSetup(ctx)

		store, err := openStore(config.Database)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		series, err := store.Pull(ctx, historyPeriod)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Time", "Average"})
		for _, course := range series {
			for _, s := range course.Snapshots {
				t.AppendRow(table.Row{
					course.Course,
					s.Time.Format(time.DateOnly),
					s.Value,
				})
			}
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
