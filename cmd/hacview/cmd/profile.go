package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Prints the student's registration info.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := mustSetup(ctx)
		client := mustLogin(ctx, config)

		student, err := client.FetchProfile(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendRows([]table.Row{
			{"Id", student.Id},
			{"Name", student.Name},
			{"Birthdate", student.Birthdate},
			{"Counselor", student.Counselor},
			{"Building", student.Building},
			{"Grade", student.Grade},
			{"Language", student.Language},
		})
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
