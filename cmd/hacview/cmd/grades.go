package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"hacview-backend/lib/gradestore"
	"hacview-backend/lib/scrapers/homeaccess"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var gradesPeriod string
var gradesShowWork bool
var gradesSave bool

func init() {
	gradesCmd.Flags().StringVar(
		&gradesPeriod, "period", "",
		"fetch a specific report period instead of the current one",
	)
	gradesCmd.Flags().BoolVar(
		&gradesShowWork, "assignments", false,
		"also print every course's assignment rows",
	)
	gradesCmd.Flags().BoolVar(
		&gradesSave, "save", false,
		"record the fetched averages in the snapshot database",
	)
	rootCmd.AddCommand(gradesCmd)
}

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Prints the gradebook for a report period.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := mustSetup(ctx)
		client := mustLogin(ctx, config)
		provider := weightProvider(config)

		var mp homeaccess.MarkingPeriod
		if gradesPeriod == "" {
			_, current, err := client.ListPeriodsWithCurrentGrades(ctx, provider)
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
			mp = current
		} else {
			list, err := client.ListPeriods(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
			mp, err = client.FetchGrades(ctx, provider, gradesPeriod, list.Postback)
			if err != nil {
				fmt.Fprintln(os.Stderr, err.Error())
				os.Exit(1)
			}
		}

		renderMarkingPeriod(mp)

		if gradesSave {
			saveSnapshots(cmd, config, mp)
		}
	},
}

func renderMarkingPeriod(mp homeaccess.MarkingPeriod) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Course", "Average", "Credit Weight", "Degraded"})
	for _, cls := range mp.Classes {
		degraded := ""
		if cls.MissingWeights {
			degraded = "missing category weights"
		}
		t.AppendRow(table.Row{cls.Name, cls.Score, cls.CreditWeight, degraded})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	if !gradesShowWork {
		return
	}
	for _, cls := range mp.Classes {
		fmt.Println()
		fmt.Println(cls.Name)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Due", "Assigned", "Assignment", "Category", "Score", "Total", "Voided"})
		for _, a := range cls.Assignments {
			voided := ""
			if a.StruckThrough {
				voided = "*"
			}
			t.AppendRow(table.Row{
				a.DueDate, a.AssignedDate, a.Name, a.Category, a.Score, a.TotalPoints, voided,
			})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	}
}

func saveSnapshots(cmd *cobra.Command, config Config, mp homeaccess.MarkingPeriod) {
	ctx := cmd.Context()

	store, err := openStore(config.Database)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	var courses []gradestore.CourseSnapshot
	for _, cls := range mp.Classes {
		value, err := strconv.ParseFloat(cls.Score, 64)
		if err != nil {
			slog.Debug("skipping course without a numeric average", "course", cls.Name, "score", cls.Score)
			continue
		}
		courses = append(courses, gradestore.CourseSnapshot{
			Period: mp.Period,
			Course: cls.Name,
			Value:  value,
		})
	}

	err = store.Push(ctx, gradestore.PushRequest{
		Time:    time.Now(),
		Courses: courses,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
	slog.Info("saved grade snapshots", "period", mp.Period, "courses", len(courses))
}
