// Package gradestore persists course-average snapshots across grade fetches
// so a series can be rendered later. The portal itself only ever shows the
// current average.
package gradestore

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const Schema = `
CREATE TABLE IF NOT EXISTS period_course (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	period TEXT NOT NULL,
	course TEXT NOT NULL,
	UNIQUE (period, course)
);
CREATE TABLE IF NOT EXISTS grade_snapshot (
	period_course_id INTEGER NOT NULL REFERENCES period_course (id),
	time INTEGER NOT NULL,
	value REAL NOT NULL
);
`

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

type CourseSnapshot struct {
	Period string
	Course string
	Value  float64
}

type PushRequest struct {
	Time    time.Time
	Courses []CourseSnapshot
}

// Push records one snapshot per course. An earlier snapshot of the same
// course from the same day is replaced, so refetching does not inflate the
// series.
func (s Store) Push(ctx context.Context, req PushRequest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	year, month, day := req.Time.UTC().Date()
	startOfDay := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix()
	startOfNextDay := time.Date(year, month, day+1, 0, 0, 0, 0, time.UTC).Unix()

	for _, course := range req.Courses {
		_, err := tx.ExecContext(
			ctx,
			`INSERT OR IGNORE INTO period_course (period, course) VALUES (?, ?)`,
			course.Period, course.Course,
		)
		if err != nil {
			return err
		}

		var id int64
		err = tx.QueryRowContext(
			ctx,
			`SELECT id FROM period_course WHERE period = ? AND course = ?`,
			course.Period, course.Course,
		).Scan(&id)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(
			ctx,
			`DELETE FROM grade_snapshot WHERE period_course_id = ? AND time >= ? AND time < ?`,
			id, startOfDay, startOfNextDay,
		)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO grade_snapshot (period_course_id, time, value) VALUES (?, ?, ?)`,
			id, req.Time.Unix(), course.Value,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

type Snapshot struct {
	Time  time.Time
	Value float64
}

type CourseSeries struct {
	Period    string
	Course    string
	Snapshots []Snapshot
}

// Pull returns the stored series for every course of a report period,
// oldest snapshot first.
func (s Store) Pull(ctx context.Context, period string) ([]CourseSeries, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT pc.period, pc.course, gs.time, gs.value
		FROM grade_snapshot gs
		JOIN period_course pc ON pc.id = gs.period_course_id
		WHERE pc.period = ?
		ORDER BY pc.course, gs.time`,
		period,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series []CourseSeries
	for rows.Next() {
		var period, course string
		var unix int64
		var value float64
		err := rows.Scan(&period, &course, &unix, &value)
		if err != nil {
			return nil, err
		}

		if len(series) == 0 || series[len(series)-1].Course != course {
			series = append(series, CourseSeries{
				Period: period,
				Course: course,
			})
		}
		last := &series[len(series)-1]
		last.Snapshots = append(last.Snapshots, Snapshot{
			Time:  time.Unix(unix, 0),
			Value: value,
		})
	}
	return series, rows.Err()
}
