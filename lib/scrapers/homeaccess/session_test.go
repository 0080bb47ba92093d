package homeaccess

import (
	"context"
	"testing"

	"hacview-backend/lib/telemetry"
	"hacview-backend/lib/weights"

	"github.com/stretchr/testify/require"
)

func TestSessionFlow(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:homeaccess/session")
	defer cleanup()

	portal := &fakePortal{}
	client, listener := newTestClient(t, portal)
	ctx := context.Background()

	err := client.Login(ctx)
	if err != nil {
		t.Fatal(err)
	}

	student, err := client.FetchProfile(ctx)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "123456", student.Id)
	require.Equal(t, "John M Doe", student.Name)

	list, current, err := client.ListPeriodsWithCurrentGrades(ctx, weights.Fixed(1))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "2", list.Current)
	require.Equal(t, []string{"1", "2", "3"}, list.Periods)
	require.Equal(t, "2", current.Period)
	require.Len(t, current.Classes, 1)
	require.Len(t, client.MarkingPeriods(), 1)

	mp, err := client.FetchGrades(ctx, weights.Fixed(1), "3", list.Postback)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "3", mp.Period)
	require.Len(t, mp.Classes, 1)

	// the session accumulates periods append-only, never deduplicated
	require.Len(t, client.MarkingPeriods(), 2)
	require.Equal(t, []int{1, 2}, listener.periodCounts)

	// the postback echoes the captured payload verbatim except for the
	// period selector override
	require.Equal(t, "3", portal.lastPostback.Get("ctl00$plnMain$ddlReportCardRuns"))
	require.Equal(t, "VS123", portal.lastPostback.Get("__VIEWSTATE"))
	require.Equal(t, "EV456", portal.lastPostback.Get("__EVENTVALIDATION"))
	for key, value := range DefaultConstants().StaticPostback {
		require.Equal(t, value, portal.lastPostback.Get(key), "static field %q", key)
	}

	// the caller-supplied payload must not be mutated by the override
	require.Equal(t, "2", list.Postback["ctl00$plnMain$ddlReportCardRuns"])
}

func TestFetchSamePeriodTwice(t *testing.T) {
	portal := &fakePortal{}
	client, _ := newTestClient(t, portal)
	ctx := context.Background()

	err := client.Login(ctx)
	if err != nil {
		t.Fatal(err)
	}

	list, err := client.ListPeriods(ctx)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.FetchGrades(ctx, weights.Fixed(1), list.Current, list.Postback)
	if err != nil {
		t.Fatal(err)
	}
	_, err = client.FetchGrades(ctx, weights.Fixed(1), list.Current, list.Postback)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, client.MarkingPeriods(), 2)
}
