package homeaccess

import (
	"context"
	"strings"
	"testing"

	"hacview-backend/lib/telemetry"
	"hacview-backend/lib/weights"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parseDoc(t testing.TB, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

const loginPageSelect = `<html><body>
<form action="/HomeAccess/Account/LogOn" method="post">
	<input name="__RequestVerificationToken" type="hidden" value="tok123==" />
	<select id="Database" name="Database">
		<option value="10">Springfield USD</option>
		<option value="20">Shelbyville USD</option>
	</select>
	<input name="LogOnDetails.UserName" type="text" />
	<input name="LogOnDetails.Password" type="password" />
</form>
</body></html>`

const loginPageDirect = `<html><body>
<form action="/HomeAccess/Account/LogOn" method="post">
	<input name="__RequestVerificationToken" type="hidden" value="tok123==" />
	<input id="Database" name="Database" type="hidden" value="10" />
</form>
</body></html>`

func TestExtractLoginForm(t *testing.T) {
	token, database, err := extractLoginForm(parseDoc(t, loginPageDirect), "")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "tok123==", token)
	require.Equal(t, "10", database)

	token, database, err = extractLoginForm(parseDoc(t, loginPageSelect), "Shelbyville USD")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "tok123==", token)
	require.Equal(t, "20", database)
}

func TestExtractLoginFormNoTenantMatch(t *testing.T) {
	_, _, err := extractLoginForm(parseDoc(t, loginPageSelect), "Ogdenville USD")
	require.ErrorIs(t, err, ErrNoTenantMatch)
}

func TestExtractLoginFormNoToken(t *testing.T) {
	_, _, err := extractLoginForm(parseDoc(t, "<html><body><form></form></body></html>"), "")
	require.ErrorIs(t, err, ErrNoToken)
}

const assignmentsPage = `<html><body>
<form action="/HomeAccess/Content/Student/Assignments.aspx" method="post">
	<input name="__VIEWSTATE" type="hidden" value="VS123" />
	<input name="__EVENTVALIDATION" type="hidden" value="EV456" />
	<select id="plnMain_ddlReportCardRuns" name="ctl00$plnMain$ddlReportCardRuns">
		<option value="1">1st Nine Weeks</option>
		<option value="2" selected="selected">2nd Nine Weeks</option>
		<option value="3">3rd Nine Weeks</option>
	</select>

	<div class="AssignmentClass">
		<a id="courseName0">MTH301 301 - Algebra II</a>
		<span id="plnMain_rptAssigmentsByCourse_ctl00_lblHdrAverage">Student Average 91%</span>
		<table id="plnMain_rptAssigmentsByCourse_ctl00_dgCourseAssignments">
			<tr class="sg-asp-table-header-row"><td>Due</td></tr>
			<tr class="sg-asp-table-data-row">
				<td>10/04/2024</td><td>&nbsp;</td><td><a>Chapter 5 Quiz</a></td><td>Tests</td>
				<td>45.00</td><td>50.00</td><td>1.00</td><td>45.00</td><td>50.00</td>
			</tr>
			<tr class="sg-asp-table-data-row">
				<td>&nbsp;</td><td>09/28/2024</td><td><s><a>Extra Practice</a></s></td><td>Homework</td>
				<td></td><td>10.00</td><td>1.00</td><td></td><td>10.00</td>
			</tr>
		</table>
		<table id="plnMain_rptAssigmentsByCourse_ctl00_dgCourseCategories">
			<tr class="sg-asp-table-header-row"><td>Category</td></tr>
			<tr class="sg-asp-table-data-row">
				<td>Tests</td><td>45.00</td><td>50.00</td><td>90.00%</td><td>60.00</td>
			</tr>
		</table>
	</div>

	<div class="AssignmentClass">
		<span>renovated container without a header link</span>
	</div>
</form>
</body></html>`

func TestExtractPeriods(t *testing.T) {
	list, err := extractPeriods(parseDoc(t, assignmentsPage), DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, "2", list.Current)
	require.Equal(t, []string{"1", "2", "3"}, list.Periods)
	require.Equal(t, "VS123", list.Postback["__VIEWSTATE"])
	require.Equal(t, "EV456", list.Postback["__EVENTVALIDATION"])
	require.Equal(t, "2", list.Postback["ctl00$plnMain$ddlReportCardRuns"])
	for key, value := range DefaultConstants().StaticPostback {
		require.Equal(t, value, list.Postback[key], "static field %q", key)
	}
}

func TestExtractPeriodsFallback(t *testing.T) {
	markup := `<html><body>
	<select id="plnMain_ddlReportCardRuns">
		<option value="1">1st Nine Weeks</option>
		<option value="2">2nd Nine Weeks</option>
	</select>
	</body></html>`

	list, err := extractPeriods(parseDoc(t, markup), DefaultConstants())
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, DefaultConstants().FallbackPeriod, list.Current)
	require.Equal(t, DefaultConstants().FallbackPeriod, list.Postback["ctl00$plnMain$ddlReportCardRuns"])
}

func TestExtractPeriodsMissingSelector(t *testing.T) {
	_, err := extractPeriods(parseDoc(t, "<html><body></body></html>"), DefaultConstants())
	require.ErrorIs(t, err, ErrNoPeriods)
}

func TestExtractClasses(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:homeaccess/extract")
	defer cleanup()

	ctx := context.Background()
	classes, err := extractClasses(
		ctx,
		parseDoc(t, assignmentsPage),
		DefaultConstants(),
		weights.Fixed(1.25),
		"10",
	)
	if err != nil {
		t.Fatal(err)
	}
	// the second container has no header link and should be skipped
	require.Len(t, classes, 1)

	cls := classes[0]
	require.Equal(t, "Algebra II", cls.Name)
	require.Equal(t, "91", cls.Score)
	require.Equal(t, 1.25, cls.CreditWeight)
	require.Equal(t, 1.0, cls.CreditHours)
	require.True(t, cls.MissingWeights)

	expected := []Assignment{
		{
			DueDate:             "10/04/2024",
			AssignedDate:        "N/A",
			Name:                "Chapter 5 Quiz",
			Category:            "Tests",
			Score:               "45.00",
			TotalPoints:         "50.00",
			Weight:              "1.00",
			WeightedScore:       "45.00",
			WeightedTotalPoints: "50.00",
		},
		{
			DueDate:             "N/A",
			AssignedDate:        "09/28/2024",
			Name:                "Extra Practice",
			Category:            "Homework",
			Score:               "N/A",
			TotalPoints:         "10.00",
			Weight:              "1.00",
			WeightedScore:       "",
			WeightedTotalPoints: "10.00",
		},
	}
	// struck-through rows are kept, only flagged
	expected[1].StruckThrough = true
	if diff := cmp.Diff(expected, cls.Assignments); diff != "" {
		t.Fatalf("assignments mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, CategoryWeight{
		Earned:   "45.00",
		Possible: "50.00",
		Weight:   "60.00",
	}, cls.Categories["Tests"])
	require.Equal(t, CategoryWeight{
		Earned:   "100",
		Possible: "100",
		Weight:   "0",
		Missing:  true,
	}, cls.Categories["Homework"])

	// every category referenced by an assignment resolves
	for _, a := range cls.Assignments {
		_, ok := cls.Categories[a.Category]
		require.True(t, ok, "category %q has no entry", a.Category)
	}
}

func TestDropTokens(t *testing.T) {
	require.Equal(t, "Algebra II", dropTokens("MTH301 301 - Algebra II", 3))
	require.Equal(t, "Algebra II", dropTokens("Per 3 — Algebra II", 3))
	// too few tokens to drop: keep the raw header
	require.Equal(t, "Advisory", dropTokens("Advisory", 3))
}

func TestExtractClassesNoContainers(t *testing.T) {
	_, err := extractClasses(
		context.Background(),
		parseDoc(t, "<html><body><p>Your session has expired.</p></body></html>"),
		DefaultConstants(),
		weights.Fixed(1),
		"10",
	)
	require.ErrorIs(t, err, ErrNoCourses)
}

const registrationPage = `<html><body>
<div class="sg-content-grid">
	<span id="plnMain_lblRegStudentID">123456</span>
	<span id="plnMain_lblRegStudentName">Doe, John M</span>
	<span id="plnMain_lblBirthDate">01/02/2010</span>
	<span id="plnMain_lblCounselor">Krabappel, Edna</span>
	<span id="plnMain_lblBuildingName">Springfield High School</span>
	<span id="plnMain_lblGrade">10</span>
</div>
</body></html>`

func TestExtractStudent(t *testing.T) {
	student := extractStudent(parseDoc(t, registrationPage))

	require.Equal(t, Student{
		Id:        "123456",
		Name:      "John M Doe",
		Birthdate: "01/02/2010",
		Counselor: "Krabappel, Edna",
		Building:  "Springfield High School",
		Grade:     "10",
		// the language label is absent from this portal version
		Language: "N/A",
	}, student)
}
