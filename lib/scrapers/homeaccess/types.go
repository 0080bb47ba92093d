package homeaccess

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrLoginFailed   = fmt.Errorf("failed to log in, check your credentials")
	ErrNoTenantMatch = errors.New("could not match the configured district on the login page")
	ErrNoToken       = errors.New("could not find a request verification token on the login page")
	ErrNoPeriods     = errors.New("no report periods available, are you logged in?")
	ErrNoCourses     = errors.New("could not get grades")
	ErrEmptyBody     = errors.New("response had no body")
)

// Student holds the fields of the registration page. Everything except the
// id is an opaque display string.
type Student struct {
	Id        string
	Name      string
	Birthdate string
	Counselor string
	Building  string
	Grade     string
	Language  string
}

// Assignment is one row of a course's assignment table. All values keep the
// portal's own formatting; missing cells are "N/A".
type Assignment struct {
	DueDate             string
	AssignedDate        string
	Name                string
	Category            string
	Score               string
	TotalPoints         string
	Weight              string
	WeightedScore       string
	WeightedTotalPoints string
	// the portal listed the assignment struck out, voided but not removed
	StruckThrough bool
	// set by callers for entries they add themselves, never by extraction
	Custom bool
}

// CategoryWeight is one row of a course's grading-category table.
type CategoryWeight struct {
	Earned   string
	Possible string
	Weight   string
	// Missing marks a synthesized placeholder for a category the portal's
	// category table omitted even though assignments reference it.
	Missing bool
}

// Class is one course with its grade, assignments and category weights.
// Categories contains an entry for every category any assignment references;
// omitted ones are filled with a neutral placeholder so averaging stays
// total.
type Class struct {
	Name         string
	Score        string
	CreditWeight float64
	CreditHours  float64
	Assignments  []Assignment
	Categories   map[string]CategoryWeight
	// at least one entry in Categories is a synthesized placeholder
	MissingWeights bool
}

// MarkingPeriod is the result of one grade fetch.
type MarkingPeriod struct {
	Period  string
	Classes []Class
}

// PeriodList describes the report periods selectable on the assignments
// page. Postback is the hidden-field payload that must be echoed verbatim,
// aside from the period-selector override, for the portal to accept a
// request for a different period.
type PeriodList struct {
	Current  string
	Periods  []string
	Postback map[string]string
}
