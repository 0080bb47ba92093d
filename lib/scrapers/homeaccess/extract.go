package homeaccess

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hacview-backend/lib/htmlutil"
	"hacview-backend/lib/textutil"
	"hacview-backend/lib/weights"

	"github.com/PuerkitoBio/goquery"
)

func extractLoginForm(doc *goquery.Document, district string) (token, database string, err error) {
	token = doc.Find("input[name=__RequestVerificationToken]").AttrOr("value", "")
	if token == "" {
		return "", "", ErrNoToken
	}

	database = doc.Find("#Database").AttrOr("value", "")
	if database != "" {
		return token, database, nil
	}

	// some portal versions render the database id as a select of
	// districts instead of a hidden input; match ours by display text
	doc.Find("#Database option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if htmlutil.Text(opt) == district {
			database = opt.AttrOr("value", "")
			return false
		}
		return true
	})
	if database == "" {
		return "", "", ErrNoTenantMatch
	}
	return token, database, nil
}

// extractPeriods discovers the selectable report periods and assembles the
// postback payload required to request one: the static hidden-field bag,
// the document's fresh anti-forgery fields, and the currently selected
// period as the selector's submitted value.
func extractPeriods(doc *goquery.Document, consts Constants) (PeriodList, error) {
	options := doc.Find("select#" + consts.PeriodSelectorId + " option")
	if options.Length() == 0 {
		return PeriodList{}, ErrNoPeriods
	}

	var periods []string
	current := ""
	options.Each(func(_ int, opt *goquery.Selection) {
		value := opt.AttrOr("value", "")
		periods = append(periods, value)
		if _, selected := opt.Attr("selected"); selected {
			current = value
		}
	})
	if current == "" {
		// older portal versions mark nothing as selected
		current = consts.FallbackPeriod
	}

	postback := make(map[string]string, len(consts.StaticPostback)+3)
	for k, v := range consts.StaticPostback {
		postback[k] = v
	}
	postback["__VIEWSTATE"] = doc.Find("input[name=__VIEWSTATE]").AttrOr("value", "")
	postback["__EVENTVALIDATION"] = doc.Find("input[name=__EVENTVALIDATION]").AttrOr("value", "")
	postback[consts.PeriodField] = current

	return PeriodList{
		Current:  current,
		Periods:  periods,
		Postback: postback,
	}, nil
}

// extractClasses walks every course container in document order. The
// container's ordinal is the key into its nested sub-tables: the portal
// suffixes their element ids with the course's position on the page.
// A container that cannot be parsed is skipped, not fatal; zero containers
// means the page was not a gradebook at all.
func extractClasses(
	ctx context.Context,
	doc *goquery.Document,
	consts Constants,
	provider weights.Provider,
	district string,
) ([]Class, error) {
	containers := doc.Find("div.AssignmentClass")
	if containers.Length() == 0 {
		return nil, ErrNoCourses
	}

	classes := []Class{}
	containers.Each(func(i int, container *goquery.Selection) {
		cls, err := parseClass(ctx, doc, container, i, consts, provider, district)
		if err != nil {
			slog.WarnContext(
				ctx, "skipping unparsable course container",
				"index", i,
				"err", err,
			)
			return
		}
		classes = append(classes, cls)
	})
	return classes, nil
}

func parseClass(
	ctx context.Context,
	doc *goquery.Document,
	container *goquery.Selection,
	index int,
	consts Constants,
	provider weights.Provider,
	district string,
) (cls Class, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while parsing course %d: %v", index, r)
		}
	}()

	header := htmlutil.Text(container.Find("a").First())
	if header == "" {
		return cls, fmt.Errorf("course container has no header link")
	}
	// the first three tokens are a vendor-emitted course/section prefix
	name := dropTokens(header, 3)

	// the id typo is the portal's own
	score := "N/A"
	average := doc.Find(fmt.Sprintf("#plnMain_rptAssigmentsByCourse_ctl%02d_lblHdrAverage", index))
	if average.Length() > 0 {
		fields := strings.Fields(htmlutil.Text(average))
		if len(fields) > 0 {
			score = strings.TrimSuffix(fields[len(fields)-1], "%")
		}
	}

	var assignments []Assignment
	doc.Find(fmt.Sprintf(
		"#plnMain_rptAssigmentsByCourse_ctl%02d_dgCourseAssignments tr.sg-asp-table-data-row",
		index,
	)).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 9 {
			return
		}
		assignments = append(assignments, Assignment{
			DueDate:             orNA(htmlutil.Text(cells.Eq(0))),
			AssignedDate:        orNA(htmlutil.Text(cells.Eq(1))),
			Name:                htmlutil.Text(cells.Eq(2).Find("a").First()),
			Category:            orNA(htmlutil.Text(cells.Eq(3))),
			Score:               orNA(htmlutil.Text(cells.Eq(4))),
			TotalPoints:         htmlutil.Text(cells.Eq(5)),
			Weight:              htmlutil.Text(cells.Eq(6)),
			WeightedScore:       htmlutil.Text(cells.Eq(7)),
			WeightedTotalPoints: htmlutil.Text(cells.Eq(8)),
			StruckThrough:       cells.Eq(2).Find("s, strike, del").Length() > 0,
		})
	})

	categories := map[string]CategoryWeight{}
	doc.Find(fmt.Sprintf(
		"#plnMain_rptAssigmentsByCourse_ctl%02d_dgCourseCategories tr.sg-asp-table-data-row",
		index,
	)).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}
		// cell 3 is a percentage column the portal derives itself
		categories[htmlutil.Text(cells.Eq(0))] = CategoryWeight{
			Earned:   htmlutil.Text(cells.Eq(1)),
			Possible: htmlutil.Text(cells.Eq(2)),
			Weight:   htmlutil.Text(cells.Eq(4)),
		}
	})

	// every category an assignment references must resolve; when the
	// portal's category table omits one, fill a neutral placeholder so
	// downstream averaging stays total, and flag the degraded data
	missing := false
	for _, a := range assignments {
		if _, ok := categories[a.Category]; ok {
			continue
		}
		categories[a.Category] = CategoryWeight{
			Earned:   "100",
			Possible: "100",
			Weight:   "0",
			Missing:  true,
		}
		missing = true
	}

	return Class{
		Name:           name,
		Score:          score,
		CreditWeight:   provider.Weight(ctx, district, name),
		CreditHours:    consts.CreditHours,
		Assignments:    assignments,
		Categories:     categories,
		MissingWeights: missing,
	}, nil
}

func extractStudent(doc *goquery.Document) Student {
	name := registrationField(doc, "plnMain_lblRegStudentName")
	if name != "N/A" {
		name = textutil.CanonicalName(name)
	}
	return Student{
		Id:        registrationField(doc, "plnMain_lblRegStudentID"),
		Name:      name,
		Birthdate: registrationField(doc, "plnMain_lblBirthDate"),
		Counselor: registrationField(doc, "plnMain_lblCounselor"),
		Building:  registrationField(doc, "plnMain_lblBuildingName"),
		Grade:     registrationField(doc, "plnMain_lblGrade"),
		Language:  registrationField(doc, "plnMain_lblLanguage"),
	}
}

func registrationField(doc *goquery.Document, id string) string {
	sel := doc.Find("#" + id)
	if sel.Length() == 0 {
		return "N/A"
	}
	return htmlutil.Text(sel)
}

func dropTokens(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return s
	}
	return strings.Join(fields[n:], " ")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
