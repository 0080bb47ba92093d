package homeaccess

// Constants carries the portal-version-specific values baked into Home
// Access Center's markup. The portal can change any of these without notice
// on an upgrade, so they live on the client instead of in package state;
// DefaultConstants returns the set known to work against eSchoolPLUS 4.x.
type Constants struct {
	LoginPath       string
	ProfilePath     string
	AssignmentsPath string

	// submitted name of the report-period dropdown
	PeriodField string
	// DOM id of the same dropdown
	PeriodSelectorId string
	// period submitted when the portal marks no option as selected; a
	// compatibility fallback for older portal versions, not a default
	FallbackPeriod string

	// credit hours assigned to every extracted course
	CreditHours float64

	// hidden fields the assignments postback carries unchanged; the two
	// anti-forgery fields (__VIEWSTATE, __EVENTVALIDATION) are read fresh
	// from each document and are deliberately absent here
	StaticPostback map[string]string
}

func DefaultConstants() Constants {
	return Constants{
		LoginPath:        "/HomeAccess/Account/LogOn",
		ProfilePath:      "/HomeAccess/Content/Student/Registration.aspx",
		AssignmentsPath:  "/HomeAccess/Content/Student/Assignments.aspx",
		PeriodField:      "ctl00$plnMain$ddlReportCardRuns",
		PeriodSelectorId: "plnMain_ddlReportCardRuns",
		FallbackPeriod:   "1",
		CreditHours:      1,
		StaticPostback: map[string]string{
			"__EVENTTARGET":        "ctl00$plnMain$btnRefreshView",
			"__EVENTARGUMENT":      "",
			"__LASTFOCUS":          "",
			"__VIEWSTATEGENERATOR": "B0093F3C",

			"ctl00$plnMain$hdnValidHACLicense":            "Y",
			"ctl00$plnMain$hdnIsVisibleSectionDtlAvg":     "Y",
			"ctl00$plnMain$hdnIsVisibleSectionCrsWgt":     "N",
			"ctl00$plnMain$hdnViewType":                   "2",
			"ctl00$plnMain$hdnGBDefaultView":              "0",
			"ctl00$plnMain$hdnShowAllClasses":             "N",
			"ctl00$plnMain$hdnOrderIdForClassWork":        "1",
			"ctl00$plnMain$hdnPeriodIdForClassWork":       "",
			"ctl00$plnMain$hdnCompDateForClassWork":       "",
			"ctl00$plnMain$hdnCompNameForClassWork":       "",
			"ctl00$plnMain$hdnTooltipTitle":               "Title",
			"ctl00$plnMain$hdnCategory":                   "Category",
			"ctl00$plnMain$hdnDueDate":                    "Due Date",
			"ctl00$plnMain$hdnMaxPoints":                  "Max Points",
			"ctl00$plnMain$hdnCanBeDropped":               "Can Be Dropped",
			"ctl00$plnMain$hdnHasAttachments":             "Has Attachments",
			"ctl00$plnMain$hdnExtraCredit":                "Extra Credit",
			"ctl00$plnMain$hdnType":                       "Type",
			"ctl00$plnMain$hdnAssignmentDescription":      "Assignment Description",
			"ctl00$plnMain$hdnTooltipDescription":         "Description",
			"ctl00$plnMain$hdnCategories":                 "Categories",
			"ctl00$plnMain$hdnImportantDates":             "Important Dates",
			"ctl00$plnMain$hdnAverageDetails":             "Average Details",
			"ctl00$plnMain$hdnAttachments":                "Attachments",
			"ctl00$plnMain$hdnAssignmentsLoaded":          "N",
			"ctl00$plnMain$hdnAllAssignmentsLoaded":       "N",
			"ctl00$plnMain$hdnRefreshViewClicked":         "Y",
			"ctl00$plnMain$hdnDropBoxHeading":             "Drop Box Date Information",
			"ctl00$plnMain$hdnDropBoxDateLabel":           "Drop Box Date",
			"ctl00$plnMain$hdnFileNameLabel":              "File Name",
			"ctl00$plnMain$hdnUploadDateLabel":            "Upload Date",
			"ctl00$plnMain$hdnbtnShowAverage":             "Show All Averages",
			"ctl00$plnMain$hdnbtnHideAverage":             "Hide All Averages",
			"ctl00$plnMain$hdnFullAverageToolTip":         "Average based on all assignments",
			"ctl00$plnMain$hdnAssignmentAverageToolTip":   "Average based on assignments to date",
			"ctl00$plnMain$hdnToolTipTitleForAttachments": "Click here to view attachments",
			"ctl00$plnMain$ddlClasses":                    "ALL",
			"ctl00$plnMain$ddlCompetencies":               "ALL",
			"ctl00$plnMain$rdoOrderByClass":               "rdoOrderByClass",
		},
	}
}
