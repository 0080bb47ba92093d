package homeaccess

import (
	"bytes"
	"context"

	"hacview-backend/lib/formcodec"
	"hacview-backend/lib/weights"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

func (c *Client) getDocument(ctx context.Context, path string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		return nil, err
	}
	if len(res.Body()) == 0 {
		return nil, ErrEmptyBody
	}
	return goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
}

// FetchProfile reads the registration page into a Student.
func (c *Client) FetchProfile(ctx context.Context) (Student, error) {
	ctx, span := tracer.Start(ctx, "client:FetchProfile")
	defer span.End()

	if c.state != StateLoggedIn {
		span.SetStatus(codes.Error, ErrNotLoggedIn.Error())
		return Student{}, ErrNotLoggedIn
	}

	doc, err := c.getDocument(ctx, c.consts.ProfilePath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch registration page")
		return Student{}, err
	}
	return extractStudent(doc), nil
}

// ListPeriods reads the assignments page and reports which report periods
// can be requested, along with the postback payload a later FetchGrades for
// one of them must echo.
func (c *Client) ListPeriods(ctx context.Context) (PeriodList, error) {
	ctx, span := tracer.Start(ctx, "client:ListPeriods")
	defer span.End()

	if c.state != StateLoggedIn {
		span.SetStatus(codes.Error, ErrNotLoggedIn.Error())
		return PeriodList{}, ErrNotLoggedIn
	}

	doc, err := c.getDocument(ctx, c.consts.AssignmentsPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch assignments page")
		return PeriodList{}, err
	}
	list, err := extractPeriods(doc, c.consts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return PeriodList{}, err
	}
	return list, nil
}

// ListPeriodsWithCurrentGrades is ListPeriods plus a grade extraction on the
// same document, saving the extra round trip for the currently selected
// period. The resulting marking period is appended to the session.
func (c *Client) ListPeriodsWithCurrentGrades(
	ctx context.Context,
	provider weights.Provider,
) (PeriodList, MarkingPeriod, error) {
	ctx, span := tracer.Start(ctx, "client:ListPeriodsWithCurrentGrades")
	defer span.End()

	if c.state != StateLoggedIn {
		span.SetStatus(codes.Error, ErrNotLoggedIn.Error())
		return PeriodList{}, MarkingPeriod{}, ErrNotLoggedIn
	}

	doc, err := c.getDocument(ctx, c.consts.AssignmentsPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch assignments page")
		return PeriodList{}, MarkingPeriod{}, err
	}
	list, err := extractPeriods(doc, c.consts)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return PeriodList{}, MarkingPeriod{}, err
	}
	classes, err := extractClasses(ctx, doc, c.consts, provider, c.database)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return PeriodList{}, MarkingPeriod{}, err
	}

	mp := MarkingPeriod{Period: list.Current, Classes: classes}
	c.appendPeriod(mp)
	return list, mp, nil
}

// FetchGrades requests a specific report period by replaying the postback
// payload captured by ListPeriods with only the period selector overridden,
// then extracts the response into a MarkingPeriod and appends it to the
// session.
func (c *Client) FetchGrades(
	ctx context.Context,
	provider weights.Provider,
	period string,
	postback map[string]string,
) (MarkingPeriod, error) {
	ctx, span := tracer.Start(ctx, "client:FetchGrades")
	defer span.End()

	if c.state != StateLoggedIn {
		span.SetStatus(codes.Error, ErrNotLoggedIn.Error())
		return MarkingPeriod{}, ErrNotLoggedIn
	}

	// the payload is owned by the remote state machine: echo it verbatim
	// aside from the one field being changed
	fields := make(map[string]string, len(postback))
	for k, v := range postback {
		fields[k] = v
	}
	fields[c.consts.PeriodField] = period

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", formcodec.ContentType).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("Origin", c.opts.BaseUrl).
		SetHeader("Referer", c.opts.BaseUrl+c.consts.AssignmentsPath).
		SetBody(formcodec.Encode(fields)).
		Post(c.consts.AssignmentsPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to post period selection")
		return MarkingPeriod{}, err
	}
	if len(res.Body()) == 0 {
		span.SetStatus(codes.Error, ErrEmptyBody.Error())
		return MarkingPeriod{}, ErrEmptyBody
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse assignments html")
		return MarkingPeriod{}, err
	}

	classes, err := extractClasses(ctx, doc, c.consts, provider, c.database)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return MarkingPeriod{}, err
	}

	mp := MarkingPeriod{Period: period, Classes: classes}
	c.appendPeriod(mp)
	return mp, nil
}
