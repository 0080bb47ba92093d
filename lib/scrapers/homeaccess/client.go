// Package homeaccess emulates a browser session against a Home Access
// Center portal (an ASP.NET Web Forms application with no public API).
// Authentication, anti-forgery tokens and all data come from parsing the
// server-rendered HTML and replaying its hidden form state.
package homeaccess

import (
	"bytes"
	"context"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"hacview-backend/lib/formcodec"
	"hacview-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/homeaccess")

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type LoginState int

const (
	StateLoggedOut LoginState = iota
	StateAwaitingToken
	StateAuthenticating
	StateLoggedIn
	StateFailed
)

func (s LoginState) String() string {
	switch s {
	case StateLoggedOut:
		return "LoggedOut"
	case StateAwaitingToken:
		return "AwaitingToken"
	case StateAuthenticating:
		return "Authenticating"
	case StateLoggedIn:
		return "LoggedIn"
	case StateFailed:
		return "Failed"
	}
	return "Unknown"
}

// StateListener receives change notifications for the session state an
// external presentation layer may want to render. The core never blocks on
// it; callbacks run on the calling goroutine.
type StateListener interface {
	LoginStateChanged(state LoginState)
	MarkingPeriodsChanged(periods []MarkingPeriod)
}

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string
	// display text of the district option on the login page, matched when
	// the page does not carry the database id directly
	District string
	// applied per request; zero means 30 seconds
	Timeout time.Duration
	// nil means DefaultConstants
	Constants *Constants
}

// Client is a single logical portal session. It is not safe for concurrent
// use: interleaved requests would race on the server's own per-session
// view-state.
type Client struct {
	http   *resty.Client
	consts Constants
	opts   ClientOptions

	state    LoginState
	token    string
	database string
	periods  []MarkingPeriod
	listener StateListener
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	consts := DefaultConstants()
	if opts.Constants != nil {
		consts = *opts.Constants
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(timeout)
	client.SetHeader("user-agent", browserUserAgent)

	telemetry.InstrumentResty(client, "scrapers/homeaccess/http")

	return &Client{
		http:   client,
		consts: consts,
		opts:   opts,
		state:  StateLoggedOut,
	}, nil
}

func (c *Client) State() LoginState {
	return c.state
}

// Database returns the tenant identifier selected during login.
func (c *Client) Database() string {
	return c.database
}

// MarkingPeriods returns every marking period fetched so far, in fetch
// order. Fetching the same period twice yields two entries.
func (c *Client) MarkingPeriods() []MarkingPeriod {
	return c.periods
}

func (c *Client) SetListener(l StateListener) {
	c.listener = l
}

func (c *Client) setState(s LoginState) {
	if c.state == s {
		return
	}
	c.state = s
	if c.listener != nil {
		c.listener.LoginStateChanged(s)
	}
}

func (c *Client) appendPeriod(mp MarkingPeriod) {
	c.periods = append(c.periods, mp)
	if c.listener != nil {
		c.listener.MarkingPeriodsChanged(c.periods)
	}
}

// Login performs the two-step handshake: an unauthenticated read of the
// login page to obtain the anti-forgery token and database id, then a POST
// replaying both with the credentials. The portal only issues a session when
// the request looks like the browser form submit, so the token is echoed as
// a header and browser-like headers are set. Failure leaves the client in
// StateFailed with no usable session.
func (c *Client) Login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	c.setState(StateAwaitingToken)

	res, err := c.http.R().
		SetContext(ctx).
		Get(c.consts.LoginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		c.setState(StateFailed)
		return err
	}
	if len(res.Body()) == 0 {
		span.SetStatus(codes.Error, ErrEmptyBody.Error())
		c.setState(StateFailed)
		return ErrEmptyBody
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page html")
		c.setState(StateFailed)
		return err
	}

	token, database, err := extractLoginForm(doc, c.opts.District)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read login form")
		c.setState(StateFailed)
		return err
	}

	c.setState(StateAuthenticating)

	body := formcodec.Encode(map[string]string{
		"__RequestVerificationToken": token,
		"Database":                   database,
		"LogOnDetails.UserName":      c.opts.Username,
		"LogOnDetails.Password":      c.opts.Password,
	})
	res, err = c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", formcodec.ContentType).
		SetHeader("__RequestVerificationToken", token).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetHeader("Origin", c.opts.BaseUrl).
		SetHeader("Referer", c.opts.BaseUrl+c.consts.LoginPath).
		SetBody(body).
		Post(c.consts.LoginPath)
	if err != nil {
		span.SetStatus(codes.Error, "failed to make login request")
		c.setState(StateFailed)
		return err
	}
	doc, err = goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login response html")
		c.setState(StateFailed)
		return err
	}

	// a session was only issued if the primary form no longer posts back
	// to the login action
	action := doc.Find("form").First().AttrOr("action", "")
	if action == "" || strings.Contains(strings.ToLower(action), strings.ToLower(c.consts.LoginPath)) {
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		c.setState(StateFailed)
		return ErrLoginFailed
	}

	c.token = token
	c.database = database
	c.setState(StateLoggedIn)
	return nil
}
