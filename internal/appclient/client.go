package appclient

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

const (
	// csrfField is the form field carrying the CSRF token.
	csrfField = "csrfmiddlewaretoken"
	// sessionCookie is the cookie set by a successful login.
	sessionCookie = "sessionid"
	// countryPlaceholder is replaced by the country code in the country
	// info path template.
	countryPlaceholder = "<country>"
)

// Client is an HTTP client for the audited application.
type Client struct {
	base     *url.URL
	http     *resty.Client
	jar      http.CookieJar
	logger   *slog.Logger
	timeout  time.Duration
	login    string
	logout   string
	country  string
	agent    string
	errorSel string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout of every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLoginPaths overrides the login and logout paths.
func WithLoginPaths(login, logout string) Option {
	return func(c *Client) {
		c.login = login
		c.logout = logout
	}
}

// WithCountryInfoPath sets the country info path template. It must contain
// "<country>".
func WithCountryInfoPath(template string) Option {
	return func(c *Client) { c.country = template }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(c *Client) { c.agent = agent }
}

// New creates a client for the application at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		base:     base,
		jar:      jar,
		logger:   slog.Default(),
		timeout:  30 * time.Second,
		login:    "/accounts/login/",
		logout:   "/accounts/logout/",
		country:  "/profiles/countryinfo/" + countryPlaceholder + "/",
		agent:    "viewaudit",
		errorSel: ".errorlist, .alert-danger",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimSuffix(base.String(), "/")).
		SetCookieJar(jar).
		SetTimeout(c.timeout).
		SetHeader("User-Agent", c.agent).
		SetRedirectPolicy(resty.DomainCheckRedirectPolicy(base.Hostname()))
	return c, nil
}

// PingResult describes the reachability of the application.
type PingResult struct {
	Status  int
	Title   string
	Elapsed time.Duration
}

// Ping fetches the landing page and returns its status and title.
func (c *Client) Ping(ctx context.Context) (*PingResult, error) {
	res, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return nil, fmt.Errorf("get /: %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: get / returned %d", ErrUnexpectedStatus, res.StatusCode())
	}

	out := &PingResult{Status: res.StatusCode(), Elapsed: res.Time()}
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body())); err == nil {
		out.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return out, nil
}

// Login posts the credentials to the login form.
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.formToken(ctx, c.login)
	if err != nil {
		return err
	}

	c.logger.Debug("posting login form", "path", c.login)
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Referer", c.base.ResolveReference(&url.URL{Path: c.login}).String()).
		SetFormData(map[string]string{
			csrfField:  token,
			"login":    username,
			"password": password,
		}).
		Post(c.login)
	if err != nil {
		return fmt.Errorf("post %s: %w", c.login, err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("%w: post %s returned %d", ErrUnexpectedStatus, c.login, res.StatusCode())
	}

	if !c.Authenticated() {
		return fmt.Errorf("%w: %s", ErrLoginFailed, c.loginFailure(res))
	}
	return nil
}

// loginFailure explains a rejected login: the form's error text when the
// response renders it, otherwise where the post ended up.
func (c *Client) loginFailure(res *resty.Response) string {
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body())); err == nil {
		var msgs []string
		doc.Find(c.errorSel).Each(func(_ int, s *goquery.Selection) {
			if msg := strings.Join(strings.Fields(s.Text()), " "); msg != "" {
				msgs = append(msgs, msg)
			}
		})
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	if raw := res.RawResponse; raw != nil && raw.Request != nil && !c.redirectedToLogin(res) {
		return "credentials rejected, redirected to " + raw.Request.URL.Path
	}
	return "credentials rejected"
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	token, err := c.formToken(ctx, c.logout)
	if err != nil {
		return err
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Referer", c.base.ResolveReference(&url.URL{Path: c.logout}).String()).
		SetFormData(map[string]string{csrfField: token}).
		Post(c.logout)
	if err != nil {
		return fmt.Errorf("post %s: %w", c.logout, err)
	}
	if res.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("%w: post %s returned %d", ErrUnexpectedStatus, c.logout, res.StatusCode())
	}
	return nil
}

// Authenticated reports whether the jar holds a session cookie.
func (c *Client) Authenticated() bool {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == sessionCookie && ck.Value != "" {
			return true
		}
	}
	return false
}

// Subdivision fetches the subdivision label of a country, as the address
// form does when the country changes. It needs a logged-in client.
func (c *Client) Subdivision(ctx context.Context, country string) (*Envelope, error) {
	path := strings.ReplaceAll(c.country, countryPlaceholder, url.PathEscape(country))

	env := &Envelope{}
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetResult(env).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if c.redirectedToLogin(res) {
		return nil, fmt.Errorf("%w: get %s", ErrNotAuthenticated, path)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: get %s returned %d", ErrUnexpectedStatus, path, res.StatusCode())
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// formToken fetches the form at path and returns its CSRF token.
func (c *Client) formToken(ctx context.Context, path string) (string, error) {
	res, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", path, err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%w: get %s returned %d", ErrUnexpectedStatus, path, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	token := doc.Find("input[name=" + csrfField + "]").First().AttrOr("value", "")
	if token == "" {
		return "", fmt.Errorf("%w: %s", ErrNoCSRFToken, path)
	}
	return token, nil
}

func (c *Client) redirectedToLogin(res *resty.Response) bool {
	if res.RawResponse == nil || res.RawResponse.Request == nil {
		return false
	}
	return res.RawResponse.Request.URL.Path == c.login
}
