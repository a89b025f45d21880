package appclient

import (
	"context"
	"fmt"
	"time"
)

// Check is the outcome of one probe step.
type Check struct {
	Name    string
	OK      bool
	Detail  string
	Elapsed time.Duration
}

// Probe checks the application end to end: the landing page, then, when a
// username is given, login, the subdivision endpoint of every country and
// logout. Steps after a failed login are skipped.
func (c *Client) Probe(ctx context.Context, username, password string, countries []string) []Check {
	var checks []Check
	run := func(name string, fn func() (string, error)) bool {
		start := time.Now()
		detail, err := fn()
		ch := Check{Name: name, OK: err == nil, Detail: detail, Elapsed: time.Since(start)}
		if err != nil {
			ch.Detail = err.Error()
		}
		checks = append(checks, ch)
		return err == nil
	}

	run("reachability", func() (string, error) {
		res, err := c.Ping(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %q", res.Status, res.Title), nil
	})

	if username == "" {
		return checks
	}

	if !run("login", func() (string, error) {
		return "session cookie set", c.Login(ctx, username, password)
	}) {
		return checks
	}

	for _, country := range countries {
		run("countryinfo "+country, func() (string, error) {
			env, err := c.Subdivision(ctx, country)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s = %q", env.ElementSelector, env.Text()), nil
		})
	}

	run("logout", func() (string, error) {
		if err := c.Logout(ctx); err != nil {
			return "", err
		}
		if c.Authenticated() {
			return "", fmt.Errorf("%w: session cookie still set", ErrUnexpectedStatus)
		}
		return "session cookie cleared", nil
	})
	return checks
}
