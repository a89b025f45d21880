package browsertest

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// TestTabHTML tests that each tab serves the page it navigated to.
func TestTabHTML(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := New(9222)
	b.Pages["http://localhost:8000/"] = "<html>landing</html>"

	first, err := b.NewTab(ctx)
	if err != nil {
		t.Fatal(err)
	}
	second, err := b.NewTab(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Navigate(ctx, "http://localhost:8000/"); err != nil {
		t.Fatal(err)
	}
	if err := second.Navigate(ctx, "http://localhost:8000/recipes/"); err != nil {
		t.Fatal(err)
	}

	html, err := first.HTML(ctx)
	if err != nil || html != "<html>landing</html>" {
		t.Errorf("first tab HTML = %q, %v", html, err)
	}
	html, err = second.HTML(ctx)
	if err != nil || !strings.Contains(html, "http://localhost:8000/recipes/") {
		t.Errorf("second tab HTML = %q, %v", html, err)
	}
	if u, _ := second.URL(ctx); u != "http://localhost:8000/recipes/" {
		t.Errorf("second tab URL = %q", u)
	}

	b.NavigateErr["http://localhost:8000/down/"] = errors.New("net::ERR_CONNECTION_REFUSED")
	if err := first.Navigate(ctx, "http://localhost:8000/down/"); err == nil {
		t.Error("expected the configured navigation error")
	}
	if html, _ := first.HTML(ctx); html != "<html>landing</html>" {
		t.Errorf("failed navigation changed the page: %q", html)
	}
}
