package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func names(views []Descriptor) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Name
	}
	return out
}

// TestParseSelection tests selection token parsing.
func TestParseSelection(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		token    string
		expected Selection
	}{
		{"all", Selection{Kind: SelectAll}},
		{"", Selection{Kind: SelectAll}},
		{"PRE-LOGIN", Selection{Kind: SelectPreLogin}},
		{"post-login", Selection{Kind: SelectPostLogin}},
		{"home", Selection{Kind: SelectSingle, Name: "home"}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.token, func(t *testing.T) {
			t.Parallel()
			if got := ParseSelection(tc.token); got != tc.expected {
				t.Errorf("expected %+v, got %+v", tc.expected, got)
			}
		})
	}
}

// TestPlanPartition tests that pre-login and post-login plans partition the
// full plan while keeping catalog order.
func TestPlanPartition(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	all := Plan(ParseSelection(TokenAll), c)
	pre := Plan(ParseSelection(TokenPreLogin), c)
	post := Plan(ParseSelection(TokenPostLogin), c)

	if len(pre)+len(post) != len(all) {
		t.Fatalf("expected %d + %d = %d views", len(pre), len(post), len(all))
	}

	inPre := make(map[string]bool)
	for _, v := range pre {
		inPre[v.Name] = true
	}
	for _, v := range post {
		if inPre[v.Name] {
			t.Errorf("view %q is in both plans", v.Name)
		}
	}

	// Filtering the full plan must give back the same order.
	var wantPre, wantPost []string
	for _, v := range all {
		if v.LoginRequired {
			wantPost = append(wantPost, v.Name)
		} else {
			wantPre = append(wantPre, v.Name)
		}
	}
	if diff := cmp.Diff(wantPre, names(pre)); diff != "" {
		t.Errorf("pre-login order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantPost, names(post)); diff != "" {
		t.Errorf("post-login order mismatch (-want +got):\n%s", diff)
	}
}

// TestPlanSingle tests single view selection.
func TestPlanSingle(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()

	got := Plan(ParseSelection("recipe-read"), c)
	if diff := cmp.Diff([]string{"recipe-read"}, names(got)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	empty := Plan(ParseSelection("does-not-exist"), c)
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected an empty, non-nil plan, got %v", empty)
	}
}

// TestNeedsLogin tests login detection across a plan.
func TestNeedsLogin(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	if NeedsLogin(c.PreLogin()) {
		t.Error("expected pre-login plan not to need login")
	}
	if !NeedsLogin(c.All()) {
		t.Error("expected full plan to need login")
	}
}

// TestSuggest tests "did you mean" suggestions.
func TestSuggest(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()

	got := Suggest("recipe-reed", c)
	if len(got) == 0 || got[0] != "recipe-read" {
		t.Errorf("expected recipe-read first, got %v", got)
	}
	if len(got) > maxSuggestions {
		t.Errorf("expected at most %d suggestions, got %d", maxSuggestions, len(got))
	}
	if got := Suggest("", c); got != nil {
		t.Errorf("expected no suggestions for empty input, got %v", got)
	}
}
