package model

import (
	"errors"
	"testing"
)

// TestTierOf tests the tier boundaries.
func TestTierOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		score    int
		expected Tier
	}{
		{100, TierGood},
		{90, TierGood},
		{89, TierWarn},
		{50, TierWarn},
		{49, TierBad},
		{0, TierBad},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected.String(), func(t *testing.T) {
			t.Parallel()
			if got := TierOf(tc.score); got != tc.expected {
				t.Errorf("TierOf(%d) = %v, expected %v", tc.score, got, tc.expected)
			}
		})
	}
}

// TestTierColor tests the badge colors of each tier.
func TestTierColor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		tier     Tier
		expected string
	}{
		{TierGood, "brightgreen"},
		{TierWarn, "orange"},
		{TierBad, "red"},
	}

	for _, tc := range testCases {
		if got := tc.tier.Color(); got != tc.expected {
			t.Errorf("%v.Color() = %q, expected %q", tc.tier, got, tc.expected)
		}
	}
}

// TestScoreFromFraction tests conversion of Lighthouse fractions.
func TestScoreFromFraction(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		fraction float64
		expected int
	}{
		{"good", 0.92, 92},
		{"warn", 0.81, 81},
		{"rounds to nearest", 0.897, 90},
		{"zero", 0, 0},
		{"perfect", 1, 100},
		{"clamped high", 1.3, 100},
		{"clamped low", -0.2, 0},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ScoreFromFraction(tc.fraction); got != tc.expected {
				t.Errorf("ScoreFromFraction(%v) = %d, expected %d", tc.fraction, got, tc.expected)
			}
		})
	}
}

// TestParseCategory tests category parsing.
func TestParseCategory(t *testing.T) {
	t.Parallel()

	t.Run("known ids", func(t *testing.T) {
		t.Parallel()
		for _, c := range AllCategories() {
			got, err := ParseCategory(string(c))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c {
				t.Errorf("expected %q, got %q", c, got)
			}
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		t.Parallel()
		got, err := ParseCategory(" SEO ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != CategorySEO {
			t.Errorf("expected seo, got %q", got)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := ParseCategory("pwa")
		if !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})
}

// TestParseFormFactor tests form factor parsing.
func TestParseFormFactor(t *testing.T) {
	t.Parallel()

	if ff, err := ParseFormFactor("Desktop"); err != nil || ff != FormFactorDesktop {
		t.Errorf("expected desktop, got %q (%v)", ff, err)
	}
	if _, err := ParseFormFactor("tablet"); !errors.Is(err, ErrUnknownFormFactor) {
		t.Errorf("expected ErrUnknownFormFactor, got %v", err)
	}
}

// TestRowScore tests that unrequested categories never report a score.
func TestRowScore(t *testing.T) {
	t.Parallel()

	row := Row{
		View:       "landing",
		FormFactor: FormFactorMobile,
		Requested:  []Category{CategoryPerformance, CategoryAccessibility},
		Scores: map[Category]int{
			CategoryPerformance: 92,
			CategorySEO:         70,
		},
	}

	if s, ok := row.Score(CategoryPerformance); !ok || s != 92 {
		t.Errorf("expected performance 92, got %d (%v)", s, ok)
	}
	if _, ok := row.Score(CategoryAccessibility); ok {
		t.Error("expected no accessibility score")
	}
	if _, ok := row.Score(CategorySEO); ok {
		t.Error("expected unrequested seo to have no score")
	}
	if row.Failed() {
		t.Error("expected row not to be failed")
	}
}

// TestArtifactName tests detail report naming.
func TestArtifactName(t *testing.T) {
	t.Parallel()

	if got := ArtifactName("recipe-read", FormFactorDesktop); got != "recipe-read-desktop.html" {
		t.Errorf("expected recipe-read-desktop.html, got %q", got)
	}
}
