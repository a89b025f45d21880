package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/viewaudit/internal/model"
)

func intPtr(i int) *int { return &i }

func TestCompare(t *testing.T) {
	t.Parallel()

	previous := []model.Row{
		{View: "home", FormFactor: model.FormFactorMobile, Requested: model.AllCategories(),
			Scores: map[model.Category]int{model.CategoryPerformance: 92, model.CategorySEO: 80}},
		{View: "about", FormFactor: model.FormFactorMobile, Requested: model.AllCategories(),
			Scores: map[model.Category]int{model.CategoryPerformance: 70}},
	}
	current := []model.Row{
		{View: "home", FormFactor: model.FormFactorMobile, Requested: model.AllCategories(),
			Scores: map[model.Category]int{model.CategoryPerformance: 85, model.CategorySEO: 80}},
		{View: "recipes", FormFactor: model.FormFactorMobile, Requested: model.AllCategories(),
			Scores: map[model.Category]int{model.CategoryPerformance: 99}},
	}

	t.Run("changed cells only", func(t *testing.T) {
		t.Parallel()

		c := Compare(previous, current, false)
		want := []Delta{
			{View: "home", FormFactor: model.FormFactorMobile, Category: model.CategoryPerformance, Before: intPtr(92), After: intPtr(85)},
			{View: "recipes", FormFactor: model.FormFactorMobile, Category: model.CategoryPerformance, After: intPtr(99)},
			{View: "about", FormFactor: model.FormFactorMobile, Category: model.CategoryPerformance, Before: intPtr(70)},
		}
		if diff := cmp.Diff(want, c.Deltas); diff != "" {
			t.Errorf("deltas mismatch (-want +got):\n%s", diff)
		}
		if c.Net != -7 || c.Direction != DirectionRegressed {
			t.Errorf("net/direction = %d/%s, want -7/regressed", c.Net, c.Direction)
		}
	})

	t.Run("all cells", func(t *testing.T) {
		t.Parallel()

		c := Compare(previous, current, true)
		if len(c.Deltas) != 4 {
			t.Errorf("got %d deltas, want 4", len(c.Deltas))
		}
	})

	t.Run("identical runs", func(t *testing.T) {
		t.Parallel()

		c := Compare(current, current, false)
		if len(c.Deltas) != 0 || c.Direction != DirectionUnchanged {
			t.Errorf("got %d deltas, direction %s", len(c.Deltas), c.Direction)
		}
	})
}

func TestDeltaTierChanged(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		delta Delta
		want  bool
	}{
		{"good to warn", Delta{Before: intPtr(90), After: intPtr(89)}, true},
		{"within warn", Delta{Before: intPtr(50), After: intPtr(89)}, false},
		{"new cell", Delta{After: intPtr(10)}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.delta.TierChanged(); got != tt.want {
				t.Errorf("TierChanged() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteComparison(t *testing.T) {
	t.Parallel()

	c := Compare(
		[]model.Row{{View: "home", FormFactor: model.FormFactorDesktop, Requested: model.AllCategories(), Scores: map[model.Category]int{model.CategorySEO: 95}}},
		[]model.Row{{View: "home", FormFactor: model.FormFactorDesktop, Requested: model.AllCategories(), Scores: map[model.Category]int{model.CategorySEO: 40}}},
		false,
	)
	c.Previous.ID = 1
	c.Current.ID = 2

	var text bytes.Buffer
	if err := WriteComparisonText(&text, c); err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.Contains(text.String(), "-55 (good → bad)") {
		t.Errorf("text output missing change:\n%s", text.String())
	}

	var md bytes.Buffer
	if err := WriteComparisonMarkdown(&md, c); err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(md.String(), "![SEO 40](https://img.shields.io/badge/SEO-40-red)") {
		t.Errorf("markdown output missing badge:\n%s", md.String())
	}

	var js bytes.Buffer
	if err := WriteComparisonJSON(&js, c); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(js.String(), `"direction": "regressed"`) {
		t.Errorf("json output missing direction:\n%s", js.String())
	}
}
