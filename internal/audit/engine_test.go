package audit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/viewaudit/internal/model"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

// TestParseResult tests score extraction from Lighthouse JSON.
func TestParseResult(t *testing.T) {
	t.Parallel()

	t.Run("reads requested categories", func(t *testing.T) {
		t.Parallel()

		res, err := ParseResult(readFixture(t, "lighthouse.json"), model.AllCategories())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := map[model.Category]int{
			model.CategoryPerformance:   97,
			model.CategoryAccessibility: 88,
			model.CategoryBestPractices: 100,
		}
		if diff := cmp.Diff(want, res.Scores); diff != "" {
			t.Errorf("scores mismatch (-want +got):\n%s", diff)
		}
		if res.FinalURL != "http://localhost:8000/recipes/" {
			t.Errorf("FinalURL = %q", res.FinalURL)
		}
	})

	t.Run("ignores categories not requested", func(t *testing.T) {
		t.Parallel()

		res, err := ParseResult(readFixture(t, "lighthouse.json"), []model.Category{model.CategoryAccessibility})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(map[model.Category]int{model.CategoryAccessibility: 88}, res.Scores); diff != "" {
			t.Errorf("scores mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("null score is absent", func(t *testing.T) {
		t.Parallel()

		res, err := ParseResult(readFixture(t, "lighthouse.json"), []model.Category{model.CategorySEO})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Scores) != 0 {
			t.Errorf("expected no scores, got %v", res.Scores)
		}
	})

	t.Run("falls back to finalUrl", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"finalUrl":"http://x/a/","categories":{"seo":{"score":0.5}}}`)
		res, err := ParseResult(data, []model.Category{model.CategorySEO})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.FinalURL != "http://x/a/" {
			t.Errorf("FinalURL = %q", res.FinalURL)
		}
		if res.Scores[model.CategorySEO] != 50 {
			t.Errorf("seo = %d, want 50", res.Scores[model.CategorySEO])
		}
	})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"runtime error", readFixture(t, "runtime_error.json"), ErrRuntime},
		{"invalid json", []byte(`{"categories":`), ErrMalformedResult},
		{"no categories", []byte(`{"finalUrl":"http://x/"}`), ErrMalformedResult},
		{"score is not a number", []byte(`{"categories":{"seo":{"score":"high"}}}`), ErrMalformedResult},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseResult(tt.data, model.AllCategories())
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseResult() error = %v, want %v", err, tt.want)
			}
		})
	}
}
