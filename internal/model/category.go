package model

import (
	"fmt"
	"math"
	"strings"
)

// Category is one of the four scored Lighthouse categories.
//
// The string value is the Lighthouse category id, which is what the audit
// engine expects on its command line and what the JSON result is keyed by.
type Category string

const (
	// CategoryPerformance measures load and runtime speed.
	CategoryPerformance Category = "performance"
	// CategoryAccessibility measures how usable the page is with assistive technology.
	CategoryAccessibility Category = "accessibility"
	// CategoryBestPractices measures adherence to general web best practices.
	CategoryBestPractices Category = "best-practices"
	// CategorySEO measures search engine discoverability.
	CategorySEO Category = "seo"
)

// AllCategories returns the categories in report column order.
func AllCategories() []Category {
	return []Category{
		CategoryPerformance,
		CategoryAccessibility,
		CategoryBestPractices,
		CategorySEO,
	}
}

// DisplayName returns the label used in badges and report headers.
func (c Category) DisplayName() string {
	switch c {
	case CategoryPerformance:
		return "Performance"
	case CategoryAccessibility:
		return "Accessibility"
	case CategoryBestPractices:
		return "Best Practices"
	case CategorySEO:
		return "SEO"
	default:
		return string(c)
	}
}

// ParseCategory converts a Lighthouse category id into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCategories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ScoreFromFraction converts a Lighthouse score (0.0 to 1.0) into the integer
// 0-100 scale used everywhere else. Values outside the range are clamped.
func ScoreFromFraction(f float64) int {
	score := int(math.Round(f * 100))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
