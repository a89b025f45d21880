package audit

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/nao1215/viewaudit/internal/model"
)

// Request describes one audit.
type Request struct {
	// URL is the page to audit.
	URL string
	// FormFactor selects the device profile.
	FormFactor model.FormFactor
	// Categories are the categories to score.
	Categories []model.Category
	// Port is the remote debugging port of the browser to attach to.
	Port int
}

// Result is the outcome of one audit.
type Result struct {
	// Scores holds the 0-100 score of every requested category that
	// produced one. A category the engine scored as null is absent.
	Scores map[model.Category]int
	// FinalURL is the URL the audit ended on.
	FinalURL string
	// HTML is the engine's detailed HTML report.
	HTML []byte
}

// Engine runs audits.
type Engine interface {
	Audit(ctx context.Context, req Request) (*Result, error)
}

// ParseResult extracts scores and the final URL from a Lighthouse JSON
// result (the "lhr" object). Only requested categories are read.
func ParseResult(data []byte, categories []model.Category) (*Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResult)
	}

	if rt := gjson.GetBytes(data, "runtimeError"); rt.Exists() && rt.Get("code").String() != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrRuntime, rt.Get("code").String(), rt.Get("message").String())
	}

	cats := gjson.GetBytes(data, "categories")
	if !cats.IsObject() {
		return nil, fmt.Errorf("%w: no categories", ErrMalformedResult)
	}

	res := &Result{Scores: make(map[model.Category]int, len(categories))}
	for _, c := range categories {
		score := cats.Get(gjson.Escape(string(c)) + ".score")
		if !score.Exists() || score.Type == gjson.Null {
			continue
		}
		if score.Type != gjson.Number {
			return nil, fmt.Errorf("%w: score of %s is %s", ErrMalformedResult, c, score.Type)
		}
		res.Scores[c] = model.ScoreFromFraction(score.Float())
	}

	res.FinalURL = gjson.GetBytes(data, "finalDisplayedUrl").String()
	if res.FinalURL == "" {
		res.FinalURL = gjson.GetBytes(data, "finalUrl").String()
	}
	return res, nil
}
