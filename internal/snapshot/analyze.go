package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/viewaudit/internal/session"
)

// Analysis summarizes a saved page.
type Analysis struct {
	// Title is the trimmed document title.
	Title string `json:"title"`
	// HasLoginForm reports whether the page shows the login form.
	HasLoginForm bool `json:"has_login_form"`
	// Links is the number of anchors with an href.
	Links int `json:"links"`
	// Forms is the number of form elements.
	Forms int `json:"forms"`
	// Size is the HTML size in bytes.
	Size int `json:"size"`
	// SHA256 is the hex digest of the HTML.
	SHA256 string `json:"sha256"`
}

// Analyze parses html and summarizes it.
func Analyze(html []byte) (*Analysis, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	sum := sha256.Sum256(html)
	a := &Analysis{
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Links:  doc.Find("a[href]").Length(),
		Forms:  doc.Find("form").Length(),
		Size:   len(html),
		SHA256: hex.EncodeToString(sum[:]),
	}
	a.HasLoginForm = doc.Find(session.FormSelector).Length() > 0 &&
		doc.Find(session.PasswordSelector).Length() > 0
	return a, nil
}
