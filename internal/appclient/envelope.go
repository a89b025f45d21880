package appclient

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Envelope is the JSON body the application returns for partial page
// updates: replace the inner or outer HTML of the element matched by
// ElementSelector, follow Redirect, or apply several Rewrites.
type Envelope struct {
	ElementSelector string     `json:"element_selector,omitempty"`
	InnerHTML       string     `json:"inner_html,omitempty"`
	HTML            string     `json:"html,omitempty"`
	Redirect        string     `json:"redirect,omitempty"`
	Rewrites        []Envelope `json:"rewrites,omitempty"`
}

// Validate checks that the envelope carries exactly one kind of update.
func (e *Envelope) Validate() error {
	switch {
	case e.Redirect != "":
		return nil
	case len(e.Rewrites) > 0:
		for i := range e.Rewrites {
			if err := e.Rewrites[i].Validate(); err != nil {
				return fmt.Errorf("rewrite %d: %w", i, err)
			}
		}
		return nil
	case e.ElementSelector == "":
		return fmt.Errorf("%w: missing element_selector", ErrInvalidEnvelope)
	case e.InnerHTML == "" && e.HTML == "":
		return fmt.Errorf("%w: no html for %s", ErrInvalidEnvelope, e.ElementSelector)
	}
	return nil
}

// Text returns the text content of the replacement HTML.
func (e *Envelope) Text() string {
	src := e.InnerHTML
	if src == "" {
		src = e.HTML
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return src
	}
	return strings.TrimSpace(doc.Text())
}
