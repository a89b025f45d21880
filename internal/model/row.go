package model

import "time"

// Row is the result of auditing one view with one form factor.
//
// Rows are accumulated in run order and are never reordered or deduplicated.
// A row whose audit failed keeps its requested categories but carries no
// scores and a non-empty Error.
type Row struct {
	// View is the catalog name of the audited view.
	View string `json:"view"`

	// FormFactor is the device profile the audit ran with.
	FormFactor FormFactor `json:"form_factor"`

	// Requested lists the categories the audit was asked to score, in
	// report column order.
	Requested []Category `json:"requested"`

	// Scores holds the 0-100 score of every category that produced one.
	Scores map[Category]int `json:"scores,omitempty"`

	// Artifact is the file name of the detailed HTML report, relative to
	// the report directory.
	Artifact string `json:"artifact"`

	// FinalURL is the URL the audit ended on after redirects.
	FinalURL string `json:"final_url,omitempty"`

	// Error describes why the audit failed. Empty on success.
	Error string `json:"error,omitempty"`

	// AuditedAt is when the audit finished.
	AuditedAt time.Time `json:"audited_at"`
}

// IsRequested reports whether the category was requested for this row.
func (r Row) IsRequested(c Category) bool {
	for _, req := range r.Requested {
		if req == c {
			return true
		}
	}
	return false
}

// Score returns the score of a category and whether one is present.
// A category that was not requested never has a score.
func (r Row) Score(c Category) (int, bool) {
	if !r.IsRequested(c) {
		return 0, false
	}
	s, ok := r.Scores[c]
	return s, ok
}

// Failed reports whether the audit of this row failed.
func (r Row) Failed() bool {
	return r.Error != ""
}

// ArtifactName returns the detail report file name for a view and form factor.
func ArtifactName(view string, ff FormFactor) string {
	return view + "-" + string(ff) + ".html"
}
