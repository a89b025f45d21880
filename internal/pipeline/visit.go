package pipeline

import (
	"net/url"

	"github.com/nao1215/viewaudit/internal/model"
	"github.com/nao1215/viewaudit/internal/view"
)

// Visit is the working state of one planned view. Steps read and fill it.
type Visit struct {
	// Index is the 1-based position of the view in the plan.
	Index int
	// Total is the number of planned views.
	Total int
	// View is the planned view.
	View view.Descriptor

	// URL is the resolved view URL, set by ResolveStep.
	URL *url.URL

	// Rows are the audit results of the view, one per form factor.
	Rows []model.Row

	// Artifacts are the files written for the view.
	Artifacts []string

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string

	// FailedStep is the name of the step that failed, if any.
	FailedStep string
	// Err is the error of the failed step.
	Err error
}

// NewVisit creates the visit of the index-th (1-based) of total views.
func NewVisit(index, total int, d view.Descriptor) *Visit {
	return &Visit{Index: index, Total: total, View: d}
}

// Failed reports whether a step of the visit failed.
func (v *Visit) Failed() bool {
	return v.Err != nil
}
