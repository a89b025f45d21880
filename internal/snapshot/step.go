package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/viewaudit/internal/browser"
	"github.com/nao1215/viewaudit/internal/pipeline"
	"github.com/nao1215/viewaudit/internal/report"
)

// Snapshot is the saved page of one view.
type Snapshot struct {
	// View is the view name.
	View string `json:"view"`
	// URL is the visited URL.
	URL string `json:"url"`
	// Path is where the HTML was written.
	Path string `json:"path,omitempty"`
	// Analysis summarizes the page. Nil when capture failed.
	Analysis *Analysis `json:"analysis,omitempty"`
	// Error is the failure message, empty on success.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the snapshot could not be saved.
func (s Snapshot) Failed() bool {
	return s.Error != ""
}

// FileName returns the artifact name of a view's snapshot.
func FileName(view string) string {
	return view + ".html"
}

// Step captures the visit's page into dir.
type Step struct {
	browser browser.Browser
	dir     string
	logger  *slog.Logger

	// captured receives every successful snapshot.
	captured func(Snapshot)
}

// NewStep creates a capture step writing into dir.
func NewStep(b browser.Browser, dir string, logger *slog.Logger, captured func(Snapshot)) *Step {
	if logger == nil {
		logger = slog.Default()
	}
	return &Step{browser: b, dir: dir, logger: logger, captured: captured}
}

// Name returns the step name.
func (s *Step) Name() string {
	return "capture_html"
}

// Phase returns PhaseCapturing.
func (s *Step) Phase() pipeline.Phase {
	return pipeline.PhaseCapturing
}

// Do navigates to the visit URL and saves the HTML.
func (s *Step) Do(ctx context.Context, v *pipeline.Visit) error {
	tab, err := s.browser.NewTab(ctx)
	if err != nil {
		return fmt.Errorf("%w: open tab: %w", ErrCapture, err)
	}
	defer func() {
		if cerr := tab.Close(); cerr != nil {
			s.logger.Debug("closing tab failed", "view", v.View.Name, "error", cerr)
		}
	}()

	u := v.URL.String()
	if err := tab.Navigate(ctx, u); err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}
	html, err := tab.HTML(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapture, err)
	}

	path, err := report.WriteArtifact(s.dir, FileName(v.View.Name), []byte(html))
	if err != nil {
		return err
	}
	v.Artifacts = append(v.Artifacts, path)

	snap := Snapshot{View: v.View.Name, URL: u, Path: path}
	analysis, err := Analyze([]byte(html))
	if err != nil {
		s.logger.Warn("analysing snapshot failed", "view", v.View.Name, "error", err)
	} else {
		snap.Analysis = analysis
		if v.View.LoginRequired && analysis.HasLoginForm {
			s.logger.Warn("login form on a login-required view, session may be lost",
				"view", v.View.Name, "url", u)
		}
	}

	if s.captured != nil {
		s.captured(snap)
	}
	return nil
}
