package pipeline

// Phase is a state of a run.
type Phase int

const (
	// PhaseNotStarted is the state before the run begins.
	PhaseNotStarted Phase = iota
	// PhaseBrowserReady means the browser is up and no visit is in progress.
	PhaseBrowserReady
	// PhaseEnsuringSession means the session is being made to match a view.
	PhaseEnsuringSession
	// PhaseNavigating means the view URL is being resolved or loaded.
	PhaseNavigating
	// PhaseAuditing means the audit engine is running against the view.
	PhaseAuditing
	// PhaseCapturing means the rendered HTML of the view is being saved.
	PhaseCapturing
	// PhaseReported means the visit's results were handed to the sink.
	PhaseReported
	// PhaseClosed means the browser was closed and the run is over.
	PhaseClosed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseBrowserReady:
		return "browser-ready"
	case PhaseEnsuringSession:
		return "ensuring-session"
	case PhaseNavigating:
		return "navigating"
	case PhaseAuditing:
		return "auditing"
	case PhaseCapturing:
		return "capturing"
	case PhaseReported:
		return "reported"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}
