package report

import "errors"

// ErrReportWrite wraps failures to persist a report document or artifact.
var ErrReportWrite = errors.New("report write failed")
