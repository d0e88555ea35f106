// Package custody derives per-stage holding durations from a document's
// movement ledger. It is a pure read-side computation: no storage access, no
// side effects, fully testable with synthetic ledgers.
package custody

import (
	"fmt"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// StageState classifies the duration computed for one ledger stage.
type StageState string

const (
	// StageCurrent is the stage still holding the document.
	StageCurrent StageState = "CURRENT"
	// StageElapsed is a completed stage with a well-formed duration.
	StageElapsed StageState = "ELAPSED"
	// StageInconsistent marks a negative computed duration. ForwardedDate is
	// caller-editable independently of insertion order, so out < in is possible
	// ledger corruption; it is surfaced, never clamped to zero.
	StageInconsistent StageState = "INCONSISTENT"
	// StageUnknown marks a stage missing a date on either side.
	StageUnknown StageState = "UNKNOWN"
)

// Stage is one ledger entry annotated with its holding duration.
type Stage struct {
	Movement domain.Movement `json:"movement"`
	InDate   *time.Time      `json:"inDate"`            // When custody began at this stage
	OutDate  *time.Time      `json:"outDate,omitempty"` // nil while the stage is current
	Days     int             `json:"days"`              // Whole days held; meaningful for CURRENT/ELAPSED only
	Label    string          `json:"label"`             // Display label, e.g. "3 days (current)"
	State    StageState      `json:"state"`
}

// Project computes the stage-by-stage holding breakdown for a ledger snapshot.
// entries must be ordered newest first, the order the history query returns.
// Position decides the chronology: entry[0] is the current stage and each
// stage's out date is the forwarded date of the entry inserted after it.
func Project(entries []domain.Movement, today time.Time) []Stage {
	stages := make([]Stage, len(entries))
	for i, entry := range entries {
		stage := Stage{
			Movement: entry,
			InDate:   entry.ForwardedDate,
		}
		if i == 0 {
			stage.fillCurrent(today)
		} else {
			stage.OutDate = entries[i-1].ForwardedDate
			stage.fillElapsed()
		}
		stages[i] = stage
	}
	return stages
}

func (s *Stage) fillCurrent(today time.Time) {
	if s.InDate == nil {
		s.State = StageUnknown
		s.Label = "Unknown"
		return
	}
	days := daysBetween(*s.InDate, today)
	if days < 0 {
		s.State = StageInconsistent
		s.Days = days
		s.Label = "Inconsistent dates"
		return
	}
	s.State = StageCurrent
	s.Days = days
	switch days {
	case 0:
		s.Label = "Today (current)"
	case 1:
		s.Label = "1 day (current)"
	default:
		s.Label = fmt.Sprintf("%d days (current)", days)
	}
}

func (s *Stage) fillElapsed() {
	if s.InDate == nil || s.OutDate == nil {
		s.State = StageUnknown
		s.Label = "Unknown"
		return
	}
	days := daysBetween(*s.InDate, *s.OutDate)
	if days < 0 {
		s.State = StageInconsistent
		s.Days = days
		s.Label = "Inconsistent dates"
		return
	}
	s.State = StageElapsed
	s.Days = days
	switch days {
	case 0:
		s.Label = "Same day"
	case 1:
		s.Label = "1 day"
	default:
		s.Label = fmt.Sprintf("%d days", days)
	}
}

// daysBetween counts whole calendar days from a to b (negative when b is
// before a). Both are reduced to their civil date first so time-of-day and
// DST offsets cannot skew the count.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
