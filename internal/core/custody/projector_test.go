package custody_test

import (
	"testing"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/custody"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

// ledger builds a newest-first ledger from newest-first forwarded dates.
func ledger(dates ...*time.Time) []domain.Movement {
	entries := make([]domain.Movement, len(dates))
	for i, d := range dates {
		entries[i] = domain.Movement{
			MovementID:    int64(len(dates) - i),
			DocumentID:    "doc-1",
			ToUser:        "user-1",
			ForwardedBy:   "user-1",
			ForwardedDate: d,
			Action:        domain.ActionForwarded,
			IsCurrent:     i == 0,
		}
	}
	return entries
}

func TestProject_EmptyLedger(t *testing.T) {
	stages := custody.Project(nil, date(2026, 1, 10))
	assert.Empty(t, stages)
}

func TestProject_SingleEntry(t *testing.T) {
	today := date(2026, 1, 10)

	tests := []struct {
		name      string
		forwarded *time.Time
		wantState custody.StageState
		wantDays  int
		wantLabel string
	}{
		{
			name:      "received today",
			forwarded: datePtr(2026, 1, 10),
			wantState: custody.StageCurrent,
			wantDays:  0,
			wantLabel: "Today (current)",
		},
		{
			name:      "received yesterday",
			forwarded: datePtr(2026, 1, 9),
			wantState: custody.StageCurrent,
			wantDays:  1,
			wantLabel: "1 day (current)",
		},
		{
			name:      "received three days ago",
			forwarded: datePtr(2026, 1, 7),
			wantState: custody.StageCurrent,
			wantDays:  3,
			wantLabel: "3 days (current)",
		},
		{
			name:      "missing receive date",
			forwarded: nil,
			wantState: custody.StageUnknown,
			wantLabel: "Unknown",
		},
		{
			name:      "receive date in the future",
			forwarded: datePtr(2026, 1, 12),
			wantState: custody.StageInconsistent,
			wantDays:  -2,
			wantLabel: "Inconsistent dates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages := custody.Project(ledger(tt.forwarded), today)
			require.Len(t, stages, 1)
			assert.Equal(t, tt.wantState, stages[0].State)
			assert.Equal(t, tt.wantDays, stages[0].Days)
			assert.Equal(t, tt.wantLabel, stages[0].Label)
			assert.Nil(t, stages[0].OutDate)
		})
	}
}

func TestProject_TwoStages(t *testing.T) {
	// Received 2026-01-01, forwarded 2026-01-03, viewed 2026-01-10.
	today := date(2026, 1, 10)
	entries := ledger(datePtr(2026, 1, 3), datePtr(2026, 1, 1))

	stages := custody.Project(entries, today)
	require.Len(t, stages, 2)

	assert.Equal(t, custody.StageCurrent, stages[0].State)
	assert.Equal(t, 7, stages[0].Days)
	assert.Equal(t, "7 days (current)", stages[0].Label)
	assert.Nil(t, stages[0].OutDate)

	assert.Equal(t, custody.StageElapsed, stages[1].State)
	assert.Equal(t, 2, stages[1].Days)
	assert.Equal(t, "2 days", stages[1].Label)
	require.NotNil(t, stages[1].OutDate)
	assert.Equal(t, date(2026, 1, 3), *stages[1].OutDate)
}

func TestProject_MiddleStageLabels(t *testing.T) {
	today := date(2026, 2, 1)
	// Newest first: 0: 2026-01-20, 1: 2026-01-19, 2: 2026-01-19, 3: 2026-01-10
	entries := ledger(
		datePtr(2026, 1, 20),
		datePtr(2026, 1, 19),
		datePtr(2026, 1, 19),
		datePtr(2026, 1, 10),
	)

	stages := custody.Project(entries, today)
	require.Len(t, stages, 4)

	assert.Equal(t, "1 day", stages[1].Label) // 19th -> 20th
	assert.Equal(t, custody.StageElapsed, stages[1].State)

	assert.Equal(t, "Same day", stages[2].Label) // 19th -> 19th
	assert.Equal(t, 0, stages[2].Days)

	assert.Equal(t, "9 days", stages[3].Label) // 10th -> 19th
	assert.Equal(t, 9, stages[3].Days)
}

func TestProject_TimeOfDayIgnored(t *testing.T) {
	// 23:50 on the 1st to 00:10 on the 2nd is one calendar day.
	in := time.Date(2026, 3, 1, 23, 50, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 0, 10, 0, 0, time.UTC)
	entries := ledger(&out, &in)

	stages := custody.Project(entries, date(2026, 3, 2))
	require.Len(t, stages, 2)
	assert.Equal(t, 1, stages[1].Days)
	assert.Equal(t, "1 day", stages[1].Label)
}

func TestProject_InconsistentBackdate(t *testing.T) {
	// The newer entry was backdated before the older one: out < in.
	today := date(2026, 1, 10)
	entries := ledger(datePtr(2026, 1, 2), datePtr(2026, 1, 5))

	stages := custody.Project(entries, today)
	require.Len(t, stages, 2)

	assert.Equal(t, custody.StageInconsistent, stages[1].State)
	assert.Equal(t, -3, stages[1].Days)
	assert.Equal(t, "Inconsistent dates", stages[1].Label)

	// The current stage is unaffected by the older corruption.
	assert.Equal(t, custody.StageCurrent, stages[0].State)
	assert.Equal(t, 8, stages[0].Days)
}

func TestProject_MissingMiddleDate(t *testing.T) {
	today := date(2026, 1, 10)
	entries := ledger(datePtr(2026, 1, 8), nil, datePtr(2026, 1, 1))

	stages := custody.Project(entries, today)
	require.Len(t, stages, 3)

	// The stage with the nil in date is unknown.
	assert.Equal(t, custody.StageUnknown, stages[1].State)
	assert.Equal(t, "Unknown", stages[1].Label)

	// So is the stage whose out date is the nil entry.
	assert.Equal(t, custody.StageUnknown, stages[2].State)
	assert.Equal(t, "Unknown", stages[2].Label)
}

func TestProject_ReplayIsDeterministic(t *testing.T) {
	today := date(2026, 1, 10)
	entries := ledger(datePtr(2026, 1, 8), datePtr(2026, 1, 5), datePtr(2026, 1, 1))

	first := custody.Project(entries, today)
	second := custody.Project(entries, today)
	assert.Equal(t, first, second)
}

func TestProject_PositionalCurrentStage(t *testing.T) {
	// Park rows are appended non-current; the projector is positional and
	// treats the newest row as the current stage regardless of the flag.
	today := date(2026, 1, 10)
	entries := ledger(datePtr(2026, 1, 6), datePtr(2026, 1, 2))
	entries[0].IsCurrent = false
	entries[0].Action = domain.ActionParked

	stages := custody.Project(entries, today)
	require.Len(t, stages, 2)
	assert.Equal(t, custody.StageCurrent, stages[0].State)
	assert.Equal(t, "4 days (current)", stages[0].Label)
}
