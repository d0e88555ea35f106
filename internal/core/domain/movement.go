package domain

import "time"

// MovementAction names the event a ledger row records.
type MovementAction string

const (
	ActionReceived  MovementAction = "Received"
	ActionForwarded MovementAction = "Forwarded"
	ActionParked    MovementAction = "Parked"
	ActionUnparked  MovementAction = "Unparked"
)

// Movement is one append-only custody ledger entry for a document. Rows are
// never updated after insert except for the is_current flip performed inside
// the transfer transaction (and the administrative forwarded_date amendment).
// Insertion order (MovementID) is the authoritative chronological order;
// ForwardedDate is caller-supplied and may be backdated or amended, so it must
// never be used to order the ledger.
type Movement struct {
	MovementID       int64          `json:"movementID"` // BIGSERIAL; insertion order
	DocumentID       string         `json:"documentID"` // FK -> document of the owning kind
	FromUser         *string        `json:"fromUser"`   // nil only on the seeding entry
	ToUser           string         `json:"toUser"`
	FromSectionID    *string        `json:"fromSectionID"`
	ToSectionID      *string        `json:"toSectionID"`
	FromSubSectionID *string        `json:"fromSubSectionID"`
	ToSubSectionID   *string        `json:"toSubSectionID"`
	ForwardedBy      string         `json:"forwardedBy"`   // Actor; may differ from FromUser for receive-desk forwards
	ForwardedDate    *time.Time     `json:"forwardedDate"` // Caller-supplied, backdatable, nullable
	Action           MovementAction `json:"action"`
	Comments         string         `json:"comments,omitempty"`
	IsCurrent        bool           `json:"isCurrent"` // Exactly one true row per document
	CreatedAt        time.Time      `json:"createdAt"`
	CreatedBy        string         `json:"createdBy"`
}
