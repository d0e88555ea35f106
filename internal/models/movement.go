package models

import "time"

// Movement mirrors one row of a per-kind movement table. movement_id is a
// BIGSERIAL; its order is the ledger's authoritative chronological order.
type Movement struct {
	MovementID       int64      `json:"movementID" db:"movement_id"`
	DocumentID       string     `json:"documentID" db:"document_id"`
	FromUser         *string    `db:"from_user"`
	ToUser           string     `db:"to_user"`
	FromSectionID    *string    `db:"from_section_id"`
	ToSectionID      *string    `db:"to_section_id"`
	FromSubSectionID *string    `db:"from_sub_section_id"`
	ToSubSectionID   *string    `db:"to_sub_section_id"`
	ForwardedBy      string     `db:"forwarded_by"`
	ForwardedDate    *time.Time `db:"forwarded_date"`
	ActionTaken      string     `db:"action_taken"`
	Comments         string     `db:"comments"`
	IsCurrent        bool       `db:"is_current"`
	CreatedAt        time.Time  `db:"created_at"`
	CreatedBy        string     `db:"created_by"`
}
