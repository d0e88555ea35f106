package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document mirrors one row of a per-kind document table. The three tables
// (notesheets, bills, letters) share the common columns; the kind-specific
// columns are pointers and stay nil for the other kinds.
type Document struct {
	DocumentID     string `json:"documentID"`
	DocumentNumber string `json:"documentNumber" db:"document_number"`
	Subject        string `json:"subject"`
	Department     string `json:"department"` // Notesheets only
	Priority       string `json:"priority"`
	Status         string `json:"status" db:"current_status"`
	Remarks        string `json:"remarks"`

	CurrentHolder       *string `db:"current_holder"`
	CurrentSectionID    *string `db:"current_section_id"`
	CurrentSubSectionID *string `db:"current_sub_section_id"`

	IsParked     bool       `db:"is_parked"`
	ParkedBy     *string    `db:"parked_by"`
	ParkedDate   *time.Time `db:"parked_date"`
	ParkedReason string     `db:"parked_reason"`

	ReceivedDate time.Time `db:"received_date"`
	ReceivedBy   string    `db:"received_by"`

	// Bill columns
	BillDate        *time.Time       `db:"bill_date"`
	VendorName      *string          `db:"vendor_name"`
	VendorGSTIN     *string          `db:"vendor_gstin"`
	BillAmount      *decimal.Decimal `db:"bill_amount"`
	TaxableAmount   *decimal.Decimal `db:"taxable_amount"`
	GSTAmount       *decimal.Decimal `db:"gst_amount"`
	TDSAmount       *decimal.Decimal `db:"tds_amount"`
	OtherDeductions *decimal.Decimal `db:"other_deductions"`
	NetPayable      *decimal.Decimal `db:"net_payable"`
	PaymentStatus   *string          `db:"payment_status"`
	PaymentDate     *time.Time       `db:"payment_date"`
	PaymentRef      *string          `db:"payment_reference"`

	// Letter columns
	LetterDate    *time.Time `db:"letter_date"`
	LetterType    *string    `db:"letter_type"`
	Sender        *string    `db:"sender"`
	SenderAddress *string    `db:"sender_address"`
	Recipient     *string    `db:"recipient"`
	ReplyRequired *bool      `db:"reply_required"`
	ReplyDeadline *time.Time `db:"reply_deadline"`
	RepliedDate   *time.Time `db:"replied_date"`
	ReplyRef      *string    `db:"reply_reference"`

	AuditFields
}
