package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind discriminates the three tracked document families.
type DocumentKind string

const (
	KindNotesheet DocumentKind = "NOTESHEET"
	KindBill      DocumentKind = "BILL"
	KindLetter    DocumentKind = "LETTER"
)

// DocumentStatus is the lifecycle status of a document. Vocabulary is kind-specific;
// see StatusesFor.
type DocumentStatus string

const (
	StatusReceived     DocumentStatus = "Received"
	StatusUnderProcess DocumentStatus = "Under Process"
	StatusApproved     DocumentStatus = "Approved"
	StatusRejected     DocumentStatus = "Rejected"
	StatusPending      DocumentStatus = "Pending"
	StatusUnderReview  DocumentStatus = "Under Review"
	StatusReplied      DocumentStatus = "Replied"
	StatusClosed       DocumentStatus = "Closed"
	StatusArchived     DocumentStatus = "Archived"
)

// PaymentStatus tracks bill settlement independently of the lifecycle status.
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "Pending"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentPaid          PaymentStatus = "Paid"
)

// DocumentPriority orders documents for desk queues.
type DocumentPriority string

const (
	PriorityUrgent DocumentPriority = "Urgent"
	PriorityHigh   DocumentPriority = "High"
	PriorityNormal DocumentPriority = "Normal"
	PriorityLow    DocumentPriority = "Low"
)

// LetterType classifies a letter's direction.
type LetterType string

const (
	LetterIncoming LetterType = "Incoming"
	LetterOutgoing LetterType = "Outgoing"
	LetterInternal LetterType = "Internal"
)

// StatusesFor returns the valid lifecycle vocabulary for a kind.
func StatusesFor(kind DocumentKind) []DocumentStatus {
	switch kind {
	case KindLetter:
		return []DocumentStatus{StatusPending, StatusUnderReview, StatusReplied, StatusClosed, StatusArchived}
	default:
		return []DocumentStatus{StatusReceived, StatusUnderProcess, StatusApproved, StatusRejected, StatusClosed, StatusArchived}
	}
}

// ValidStatus reports whether status belongs to the kind's vocabulary.
func ValidStatus(kind DocumentKind, status DocumentStatus) bool {
	for _, s := range StatusesFor(kind) {
		if s == status {
			return true
		}
	}
	return false
}

// InitialStatus is the lifecycle status a freshly received document gets.
func InitialStatus(kind DocumentKind) DocumentStatus {
	if kind == KindLetter {
		return StatusPending
	}
	return StatusReceived
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p DocumentPriority) bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// BillDetails holds the money and vendor fields specific to bills.
type BillDetails struct {
	BillDate        *time.Time      `json:"billDate,omitempty"`
	VendorName      string          `json:"vendorName"`
	VendorGSTIN     string          `json:"vendorGSTIN,omitempty"`
	BillAmount      decimal.Decimal `json:"billAmount"`
	TaxableAmount   decimal.Decimal `json:"taxableAmount"`
	GSTAmount       decimal.Decimal `json:"gstAmount"`
	TDSAmount       decimal.Decimal `json:"tdsAmount"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	NetPayable      decimal.Decimal `json:"netPayable"` // BillAmount - TDSAmount - OtherDeductions
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	PaymentDate     *time.Time      `json:"paymentDate,omitempty"`
	PaymentRef      string          `json:"paymentRef,omitempty"`
}

// LetterDetails holds the correspondence fields specific to letters.
type LetterDetails struct {
	LetterDate    *time.Time `json:"letterDate,omitempty"`
	LetterType    LetterType `json:"letterType"`
	Sender        string     `json:"sender"`
	SenderAddress string     `json:"senderAddress,omitempty"`
	Recipient     string     `json:"recipient,omitempty"`
	ReplyRequired bool       `json:"replyRequired"`
	ReplyDeadline *time.Time `json:"replyDeadline,omitempty"`
	RepliedDate   *time.Time `json:"repliedDate,omitempty"`
	ReplyRef      string     `json:"replyRef,omitempty"`
}

// Document is one tracked item of any kind. The custody pointer fields are a
// denormalized cache of the movement ledger's current row; the ledger is
// authoritative and the two are only ever written together.
type Document struct {
	DocumentID     string           `json:"documentID"`     // Primary Key (UUID)
	Kind           DocumentKind     `json:"kind"`           // NOTESHEET, BILL or LETTER
	DocumentNumber string           `json:"documentNumber"` // User-supplied, unique within the kind
	Subject        string           `json:"subject"`
	Department     string           `json:"department,omitempty"` // Notesheets only
	Priority       DocumentPriority `json:"priority"`
	Status         DocumentStatus   `json:"status"`
	Remarks        string           `json:"remarks,omitempty"`

	// Custody pointer (cache of the ledger head)
	CurrentHolder       *string `json:"currentHolder"` // FK -> users.user_id; nil only transiently
	CurrentSectionID    *string `json:"currentSectionID"`
	CurrentSubSectionID *string `json:"currentSubSectionID"`

	// Parked side-state; orthogonal to Status
	IsParked     bool       `json:"isParked"`
	ParkedBy     *string    `json:"parkedBy,omitempty"`
	ParkedDate   *time.Time `json:"parkedDate,omitempty"`
	ParkedReason string     `json:"parkedReason,omitempty"`

	ReceivedDate time.Time `json:"receivedDate"`
	ReceivedBy   string    `json:"receivedBy"` // FK -> users.user_id

	Bill   *BillDetails   `json:"bill,omitempty"`   // Set iff Kind == BILL
	Letter *LetterDetails `json:"letter,omitempty"` // Set iff Kind == LETTER

	AuditFields
}

// IsTerminal reports whether the document's status freezes custody: Closed and
// Archived for every kind, Replied additionally for letters, and a fully paid
// bill regardless of its lifecycle status.
func (d *Document) IsTerminal() bool {
	if d.Status == StatusClosed || d.Status == StatusArchived {
		return true
	}
	if d.Kind == KindLetter && d.Status == StatusReplied {
		return true
	}
	if d.Kind == KindBill && d.Bill != nil && d.Bill.PaymentStatus == PaymentPaid {
		return true
	}
	return false
}
