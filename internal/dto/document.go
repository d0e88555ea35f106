package dto

import (
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/custody"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillDetailsRequest carries the bill-specific fields of a receive request.
// NetPayable is optional; when supplied it is validated against the computed
// value (BillAmount - TDSAmount - OtherDeductions).
type BillDetailsRequest struct {
	BillDate        *time.Time       `json:"billDate"`
	VendorName      string           `json:"vendorName" binding:"required"`
	VendorGSTIN     string           `json:"vendorGSTIN"`
	BillAmount      decimal.Decimal  `json:"billAmount" binding:"required"`
	TaxableAmount   decimal.Decimal  `json:"taxableAmount"`
	GSTAmount       decimal.Decimal  `json:"gstAmount"`
	TDSAmount       decimal.Decimal  `json:"tdsAmount"`
	OtherDeductions decimal.Decimal  `json:"otherDeductions"`
	NetPayable      *decimal.Decimal `json:"netPayable"`
}

// LetterDetailsRequest carries the letter-specific fields of a receive request.
type LetterDetailsRequest struct {
	LetterDate    *time.Time `json:"letterDate"`
	LetterType    string     `json:"letterType" binding:"required,oneof=Incoming Outgoing Internal"`
	Sender        string     `json:"sender" binding:"required"`
	SenderAddress string     `json:"senderAddress"`
	Recipient     string     `json:"recipient"`
	ReplyRequired bool       `json:"replyRequired"`
	ReplyDeadline *time.Time `json:"replyDeadline"`
}

// ReceiveDocumentRequest creates a document of the kind bound to the route.
// Bill must be set for bills, Letter for letters; both must be absent otherwise.
type ReceiveDocumentRequest struct {
	DocumentNumber string     `json:"documentNumber" binding:"required"`
	Subject        string     `json:"subject" binding:"required"`
	Department     string     `json:"department"` // Notesheets only
	Priority       string     `json:"priority" binding:"omitempty,docpriority"`
	ReceivedDate   time.Time  `json:"receivedDate" binding:"required"`
	ReceivedBy     *string    `json:"receivedBy"` // Defaults to the acting user
	SectionID      *string    `json:"sectionID"`  // Defaults to the receiver's section
	SubSectionID   *string    `json:"subSectionID"`
	Remarks        string     `json:"remarks"`

	Bill   *BillDetailsRequest   `json:"bill,omitempty"`
	Letter *LetterDetailsRequest `json:"letter,omitempty"`
}

// ForwardDocumentRequest hands a document to another user.
type ForwardDocumentRequest struct {
	ToUserID       string     `json:"toUserID" binding:"required"`
	ToSectionID    *string    `json:"toSectionID"`    // Defaults to the recipient's section
	ToSubSectionID *string    `json:"toSubSectionID"` // Defaults to the recipient's sub-section
	Date           *time.Time `json:"date"`           // Backdatable; never in the future
	Comments       string     `json:"comments"`
}

// ParkDocumentRequest puts a document into the parked side-state.
type ParkDocumentRequest struct {
	Reason   string `json:"reason" binding:"required"`
	Comments string `json:"comments"`
}

// UpdateStatusRequest moves a document to another lifecycle status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// MarkRepliedRequest records a reply on a letter.
type MarkRepliedRequest struct {
	RepliedDate time.Time `json:"repliedDate" binding:"required"`
	ReplyRef    string    `json:"replyRef"`
}

// RecordPaymentRequest records payment progress on a bill.
type RecordPaymentRequest struct {
	PaymentStatus string     `json:"paymentStatus" binding:"required,oneof=Pending 'Partially Paid' Paid"`
	PaymentDate   *time.Time `json:"paymentDate"`
	PaymentRef    string     `json:"paymentRef"`
}

// AmendMovementDateRequest rewrites the forwarded date of one ledger row (admin).
type AmendMovementDateRequest struct {
	Date *time.Time `json:"date"`
}

// ListDocumentsParams defines query parameters for listing documents.
type ListDocumentsParams struct {
	Status    string  `form:"status"`
	SectionID string  `form:"sectionID"`
	HolderID  string  `form:"holderID"`
	Parked    *bool   `form:"parked"`
	Priority  string  `form:"priority"`
	Search    string  `form:"search"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// StageResponse is one ledger entry annotated with its holding duration.
type StageResponse struct {
	MovementID    int64      `json:"movementID"`
	FromUser      *string    `json:"fromUser"`
	ToUser        string     `json:"toUser"`
	FromSectionID *string    `json:"fromSectionID"`
	ToSectionID   *string    `json:"toSectionID"`
	ForwardedBy   string     `json:"forwardedBy"`
	Action        string     `json:"action"`
	Comments      string     `json:"comments,omitempty"`
	IsCurrent     bool       `json:"isCurrent"`
	InDate        *time.Time `json:"inDate"`
	OutDate       *time.Time `json:"outDate,omitempty"` // Omitted while the stage is current
	Days          int        `json:"days"`
	Label         string     `json:"label"`
	State         string     `json:"state"`
}

// ToStageResponse converts a projected custody stage to its response shape.
func ToStageResponse(s custody.Stage) StageResponse {
	return StageResponse{
		MovementID:    s.Movement.MovementID,
		FromUser:      s.Movement.FromUser,
		ToUser:        s.Movement.ToUser,
		FromSectionID: s.Movement.FromSectionID,
		ToSectionID:   s.Movement.ToSectionID,
		ForwardedBy:   s.Movement.ForwardedBy,
		Action:        string(s.Movement.Action),
		Comments:      s.Movement.Comments,
		IsCurrent:     s.Movement.IsCurrent,
		InDate:        s.InDate,
		OutDate:       s.OutDate,
		Days:          s.Days,
		Label:         s.Label,
		State:         string(s.State),
	}
}

// ToStageResponses converts a projected ledger to response shape, newest first.
func ToStageResponses(stages []custody.Stage) []StageResponse {
	out := make([]StageResponse, len(stages))
	for i, s := range stages {
		out[i] = ToStageResponse(s)
	}
	return out
}

// CandidateResponse is one admissible forwarding target.
type CandidateResponse struct {
	UserID      string  `json:"userID"`
	Name        string  `json:"name"`
	Designation string  `json:"designation,omitempty"`
	SectionID   *string `json:"sectionID"`
}

// CustodyViewResponse is the document detail view: the document itself, its
// stage-by-stage custody history, and the forwarding options for the caller.
type CustodyViewResponse struct {
	Document   domain.Document     `json:"document"`
	History    []StageResponse     `json:"history"`
	CanForward bool                `json:"canForward"`
	Candidates []CandidateResponse `json:"candidates"`
}

// ListDocumentsResponse wraps a page of documents.
type ListDocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ReconcileResponse reports custody-pointer drift for one document.
type ReconcileResponse struct {
	DocumentID      string  `json:"documentID"`
	Drifted         bool    `json:"drifted"`
	LedgerHolder    string  `json:"ledgerHolder"`
	LedgerSectionID *string `json:"ledgerSectionID"`
	PointerHolder   *string `json:"pointerHolder"`
	Repaired        bool    `json:"repaired"`
}
