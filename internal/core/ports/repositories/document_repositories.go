package repositories

import (
	"context"
	"time"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// DocumentFilter narrows a document listing. Zero values mean "no filter".
type DocumentFilter struct {
	Status    *domain.DocumentStatus
	SectionID *string
	HolderID  *string
	Parked    *bool
	Priority  *domain.DocumentPriority
	Search    string // Matches document number or subject, case-insensitive
}

// DocumentReader defines read operations for document data
type DocumentReader interface {
	// FindDocumentByID retrieves a document of the given kind by its internal ID.
	FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)

	// FindDocumentByNumber retrieves a document by its user-supplied number, unique per kind.
	FindDocumentByNumber(ctx context.Context, kind domain.DocumentKind, documentNumber string) (*domain.Document, error)

	// ListDocuments retrieves a filtered, paginated list of documents of one kind using
	// token-based pagination over (received_date, document_id). It returns the documents,
	// a token for the next page, and an error.
	ListDocuments(ctx context.Context, kind domain.DocumentKind, filter DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error)
}

// DocumentWriter defines write operations for document data. Every method that
// touches both a document row and its movement ledger runs in one transaction.
type DocumentWriter interface {
	// SaveDocumentWithInitialMovement persists a new document and its seeding ledger
	// entry together. A duplicate document number yields apperrors.ErrDuplicate.
	SaveDocumentWithInitialMovement(ctx context.Context, doc domain.Document, seed domain.Movement) error

	// TransferCustody atomically flips the currently-current ledger row to non-current,
	// inserts movement as the new current row, and updates the document's custody
	// pointer to movement's destination. The flip is conditional: when expectedHolder
	// is non-nil the previously-current row must have to_user = *expectedHolder.
	// Zero rows flipped yields apperrors.ErrConflict (the actor lost a race).
	TransferCustody(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error

	// ParkDocument inserts a non-current Parked ledger row and sets the document's
	// parked side-state in one transaction. An already-parked document yields
	// apperrors.ErrInvalidState.
	ParkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement, reason string) error

	// UnparkDocument inserts a non-current Unparked ledger row and clears the parked
	// side-state. A document that is not parked yields apperrors.ErrInvalidState.
	UnparkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement) error

	// UpdateDocumentStatus sets the lifecycle status of a document.
	UpdateDocumentStatus(ctx context.Context, kind domain.DocumentKind, documentID string, status domain.DocumentStatus, updatedBy string, updatedAt time.Time) error

	// UpdateLetterReply records a reply on a letter: status Replied plus reply metadata.
	UpdateLetterReply(ctx context.Context, documentID string, repliedDate time.Time, replyRef string, updatedBy string, updatedAt time.Time) error

	// UpdateBillPayment records payment progress on a bill.
	UpdateBillPayment(ctx context.Context, documentID string, status domain.PaymentStatus, paymentDate *time.Time, paymentRef string, updatedBy string, updatedAt time.Time) error

	// UpdateCustodyPointer rewrites the document's denormalized custody fields.
	// Used only by reconciliation; normal transfers go through TransferCustody.
	UpdateCustodyPointer(ctx context.Context, kind domain.DocumentKind, documentID string, holder *string, sectionID *string, subSectionID *string, updatedBy string, updatedAt time.Time) error

	// DeleteDocument hard-deletes a document; its ledger cascades.
	DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string) error
}

// MovementReader defines read operations for the custody ledger
type MovementReader interface {
	// FindMovementsByDocumentID retrieves the full ledger for a document, newest first
	// (descending movement_id, the authoritative chronological order).
	FindMovementsByDocumentID(ctx context.Context, kind domain.DocumentKind, documentID string) ([]domain.Movement, error)

	// FindCurrentMovement retrieves the single ledger row flagged current.
	FindCurrentMovement(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Movement, error)
}

// MovementWriter defines the administrative ledger edit
type MovementWriter interface {
	// AmendMovementDate rewrites the caller-supplied forwarded_date of one ledger row.
	// Insertion order is untouched; the projector surfaces any inconsistency this
	// edit introduces.
	AmendMovementDate(ctx context.Context, kind domain.DocumentKind, documentID string, movementID int64, date *time.Time) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
	MovementReader
	MovementWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction capabilities
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
