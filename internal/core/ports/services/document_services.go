package services

import (
	"context"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
)

// DocumentReaderSvc defines read operations for documents and their custody chain
type DocumentReaderSvc interface {
	// GetDocumentByID retrieves a document by internal ID.
	GetDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)

	// GetCustodyView retrieves the detail view: document, stage-by-stage history
	// with durations, and the forwarding candidates admissible for the actor.
	GetCustodyView(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) (*dto.CustodyViewResponse, error)

	// GetHistory retrieves the projected custody history, newest first.
	GetHistory(ctx context.Context, kind domain.DocumentKind, documentID string) ([]dto.StageResponse, error)

	// ListDocuments retrieves a filtered, token-paginated page of documents.
	ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error)
}

// DocumentWriterSvc defines the custody mutations
type DocumentWriterSvc interface {
	// ReceiveDocument creates a document plus its seeding ledger entry. Gate:
	// receive-desk capability.
	ReceiveDocument(ctx context.Context, kind domain.DocumentKind, req dto.ReceiveDocumentRequest, actorID string) (*domain.Document, error)

	// ForwardDocument transfers custody to another user under the forwarding policy.
	ForwardDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.ForwardDocumentRequest, actorID string) error

	// ParkDocument marks the document parked without advancing custody.
	ParkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.ParkDocumentRequest, actorID string) error

	// UnparkDocument clears the parked side-state.
	UnparkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) error

	// UpdateStatus moves the document to another status of its kind's vocabulary.
	UpdateStatus(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateStatusRequest, actorID string) (*domain.Document, error)

	// MarkReplied records a reply on a letter; Replied is terminal.
	MarkReplied(ctx context.Context, documentID string, req dto.MarkRepliedRequest, actorID string) (*domain.Document, error)

	// RecordPayment records payment progress on a bill; Paid is terminal.
	RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, actorID string) (*domain.Document, error)
}

// DocumentAdminSvc defines superuser-only escape hatches
type DocumentAdminSvc interface {
	// DeleteDocument hard-deletes a document and its ledger.
	DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) error

	// AmendMovementDate rewrites one ledger row's forwarded date after the fact.
	AmendMovementDate(ctx context.Context, kind domain.DocumentKind, documentID string, movementID int64, req dto.AmendMovementDateRequest, actorID string) error

	// ReconcileDocument recomputes the custody pointer from the ledger head and
	// repairs any drift, reporting what it found.
	ReconcileDocument(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) (*dto.ReconcileResponse, error)
}

// DocumentSvcFacade combines all document-related service interfaces
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentAdminSvc
}
