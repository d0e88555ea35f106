package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/custody"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/core/routing"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
	"github.com/paperdesk/doc_tracking_app/internal/middleware"
	"github.com/paperdesk/doc_tracking_app/internal/utils/billing"
)

// documentService orchestrates the custody operations: it loads the snapshots
// the routing policy needs, delegates the atomic ledger writes to the
// repository, and records every completed mutation in the activity trail.
type documentService struct {
	docRepo     portsrepo.DocumentRepositoryWithTx
	userRepo    portsrepo.UserRepositoryFacade
	sectionRepo portsrepo.SectionRepositoryFacade
	activity    portssvc.ActivityRecorderSvc
}

func NewDocumentService(
	docRepo portsrepo.DocumentRepositoryWithTx,
	userRepo portsrepo.UserRepositoryFacade,
	sectionRepo portsrepo.SectionRepositoryFacade,
	activity portssvc.ActivityRecorderSvc,
) portssvc.DocumentSvcFacade {
	return &documentService{
		docRepo:     docRepo,
		userRepo:    userRepo,
		sectionRepo: sectionRepo,
		activity:    activity,
	}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// entityType names a kind for activity-log rows and error messages.
func entityType(kind domain.DocumentKind) string {
	switch kind {
	case domain.KindBill:
		return "bill"
	case domain.KindLetter:
		return "letter"
	default:
		return "notesheet"
	}
}

// receiveDeskSections returns the IDs of sections flagged as the intake desk.
func (s *documentService) receiveDeskSections(ctx context.Context) (map[string]bool, error) {
	sections, err := s.sectionRepo.ListSections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}
	desks := make(map[string]bool)
	for _, sec := range sections {
		if sec.IsReceiveDesk {
			desks[sec.SectionID] = true
		}
	}
	return desks, nil
}

// actorSnapshot loads the acting user and flattens them into the policy's view.
func (s *documentService) actorSnapshot(ctx context.Context, actorID string, desks map[string]bool) (routing.Actor, *domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return routing.Actor{}, nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	return routing.Actor{
		UserID:        user.UserID,
		SectionID:     user.SectionID,
		SubSectionID:  user.SubSectionID,
		IsActive:      user.IsActive,
		IsSuperuser:   user.IsSuperuser,
		IsSectionHead: user.HasRole(domain.RoleSectionHead),
		IsReceiveDesk: isReceiveDesk(user, desks),
	}, user, nil
}

func isReceiveDesk(u *domain.User, desks map[string]bool) bool {
	if u.HasRole(domain.RoleReceiveSection) {
		return true
	}
	return u.SectionID != nil && desks[*u.SectionID]
}

func recipientSnapshot(u domain.User, desks map[string]bool) routing.Recipient {
	return routing.Recipient{
		UserID:        u.UserID,
		SectionID:     u.SectionID,
		IsActive:      u.IsActive,
		IsSuperuser:   u.IsSuperuser,
		IsSectionHead: u.HasRole(domain.RoleSectionHead),
		IsReceiveDesk: isReceiveDesk(&u, desks),
	}
}

func documentState(doc *domain.Document) routing.DocumentState {
	return routing.DocumentState{
		CurrentHolder:    doc.CurrentHolder,
		CurrentSectionID: doc.CurrentSectionID,
		Terminal:         doc.IsTerminal(),
	}
}

func (s *documentService) GetDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	return s.docRepo.FindDocumentByID(ctx, kind, documentID)
}

func (s *documentService) GetHistory(ctx context.Context, kind domain.DocumentKind, documentID string) ([]dto.StageResponse, error) {
	if _, err := s.docRepo.FindDocumentByID(ctx, kind, documentID); err != nil {
		return nil, err
	}
	entries, err := s.docRepo.FindMovementsByDocumentID(ctx, kind, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movement ledger: %w", err)
	}
	stages := custody.Project(entries, time.Now())
	return dto.ToStageResponses(stages), nil
}

func (s *documentService) GetCustodyView(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) (*dto.CustodyViewResponse, error) {
	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}

	entries, err := s.docRepo.FindMovementsByDocumentID(ctx, kind, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movement ledger: %w", err)
	}
	stages := custody.Project(entries, time.Now())

	view := &dto.CustodyViewResponse{
		Document:   *doc,
		History:    dto.ToStageResponses(stages),
		Candidates: []dto.CandidateResponse{},
	}

	desks, err := s.receiveDeskSections(ctx)
	if err != nil {
		return nil, err
	}
	actor, _, err := s.actorSnapshot(ctx, actorID, desks)
	if err != nil {
		return nil, err
	}

	grant, err := routing.Decide(actor, documentState(doc))
	if err != nil {
		// Not an error for the view: the caller simply cannot forward.
		return view, nil
	}
	view.CanForward = true

	roster, err := s.userRepo.FindActiveUsersWithRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load forwarding roster: %w", err)
	}
	for _, u := range roster {
		if routing.RecipientAllowed(grant, actor, documentState(doc), recipientSnapshot(u, desks)) {
			view.Candidates = append(view.Candidates, dto.CandidateResponse{
				UserID:      u.UserID,
				Name:        u.Name,
				Designation: u.Designation,
				SectionID:   u.SectionID,
			})
		}
	}

	return view, nil
}

func (s *documentService) ListDocuments(ctx context.Context, kind domain.DocumentKind, params dto.ListDocumentsParams) (*dto.ListDocumentsResponse, error) {
	filter := portsrepo.DocumentFilter{
		Parked: params.Parked,
		Search: params.Search,
	}
	if params.Status != "" {
		status := domain.DocumentStatus(params.Status)
		if !domain.ValidStatus(kind, status) {
			return nil, fmt.Errorf("%w: unknown status %q for %s", apperrors.ErrValidation, params.Status, entityType(kind))
		}
		filter.Status = &status
	}
	if params.Priority != "" {
		priority := domain.DocumentPriority(params.Priority)
		if !domain.ValidPriority(priority) {
			return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, params.Priority)
		}
		filter.Priority = &priority
	}
	if params.SectionID != "" {
		filter.SectionID = &params.SectionID
	}
	if params.HolderID != "" {
		filter.HolderID = &params.HolderID
	}

	docs, nextToken, err := s.docRepo.ListDocuments(ctx, kind, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return &dto.ListDocumentsResponse{Documents: docs, NextToken: nextToken}, nil
}

func (s *documentService) ReceiveDocument(ctx context.Context, kind domain.DocumentKind, req dto.ReceiveDocumentRequest, actorID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	desks, err := s.receiveDeskSections(ctx)
	if err != nil {
		return nil, err
	}
	actor, _, err := s.actorSnapshot(ctx, actorID, desks)
	if err != nil {
		return nil, err
	}
	if !actor.IsActive {
		return nil, fmt.Errorf("%w: actor is inactive", apperrors.ErrForbidden)
	}
	if !actor.IsReceiveDesk && !actor.IsSuperuser {
		return nil, fmt.Errorf("%w: receiving requires the intake desk", apperrors.ErrForbidden)
	}

	if req.ReceivedDate.After(now) {
		return nil, fmt.Errorf("%w: received date cannot be in the future", apperrors.ErrValidation)
	}

	priority := domain.DocumentPriority(req.Priority)
	if req.Priority == "" {
		priority = domain.PriorityNormal
	} else if !domain.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: unknown priority %q", apperrors.ErrValidation, req.Priority)
	}

	doc := domain.Document{
		DocumentID:     uuid.NewString(),
		Kind:           kind,
		DocumentNumber: req.DocumentNumber,
		Subject:        req.Subject,
		Priority:       priority,
		Status:         domain.InitialStatus(kind),
		Remarks:        req.Remarks,
		ReceivedDate:   req.ReceivedDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	switch kind {
	case domain.KindBill:
		if req.Bill == nil {
			return nil, fmt.Errorf("%w: bill details are required", apperrors.ErrValidation)
		}
		if req.Letter != nil {
			return nil, fmt.Errorf("%w: letter details are not valid on a bill", apperrors.ErrValidation)
		}
		bill := &domain.BillDetails{
			BillDate:        req.Bill.BillDate,
			VendorName:      req.Bill.VendorName,
			VendorGSTIN:     req.Bill.VendorGSTIN,
			BillAmount:      req.Bill.BillAmount,
			TaxableAmount:   req.Bill.TaxableAmount,
			GSTAmount:       req.Bill.GSTAmount,
			TDSAmount:       req.Bill.TDSAmount,
			OtherDeductions: req.Bill.OtherDeductions,
			PaymentStatus:   domain.PaymentPending,
		}
		if err := billing.Finalize(bill); err != nil {
			return nil, err
		}
		if req.Bill.NetPayable != nil && !req.Bill.NetPayable.Equal(bill.NetPayable) {
			return nil, fmt.Errorf("%w: net payable %s does not match computed %s", apperrors.ErrValidation, req.Bill.NetPayable, bill.NetPayable)
		}
		doc.Bill = bill
	case domain.KindLetter:
		if req.Letter == nil {
			return nil, fmt.Errorf("%w: letter details are required", apperrors.ErrValidation)
		}
		if req.Bill != nil {
			return nil, fmt.Errorf("%w: bill details are not valid on a letter", apperrors.ErrValidation)
		}
		doc.Letter = &domain.LetterDetails{
			LetterDate:    req.Letter.LetterDate,
			LetterType:    domain.LetterType(req.Letter.LetterType),
			Sender:        req.Letter.Sender,
			SenderAddress: req.Letter.SenderAddress,
			Recipient:     req.Letter.Recipient,
			ReplyRequired: req.Letter.ReplyRequired,
			ReplyDeadline: req.Letter.ReplyDeadline,
		}
	default:
		if req.Bill != nil || req.Letter != nil {
			return nil, fmt.Errorf("%w: bill or letter details are not valid on a notesheet", apperrors.ErrValidation)
		}
		doc.Department = req.Department
	}

	// The receiver takes initial custody; defaults to the acting user.
	receiverID := actorID
	if req.ReceivedBy != nil && *req.ReceivedBy != "" {
		receiverID = *req.ReceivedBy
	}
	receiver, err := s.userRepo.FindUserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: receiver %s not found", apperrors.ErrValidation, receiverID)
	}
	if !receiver.IsActive {
		return nil, fmt.Errorf("%w: receiver %s is inactive", apperrors.ErrValidation, receiverID)
	}

	sectionID := receiver.SectionID
	if req.SectionID != nil {
		sectionID = req.SectionID
	}
	subSectionID := receiver.SubSectionID
	if req.SubSectionID != nil {
		subSectionID = req.SubSectionID
	}

	doc.ReceivedBy = receiverID
	doc.CurrentHolder = &receiverID
	doc.CurrentSectionID = sectionID
	doc.CurrentSubSectionID = subSectionID

	receivedDate := req.ReceivedDate
	seed := domain.Movement{
		DocumentID:     doc.DocumentID,
		FromUser:       nil,
		ToUser:         receiverID,
		ToSectionID:    sectionID,
		ToSubSectionID: subSectionID,
		ForwardedBy:    actorID,
		ForwardedDate:  &receivedDate,
		Action:         domain.ActionReceived,
		IsCurrent:      true,
		CreatedAt:      now,
		CreatedBy:      actorID,
	}

	if err := s.docRepo.SaveDocumentWithInitialMovement(ctx, doc, seed); err != nil {
		return nil, err
	}

	logger.Info("Document received", slog.String("document_id", doc.DocumentID), slog.String("kind", string(kind)))
	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityReceive,
		EntityType:  entityType(kind),
		EntityID:    doc.DocumentID,
		Description: fmt.Sprintf("Received %s %s into custody of %s", entityType(kind), doc.DocumentNumber, receiver.Name),
	})

	return &doc, nil
}

func (s *documentService) ForwardDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.ForwardDocumentRequest, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()

	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return err
	}
	if doc.IsParked {
		return fmt.Errorf("%w: document is parked; unpark it before forwarding", apperrors.ErrInvalidState)
	}

	desks, err := s.receiveDeskSections(ctx)
	if err != nil {
		return err
	}
	actor, _, err := s.actorSnapshot(ctx, actorID, desks)
	if err != nil {
		return err
	}

	grant, err := routing.Decide(actor, documentState(doc))
	if err != nil {
		return err
	}

	recipient, err := s.userRepo.FindUserByID(ctx, req.ToUserID)
	if err != nil {
		return fmt.Errorf("%w: recipient %s not found", apperrors.ErrValidation, req.ToUserID)
	}
	if !routing.RecipientAllowed(grant, actor, documentState(doc), recipientSnapshot(*recipient, desks)) {
		return fmt.Errorf("%w: recipient %s is not admissible for this transfer", apperrors.ErrForbidden, recipient.Username)
	}

	// The forwarded date is caller-supplied and may be backdated, never future.
	forwardedDate := now
	if req.Date != nil {
		if req.Date.After(now) {
			return fmt.Errorf("%w: forwarded date cannot be in the future", apperrors.ErrValidation)
		}
		forwardedDate = *req.Date
	}

	toSectionID := recipient.SectionID
	if req.ToSectionID != nil {
		toSectionID = req.ToSectionID
	}
	toSubSectionID := recipient.SubSectionID
	if req.ToSubSectionID != nil {
		toSubSectionID = req.ToSubSectionID
	}

	movement := domain.Movement{
		DocumentID:       documentID,
		FromUser:         doc.CurrentHolder,
		ToUser:           recipient.UserID,
		FromSectionID:    doc.CurrentSectionID,
		ToSectionID:      toSectionID,
		FromSubSectionID: doc.CurrentSubSectionID,
		ToSubSectionID:   toSubSectionID,
		ForwardedBy:      actorID,
		ForwardedDate:    &forwardedDate,
		Action:           domain.ActionForwarded,
		Comments:         req.Comments,
		IsCurrent:        true,
		CreatedAt:        now,
		CreatedBy:        actorID,
	}

	// Intake staff may forward regardless of who holds the document; everyone
	// else must still be the ledger-head holder at commit time.
	var expectedHolder *string
	if grant != routing.GrantReceiveDesk {
		expectedHolder = &actorID
	}

	if err := s.docRepo.TransferCustody(ctx, kind, documentID, expectedHolder, movement); err != nil {
		return err
	}

	logger.Info("Document forwarded",
		slog.String("document_id", documentID),
		slog.String("to_user", recipient.UserID),
		slog.String("grant", string(grant)),
	)
	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityForward,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Forwarded %s %s to %s", entityType(kind), doc.DocumentNumber, recipient.Name),
	})

	return nil
}

func (s *documentService) ParkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.ParkDocumentRequest, actorID string) error {
	now := time.Now()

	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return err
	}
	if doc.IsParked {
		return fmt.Errorf("%w: document is already parked", apperrors.ErrInvalidState)
	}

	desks, err := s.receiveDeskSections(ctx)
	if err != nil {
		return err
	}
	actor, _, err := s.actorSnapshot(ctx, actorID, desks)
	if err != nil {
		return err
	}
	if _, err := routing.Decide(actor, documentState(doc)); err != nil {
		return err
	}

	movement := s.sideStateMovement(doc, domain.ActionParked, req.Comments, actorID, now)
	if err := s.docRepo.ParkDocument(ctx, kind, documentID, movement, req.Reason); err != nil {
		return err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityPark,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Parked %s %s: %s", entityType(kind), doc.DocumentNumber, req.Reason),
	})
	return nil
}

func (s *documentService) UnparkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) error {
	now := time.Now()

	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return err
	}
	if !doc.IsParked {
		return fmt.Errorf("%w: document is not parked", apperrors.ErrInvalidState)
	}

	desks, err := s.receiveDeskSections(ctx)
	if err != nil {
		return err
	}
	actor, _, err := s.actorSnapshot(ctx, actorID, desks)
	if err != nil {
		return err
	}
	if _, err := routing.Decide(actor, documentState(doc)); err != nil {
		return err
	}

	movement := s.sideStateMovement(doc, domain.ActionUnparked, "", actorID, now)
	if err := s.docRepo.UnparkDocument(ctx, kind, documentID, movement); err != nil {
		return err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityUnpark,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Unparked %s %s", entityType(kind), doc.DocumentNumber),
	})
	return nil
}

// sideStateMovement builds the non-current ledger row recording a park or
// unpark. Custody does not move: from and to mirror the current pointer.
func (s *documentService) sideStateMovement(doc *domain.Document, action domain.MovementAction, comments string, actorID string, now time.Time) domain.Movement {
	holder := actorID
	if doc.CurrentHolder != nil {
		holder = *doc.CurrentHolder
	}
	eventDate := now
	return domain.Movement{
		DocumentID:       doc.DocumentID,
		FromUser:         doc.CurrentHolder,
		ToUser:           holder,
		FromSectionID:    doc.CurrentSectionID,
		ToSectionID:      doc.CurrentSectionID,
		FromSubSectionID: doc.CurrentSubSectionID,
		ToSubSectionID:   doc.CurrentSubSectionID,
		ForwardedBy:      actorID,
		ForwardedDate:    &eventDate,
		Action:           action,
		Comments:         comments,
		IsCurrent:        false,
		CreatedAt:        now,
		CreatedBy:        actorID,
	}
}

// canEditStatus gates the non-custody mutations: status changes, replies and
// payments. The terminal freeze does not apply here, otherwise Closed could
// never become Archived.
func (s *documentService) canEditStatus(ctx context.Context, doc *domain.Document, actorID string) error {
	desks, err := s.receiveDeskSections(ctx)
	if err != nil {
		return err
	}
	actor, _, err := s.actorSnapshot(ctx, actorID, desks)
	if err != nil {
		return err
	}
	if !actor.IsActive {
		return fmt.Errorf("%w: actor is inactive", apperrors.ErrForbidden)
	}
	if actor.IsSuperuser || actor.IsReceiveDesk {
		return nil
	}
	if doc.CurrentHolder != nil && *doc.CurrentHolder == actor.UserID {
		return nil
	}
	return fmt.Errorf("%w: only the current holder or intake staff may update this document", apperrors.ErrForbidden)
}

func (s *documentService) UpdateStatus(ctx context.Context, kind domain.DocumentKind, documentID string, req dto.UpdateStatusRequest, actorID string) (*domain.Document, error) {
	now := time.Now()

	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}

	status := domain.DocumentStatus(req.Status)
	if !domain.ValidStatus(kind, status) {
		return nil, fmt.Errorf("%w: unknown status %q for %s", apperrors.ErrValidation, req.Status, entityType(kind))
	}
	if err := s.canEditStatus(ctx, doc, actorID); err != nil {
		return nil, err
	}

	if err := s.docRepo.UpdateDocumentStatus(ctx, kind, documentID, status, actorID, now); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityStatusChange,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Status of %s %s changed from %s to %s", entityType(kind), doc.DocumentNumber, doc.Status, status),
	})

	return s.docRepo.FindDocumentByID(ctx, kind, documentID)
}

func (s *documentService) MarkReplied(ctx context.Context, documentID string, req dto.MarkRepliedRequest, actorID string) (*domain.Document, error) {
	now := time.Now()

	doc, err := s.docRepo.FindDocumentByID(ctx, domain.KindLetter, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Letter != nil && doc.Letter.RepliedDate != nil {
		return nil, fmt.Errorf("%w: letter is already replied", apperrors.ErrInvalidState)
	}
	if req.RepliedDate.After(now) {
		return nil, fmt.Errorf("%w: replied date cannot be in the future", apperrors.ErrValidation)
	}
	if err := s.canEditStatus(ctx, doc, actorID); err != nil {
		return nil, err
	}

	if err := s.docRepo.UpdateLetterReply(ctx, documentID, req.RepliedDate, req.ReplyRef, actorID, now); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityReply,
		EntityType:  entityType(domain.KindLetter),
		EntityID:    documentID,
		Description: fmt.Sprintf("Recorded reply on letter %s", doc.DocumentNumber),
	})

	return s.docRepo.FindDocumentByID(ctx, domain.KindLetter, documentID)
}

func (s *documentService) RecordPayment(ctx context.Context, documentID string, req dto.RecordPaymentRequest, actorID string) (*domain.Document, error) {
	now := time.Now()

	doc, err := s.docRepo.FindDocumentByID(ctx, domain.KindBill, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Bill != nil && doc.Bill.PaymentStatus == domain.PaymentPaid {
		return nil, fmt.Errorf("%w: bill is already fully paid", apperrors.ErrInvalidState)
	}
	if err := s.canEditStatus(ctx, doc, actorID); err != nil {
		return nil, err
	}

	status := domain.PaymentStatus(req.PaymentStatus)
	paymentDate := req.PaymentDate
	if status != domain.PaymentPending && paymentDate == nil {
		paymentDate = &now
	}

	if err := s.docRepo.UpdateBillPayment(ctx, documentID, status, paymentDate, req.PaymentRef, actorID, now); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityPayment,
		EntityType:  entityType(domain.KindBill),
		EntityID:    documentID,
		Description: fmt.Sprintf("Payment on bill %s set to %s", doc.DocumentNumber, status),
	})

	return s.docRepo.FindDocumentByID(ctx, domain.KindBill, documentID)
}

// requireSuperuser gates the administrative escape hatches.
func (s *documentService) requireSuperuser(ctx context.Context, actorID string) error {
	user, err := s.userRepo.FindUserByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to load acting user: %w", err)
	}
	if !user.IsSuperuser || !user.IsActive {
		return fmt.Errorf("%w: superuser required", apperrors.ErrForbidden)
	}
	return nil
}

func (s *documentService) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}

	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return err
	}

	if err := s.docRepo.DeleteDocument(ctx, kind, documentID); err != nil {
		return err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityDelete,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Deleted %s %s and its ledger", entityType(kind), doc.DocumentNumber),
	})
	return nil
}

func (s *documentService) AmendMovementDate(ctx context.Context, kind domain.DocumentKind, documentID string, movementID int64, req dto.AmendMovementDateRequest, actorID string) error {
	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return err
	}
	if req.Date != nil && req.Date.After(time.Now()) {
		return fmt.Errorf("%w: forwarded date cannot be in the future", apperrors.ErrValidation)
	}

	if err := s.docRepo.AmendMovementDate(ctx, kind, documentID, movementID, req.Date); err != nil {
		return err
	}

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityAmend,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Amended forwarded date of movement %d", movementID),
	})
	return nil
}

// ReconcileDocument recomputes the denormalized custody pointer from the
// ledger head. The ledger is authoritative; the pointer is repaired to match.
func (s *documentService) ReconcileDocument(ctx context.Context, kind domain.DocumentKind, documentID string, actorID string) (*dto.ReconcileResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.requireSuperuser(ctx, actorID); err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindDocumentByID(ctx, kind, documentID)
	if err != nil {
		return nil, err
	}
	head, err := s.docRepo.FindCurrentMovement(ctx, kind, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger head: %w", err)
	}

	resp := &dto.ReconcileResponse{
		DocumentID:      documentID,
		LedgerHolder:    head.ToUser,
		LedgerSectionID: head.ToSectionID,
		PointerHolder:   doc.CurrentHolder,
	}

	drifted := doc.CurrentHolder == nil || *doc.CurrentHolder != head.ToUser ||
		!sameOptional(doc.CurrentSectionID, head.ToSectionID) ||
		!sameOptional(doc.CurrentSubSectionID, head.ToSubSectionID)
	resp.Drifted = drifted
	if !drifted {
		return resp, nil
	}

	logger.Warn("Custody pointer drift detected",
		slog.String("document_id", documentID),
		slog.String("ledger_holder", head.ToUser),
	)

	holder := head.ToUser
	if err := s.docRepo.UpdateCustodyPointer(ctx, kind, documentID, &holder, head.ToSectionID, head.ToSubSectionID, actorID, time.Now()); err != nil {
		return nil, err
	}
	resp.Repaired = true

	s.activity.Record(ctx, domain.ActivityLog{
		UserID:      &actorID,
		Type:        domain.ActivityReconcile,
		EntityType:  entityType(kind),
		EntityID:    documentID,
		Description: fmt.Sprintf("Repaired custody pointer of %s %s to ledger head", entityType(kind), doc.DocumentNumber),
	})

	return resp, nil
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
