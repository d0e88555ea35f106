package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/core/services"
	"github.com/paperdesk/doc_tracking_app/internal/dto"
)

// --- Mock DocumentRepository (based on DocumentService usage) ---
type MockDocumentRepository struct {
	mock.Mock
	FindDocumentByIDFn  func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error)
	TransferCustodyFn   func(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error
	SaveWithMovementFn  func(ctx context.Context, doc domain.Document, seed domain.Movement) error
	FindCurrentFn       func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Movement, error)
	UpdateCustodyPtrFn  func(ctx context.Context, kind domain.DocumentKind, documentID string, holder *string, sectionID *string, subSectionID *string, updatedBy string, updatedAt time.Time) error
	ParkDocumentFn      func(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement, reason string) error
	ListDocumentsFn     func(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error)
	FindMovementsByIDFn func(ctx context.Context, kind domain.DocumentKind, documentID string) ([]domain.Movement, error)
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	if m.FindDocumentByIDFn != nil {
		return m.FindDocumentByIDFn(ctx, kind, documentID)
	}
	args := m.Called(ctx, kind, documentID)
	var doc *domain.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.Document)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentByNumber(ctx context.Context, kind domain.DocumentKind, documentNumber string) (*domain.Document, error) {
	args := m.Called(ctx, kind, documentNumber)
	var doc *domain.Document
	if args.Get(0) != nil {
		doc = args.Get(0).(*domain.Document)
	}
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if m.ListDocumentsFn != nil {
		return m.ListDocumentsFn(ctx, kind, filter, limit, nextToken)
	}
	args := m.Called(ctx, kind, filter, limit, nextToken)
	var docs []domain.Document
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.Document)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return docs, token, args.Error(2)
}

func (m *MockDocumentRepository) SaveDocumentWithInitialMovement(ctx context.Context, doc domain.Document, seed domain.Movement) error {
	if m.SaveWithMovementFn != nil {
		return m.SaveWithMovementFn(ctx, doc, seed)
	}
	args := m.Called(ctx, doc, seed)
	return args.Error(0)
}

func (m *MockDocumentRepository) TransferCustody(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error {
	if m.TransferCustodyFn != nil {
		return m.TransferCustodyFn(ctx, kind, documentID, expectedHolder, movement)
	}
	args := m.Called(ctx, kind, documentID, expectedHolder, movement)
	return args.Error(0)
}

func (m *MockDocumentRepository) ParkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement, reason string) error {
	if m.ParkDocumentFn != nil {
		return m.ParkDocumentFn(ctx, kind, documentID, movement, reason)
	}
	args := m.Called(ctx, kind, documentID, movement, reason)
	return args.Error(0)
}

func (m *MockDocumentRepository) UnparkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement) error {
	args := m.Called(ctx, kind, documentID, movement)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocumentStatus(ctx context.Context, kind domain.DocumentKind, documentID string, status domain.DocumentStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, kind, documentID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateLetterReply(ctx context.Context, documentID string, repliedDate time.Time, replyRef string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, documentID, repliedDate, replyRef, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateBillPayment(ctx context.Context, documentID string, status domain.PaymentStatus, paymentDate *time.Time, paymentRef string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, documentID, status, paymentDate, paymentRef, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateCustodyPointer(ctx context.Context, kind domain.DocumentKind, documentID string, holder *string, sectionID *string, subSectionID *string, updatedBy string, updatedAt time.Time) error {
	if m.UpdateCustodyPtrFn != nil {
		return m.UpdateCustodyPtrFn(ctx, kind, documentID, holder, sectionID, subSectionID, updatedBy, updatedAt)
	}
	args := m.Called(ctx, kind, documentID, holder, sectionID, subSectionID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string) error {
	args := m.Called(ctx, kind, documentID)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindMovementsByDocumentID(ctx context.Context, kind domain.DocumentKind, documentID string) ([]domain.Movement, error) {
	if m.FindMovementsByIDFn != nil {
		return m.FindMovementsByIDFn(ctx, kind, documentID)
	}
	args := m.Called(ctx, kind, documentID)
	var entries []domain.Movement
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.Movement)
	}
	return entries, args.Error(1)
}

func (m *MockDocumentRepository) FindCurrentMovement(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Movement, error) {
	if m.FindCurrentFn != nil {
		return m.FindCurrentFn(ctx, kind, documentID)
	}
	args := m.Called(ctx, kind, documentID)
	var head *domain.Movement
	if args.Get(0) != nil {
		head = args.Get(0).(*domain.Movement)
	}
	return head, args.Error(1)
}

func (m *MockDocumentRepository) AmendMovementDate(ctx context.Context, kind domain.DocumentKind, documentID string, movementID int64, date *time.Time) error {
	args := m.Called(ctx, kind, documentID, movementID, date)
	return args.Error(0)
}

func (m *MockDocumentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, nil
}

func (m *MockDocumentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return nil
}

func (m *MockDocumentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return nil
}

var _ portsrepo.DocumentRepositoryWithTx = (*MockDocumentRepository)(nil)

// --- Mock SectionRepository ---
type MockSectionRepository struct {
	mock.Mock
	ListSectionsFn func(ctx context.Context) ([]domain.Section, error)
}

func (m *MockSectionRepository) FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	args := m.Called(ctx, sectionID)
	var sec *domain.Section
	if args.Get(0) != nil {
		sec = args.Get(0).(*domain.Section)
	}
	return sec, args.Error(1)
}

func (m *MockSectionRepository) ListSections(ctx context.Context) ([]domain.Section, error) {
	if m.ListSectionsFn != nil {
		return m.ListSectionsFn(ctx)
	}
	args := m.Called(ctx)
	var secs []domain.Section
	if args.Get(0) != nil {
		secs = args.Get(0).([]domain.Section)
	}
	return secs, args.Error(1)
}

func (m *MockSectionRepository) FindSubSectionByID(ctx context.Context, subSectionID string) (*domain.SubSection, error) {
	args := m.Called(ctx, subSectionID)
	var sub *domain.SubSection
	if args.Get(0) != nil {
		sub = args.Get(0).(*domain.SubSection)
	}
	return sub, args.Error(1)
}

func (m *MockSectionRepository) ListSubSections(ctx context.Context, sectionID string) ([]domain.SubSection, error) {
	args := m.Called(ctx, sectionID)
	var subs []domain.SubSection
	if args.Get(0) != nil {
		subs = args.Get(0).([]domain.SubSection)
	}
	return subs, args.Error(1)
}

func (m *MockSectionRepository) SaveSection(ctx context.Context, section domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) UpdateSection(ctx context.Context, section domain.Section) error {
	args := m.Called(ctx, section)
	return args.Error(0)
}

func (m *MockSectionRepository) SaveSubSection(ctx context.Context, subSection domain.SubSection) error {
	args := m.Called(ctx, subSection)
	return args.Error(0)
}

func (m *MockSectionRepository) UpdateSubSection(ctx context.Context, subSection domain.SubSection) error {
	args := m.Called(ctx, subSection)
	return args.Error(0)
}

func (m *MockSectionRepository) DeleteSubSection(ctx context.Context, subSectionID string) error {
	args := m.Called(ctx, subSectionID)
	return args.Error(0)
}

var _ portsrepo.SectionRepositoryFacade = (*MockSectionRepository)(nil)

// --- Activity recorder stub (captures entries, never fails) ---
type recorderStub struct {
	entries []domain.ActivityLog
}

func (r *recorderStub) Record(ctx context.Context, entry domain.ActivityLog) {
	r.entries = append(r.entries, entry)
}

func (r *recorderStub) lastType() domain.ActivityType {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Type
}

// --- Test Suite ---

type DocumentServiceTestSuite struct {
	suite.Suite
	mockDocRepo     *MockDocumentRepository
	mockUserRepo    *MockUserRepository
	mockSectionRepo *MockSectionRepository
	recorder        *recorderStub
	service         portssvc.DocumentSvcFacade
	ctx             context.Context

	deskSectionID string
	workSectionID string
}

func TestDocumentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}

func (s *DocumentServiceTestSuite) SetupTest() {
	s.mockDocRepo = new(MockDocumentRepository)
	s.mockUserRepo = new(MockUserRepository)
	s.mockSectionRepo = new(MockSectionRepository)
	s.recorder = new(recorderStub)
	s.service = services.NewDocumentService(s.mockDocRepo, s.mockUserRepo, s.mockSectionRepo, s.recorder)
	s.ctx = context.Background()

	s.deskSectionID = uuid.NewString()
	s.workSectionID = uuid.NewString()
	s.mockSectionRepo.ListSectionsFn = func(ctx context.Context) ([]domain.Section, error) {
		return []domain.Section{
			{SectionID: s.deskSectionID, Name: "Receive Section", IsReceiveDesk: true},
			{SectionID: s.workSectionID, Name: "Accounts"},
		}, nil
	}
}

// deskUser is an active intake-desk member.
func (s *DocumentServiceTestSuite) deskUser() *domain.User {
	sectionID := s.deskSectionID
	return &domain.User{
		UserID:    uuid.NewString(),
		Username:  "desk",
		Name:      "Desk Clerk",
		SectionID: &sectionID,
		IsActive:  true,
		Roles:     []domain.RoleName{domain.RoleReceiveSection},
	}
}

// sectionUser is an active rank-and-file member of the working section.
func (s *DocumentServiceTestSuite) sectionUser(name string) *domain.User {
	sectionID := s.workSectionID
	return &domain.User{
		UserID:    uuid.NewString(),
		Username:  name,
		Name:      name,
		SectionID: &sectionID,
		IsActive:  true,
	}
}

func (s *DocumentServiceTestSuite) notesheetHeldBy(holder *domain.User) *domain.Document {
	return &domain.Document{
		DocumentID:          uuid.NewString(),
		Kind:                domain.KindNotesheet,
		DocumentNumber:      "NS-2026-042",
		Subject:             "Budget revision",
		Priority:            domain.PriorityNormal,
		Status:              domain.StatusUnderProcess,
		CurrentHolder:       &holder.UserID,
		CurrentSectionID:    holder.SectionID,
		CurrentSubSectionID: holder.SubSectionID,
		ReceivedDate:        time.Now().Add(-48 * time.Hour),
		ReceivedBy:          holder.UserID,
	}
}

func (s *DocumentServiceTestSuite) expectFindUser(u *domain.User) {
	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID == u.UserID {
			return u, nil
		}
		return nil, apperrors.ErrNotFound
	}
}

// --- ReceiveDocument ---

func (s *DocumentServiceTestSuite) TestReceiveDocument_Success() {
	actor := s.deskUser()
	s.expectFindUser(actor)

	var savedDoc domain.Document
	var savedSeed domain.Movement
	s.mockDocRepo.SaveWithMovementFn = func(ctx context.Context, doc domain.Document, seed domain.Movement) error {
		savedDoc = doc
		savedSeed = seed
		return nil
	}

	req := dto.ReceiveDocumentRequest{
		DocumentNumber: "NS-2026-001",
		Subject:        "Office supplies proposal",
		ReceivedDate:   time.Now().Add(-time.Hour),
	}
	doc, err := s.service.ReceiveDocument(s.ctx, domain.KindNotesheet, req, actor.UserID)

	s.Require().NoError(err)
	s.Require().NotNil(doc)
	s.Equal(domain.StatusReceived, doc.Status)
	s.Equal(domain.PriorityNormal, doc.Priority)
	s.Require().NotNil(doc.CurrentHolder)
	s.Equal(actor.UserID, *doc.CurrentHolder)

	s.Equal(savedDoc.DocumentID, savedSeed.DocumentID)
	s.Nil(savedSeed.FromUser, "the seeding ledger entry has no source user")
	s.Equal(actor.UserID, savedSeed.ToUser)
	s.Equal(domain.ActionReceived, savedSeed.Action)
	s.True(savedSeed.IsCurrent)
	s.Equal(domain.ActivityReceive, s.recorder.lastType())
}

func (s *DocumentServiceTestSuite) TestReceiveDocument_NonDeskActorForbidden() {
	actor := s.sectionUser("clerk")
	s.expectFindUser(actor)

	req := dto.ReceiveDocumentRequest{
		DocumentNumber: "NS-2026-002",
		Subject:        "Unsolicited",
		ReceivedDate:   time.Now().Add(-time.Hour),
	}
	doc, err := s.service.ReceiveDocument(s.ctx, domain.KindNotesheet, req, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Nil(doc)
	s.Empty(s.recorder.entries)
}

func (s *DocumentServiceTestSuite) TestReceiveDocument_FutureDateRejected() {
	actor := s.deskUser()
	s.expectFindUser(actor)

	req := dto.ReceiveDocumentRequest{
		DocumentNumber: "NS-2026-003",
		Subject:        "From tomorrow",
		ReceivedDate:   time.Now().Add(24 * time.Hour),
	}
	_, err := s.service.ReceiveDocument(s.ctx, domain.KindNotesheet, req, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestReceiveDocument_BillNetPayableMismatch() {
	actor := s.deskUser()
	s.expectFindUser(actor)

	wrong := decimal.NewFromInt(999)
	req := dto.ReceiveDocumentRequest{
		DocumentNumber: "BILL-2026-010",
		Subject:        "Vendor invoice",
		ReceivedDate:   time.Now().Add(-time.Hour),
		Bill: &dto.BillDetailsRequest{
			VendorName: "Acme Stationery",
			BillAmount: decimal.NewFromInt(1000),
			TDSAmount:  decimal.NewFromInt(100),
			NetPayable: &wrong, // computed is 900
		},
	}
	_, err := s.service.ReceiveDocument(s.ctx, domain.KindBill, req, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestReceiveDocument_BillRequiresDetails() {
	actor := s.deskUser()
	s.expectFindUser(actor)

	req := dto.ReceiveDocumentRequest{
		DocumentNumber: "BILL-2026-011",
		Subject:        "Bare bill",
		ReceivedDate:   time.Now().Add(-time.Hour),
	}
	_, err := s.service.ReceiveDocument(s.ctx, domain.KindBill, req, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- ForwardDocument ---

func (s *DocumentServiceTestSuite) TestForwardDocument_DeskGrantSkipsHolderCheck() {
	actor := s.deskUser()
	holder := s.sectionUser("holder")
	recipient := s.sectionUser("recipient")
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		switch userID {
		case actor.UserID:
			return actor, nil
		case recipient.UserID:
			return recipient, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	var gotExpectedHolder *string
	var gotMovement domain.Movement
	s.mockDocRepo.TransferCustodyFn = func(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error {
		gotExpectedHolder = expectedHolder
		gotMovement = movement
		return nil
	}

	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: recipient.UserID,
		Comments: "please examine",
	}, actor.UserID)

	s.Require().NoError(err)
	s.Nil(gotExpectedHolder, "intake staff forward unconditionally")
	s.Equal(recipient.UserID, gotMovement.ToUser)
	s.Equal(holder.UserID, *gotMovement.FromUser)
	s.Equal(actor.UserID, gotMovement.ForwardedBy)
	s.Equal(domain.ActionForwarded, gotMovement.Action)
	s.True(gotMovement.IsCurrent)
	s.Equal(domain.ActivityForward, s.recorder.lastType())
}

func (s *DocumentServiceTestSuite) TestForwardDocument_HolderGrantPinsExpectedHolder() {
	holder := s.sectionUser("holder")
	head := s.sectionUser("head")
	head.Roles = []domain.RoleName{domain.RoleSectionHead}
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		switch userID {
		case holder.UserID:
			return holder, nil
		case head.UserID:
			return head, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	var gotExpectedHolder *string
	s.mockDocRepo.TransferCustodyFn = func(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error {
		gotExpectedHolder = expectedHolder
		return nil
	}

	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: head.UserID,
	}, holder.UserID)

	s.Require().NoError(err)
	s.Require().NotNil(gotExpectedHolder, "a plain holder's transfer is conditional on still holding")
	s.Equal(holder.UserID, *gotExpectedHolder)
}

func (s *DocumentServiceTestSuite) TestForwardDocument_HolderRestrictedToSectionHead() {
	holder := s.sectionUser("holder")
	peer := s.sectionUser("peer") // same section, not a head
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		switch userID {
		case holder.UserID:
			return holder, nil
		case peer.UserID:
			return peer, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: peer.UserID,
	}, holder.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Empty(s.recorder.entries)
}

func (s *DocumentServiceTestSuite) TestForwardDocument_ParkedRejected() {
	actor := s.deskUser()
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)
	doc.IsParked = true

	s.expectFindUser(actor)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: uuid.NewString(),
	}, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DocumentServiceTestSuite) TestForwardDocument_TerminalStatusFreezesCustody() {
	actor := s.deskUser()
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)
	doc.Status = domain.StatusClosed

	s.expectFindUser(actor)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: uuid.NewString(),
	}, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

func (s *DocumentServiceTestSuite) TestForwardDocument_LostRaceSurfacesConflict() {
	actor := s.deskUser()
	holder := s.sectionUser("holder")
	recipient := s.sectionUser("recipient")
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		switch userID {
		case actor.UserID:
			return actor, nil
		case recipient.UserID:
			return recipient, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}
	s.mockDocRepo.TransferCustodyFn = func(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error {
		return apperrors.ErrConflict
	}

	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: recipient.UserID,
	}, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Empty(s.recorder.entries, "a lost race must not be audited as a forward")
}

func (s *DocumentServiceTestSuite) TestForwardDocument_FutureDateRejected() {
	actor := s.deskUser()
	holder := s.sectionUser("holder")
	recipient := s.sectionUser("recipient")
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		switch userID {
		case actor.UserID:
			return actor, nil
		case recipient.UserID:
			return recipient, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	future := time.Now().Add(time.Hour)
	err := s.service.ForwardDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ForwardDocumentRequest{
		ToUserID: recipient.UserID,
		Date:     &future,
	}, actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- Park / Unpark ---

func (s *DocumentServiceTestSuite) TestParkDocument_Success() {
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)

	s.expectFindUser(holder)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	var gotMovement domain.Movement
	var gotReason string
	s.mockDocRepo.ParkDocumentFn = func(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement, reason string) error {
		gotMovement = movement
		gotReason = reason
		return nil
	}

	err := s.service.ParkDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ParkDocumentRequest{
		Reason: "awaiting vendor clarification",
	}, holder.UserID)

	s.Require().NoError(err)
	s.Equal("awaiting vendor clarification", gotReason)
	s.Equal(domain.ActionParked, gotMovement.Action)
	s.False(gotMovement.IsCurrent, "a park row never becomes the ledger head")
	s.Equal(holder.UserID, gotMovement.ToUser, "custody does not move on park")
	s.Equal(domain.ActivityPark, s.recorder.lastType())
}

func (s *DocumentServiceTestSuite) TestParkDocument_AlreadyParked() {
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)
	doc.IsParked = true

	s.expectFindUser(holder)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	err := s.service.ParkDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.ParkDocumentRequest{
		Reason: "again",
	}, holder.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInvalidState)
}

// --- UpdateStatus ---

func (s *DocumentServiceTestSuite) TestUpdateStatus_UnknownVocabularyRejected() {
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)

	s.expectFindUser(holder)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	// "Replied" belongs to letters only.
	_, err := s.service.UpdateStatus(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.UpdateStatusRequest{
		Status: "Replied",
	}, holder.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestUpdateStatus_HolderMaySucceed() {
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)

	s.expectFindUser(holder)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}
	s.mockDocRepo.On("UpdateDocumentStatus", mock.Anything, domain.KindNotesheet, doc.DocumentID, domain.StatusApproved, holder.UserID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := s.service.UpdateStatus(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.UpdateStatusRequest{
		Status: string(domain.StatusApproved),
	}, holder.UserID)

	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Equal(domain.ActivityStatusChange, s.recorder.lastType())
	s.mockDocRepo.AssertExpectations(s.T())
}

func (s *DocumentServiceTestSuite) TestUpdateStatus_StrangerForbidden() {
	holder := s.sectionUser("holder")
	stranger := s.sectionUser("stranger")
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID == stranger.UserID {
			return stranger, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}

	_, err := s.service.UpdateStatus(s.ctx, domain.KindNotesheet, doc.DocumentID, dto.UpdateStatusRequest{
		Status: string(domain.StatusApproved),
	}, stranger.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Reconcile ---

func (s *DocumentServiceTestSuite) TestReconcileDocument_RepairsDriftedPointer() {
	admin := s.sectionUser("admin")
	admin.IsSuperuser = true
	holder := s.sectionUser("holder")
	actualHolder := s.sectionUser("actual")
	doc := s.notesheetHeldBy(holder) // pointer says holder, ledger says actual

	s.expectFindUser(admin)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}
	s.mockDocRepo.FindCurrentFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Movement, error) {
		return &domain.Movement{
			DocumentID:  doc.DocumentID,
			ToUser:      actualHolder.UserID,
			ToSectionID: actualHolder.SectionID,
			Action:      domain.ActionForwarded,
			IsCurrent:   true,
		}, nil
	}

	var repairedTo *string
	s.mockDocRepo.UpdateCustodyPtrFn = func(ctx context.Context, kind domain.DocumentKind, documentID string, hldr *string, sectionID *string, subSectionID *string, updatedBy string, updatedAt time.Time) error {
		repairedTo = hldr
		return nil
	}

	resp, err := s.service.ReconcileDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, admin.UserID)

	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.True(resp.Drifted)
	s.True(resp.Repaired)
	s.Equal(actualHolder.UserID, resp.LedgerHolder)
	s.Require().NotNil(repairedTo)
	s.Equal(actualHolder.UserID, *repairedTo)
	s.Equal(domain.ActivityReconcile, s.recorder.lastType())
}

func (s *DocumentServiceTestSuite) TestReconcileDocument_NoDriftNoRepair() {
	admin := s.sectionUser("admin")
	admin.IsSuperuser = true
	holder := s.sectionUser("holder")
	doc := s.notesheetHeldBy(holder)

	s.expectFindUser(admin)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}
	s.mockDocRepo.FindCurrentFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Movement, error) {
		return &domain.Movement{
			DocumentID:  doc.DocumentID,
			ToUser:      holder.UserID,
			ToSectionID: holder.SectionID,
			Action:      domain.ActionForwarded,
			IsCurrent:   true,
		}, nil
	}

	resp, err := s.service.ReconcileDocument(s.ctx, domain.KindNotesheet, doc.DocumentID, admin.UserID)

	s.Require().NoError(err)
	s.False(resp.Drifted)
	s.False(resp.Repaired)
	s.Empty(s.recorder.entries, "a clean pointer leaves no audit row")
}

func (s *DocumentServiceTestSuite) TestReconcileDocument_RequiresSuperuser() {
	actor := s.sectionUser("plain")
	s.expectFindUser(actor)

	resp, err := s.service.ReconcileDocument(s.ctx, domain.KindNotesheet, uuid.NewString(), actor.UserID)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.Nil(resp)
}

// --- ListDocuments ---

func (s *DocumentServiceTestSuite) TestListDocuments_UnknownStatusRejected() {
	_, err := s.service.ListDocuments(s.ctx, domain.KindNotesheet, dto.ListDocumentsParams{
		Status: "Paid",
	})

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *DocumentServiceTestSuite) TestListDocuments_PassesFilterThrough() {
	holderID := uuid.NewString()
	var gotFilter portsrepo.DocumentFilter
	var gotLimit int
	s.mockDocRepo.ListDocumentsFn = func(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
		gotFilter = filter
		gotLimit = limit
		return nil, nil, nil
	}

	resp, err := s.service.ListDocuments(s.ctx, domain.KindBill, dto.ListDocumentsParams{
		Status:   string(domain.StatusUnderProcess),
		HolderID: holderID,
		Limit:    10,
	})

	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.NotNil(resp.Documents, "an empty page marshals as [] not null")
	s.Equal(10, gotLimit)
	s.Require().NotNil(gotFilter.Status)
	s.Equal(domain.StatusUnderProcess, *gotFilter.Status)
	s.Require().NotNil(gotFilter.HolderID)
	s.Equal(holderID, *gotFilter.HolderID)
}

// --- GetCustodyView ---

func (s *DocumentServiceTestSuite) TestGetCustodyView_NonForwarderSeesNoCandidates() {
	holder := s.sectionUser("holder")
	stranger := s.sectionUser("stranger")
	doc := s.notesheetHeldBy(holder)

	s.mockUserRepo.FindUserByIDFn = func(ctx context.Context, userID string) (*domain.User, error) {
		if userID == stranger.UserID {
			return stranger, nil
		}
		return nil, apperrors.ErrNotFound
	}
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}
	s.mockDocRepo.FindMovementsByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) ([]domain.Movement, error) {
		return []domain.Movement{}, nil
	}

	view, err := s.service.GetCustodyView(s.ctx, domain.KindNotesheet, doc.DocumentID, stranger.UserID)

	s.Require().NoError(err, "an unauthorized viewer still gets the document")
	s.False(view.CanForward)
	s.Empty(view.Candidates)
}

func (s *DocumentServiceTestSuite) TestGetCustodyView_DeskActorGetsFilteredRoster() {
	actor := s.deskUser()
	holder := s.sectionUser("holder")
	colleague := s.sectionUser("colleague")
	admin := s.sectionUser("admin")
	admin.IsSuperuser = true
	doc := s.notesheetHeldBy(holder)

	s.expectFindUser(actor)
	s.mockDocRepo.FindDocumentByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
		return doc, nil
	}
	s.mockDocRepo.FindMovementsByIDFn = func(ctx context.Context, kind domain.DocumentKind, documentID string) ([]domain.Movement, error) {
		return []domain.Movement{}, nil
	}
	s.mockUserRepo.FindActiveUsersWithRolesFn = func(ctx context.Context) ([]domain.User, error) {
		return []domain.User{*holder, *colleague, *admin}, nil
	}

	view, err := s.service.GetCustodyView(s.ctx, domain.KindNotesheet, doc.DocumentID, actor.UserID)

	s.Require().NoError(err)
	s.True(view.CanForward)
	s.Require().Len(view.Candidates, 1, "the current holder and superusers are excluded")
	s.Equal(colleague.UserID, view.Candidates[0].UserID)
}
