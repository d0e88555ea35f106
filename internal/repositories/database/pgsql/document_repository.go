package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	"github.com/paperdesk/doc_tracking_app/internal/models"
	"github.com/paperdesk/doc_tracking_app/internal/utils/mapping"
	"github.com/paperdesk/doc_tracking_app/internal/utils/pagination"
)

// PgxDocumentRepository persists the three document kinds and their custody
// ledgers. Each kind lives in its own pair of tables sharing a common column
// shape; methods take the kind and route to the right pair.
type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(db *pgxpool.Pool) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

func docTable(kind domain.DocumentKind) string {
	switch kind {
	case domain.KindBill:
		return "bills"
	case domain.KindLetter:
		return "letters"
	default:
		return "notesheets"
	}
}

func movementTable(kind domain.DocumentKind) string {
	switch kind {
	case domain.KindBill:
		return "bill_movements"
	case domain.KindLetter:
		return "letter_movements"
	default:
		return "notesheet_movements"
	}
}

const docCommonColumns = `document_id, document_number, subject, priority, current_status, remarks,
	current_holder, current_section_id, current_sub_section_id,
	is_parked, parked_by, parked_date, parked_reason,
	received_date, received_by,
	created_at, created_by, last_updated_at, last_updated_by`

const billExtraColumns = `bill_date, vendor_name, vendor_gstin, bill_amount, taxable_amount, gst_amount,
	tds_amount, other_deductions, net_payable, payment_status, payment_date, payment_reference`

const letterExtraColumns = `letter_date, letter_type, sender, sender_address, recipient,
	reply_required, reply_deadline, replied_date, reply_reference`

// docColumns is the SELECT/INSERT column list for a kind's table.
func docColumns(kind domain.DocumentKind) string {
	switch kind {
	case domain.KindBill:
		return docCommonColumns + ",\n\t" + billExtraColumns
	case domain.KindLetter:
		return docCommonColumns + ",\n\t" + letterExtraColumns
	default:
		return docCommonColumns + ",\n\tdepartment"
	}
}

// docScanDest returns the scan targets matching docColumns(kind).
func docScanDest(kind domain.DocumentKind, m *models.Document) []any {
	dest := []any{
		&m.DocumentID, &m.DocumentNumber, &m.Subject, &m.Priority, &m.Status, &m.Remarks,
		&m.CurrentHolder, &m.CurrentSectionID, &m.CurrentSubSectionID,
		&m.IsParked, &m.ParkedBy, &m.ParkedDate, &m.ParkedReason,
		&m.ReceivedDate, &m.ReceivedBy,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	}
	switch kind {
	case domain.KindBill:
		dest = append(dest,
			&m.BillDate, &m.VendorName, &m.VendorGSTIN, &m.BillAmount, &m.TaxableAmount, &m.GSTAmount,
			&m.TDSAmount, &m.OtherDeductions, &m.NetPayable, &m.PaymentStatus, &m.PaymentDate, &m.PaymentRef,
		)
	case domain.KindLetter:
		dest = append(dest,
			&m.LetterDate, &m.LetterType, &m.Sender, &m.SenderAddress, &m.Recipient,
			&m.ReplyRequired, &m.ReplyDeadline, &m.RepliedDate, &m.ReplyRef,
		)
	default:
		dest = append(dest, &m.Department)
	}
	return dest
}

// docInsertArgs returns the INSERT values matching docColumns(kind).
func docInsertArgs(kind domain.DocumentKind, m models.Document) []any {
	args := []any{
		m.DocumentID, m.DocumentNumber, m.Subject, m.Priority, m.Status, m.Remarks,
		m.CurrentHolder, m.CurrentSectionID, m.CurrentSubSectionID,
		m.IsParked, m.ParkedBy, m.ParkedDate, m.ParkedReason,
		m.ReceivedDate, m.ReceivedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
	switch kind {
	case domain.KindBill:
		args = append(args,
			m.BillDate, m.VendorName, m.VendorGSTIN, m.BillAmount, m.TaxableAmount, m.GSTAmount,
			m.TDSAmount, m.OtherDeductions, m.NetPayable, m.PaymentStatus, m.PaymentDate, m.PaymentRef,
		)
	case domain.KindLetter:
		args = append(args,
			m.LetterDate, m.LetterType, m.Sender, m.SenderAddress, m.Recipient,
			m.ReplyRequired, m.ReplyDeadline, m.RepliedDate, m.ReplyRef,
		)
	default:
		args = append(args, m.Department)
	}
	return args
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(parts, ", ")
}

const movementColumns = `movement_id, document_id, from_user, to_user, from_section_id, to_section_id,
	from_sub_section_id, to_sub_section_id, forwarded_by, forwarded_date, action_taken, comments,
	is_current, created_at, created_by`

func movementScanDest(m *models.Movement) []any {
	return []any{
		&m.MovementID, &m.DocumentID, &m.FromUser, &m.ToUser, &m.FromSectionID, &m.ToSectionID,
		&m.FromSubSectionID, &m.ToSubSectionID, &m.ForwardedBy, &m.ForwardedDate, &m.ActionTaken, &m.Comments,
		&m.IsCurrent, &m.CreatedAt, &m.CreatedBy,
	}
}

// insertMovementTx inserts one ledger row. movement_id is a BIGSERIAL and is
// never supplied by the caller.
func insertMovementTx(ctx context.Context, tx pgx.Tx, kind domain.DocumentKind, m models.Movement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, from_user, to_user, from_section_id, to_section_id,
			from_sub_section_id, to_sub_section_id, forwarded_by, forwarded_date, action_taken, comments,
			is_current, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`, movementTable(kind))
	_, err := tx.Exec(ctx, query,
		m.DocumentID, m.FromUser, m.ToUser, m.FromSectionID, m.ToSectionID,
		m.FromSubSectionID, m.ToSubSectionID, m.ForwardedBy, m.ForwardedDate, m.ActionTaken, m.Comments,
		m.IsCurrent, m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE document_id = $1;`, docColumns(kind), docTable(kind))

	var m models.Document
	err := r.Pool.QueryRow(ctx, query, documentID).Scan(docScanDest(kind, &m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by ID %s: %w", documentID, err)
	}

	doc := mapping.ToDomainDocument(kind, m)
	return &doc, nil
}

func (r *PgxDocumentRepository) FindDocumentByNumber(ctx context.Context, kind domain.DocumentKind, documentNumber string) (*domain.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE document_number = $1;`, docColumns(kind), docTable(kind))

	var m models.Document
	err := r.Pool.QueryRow(ctx, query, documentNumber).Scan(docScanDest(kind, &m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document by number %s: %w", documentNumber, err)
	}

	doc := mapping.ToDomainDocument(kind, m)
	return &doc, nil
}

func (r *PgxDocumentRepository) ListDocuments(ctx context.Context, kind domain.DocumentKind, filter portsrepo.DocumentFilter, limit int, nextToken *string) ([]domain.Document, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var conditions []string
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "current_status = "+addArg(string(*filter.Status)))
	}
	if filter.SectionID != nil {
		conditions = append(conditions, "current_section_id = "+addArg(*filter.SectionID))
	}
	if filter.HolderID != nil {
		conditions = append(conditions, "current_holder = "+addArg(*filter.HolderID))
	}
	if filter.Parked != nil {
		conditions = append(conditions, "is_parked = "+addArg(*filter.Parked))
	}
	if filter.Priority != nil {
		conditions = append(conditions, "priority = "+addArg(string(*filter.Priority)))
	}
	if filter.Search != "" {
		p := addArg("%" + filter.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(document_number ILIKE %s OR subject ILIKE %s)", p, p))
	}

	if nextToken != nil && *nextToken != "" {
		receivedDate, documentID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		d := addArg(receivedDate)
		id := addArg(documentID)
		conditions = append(conditions, fmt.Sprintf("(received_date, document_id) < (%s, %s)", d, id))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Fetch one extra row to know whether another page exists.
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY received_date DESC, document_id DESC
		LIMIT %s;
	`, docColumns(kind), docTable(kind), where, addArg(limit+1))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var m models.Document
		if err := rows.Scan(docScanDest(kind, &m)...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, mapping.ToDomainDocument(kind, m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading document rows: %w", err)
	}

	var newToken *string
	if len(docs) > limit {
		docs = docs[:limit]
		last := docs[len(docs)-1]
		token := pagination.EncodeCursor(last.ReceivedDate, last.DocumentID)
		newToken = &token
	}

	return docs, newToken, nil
}

func (r *PgxDocumentRepository) SaveDocumentWithInitialMovement(ctx context.Context, doc domain.Document, seed domain.Movement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelDocument(doc)
	cols := docColumns(doc.Kind)
	args := docInsertArgs(doc.Kind, m)
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s);`, docTable(doc.Kind), cols, placeholders(len(args)))

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("document number %s already exists: %w", doc.DocumentNumber, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert document: %w", err)
	}

	if err := insertMovementTx(ctx, tx, doc.Kind, mapping.ToModelMovement(seed)); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// TransferCustody performs the atomic hand-off. The conditional flip of the
// previously-current ledger row is the concurrency guard: when two actors race
// on the same document, the loser's flip matches zero rows and the whole
// transaction rolls back with ErrConflict.
func (r *PgxDocumentRepository) TransferCustody(ctx context.Context, kind domain.DocumentKind, documentID string, expectedHolder *string, movement domain.Movement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var tag pgconn.CommandTag
	if expectedHolder != nil {
		tag, err = tx.Exec(ctx, fmt.Sprintf(`
			UPDATE %s SET is_current = FALSE
			WHERE document_id = $1 AND is_current = TRUE AND to_user = $2;
		`, movementTable(kind)), documentID, *expectedHolder)
	} else {
		tag, err = tx.Exec(ctx, fmt.Sprintf(`
			UPDATE %s SET is_current = FALSE
			WHERE document_id = $1 AND is_current = TRUE;
		`, movementTable(kind)), documentID)
	}
	if err != nil {
		return fmt.Errorf("failed to retire current movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s custody changed concurrently: %w", documentID, apperrors.ErrConflict)
	}

	mv := mapping.ToModelMovement(movement)
	mv.IsCurrent = true
	if err := insertMovementTx(ctx, tx, kind, mv); err != nil {
		return err
	}

	tag, err = tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET current_holder = $2, current_section_id = $3, current_sub_section_id = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1;
	`, docTable(kind)), documentID, movement.ToUser, movement.ToSectionID, movement.ToSubSectionID, movement.CreatedAt, movement.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to update custody pointer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) ParkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement, reason string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET is_parked = TRUE, parked_by = $2, parked_date = $3, parked_reason = $4,
			last_updated_at = $3, last_updated_by = $2
		WHERE document_id = $1 AND is_parked = FALSE;
	`, docTable(kind)), documentID, movement.CreatedBy, movement.CreatedAt, reason)
	if err != nil {
		return fmt.Errorf("failed to park document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if exists, eerr := r.documentExistsTx(ctx, tx, kind, documentID); eerr != nil {
			return eerr
		} else if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("document %s is already parked: %w", documentID, apperrors.ErrInvalidState)
	}

	mv := mapping.ToModelMovement(movement)
	mv.IsCurrent = false
	if err := insertMovementTx(ctx, tx, kind, mv); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) UnparkDocument(ctx context.Context, kind domain.DocumentKind, documentID string, movement domain.Movement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET is_parked = FALSE, parked_by = NULL, parked_date = NULL, parked_reason = '',
			last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1 AND is_parked = TRUE;
	`, docTable(kind)), documentID, movement.CreatedAt, movement.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to unpark document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if exists, eerr := r.documentExistsTx(ctx, tx, kind, documentID); eerr != nil {
			return eerr
		} else if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("document %s is not parked: %w", documentID, apperrors.ErrInvalidState)
	}

	mv := mapping.ToModelMovement(movement)
	mv.IsCurrent = false
	if err := insertMovementTx(ctx, tx, kind, mv); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDocumentRepository) documentExistsTx(ctx context.Context, tx pgx.Tx, kind domain.DocumentKind, documentID string) (bool, error) {
	var one int
	err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE document_id = $1;`, docTable(kind)), documentID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check document existence: %w", err)
	}
	return true, nil
}

func (r *PgxDocumentRepository) UpdateDocumentStatus(ctx context.Context, kind domain.DocumentKind, documentID string, status domain.DocumentStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET current_status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`, docTable(kind)), documentID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDocumentRepository) UpdateLetterReply(ctx context.Context, documentID string, repliedDate time.Time, replyRef string, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE letters SET current_status = $2, replied_date = $3, reply_reference = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1;
	`, documentID, string(domain.StatusReplied), repliedDate, replyRef, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to record letter reply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDocumentRepository) UpdateBillPayment(ctx context.Context, documentID string, status domain.PaymentStatus, paymentDate *time.Time, paymentRef string, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bills SET payment_status = $2, payment_date = $3, payment_reference = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1;
	`, documentID, string(status), paymentDate, paymentRef, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to record bill payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDocumentRepository) UpdateCustodyPointer(ctx context.Context, kind domain.DocumentKind, documentID string, holder *string, sectionID *string, subSectionID *string, updatedBy string, updatedAt time.Time) error {
	tag, err := r.Pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET current_holder = $2, current_section_id = $3, current_sub_section_id = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1;
	`, docTable(kind)), documentID, holder, sectionID, subSectionID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to rewrite custody pointer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, kind domain.DocumentKind, documentID string) error {
	// Ledger rows cascade via the movement table's FK.
	tag, err := r.Pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1;`, docTable(kind)), documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDocumentRepository) FindMovementsByDocumentID(ctx context.Context, kind domain.DocumentKind, documentID string) ([]domain.Movement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1
		ORDER BY movement_id DESC;
	`, movementColumns, movementTable(kind))

	rows, err := r.Pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for document %s: %w", documentID, err)
	}
	defer rows.Close()

	var ms []models.Movement
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(movementScanDest(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading movement rows: %w", err)
	}

	return mapping.ToDomainMovementSlice(ms), nil
}

func (r *PgxDocumentRepository) FindCurrentMovement(ctx context.Context, kind domain.DocumentKind, documentID string) (*domain.Movement, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1 AND is_current = TRUE;
	`, movementColumns, movementTable(kind))

	var m models.Movement
	err := r.Pool.QueryRow(ctx, query, documentID).Scan(movementScanDest(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find current movement for document %s: %w", documentID, err)
	}

	mv := mapping.ToDomainMovement(m)
	return &mv, nil
}

func (r *PgxDocumentRepository) AmendMovementDate(ctx context.Context, kind domain.DocumentKind, documentID string, movementID int64, date *time.Time) error {
	tag, err := r.Pool.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET forwarded_date = $3
		WHERE document_id = $1 AND movement_id = $2;
	`, movementTable(kind)), documentID, movementID, date)
	if err != nil {
		return fmt.Errorf("failed to amend movement date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
