package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paperdesk/doc_tracking_app/internal/apperrors"
	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	"github.com/paperdesk/doc_tracking_app/internal/models"
	"github.com/paperdesk/doc_tracking_app/internal/utils/mapping"
)

type PgxSectionRepository struct {
	db *pgxpool.Pool
}

func newPgxSectionRepository(db *pgxpool.Pool) portsrepo.SectionRepositoryFacade {
	return &PgxSectionRepository{db: db}
}

var _ portsrepo.SectionRepositoryFacade = (*PgxSectionRepository)(nil)

const sectionColumns = `section_id, name, is_receive_desk, created_at, created_by, last_updated_at, last_updated_by`

func sectionScanDest(m *models.Section) []any {
	return []any{&m.SectionID, &m.Name, &m.IsReceiveDesk, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy}
}

func (r *PgxSectionRepository) FindSectionByID(ctx context.Context, sectionID string) (*domain.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM sections WHERE section_id = $1;`, sectionColumns)

	var m models.Section
	err := r.db.QueryRow(ctx, query, sectionID).Scan(sectionScanDest(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find section by ID %s: %w", sectionID, err)
	}

	section := mapping.ToDomainSection(m)
	return &section, nil
}

func (r *PgxSectionRepository) ListSections(ctx context.Context) ([]domain.Section, error) {
	query := fmt.Sprintf(`SELECT %s FROM sections ORDER BY name;`, sectionColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []domain.Section
	for rows.Next() {
		var m models.Section
		if err := rows.Scan(sectionScanDest(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan section row: %w", err)
		}
		sections = append(sections, mapping.ToDomainSection(m))
	}
	return sections, rows.Err()
}

func (r *PgxSectionRepository) FindSubSectionByID(ctx context.Context, subSectionID string) (*domain.SubSection, error) {
	query := `
		SELECT sub_section_id, section_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM sub_sections WHERE sub_section_id = $1;
	`
	var m models.SubSection
	err := r.db.QueryRow(ctx, query, subSectionID).Scan(
		&m.SubSectionID, &m.SectionID, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sub-section by ID %s: %w", subSectionID, err)
	}

	subSection := mapping.ToDomainSubSection(m)
	return &subSection, nil
}

func (r *PgxSectionRepository) ListSubSections(ctx context.Context, sectionID string) ([]domain.SubSection, error) {
	query := `
		SELECT sub_section_id, section_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM sub_sections WHERE section_id = $1 ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-sections: %w", err)
	}
	defer rows.Close()

	var subSections []domain.SubSection
	for rows.Next() {
		var m models.SubSection
		if err := rows.Scan(&m.SubSectionID, &m.SectionID, &m.Name, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan sub-section row: %w", err)
		}
		subSections = append(subSections, mapping.ToDomainSubSection(m))
	}
	return subSections, rows.Err()
}

func (r *PgxSectionRepository) SaveSection(ctx context.Context, section domain.Section) error {
	m := mapping.ToModelSection(section)
	query := `
		INSERT INTO sections (section_id, name, is_receive_desk, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.SectionID, m.Name, m.IsReceiveDesk, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("section %s already exists: %w", section.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save section: %w", err)
	}
	return nil
}

func (r *PgxSectionRepository) UpdateSection(ctx context.Context, section domain.Section) error {
	m := mapping.ToModelSection(section)
	tag, err := r.db.Exec(ctx, `
		UPDATE sections SET name = $2, is_receive_desk = $3, last_updated_at = $4, last_updated_by = $5
		WHERE section_id = $1;
	`, m.SectionID, m.Name, m.IsReceiveDesk, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("section %s already exists: %w", section.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to update section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSectionRepository) SaveSubSection(ctx context.Context, subSection domain.SubSection) error {
	m := mapping.ToModelSubSection(subSection)
	query := `
		INSERT INTO sub_sections (sub_section_id, section_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, m.SubSectionID, m.SectionID, m.Name, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sub-section %s already exists: %w", subSection.Name, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save sub-section: %w", err)
	}
	return nil
}

func (r *PgxSectionRepository) UpdateSubSection(ctx context.Context, subSection domain.SubSection) error {
	m := mapping.ToModelSubSection(subSection)
	tag, err := r.db.Exec(ctx, `
		UPDATE sub_sections SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE sub_section_id = $1;
	`, m.SubSectionID, m.Name, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update sub-section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSectionRepository) DeleteSubSection(ctx context.Context, subSectionID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sub_sections WHERE sub_section_id = $1;`, subSectionID)
	if err != nil {
		// FK restraint: documents or users still reference this sub-section.
		if isForeignKeyViolation(err) {
			return fmt.Errorf("sub-section %s is still referenced: %w", subSectionID, apperrors.ErrInvalidState)
		}
		return fmt.Errorf("failed to delete sub-section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
