package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DocumentRepo:  newPgxDocumentRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		SectionRepo:   newPgxSectionRepository(dbPool),
		ActivityRepo:  newPgxActivityRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
