package services

import (
	portsrepo "github.com/paperdesk/doc_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/paperdesk/doc_tracking_app/internal/core/ports/services"
	"github.com/paperdesk/doc_tracking_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The activity recorder is wired first: every mutating service records
	// through it.
	container.Activity = NewActivityService(repos.ActivityRepo, repos.UserRepo)

	container.User = NewUserService(repos.UserRepo, container.Activity)
	container.Section = NewSectionService(repos.SectionRepo, repos.UserRepo)
	container.Document = NewDocumentService(repos.DocumentRepo, repos.UserRepo, repos.SectionRepo, container.Activity)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	container.TokenService = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
