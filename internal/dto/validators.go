package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/paperdesk/doc_tracking_app/internal/core/domain"
)

// RegisterCustomValidators installs document-specific binding validators on
// gin's validator engine. Call once at startup, before routes are served.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("docpriority", func(fl validator.FieldLevel) bool {
		return domain.ValidPriority(domain.DocumentPriority(fl.Field().String()))
	})
}
