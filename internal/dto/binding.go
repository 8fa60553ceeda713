package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/studiaconsult/ledger_backend/internal/core/domain"
)

// The request types in this package carry a custom "currency" binding tag for
// the closed set of supported currencies. Registering it here, at package
// init, means every binder of these DTOs sees it without further setup.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return domain.IsSupportedCurrency(fl.Field().String())
		})
	}
}
