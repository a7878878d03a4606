// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("purchase_status", validatePurchaseStatus)
		_ = v.RegisterValidation("purchase_category", validatePurchaseCategory)
	}
}

func validatePurchaseStatus(fl validator.FieldLevel) bool {
	return models.PurchaseStatus(fl.Field().String()).Valid()
}

func validatePurchaseCategory(fl validator.FieldLevel) bool {
	return models.PurchaseCategory(fl.Field().String()).Valid()
}
