// requests.go - Request schemas validated at the boundary

package api

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// AnalyzeMealRequest is the body of POST /api/v1/analyze-meal. At least one
// of Description or PhotoURL must be set; checked in Validate because the
// cross-field rule does not fit a single binding tag.
type AnalyzeMealRequest struct {
	Description string `json:"description" binding:"omitempty,max=2000"`
	PhotoURL    string `json:"photo_url" binding:"omitempty,imageurl"`
	Language    string `json:"language" binding:"omitempty,max=16"`
}

// Validate applies the cross-field rule after binding.
func (r *AnalyzeMealRequest) Validate() string {
	if strings.TrimSpace(r.Description) == "" && r.PhotoURL == "" {
		return "at least one of description or photo_url is required"
	}
	return ""
}

// AnalyzeImageRequest is the body of the face/body analysis endpoints.
type AnalyzeImageRequest struct {
	ImageURL string                 `json:"image_url" binding:"required,imageurl"`
	Context  map[string]interface{} `json:"context" binding:"omitempty"`
	History  map[string]interface{} `json:"history" binding:"omitempty"`
}

// RegisterValidators installs custom rules on gin's validator engine.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("imageurl", func(fl validator.FieldLevel) bool {
			u := fl.Field().String()
			return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
		})
	}
}
