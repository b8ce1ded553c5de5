package validation

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/nimbleshop/nimbleshop/internal/apperr"
)

// BindAndValidate binds the JSON body into out and runs validation. Failures
// come back as taxonomy errors for the centralized handler: malformed JSON is
// a 400, schema violations a 422 with per-field messages. It never writes to
// the response itself.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	if err := v.Struct(out); err != nil {
		return apperr.FromError(err)
	}
	return nil
}
