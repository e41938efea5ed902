// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/freshchoice/storefront/config"
	"github.com/freshchoice/storefront/pkg/apperr"
	"github.com/freshchoice/storefront/pkg/validate"
)

// JSON decodes r.Body into dest and validates it. The body is capped at
// MAX_BODY_BYTES. Every failure is a ValidationError with one message.
func JSON(r *http.Request, dest any) error {
	if r.Body == nil {
		return apperr.Validation("Request body is required.")
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperr.Validation(fmt.Sprintf("Request body too large (max %d bytes).", maxErr.Limit))
		case errors.Is(err, io.EOF):
			return apperr.Validation("Request body is required.")
		default:
			return apperr.Validation("Invalid JSON body.")
		}
	}

	if msg := validate.First(dest); msg != "" {
		return apperr.Validation(msg)
	}
	return nil
}
