package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"truckzone-contact-api/internal/delivery/http/response"
	"truckzone-contact-api/internal/domain"
	"truckzone-contact-api/pkg/apperror"
	"truckzone-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// maxContactBodyBytes bounds the contact form payload
const maxContactBodyBytes = 64 << 10

type ContactHandler struct {
	contactUC domain.ContactUsecase
	validate  *validator.Validate
}

// NewContactHandler registers the contact route (public, no auth required).
// Every method is routed here so the method gate can answer OPTIONS with 204
// and everything else but POST with 405.
func NewContactHandler(r gin.IRoutes, contactUC domain.ContactUsecase, validate *validator.Validate, gate ...gin.HandlerFunc) {
	handler := &ContactHandler{
		contactUC: contactUC,
		validate:  validate,
	}

	handlers := append(append([]gin.HandlerFunc{}, gate...), handler.SubmitContact)
	r.Any("/contact", handlers...)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validates the submission, notifies the inbox and sends the customer an auto-reply.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      405      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	req, mistyped, err := decodeContactRequest(c.Request)
	if err != nil {
		c.Error(err)
		return
	}

	// Wrongly typed fields are ordered against the other violations
	if msg := validation.FirstViolation(h.validate, req, mistyped...); msg != "" {
		c.Error(apperror.BadRequest(msg))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, nil)
}

// decodeContactRequest parses the raw body as JSON whatever the declared
// content type, since some hosts hand the body over as plain text. An empty
// body or a JSON null is an empty submission and fails validation instead.
// Fields holding a value of the wrong JSON type are left empty and returned
// by name.
func decodeContactRequest(r *http.Request) (*domain.ContactRequest, []string, error) {
	req := &domain.ContactRequest{}
	if r.Body == nil {
		return req, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxContactBodyBytes+1))
	if err != nil {
		return nil, nil, apperror.BadRequest("Invalid JSON")
	}
	if len(body) > maxContactBodyBytes {
		return nil, nil, apperror.New(http.StatusRequestEntityTooLarge, "Payload Too Large", nil)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return req, nil, nil
	}

	if err := json.Unmarshal(body, req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return nil, nil, apperror.BadRequest("Invalid JSON")
		}
		// Unmarshal keeps decoding past a mismatch but reports only the first
		mistyped, err := mistypedFields(body, validation.JSONFields(req))
		if err != nil {
			return nil, nil, apperror.BadRequest("Invalid JSON")
		}
		return req, mistyped, nil
	}

	return req, nil, nil
}

// mistypedFields returns the known fields whose value is neither a string
// nor null. Keys match case-insensitively, as encoding/json does.
func mistypedFields(body []byte, fields []string) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	var mistyped []string
	for key, value := range raw {
		for _, field := range fields {
			if !strings.EqualFold(key, field) {
				continue
			}
			var s *string
			if err := json.Unmarshal(value, &s); err != nil {
				mistyped = append(mistyped, field)
			}
		}
	}
	return mistyped, nil
}
