// Submission HTTP handlers.
//
// This file exposes the endpoints used by the contact form:
//   - GET  /                 (banner)
//   - GET  /health           (liveness + active secondary backend)
//   - POST /api/submit       (accept one submission)
//   - GET  /api/submissions  (dump both stores)
//
// Handlers are transport-thin: they bind input, call the SubmissionService,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/tbourn/go-contact-backend/internal/domain"
	"github.com/tbourn/go-contact-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SubmissionService defines the submission use-cases consumed by handlers.
//
// Implementations should be safe for concurrent use.
type SubmissionService interface {
	// Submit durably records one submission and returns the stored record.
	Submit(ctx context.Context, in domain.Submission) (domain.Submission, error)
	// List returns the backup contents and, when available, the relational rows.
	List(ctx context.Context) services.Listing
	// AdminRows returns every submission newest first with its source.
	AdminRows(ctx context.Context) services.AdminView
	// ReplicaBackend names the active secondary backend ("none" when unavailable).
	ReplicaBackend() string
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for submissions.
type Handlers struct {
	svc SubmissionService
}

// New constructs and returns a Handlers instance bound to svc.
func New(svc SubmissionService) *Handlers {
	return &Handlers{svc: svc}
}

//
// DTOs
//

// SubmitRequest is the submit payload, accepted as a JSON object or as
// form fields. Every field is optional.
type SubmitRequest struct {
	Name    string `json:"name"      form:"name"      example:"Ana"`
	Email   string `json:"email"     form:"email"     example:"ana@example.com"`
	Message string `json:"message"   form:"message"   example:"Hello"`
	// Timestamp is kept as given; when blank the server fills the current time.
	Timestamp string `json:"timestamp" form:"timestamp" example:"2024-05-01T12:00:00.000Z"`
}

func (r SubmitRequest) toDomain() domain.Submission {
	return domain.Submission{
		Name:      r.Name,
		Email:     r.Email,
		Message:   r.Message,
		Timestamp: r.Timestamp,
	}
}

// SubmitResponse is returned when a submission was saved.
type SubmitResponse struct {
	Status string `json:"status" example:"ok"`
	Saved  bool   `json:"saved"  example:"true"`
}

// SubmitError is returned when the submit body cannot be parsed.
type SubmitError struct {
	Status  string `json:"status"  example:"error"`
	Message string `json:"message" example:"Invalid JSON"`
}

// HealthResponse reports liveness and the secondary backend in use.
type HealthResponse struct {
	Status    string `json:"status"    example:"ok"`
	Secondary string `json:"secondary" example:"sqlite"`
}

// SubmissionsResponse documents the listing shape. The db key is present
// only when a secondary backend is available, even if it holds no rows.
type SubmissionsResponse struct {
	Backup []domain.Submission `json:"backup"`
	DB     []domain.Submission `json:"db,omitempty"`
}

//
// Helpers
//

// bindSubmission decodes the request body according to its content type.
// Form posts bind by field name. Anything else must be a JSON object; value
// types are not checked, so only a body that does not parse is rejected.
func bindSubmission(c *gin.Context) (domain.Submission, error) {
	var b binding.Binding
	switch c.ContentType() {
	case binding.MIMEPOSTForm:
		b = binding.Form
	case binding.MIMEMultipartPOSTForm:
		b = binding.FormMultipart
	default:
		raw, err := c.GetRawData()
		if err != nil {
			return domain.Submission{}, err
		}
		return domain.DecodeSubmission(raw)
	}
	var req SubmitRequest
	if err := c.ShouldBindWith(&req, b); err != nil {
		return domain.Submission{}, err
	}
	return req.toDomain(), nil
}

//
// Handlers
//

// Root godoc
// @ID          root
// @Summary     Service banner
// @Tags        Meta
// @Produce     plain
// @Success     200  {string}  string  "Submission server running. POST to /api/submit"
// @Router      / [get]
func (h *Handlers) Root(c *gin.Context) {
	c.String(http.StatusOK, rootBanner)
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Description Reports that the process is serving and which secondary backend was selected at startup.
// @Tags        Meta
// @Produce     json
// @Success     200  {object}  handlers.HealthResponse
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, HealthResponse{Status: statusOK, Secondary: h.svc.ReplicaBackend()})
}

// Submit godoc
// @ID          submit
// @Summary     Record a contact-form submission
// @Description Appends the submission to the JSON backup file, then copies it to the
// @Description secondary store in the background. Accepts a JSON object or form fields.
// @Tags        Submissions
// @Accept      json,x-www-form-urlencoded,mpfd
// @Produce     json
//
// @Param       body  body  handlers.SubmitRequest  true  "Submission"
//
// @Success     200  {object}  handlers.SubmitResponse
// @Failure     400  {object}  handlers.SubmitError     "Unparseable body"
// @Failure     500  {object}  handlers.ErrorResponse   "Backup write failed"
// @Router      /api/submit [post]
func (h *Handlers) Submit(c *gin.Context) {
	sub, err := bindSubmission(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, SubmitError{Status: statusError, Message: msgInvalidJSON})
		return
	}

	if _, err := h.svc.Submit(c.Request.Context(), sub); err != nil {
		if errors.Is(err, services.ErrBackupWrite) {
			_ = c.Error(err)
			fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, msgSaveFailed)
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		return
	}
	ok(c, http.StatusOK, SubmitResponse{Status: statusOK, Saved: true})
}

// ListSubmissions godoc
// @ID          listSubmissions
// @Summary     Dump stored submissions
// @Description Returns the backup file contents in insertion order and, when a secondary
// @Description backend is available, its rows newest first under "db".
// @Tags        Submissions
// @Produce     json
// @Success     200  {object}  handlers.SubmissionsResponse
// @Router      /api/submissions [get]
func (h *Handlers) ListSubmissions(c *gin.Context) {
	l := h.svc.List(c.Request.Context())
	body := gin.H{"backup": l.Backup}
	if l.HasDB {
		body["db"] = l.DB
	}
	ok(c, http.StatusOK, body)
}
