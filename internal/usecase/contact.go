package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"truckzone-contact-api/internal/domain"
	"truckzone-contact-api/pkg/apperror"
	"truckzone-contact-api/pkg/email"
	"truckzone-contact-api/pkg/logger"
	"truckzone-contact-api/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ContactConfig is the delivery configuration the usecase needs. It is built
// once at startup and never mutated.
type ContactConfig struct {
	Brand      email.Branding
	FromEmail  string
	InboxEmail string
	// Logo is attached inline to both messages when present
	Logo *email.Attachment
	// VerifyTransport probes the relay before every dispatch
	VerifyTransport bool
}

type contactUsecase struct {
	transport email.Transport
	validate  *validator.Validate
	cfg       ContactConfig
	now       func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(transport email.Transport, validate *validator.Validate, cfg ContactConfig) domain.ContactUsecase {
	return &contactUsecase{
		transport: transport,
		validate:  validate,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SendContactMessage validates the contact request and sends both emails
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	if req == nil {
		req = &domain.ContactRequest{}
	}

	if err := uc.validate.Struct(req); err != nil {
		return apperror.BadRequest(validation.FirstMessage(err))
	}

	if !uc.transport.IsConfigured() {
		return apperror.New(http.StatusInternalServerError, "SMTP not configured", email.ErrNotConfigured)
	}

	internal, customer, err := uc.compose(req)
	if err != nil {
		return err
	}

	session, err := uc.transport.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open mail session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Log.Warn("Failed to close mail session", "error", err)
		}
	}()

	if uc.cfg.VerifyTransport {
		if err := session.Verify(ctx); err != nil {
			return fmt.Errorf("mail relay verification failed: %w", err)
		}
	}

	// 1) Internal notification
	if err := session.Send(ctx, internal); err != nil {
		return fmt.Errorf("failed to send internal lead: %w", err)
	}

	// 2) Auto-reply to customer
	if err := session.Send(ctx, customer); err != nil {
		return fmt.Errorf("failed to send customer auto-reply: %w", err)
	}

	return nil
}

// compose renders both messages before any connection is made
func (uc *contactUsecase) compose(req *domain.ContactRequest) (*email.Message, *email.Message, error) {
	data := email.TemplateData{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.PhoneNumber(),
		Subject:   req.Subject,
		Message:   req.Message,
		Brand:     uc.cfg.Brand,
		Year:      uc.now().Year(),
	}

	leadHTML, err := email.RenderInternalLead(data)
	if err != nil {
		return nil, nil, err
	}
	replyHTML, err := email.RenderCustomerAutoReply(data)
	if err != nil {
		return nil, nil, err
	}

	var attachments []email.Attachment
	if uc.cfg.Logo != nil {
		attachments = []email.Attachment{*uc.cfg.Logo}
	}

	internal := &email.Message{
		From:        mail.Address{Name: uc.cfg.Brand.Name + " Website", Address: uc.cfg.FromEmail},
		To:          []string{uc.cfg.InboxEmail},
		ReplyTo:     req.Email,
		Subject:     fmt.Sprintf("New inquiry: %s — %s %s", req.Subject, req.FirstName, req.LastName),
		HTML:        leadHTML,
		Text:        email.PlainText(leadHTML),
		Attachments: attachments,
	}

	customer := &email.Message{
		From:        mail.Address{Name: uc.cfg.Brand.Name + " Support", Address: uc.cfg.FromEmail},
		To:          []string{req.Email},
		Subject:     fmt.Sprintf("Thanks, %s! We received your request ✅", req.FirstName),
		HTML:        replyHTML,
		Text:        email.PlainText(replyHTML),
		Attachments: attachments,
	}

	return internal, customer, nil
}
