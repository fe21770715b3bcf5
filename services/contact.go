package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ppsg-cms/internal/logger"
	"ppsg-cms/internal/repository"
	"ppsg-cms/internal/telemetry"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

const ContactPageSize = 20

const (
	receiptEmailed  = "Thank you for your message! We will get back to you soon."
	receiptReceived = "Your message has been received. We will get back to you soon."
)

type ContactStore interface {
	ContentStore[models.Contact]
	SetFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error
}

type ContactService struct {
	store   ContactStore
	mailer  Mailer
	metrics *telemetry.Metrics
}

// NewContactService wires the contact store and an optional mailer. With a
// nil mailer submissions are stored but nobody is notified.
func NewContactService(store ContactStore, mailer Mailer, metrics *telemetry.Metrics) *ContactService {
	return &ContactService{store: store, mailer: mailer, metrics: metrics}
}

// Submit stores a public contact form submission as new, then notifies the
// site owner. A failed notification never fails the submission.
func (s *ContactService) Submit(ctx context.Context, sub models.ContactSubmission) (*models.ContactReceipt, error) {
	c, err := buildContact(sub)
	if err != nil {
		return nil, err
	}
	c.ID = newID()
	c.Status = models.ContactNew
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt

	if err := s.store.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("store contact: %w", err)
	}

	receipt := &models.ContactReceipt{ID: c.ID, Message: receiptReceived}
	if s.mailer == nil {
		return receipt, nil
	}

	err = s.mailer.SendContact(ctx, ContactEmail{
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Message:       c.Message,
		Reason:        c.Reason,
		ProductName:   c.ProductName,
		SelectedSizes: c.SelectedSizes,
	})
	s.metrics.RecordEmail(ctx, err == nil)
	if err != nil {
		logger.Warn("Contact notification email failed",
			slog.String("contact_id", c.ID.Hex()),
			slog.String("error", err.Error()))
		return receipt, nil
	}

	receipt.EmailSent = true
	receipt.Message = receiptEmailed
	return receipt, nil
}

func buildContact(sub models.ContactSubmission) (*models.Contact, error) {
	name := strings.TrimSpace(sub.Name)
	email := strings.TrimSpace(sub.Email)
	message := strings.TrimSpace(sub.Message)
	if name == "" || email == "" || message == "" {
		return nil, utils.Validationf("name, email, and message are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, utils.Validationf("email address %q is not valid", email)
	}
	productName := strings.TrimSpace(sub.ProductName)
	// These end up in mail headers.
	for field, v := range map[string]string{"name": name, "email": email, "product name": productName} {
		if strings.ContainsAny(v, "\r\n") {
			return nil, utils.Validationf("%s must be a single line", field)
		}
	}

	var productID *primitive.ObjectID
	if id := strings.TrimSpace(sub.ProductID); id != "" {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, utils.Validationf("product id %q is not valid", id)
		}
		productID = &oid
	}

	return &models.Contact{
		Name:          name,
		Email:         email,
		Phone:         strings.TrimSpace(sub.Phone),
		Reason:        strings.TrimSpace(sub.Reason),
		Message:       message,
		ProductID:     productID,
		ProductName:   productName,
		SelectedSizes: sub.SelectedSizes,
	}, nil
}

// List returns one page of contacts, newest first. An empty status lists all.
func (s *ContactService) List(ctx context.Context, status string, page int) (models.Page[models.Contact], error) {
	if status != "" && !models.ContactStatus(status).Valid() {
		return models.Page[models.Contact]{}, utils.Validationf("unknown contact status %q", status)
	}
	page = pageNumber(page)
	items, total, err := s.store.List(ctx, repository.Query{Status: status}, models.Skip(page, ContactPageSize), ContactPageSize)
	if err != nil {
		return models.Page[models.Contact]{}, fmt.Errorf("list contacts: %w", err)
	}
	return models.NewPage(items, page, ContactPageSize, total), nil
}

// All returns every contact with the given status, newest first.
func (s *ContactService) All(ctx context.Context, status string) ([]models.Contact, error) {
	if status != "" && !models.ContactStatus(status).Valid() {
		return nil, utils.Validationf("unknown contact status %q", status)
	}
	items, _, err := s.store.List(ctx, repository.Query{Status: status}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return orEmpty(items), nil
}

func (s *ContactService) Recent(ctx context.Context, limit int) ([]models.Contact, error) {
	items, _, err := s.store.List(ctx, repository.Query{}, 0, int64(limit))
	return orEmpty(items), err
}

func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	oid, err := ParseID("contact", id)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Get(ctx, oid)
	return c, storeErr("contact", id, err)
}

func (s *ContactService) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error {
	if !status.Valid() {
		return utils.Validationf("unknown contact status %q", status)
	}
	oid, err := ParseID("contact", id)
	if err != nil {
		return err
	}
	err = s.store.SetFields(ctx, oid, map[string]interface{}{
		"status":     status,
		"updated_at": now(),
	})
	return storeErr("contact", id, err)
}

func (s *ContactService) Delete(ctx context.Context, id string) error {
	oid, err := ParseID("contact", id)
	if err != nil {
		return err
	}
	return storeErr("contact", id, s.store.Delete(ctx, oid))
}

func (s *ContactService) Count(ctx context.Context, status models.ContactStatus) (int64, error) {
	return s.store.Count(ctx, repository.Query{Status: string(status)})
}
