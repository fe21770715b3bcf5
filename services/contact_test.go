package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ppsg-cms/models"
	"ppsg-cms/utils"
)

func TestSubmitStoresAndNotifies(t *testing.T) {
	store := newMemStore[models.Contact]()
	mailer := &fakeMailer{}
	svc := NewContactService(store, mailer, nil)

	var sub models.ContactSubmission
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": " Dana ",
		"email": "dana@example.com",
		"message": "Need a quote",
		"product_name": "Pool Filter X1",
		"selected_sizes": "[{\"name\":\"Large\",\"price\":\"129.5\"},{\"name\":\"\"}]"
	}`), &sub))

	receipt, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.True(t, receipt.EmailSent)
	assert.Equal(t, "Thank you for your message! We will get back to you soon.", receipt.Message)

	require.Len(t, store.docs, 1)
	stored := store.docs[0]
	assert.Equal(t, "Dana", stored.Name)
	assert.Equal(t, models.ContactNew, stored.Status)
	require.Len(t, stored.SelectedSizes, 1)
	assert.Equal(t, 129.5, *stored.SelectedSizes[0].Price)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Product Inquiry: Pool Filter X1 from Dana", mailer.sent[0].Subject())
}

func TestSubmitSurvivesMailFailure(t *testing.T) {
	store := newMemStore[models.Contact]()
	svc := NewContactService(store, &fakeMailer{err: utils.ErrExternalService}, nil)

	receipt, err := svc.Submit(context.Background(), models.ContactSubmission{
		Name: "Dana", Email: "dana@example.com", Message: "Hi",
	})
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
	assert.Equal(t, "Your message has been received. We will get back to you soon.", receipt.Message)
	assert.Len(t, store.docs, 1)
}

func TestSubmitWithoutMailer(t *testing.T) {
	svc := NewContactService(newMemStore[models.Contact](), nil, nil)

	receipt, err := svc.Submit(context.Background(), models.ContactSubmission{
		Name: "Dana", Email: "dana@example.com", Message: "Hi",
	})
	require.NoError(t, err)
	assert.False(t, receipt.EmailSent)
}

func TestSubmitValidation(t *testing.T) {
	store := newMemStore[models.Contact]()
	svc := NewContactService(store, &fakeMailer{}, nil)
	ctx := context.Background()

	cases := []models.ContactSubmission{
		{Email: "dana@example.com", Message: "Hi"},
		{Name: "Dana", Message: "Hi"},
		{Name: "Dana", Email: "dana@example.com", Message: "   "},
		{Name: "Dana", Email: "not an email", Message: "Hi"},
		{Name: "Dana", Email: "dana@example.com", Message: "Hi", ProductID: "xyz"},
	}
	for _, sub := range cases {
		_, err := svc.Submit(ctx, sub)
		assert.ErrorIs(t, err, utils.ErrValidation, "%+v", sub)
	}
	assert.Empty(t, store.docs)
}

func TestContactStatusLifecycle(t *testing.T) {
	store := newMemStore[models.Contact]()
	svc := NewContactService(store, nil, nil)
	ctx := context.Background()

	receipt, err := svc.Submit(ctx, models.ContactSubmission{Name: "Dana", Email: "dana@example.com", Message: "Hi"})
	require.NoError(t, err)
	id := receipt.ID.Hex()

	require.NoError(t, svc.UpdateStatus(ctx, id, models.ContactReplied))
	c, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ContactReplied, c.Status)

	assert.ErrorIs(t, svc.UpdateStatus(ctx, id, "spam"), utils.ErrValidation)
	assert.ErrorIs(t, svc.UpdateStatus(ctx, primitive.NewObjectID().Hex(), models.ContactRead), utils.ErrNotFound)

	page, err := svc.List(ctx, "replied", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, ContactPageSize, page.PageSize)

	_, err = svc.List(ctx, "spam", 1)
	assert.ErrorIs(t, err, utils.ErrValidation)

	require.NoError(t, svc.Delete(ctx, id))
	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestContactsXLSX(t *testing.T) {
	price := 99.0
	buf, err := WriteContactsXLSX([]models.Contact{{
		Name:          "Dana",
		Email:         "dana@example.com",
		ProductName:   "Heater",
		SelectedSizes: []models.SelectedSize{{Name: "Small", Price: &price}, {Name: "Large"}},
		Status:        models.ContactNew,
		Message:       "Hi",
	}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Contacts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, contactHeaders, rows[0])
	assert.Equal(t, "Dana", rows[1][1])
	assert.Equal(t, "Small ($99.00), Large", rows[1][6])
	assert.Equal(t, "new", rows[1][7])
}

func TestContactsExportFiltersStatus(t *testing.T) {
	store := newMemStore[models.Contact]()
	contacts := NewContactService(store, nil, nil)
	ctx := context.Background()

	_, err := contacts.Submit(ctx, models.ContactSubmission{Name: "A", Email: "a@example.com", Message: "Hi"})
	require.NoError(t, err)
	r, err := contacts.Submit(ctx, models.ContactSubmission{Name: "B", Email: "b@example.com", Message: "Hi"})
	require.NoError(t, err)
	require.NoError(t, contacts.UpdateStatus(ctx, r.ID.Hex(), models.ContactArchived))

	buf, err := NewExportService(contacts).ContactsXLSX(ctx, "archived")
	require.NoError(t, err)
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Contacts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "B", rows[1][1])

	_, err = NewExportService(contacts).ContactsXLSX(ctx, "bogus")
	assert.True(t, errors.Is(err, utils.ErrValidation))
}

func TestSubmitRejectsMultilineHeaderFields(t *testing.T) {
	store := newMemStore[models.Contact]()
	mailer := &fakeMailer{}
	svc := NewContactService(store, mailer, nil)

	for _, sub := range []models.ContactSubmission{
		{Name: "Eve\r\nX-Injected: yes", Email: "eve@example.com", Message: "Hi"},
		{Name: "Eve", Email: "eve@example.com", Message: "Hi", ProductName: "Filter\nBcc: all@example.com"},
	} {
		_, err := svc.Submit(context.Background(), sub)
		assert.ErrorIs(t, err, utils.ErrValidation)
	}
	assert.Empty(t, store.docs)
	assert.Empty(t, mailer.sent)
}
