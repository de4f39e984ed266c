package service

import (
	"context"
	"testing"

	"marketplace-backend/internal/model"
	"marketplace-backend/internal/notification"
	"marketplace-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrderRepo struct {
	repository.OrderRepository
	order model.Order
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o := r.order
	return &o, nil
}

func (r *stubOrderRepo) Update(ctx context.Context, order *model.Order) error {
	r.order = *order
	return nil
}

type recordingEmail struct {
	notification.EmailService
	recipients []string
}

func (e *recordingEmail) SendOrderStatusEmail(to, name, orderNo, status string) error {
	e.recipients = append(e.recipients, to)
	return nil
}

func TestUpdateOrderStatusEmailsCustomerAndProvider(t *testing.T) {
	order := model.Order{
		ID:            uuid.New(),
		OrderNo:       "ORD-1001",
		Status:        model.OrderOutForDelivery,
		PaymentMethod: model.PaymentOnline,
		PaymentStatus: model.PaymentPaid,
		Customer:      &model.Profile{FullName: "Aya", Email: "aya@example.com"},
		Provider:      &model.Provider{NameEn: "Corner Grocer", Email: "shop@example.com"},
	}
	orderRepo := &stubOrderRepo{order: order}
	email := &recordingEmail{}

	svc := NewAdminService(nil, nil, orderRepo, nil, &memTxManager{}, noopAudit{}, email)

	resp, err := svc.UpdateOrderStatus(context.Background(), order.ID.String(), UpdateOrderStatusRequest{
		Status: model.OrderDelivered,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, resp.Status)
	assert.ElementsMatch(t, []string{"aya@example.com", "shop@example.com"}, email.recipients)
}
