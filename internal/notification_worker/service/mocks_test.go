package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/notification"
	"github.com/stretchr/testify/mock"
)

type MockDispatchService struct {
	mock.Mock
}

func (m *MockDispatchService) Dispatch(ctx context.Context, event *notification.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockEmailRenderer struct {
	mock.Mock
}

func (m *MockEmailRenderer) Render(event *notification.Event) (*Email, error) {
	args := m.Called(event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Email), args.Error(1)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

type MockDeliveryRecorder struct {
	mock.Mock
}

func (m *MockDeliveryRecorder) AlreadySent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryRecorder) RecordDelivery(ctx context.Context, event *notification.Event, recipient string, sendErr error) error {
	args := m.Called(ctx, event, recipient, sendErr)
	return args.Error(0)
}
