package controller

import (
	"context"

	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"realty_gateway/internal/gateway"
	"realty_gateway/internal/model"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchActiveProperties(ctx context.Context) []model.Property {
	return m.Called(ctx).Get(0).([]model.Property)
}

func (m *mockGateway) FetchAllProperties(ctx context.Context) []model.Property {
	return m.Called(ctx).Get(0).([]model.Property)
}

func (m *mockGateway) FetchPropertyByID(ctx context.Context, id string) *model.Property {
	p, _ := m.Called(ctx, id).Get(0).(*model.Property)
	return p
}

func (m *mockGateway) AddProperty(ctx context.Context, data model.NewPropertyData) gateway.Outcome {
	return m.Called(ctx, data).Get(0).(gateway.Outcome)
}

func (m *mockGateway) UpdateProperty(ctx context.Context, id string, data model.PropertyUpdate) gateway.Outcome {
	return m.Called(ctx, id, data).Get(0).(gateway.Outcome)
}

func (m *mockGateway) DeleteProperty(ctx context.Context, id string) gateway.Outcome {
	return m.Called(ctx, id).Get(0).(gateway.Outcome)
}

func (m *mockGateway) TrackPropertyView(ctx context.Context, id, userAgent string) gateway.Outcome {
	return m.Called(ctx, id, userAgent).Get(0).(gateway.Outcome)
}

func (m *mockGateway) SubmitEnquiry(ctx context.Context, e model.EnquiryData) gateway.Outcome {
	return m.Called(ctx, e).Get(0).(gateway.Outcome)
}

func (m *mockGateway) FetchEnquiries(ctx context.Context) []datatypes.JSONMap {
	return m.Called(ctx).Get(0).([]datatypes.JSONMap)
}

func (m *mockGateway) SubscribeToNewsletter(ctx context.Context, email string, name *string) gateway.Outcome {
	return m.Called(ctx, email, name).Get(0).(gateway.Outcome)
}

func (m *mockGateway) FetchNewsletterSubscriptions(ctx context.Context) []datatypes.JSONMap {
	return m.Called(ctx).Get(0).([]datatypes.JSONMap)
}

func (m *mockGateway) UploadImage(ctx context.Context, file gateway.ImageFile, folder string) (string, bool) {
	args := m.Called(ctx, file, folder)
	return args.String(0), args.Bool(1)
}
