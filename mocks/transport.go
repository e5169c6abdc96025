package mocks

import (
	"context"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/mock"
	"time"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) WriteAttributes(ctx context.Context, t zdp.Target, c zigbee.ClusterID, mc zigbee.ManufacturerCode, attributes map[zcl.AttributeID]zcl.AttributeDataTypeValue) error {
	return m.Called(ctx, t, c, mc, attributes).Error(0)
}

func (m *MockTransport) ReadAttributes(ctx context.Context, t zdp.Target, c zigbee.ClusterID, mc zigbee.ManufacturerCode, attributes []zcl.AttributeID) error {
	return m.Called(ctx, t, c, mc, attributes).Error(0)
}

func (m *MockTransport) SendCommand(ctx context.Context, t zdp.Target, c zigbee.ClusterID, mc zigbee.ManufacturerCode, commandID uint8, payload any) error {
	return m.Called(ctx, t, c, mc, commandID, payload).Error(0)
}

func (m *MockTransport) Bind(ctx context.Context, t zdp.Target, c zigbee.ClusterID) error {
	return m.Called(ctx, t, c).Error(0)
}

func (m *MockTransport) ConfigureReporting(ctx context.Context, t zdp.Target, c zigbee.ClusterID, a zcl.AttributeID, dt zcl.AttributeDataType, minimum time.Duration, maximum time.Duration, reportableChange any) error {
	return m.Called(ctx, t, c, a, dt, minimum, maximum, reportableChange).Error(0)
}

var _ zdp.Transport = (*MockTransport)(nil)
