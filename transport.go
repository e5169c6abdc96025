package zdp

import (
	"context"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zigbee"
	"time"
)

// Transport is the collaborator that actually exchanges frames with the
// Zigbee network. It serialises access per device and owns all retry policy
// for steady state operations; converters call it and observe plain
// rejections.
type Transport interface {
	WriteAttributes(ctx context.Context, t Target, c zigbee.ClusterID, m zigbee.ManufacturerCode, attributes map[zcl.AttributeID]zcl.AttributeDataTypeValue) error
	ReadAttributes(ctx context.Context, t Target, c zigbee.ClusterID, m zigbee.ManufacturerCode, attributes []zcl.AttributeID) error
	SendCommand(ctx context.Context, t Target, c zigbee.ClusterID, m zigbee.ManufacturerCode, commandID uint8, payload any) error
	Bind(ctx context.Context, t Target, c zigbee.ClusterID) error
	ConfigureReporting(ctx context.Context, t Target, c zigbee.ClusterID, a zcl.AttributeID, dt zcl.AttributeDataType, minimum time.Duration, maximum time.Duration, reportableChange any) error
}
