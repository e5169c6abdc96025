package configure

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zigbee"
	"time"
)

// Operation is one wire exchange within a configuration step. The set of
// implementations is closed so every dispatch site is exhaustive.
type Operation interface {
	apply(ctx context.Context, t zdp.Transport, target zdp.Target) error
	describe() string
}

type Bind struct {
	Cluster zigbee.ClusterID
}

func (o Bind) apply(ctx context.Context, t zdp.Transport, target zdp.Target) error {
	return t.Bind(ctx, target, o.Cluster)
}

func (o Bind) describe() string {
	return fmt.Sprintf("bind cluster 0x%04x", uint16(o.Cluster))
}

type Read struct {
	Cluster      zigbee.ClusterID
	Manufacturer zigbee.ManufacturerCode
	Attributes   []zcl.AttributeID
}

func (o Read) apply(ctx context.Context, t zdp.Transport, target zdp.Target) error {
	return t.ReadAttributes(ctx, target, o.Cluster, o.Manufacturer, o.Attributes)
}

func (o Read) describe() string {
	return fmt.Sprintf("read %d attributes from cluster 0x%04x", len(o.Attributes), uint16(o.Cluster))
}

type Write struct {
	Cluster      zigbee.ClusterID
	Manufacturer zigbee.ManufacturerCode
	Attributes   map[zcl.AttributeID]zcl.AttributeDataTypeValue
}

func (o Write) apply(ctx context.Context, t zdp.Transport, target zdp.Target) error {
	return t.WriteAttributes(ctx, target, o.Cluster, o.Manufacturer, o.Attributes)
}

func (o Write) describe() string {
	return fmt.Sprintf("write %d attributes to cluster 0x%04x", len(o.Attributes), uint16(o.Cluster))
}

type Command struct {
	Cluster      zigbee.ClusterID
	Manufacturer zigbee.ManufacturerCode
	ID           uint8
	Payload      any
}

func (o Command) apply(ctx context.Context, t zdp.Transport, target zdp.Target) error {
	return t.SendCommand(ctx, target, o.Cluster, o.Manufacturer, o.ID, o.Payload)
}

func (o Command) describe() string {
	return fmt.Sprintf("command 0x%02x on cluster 0x%04x", o.ID, uint16(o.Cluster))
}

type Reporting struct {
	Cluster          zigbee.ClusterID
	Attribute        zcl.AttributeID
	DataType         zcl.AttributeDataType
	Minimum          time.Duration
	Maximum          time.Duration
	ReportableChange any
}

func (o Reporting) apply(ctx context.Context, t zdp.Transport, target zdp.Target) error {
	return t.ConfigureReporting(ctx, target, o.Cluster, o.Attribute, o.DataType, o.Minimum, o.Maximum, o.ReportableChange)
}

func (o Reporting) describe() string {
	return fmt.Sprintf("configure reporting for attribute 0x%04x on cluster 0x%04x", uint16(o.Attribute), uint16(o.Cluster))
}

// Step is one entry in a device's one shot configuration sequence.
// BestEffort steps may fail without aborting the remainder, used for
// exchanges some devices reject until pairing has fully settled.
type Step struct {
	Name       string
	Endpoint   zigbee.Endpoint
	BestEffort bool
	Operation  Operation
}
