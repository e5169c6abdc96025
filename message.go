package zdp

import (
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zigbee"
)

type MessageKind int

const (
	// AttributeReport is an unsolicited attribute report from the device.
	AttributeReport MessageKind = iota
	// ReadResponse is the reply to an attribute read issued by this side.
	ReadResponse
	// ClusterCommand is a cluster specific command with a decoded payload.
	ClusterCommand
	// RawCommand is a cluster specific command whose payload has not been
	// parsed, usually because the cluster is vendor private.
	RawCommand
)

func (k MessageKind) String() string {
	switch k {
	case AttributeReport:
		return "AttributeReport"
	case ReadResponse:
		return "ReadResponse"
	case ClusterCommand:
		return "ClusterCommand"
	case RawCommand:
		return "RawCommand"
	default:
		return "Unknown"
	}
}

// Message is an inbound ZCL message after the communicator has matched it to
// a device. Attributes is populated for AttributeReport and ReadResponse,
// CommandID and Payload for ClusterCommand and RawCommand.
type Message struct {
	Device   da.Device
	Endpoint zigbee.Endpoint
	Cluster  zigbee.ClusterID
	Kind     MessageKind
	Sequence uint8

	Attributes map[zcl.AttributeID]zcl.AttributeDataTypeValue
	CommandID  uint8
	Payload    []byte
}

// Target is the addressable entity an outbound operation is aimed at. Group,
// when set, addresses a Zigbee group instead of Device/Endpoint.
type Target struct {
	Device   da.Device
	Endpoint zigbee.Endpoint
	Group    *uint16
}
