package devices

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zdp/cluster"
	"github.com/shimmeringbee/zdp/configure"
	"github.com/shimmeringbee/zdp/expose"
	"github.com/shimmeringbee/zdp/lookup"
	"github.com/shimmeringbee/zdp/profile"
	"github.com/shimmeringbee/zigbee"
	"time"
)

const moduleConfigClusterID = 0xfc82
const windowCoveringClusterID = zigbee.ClusterID(0x0102)

const (
	deviceModeAttribute  zcl.AttributeID = 0x0000
	onOffAttribute       zcl.AttributeID = 0x0000
	liftPercentAttribute zcl.AttributeID = 0x0008
)

const (
	onOffOffCommand        uint8 = 0x00
	onOffOnCommand         uint8 = 0x01
	goToLiftPercentCommand uint8 = 0x05
)

var deviceModes = lookup.Must(map[string]uint8{
	"light":   0x00,
	"shutter": 0x01,
})

var moduleConfigCluster = cluster.Definition{
	Name:         "ArdenModuleConfig",
	ID:           moduleConfigClusterID,
	Manufacturer: ArdenManufacturerCode,
	Attributes: map[string]cluster.Attribute{
		"DeviceMode": {ID: deviceModeAttribute, DataType: zcl.TypeEnum8, Manufacturer: ArdenManufacturerCode},
	},
}

type liftPercent struct {
	Percentage uint8
}

// MultiPurposeModule is the ARD-MIO-01 in-wall module. A mode attribute read
// at interview decides whether it drives a light or a shutter; flipping the
// mode at runtime recomposes the profile without re-pairing.
func MultiPurposeModule() profile.Definition {
	return profile.Definition{
		Vendor:      "Arden",
		Models:      []string{"ARD-MIO-01"},
		Description: "Multi purpose in-wall module",
		Extends: []profile.Extend{
			{
				Name: "ModuleMode",
				Exposes: []expose.Descriptor{
					expose.NewEnum("device_mode", expose.ReadWrite, deviceModes.Symbols()...).WithCategory(expose.Config),
				},
				Decode: []zdp.DecodeConverter{
					{
						Name:     "DeviceMode",
						Cluster:  moduleConfigClusterID,
						Kinds:    []zdp.MessageKind{zdp.AttributeReport, zdp.ReadResponse},
						Provides: []string{"device_mode"},
						Decode:   decodeDeviceMode,
					},
				},
				Encode: []zdp.EncodeConverter{
					{
						Name: "DeviceMode",
						Keys: []string{"device_mode"},
						Set:  setDeviceMode,
						Get:  getDeviceMode,
					},
				},
				Clusters: []cluster.Definition{moduleConfigCluster},
				Configure: []configure.Step{
					{
						Name:      "BindModuleConfig",
						Endpoint:  1,
						Operation: configure.Bind{Cluster: moduleConfigClusterID},
					},
					{
						// The mode decides the rest of the profile; devices
						// occasionally reject this read directly after
						// joining, a report follows regardless.
						Name:       "InitialModeRead",
						Endpoint:   1,
						BestEffort: true,
						Operation: configure.Read{
							Cluster:      moduleConfigClusterID,
							Manufacturer: ArdenManufacturerCode,
							Attributes:   []zcl.AttributeID{deviceModeAttribute},
						},
					},
				},
			},
			{
				Name:      "ModuleLight",
				Condition: `device_mode == "light"`,
				Exposes: []expose.Descriptor{
					expose.NewBinary("state", expose.ReadWrite),
					expose.NewBinary("overload", expose.Read).WithCategory(expose.Diagnostic).AsCommon(),
				},
				Decode: []zdp.DecodeConverter{
					{
						Name:     "LightState",
						Cluster:  zcl.OnOffId,
						Kinds:    []zdp.MessageKind{zdp.AttributeReport, zdp.ReadResponse},
						Provides: []string{"state"},
						Decode:   decodeLightState,
					},
				},
				Encode: []zdp.EncodeConverter{
					{
						Name: "LightState",
						Keys: []string{"state"},
						Set:  setLightState,
						Get:  getLightState,
					},
				},
				Configure: []configure.Step{
					{
						Name:      "BindOnOff",
						Endpoint:  1,
						Operation: configure.Bind{Cluster: zcl.OnOffId},
					},
					{
						Name:     "OnOffReporting",
						Endpoint: 1,
						Operation: configure.Reporting{
							Cluster:          zcl.OnOffId,
							Attribute:        onOffAttribute,
							DataType:         zcl.TypeBoolean,
							Minimum:          0,
							Maximum:          5 * time.Minute,
							ReportableChange: nil,
						},
					},
				},
			},
			{
				Name:      "ModuleCover",
				Condition: `device_mode == "shutter"`,
				Exposes: []expose.Descriptor{
					expose.NewNumeric("position", expose.ReadWrite).WithUnit("%").WithRange(0, 100),
					expose.NewBinary("overload", expose.Read).WithCategory(expose.Diagnostic).AsCommon(),
				},
				Decode: []zdp.DecodeConverter{
					{
						Name:     "CoverPosition",
						Cluster:  windowCoveringClusterID,
						Kinds:    []zdp.MessageKind{zdp.AttributeReport, zdp.ReadResponse},
						Provides: []string{"position"},
						Decode:   decodeCoverPosition,
					},
				},
				Encode: []zdp.EncodeConverter{
					{
						Name: "CoverPosition",
						Keys: []string{"position"},
						Set:  setCoverPosition,
						Get:  getCoverPosition,
					},
				},
				Configure: []configure.Step{
					{
						Name:      "BindWindowCovering",
						Endpoint:  1,
						Operation: configure.Bind{Cluster: windowCoveringClusterID},
					},
					{
						Name:     "LiftReporting",
						Endpoint: 1,
						Operation: configure.Reporting{
							Cluster:          windowCoveringClusterID,
							Attribute:        liftPercentAttribute,
							DataType:         zcl.TypeUnsignedInt8,
							Minimum:          1 * time.Second,
							Maximum:          5 * time.Minute,
							ReportableChange: uint(1),
						},
					},
				},
			},
		},
	}
}

func decodeDeviceMode(_ context.Context, m zdp.Message, _ zdp.DecodeContext) (zdp.Patch, error) {
	v, ok := m.Attributes[deviceModeAttribute]
	if !ok {
		return nil, nil
	}

	code, ok := uintValue(v)
	if !ok {
		return nil, nil
	}

	return zdp.Patch{"device_mode": deviceModes.SymbolOr(uint8(code), lookup.Unrecognised)}, nil
}

func setDeviceMode(ctx context.Context, t zdp.Target, key string, value any, ec zdp.EncodeContext) (zdp.Patch, error) {
	if key != "device_mode" {
		return nil, fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	symbol, ok := value.(string)
	if !ok {
		return nil, zdp.InvalidValueError{Property: key, Value: value, Allowed: deviceModes.Symbols()}
	}

	code, ok := deviceModes.Code(symbol)
	if !ok {
		return nil, zdp.InvalidValueError{Property: key, Value: value, Allowed: deviceModes.Symbols()}
	}

	err := ec.Transport.WriteAttributes(ctx, t, moduleConfigClusterID, ArdenManufacturerCode, map[zcl.AttributeID]zcl.AttributeDataTypeValue{
		deviceModeAttribute: {DataType: zcl.TypeEnum8, Value: code},
	})
	if err != nil {
		return nil, err
	}

	return zdp.Patch{"device_mode": symbol}, nil
}

func getDeviceMode(ctx context.Context, t zdp.Target, key string, ec zdp.EncodeContext) error {
	if key != "device_mode" {
		return fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	return ec.Transport.ReadAttributes(ctx, t, moduleConfigClusterID, ArdenManufacturerCode, []zcl.AttributeID{deviceModeAttribute})
}

func decodeLightState(_ context.Context, m zdp.Message, _ zdp.DecodeContext) (zdp.Patch, error) {
	v, ok := m.Attributes[onOffAttribute]
	if !ok {
		return nil, nil
	}

	if b, ok := v.Value.(bool); ok {
		return zdp.Patch{"state": b}, nil
	}

	return nil, nil
}

func setLightState(ctx context.Context, t zdp.Target, key string, value any, ec zdp.EncodeContext) (zdp.Patch, error) {
	if key != "state" {
		return nil, fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	on, ok := value.(bool)
	if !ok {
		return nil, zdp.InvalidValueError{Property: key, Value: value, Allowed: []string{"true", "false"}}
	}

	command := onOffOffCommand
	if on {
		command = onOffOnCommand
	}

	if err := ec.Transport.SendCommand(ctx, t, zcl.OnOffId, zigbee.NoManufacturer, command, nil); err != nil {
		return nil, err
	}

	return zdp.Patch{"state": on}, nil
}

func getLightState(ctx context.Context, t zdp.Target, key string, ec zdp.EncodeContext) error {
	if key != "state" {
		return fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	return ec.Transport.ReadAttributes(ctx, t, zcl.OnOffId, zigbee.NoManufacturer, []zcl.AttributeID{onOffAttribute})
}

func decodeCoverPosition(_ context.Context, m zdp.Message, _ zdp.DecodeContext) (zdp.Patch, error) {
	v, ok := m.Attributes[liftPercentAttribute]
	if !ok {
		return nil, nil
	}

	code, ok := uintValue(v)
	if !ok || code > 100 {
		return nil, nil
	}

	return zdp.Patch{"position": int(code)}, nil
}

func setCoverPosition(ctx context.Context, t zdp.Target, key string, value any, ec zdp.EncodeContext) (zdp.Patch, error) {
	if key != "position" {
		return nil, fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	position, ok := numericValue(value)
	if !ok || position < 0 || position > 100 {
		return nil, zdp.InvalidValueError{Property: key, Value: value, Allowed: []string{"0..100"}}
	}

	err := ec.Transport.SendCommand(ctx, t, windowCoveringClusterID, zigbee.NoManufacturer, goToLiftPercentCommand, &liftPercent{Percentage: uint8(position)})
	if err != nil {
		return nil, err
	}

	return zdp.Patch{"position": int(position)}, nil
}

func getCoverPosition(ctx context.Context, t zdp.Target, key string, ec zdp.EncodeContext) error {
	if key != "position" {
		return fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	return ec.Transport.ReadAttributes(ctx, t, windowCoveringClusterID, zigbee.NoManufacturer, []zcl.AttributeID{liftPercentAttribute})
}

func numericValue(v any) (float64, bool) {
	switch value := v.(type) {
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case float64:
		return value, true
	default:
		return 0, false
	}
}
