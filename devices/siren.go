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
	"time"
)

const sirenClusterID = 0xfc80

const (
	sirenVolumeAttribute zcl.AttributeID = 0x0000
	sirenStateAttribute  zcl.AttributeID = 0x0001
)

const sirenCalibrateCommand uint8 = 0x01

var sirenVolumes = lookup.Must(map[string]uint8{
	"low":    0x01,
	"medium": 0x02,
	"high":   0x03,
})

var sirenStates = lookup.Must(map[string]uint8{
	"ready":   0x00,
	"warning": 0x01,
	"alarm":   0x02,
	"fault":   0x03,
})

var sirenCluster = cluster.Definition{
	Name:         "ArdenSiren",
	ID:           sirenClusterID,
	Manufacturer: ArdenManufacturerCode,
	Attributes: map[string]cluster.Attribute{
		"Volume":     {ID: sirenVolumeAttribute, DataType: zcl.TypeEnum8, Manufacturer: ArdenManufacturerCode},
		"SirenState": {ID: sirenStateAttribute, DataType: zcl.TypeEnum8, Manufacturer: ArdenManufacturerCode},
	},
	Commands: map[string]cluster.Command{
		"Calibrate": {ID: sirenCalibrateCommand},
	},
}

// Siren is the ARD-SRN-01 outdoor siren. Volume is a three level enumeration
// held in a vendor private cluster; calibration may only be triggered while
// the siren reports itself ready.
func Siren() profile.Definition {
	return profile.Definition{
		Vendor:      "Arden",
		Models:      []string{"ARD-SRN-01"},
		Description: "Outdoor siren",
		Extends: []profile.Extend{
			{
				Name: "Siren",
				Exposes: []expose.Descriptor{
					expose.NewEnum("siren_volume", expose.ReadWrite, sirenVolumes.Symbols()...).WithCategory(expose.Config),
					expose.NewEnum("siren_state", expose.Read, sirenStates.Symbols()...),
					expose.NewBinary("calibrate", expose.Write).WithCategory(expose.Config),
				},
				Decode: []zdp.DecodeConverter{
					{
						Name:     "SirenAttributes",
						Cluster:  sirenClusterID,
						Kinds:    []zdp.MessageKind{zdp.AttributeReport, zdp.ReadResponse},
						Provides: []string{"siren_volume", "siren_state"},
						Decode:   decodeSirenAttributes,
					},
				},
				Encode: []zdp.EncodeConverter{
					{
						Name: "SirenVolume",
						Keys: []string{"siren_volume"},
						Set:  setSirenVolume,
						Get:  getSirenVolume,
					},
					{
						Name: "SirenCalibrate",
						Keys: []string{"calibrate"},
						Set:  setSirenCalibrate,
					},
				},
				Clusters: []cluster.Definition{sirenCluster},
				Configure: []configure.Step{
					{
						Name:      "BindSiren",
						Endpoint:  1,
						Operation: configure.Bind{Cluster: sirenClusterID},
					},
					{
						Name:      "SirenStateReporting",
						Endpoint:  1,
						Operation: configure.Reporting{
							Cluster:          sirenClusterID,
							Attribute:        sirenStateAttribute,
							DataType:         zcl.TypeEnum8,
							Minimum:          1 * time.Minute,
							Maximum:          30 * time.Minute,
							ReportableChange: uint(0),
						},
					},
					{
						// Some firmware rejects reads until pairing settles.
						Name:       "InitialVolumeRead",
						Endpoint:   1,
						BestEffort: true,
						Operation: configure.Read{
							Cluster:      sirenClusterID,
							Manufacturer: ArdenManufacturerCode,
							Attributes:   []zcl.AttributeID{sirenVolumeAttribute},
						},
					},
				},
			},
		},
	}
}

func decodeSirenAttributes(_ context.Context, m zdp.Message, _ zdp.DecodeContext) (zdp.Patch, error) {
	patch := zdp.Patch{}

	if v, ok := m.Attributes[sirenVolumeAttribute]; ok {
		if code, ok := uintValue(v); ok {
			patch["siren_volume"] = sirenVolumes.SymbolOr(uint8(code), lookup.Unrecognised)
		}
	}

	if v, ok := m.Attributes[sirenStateAttribute]; ok {
		if code, ok := uintValue(v); ok {
			patch["siren_state"] = sirenStates.SymbolOr(uint8(code), lookup.Unrecognised)
		}
	}

	return patch, nil
}

func setSirenVolume(ctx context.Context, t zdp.Target, key string, value any, ec zdp.EncodeContext) (zdp.Patch, error) {
	if key != "siren_volume" {
		return nil, fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	symbol, ok := value.(string)
	if !ok {
		return nil, zdp.InvalidValueError{Property: key, Value: value, Allowed: sirenVolumes.Symbols()}
	}

	code, ok := sirenVolumes.Code(symbol)
	if !ok {
		return nil, zdp.InvalidValueError{Property: key, Value: value, Allowed: sirenVolumes.Symbols()}
	}

	err := ec.Transport.WriteAttributes(ctx, t, sirenClusterID, ArdenManufacturerCode, map[zcl.AttributeID]zcl.AttributeDataTypeValue{
		sirenVolumeAttribute: {DataType: zcl.TypeEnum8, Value: code},
	})
	if err != nil {
		return nil, err
	}

	return zdp.Patch{"siren_volume": symbol}, nil
}

func getSirenVolume(ctx context.Context, t zdp.Target, key string, ec zdp.EncodeContext) error {
	if key != "siren_volume" {
		return fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	return ec.Transport.ReadAttributes(ctx, t, sirenClusterID, ArdenManufacturerCode, []zcl.AttributeID{sirenVolumeAttribute})
}

func setSirenCalibrate(ctx context.Context, t zdp.Target, key string, _ any, ec zdp.EncodeContext) (zdp.Patch, error) {
	if key != "calibrate" {
		return nil, fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	if state, _ := ec.State.String("siren_state"); state != "ready" {
		return nil, zdp.DeviceNotReadyError{Property: key, Reason: fmt.Sprintf("siren state is %q, calibration requires ready", state)}
	}

	if err := ec.Transport.SendCommand(ctx, t, sirenClusterID, ArdenManufacturerCode, sirenCalibrateCommand, nil); err != nil {
		return nil, err
	}

	return zdp.Patch{}, nil
}
