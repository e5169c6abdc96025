// Package devices contains the Arden device profiles. Each file composes one
// model family from extends; the conversion framework itself lives in the
// parent packages.
package devices

import (
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zdp/profile"
	"github.com/shimmeringbee/zigbee"
)

const ArdenManufacturerCode = zigbee.ManufacturerCode(0x1284)

// Index returns every profile definition this package provides.
func Index() []profile.Definition {
	return []profile.Definition{
		Siren(),
		SceneButton(),
		MultiPurposeModule(),
		AirQualitySensor(),
	}
}

// ByModel returns the definition covering a reported model identifier.
func ByModel(model string) (profile.Definition, bool) {
	for _, d := range Index() {
		if d.MatchesModel(model) {
			return d, true
		}
	}

	return profile.Definition{}, false
}

// uintValue widens any integer shaped attribute value the ZCL layer may
// hand us. Reports false for non integer payloads.
func uintValue(v zcl.AttributeDataTypeValue) (uint64, bool) {
	switch value := v.Value.(type) {
	case uint8:
		return uint64(value), true
	case uint16:
		return uint64(value), true
	case uint32:
		return uint64(value), true
	case uint64:
		return value, true
	case int:
		if value < 0 {
			return 0, false
		}
		return uint64(value), true
	case int64:
		if value < 0 {
			return 0, false
		}
		return uint64(value), true
	default:
		return 0, false
	}
}

func intValue(v zcl.AttributeDataTypeValue) (int64, bool) {
	switch value := v.Value.(type) {
	case int:
		return int64(value), true
	case int8:
		return int64(value), true
	case int16:
		return int64(value), true
	case int32:
		return int64(value), true
	case int64:
		return value, true
	case uint8:
		return int64(value), true
	case uint16:
		return int64(value), true
	case uint32:
		return int64(value), true
	case uint64:
		return int64(value), true
	default:
		return 0, false
	}
}
