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

const airQualityClusterID = 0xfc83

const (
	airTemperatureAttribute zcl.AttributeID = 0x0000
	airHumidityAttribute    zcl.AttributeID = 0x0001
	airVOCLevelAttribute    zcl.AttributeID = 0x0002
	airAQIAttribute         zcl.AttributeID = 0x0003
)

var vocLevels = lookup.Must(map[string]uint8{
	"excellent": 0x00,
	"good":      0x01,
	"moderate":  0x02,
	"poor":      0x03,
})

var airQualityCluster = cluster.Definition{
	Name:         "ArdenAirQuality",
	ID:           airQualityClusterID,
	Manufacturer: ArdenManufacturerCode,
	Attributes: map[string]cluster.Attribute{
		"Temperature": {ID: airTemperatureAttribute, DataType: zcl.TypeSignedInt16, Manufacturer: ArdenManufacturerCode},
		"Humidity":    {ID: airHumidityAttribute, DataType: zcl.TypeUnsignedInt16, Manufacturer: ArdenManufacturerCode},
		"VOCLevel":    {ID: airVOCLevelAttribute, DataType: zcl.TypeEnum8, Manufacturer: ArdenManufacturerCode},
		"AQI":         {ID: airAQIAttribute, DataType: zcl.TypeUnsignedInt16, Manufacturer: ArdenManufacturerCode},
	},
}

// AirQualitySensor is the ARD-AQS-01 indoor air quality sensor. Temperature
// and humidity are fixed point x100 on the wire; the air quality band is
// derived from the AQI by range, never by indexing a table with a wire
// provided value.
func AirQualitySensor() profile.Definition {
	return profile.Definition{
		Vendor:      "Arden",
		Models:      []string{"ARD-AQS-01"},
		Description: "Indoor air quality sensor",
		Extends: []profile.Extend{
			{
				Name: "AirQuality",
				Exposes: []expose.Descriptor{
					expose.NewNumeric("temperature", expose.Read).WithUnit("°C").WithRange(-40, 85),
					expose.NewNumeric("humidity", expose.Read).WithUnit("%").WithRange(0, 100),
					expose.NewEnum("voc_quality", expose.Read, vocLevels.Symbols()...),
					expose.NewNumeric("aqi", expose.Read).WithRange(0, 500),
					expose.NewEnum("air_quality", expose.Read, "good", "moderate", "unhealthy", "hazardous"),
				},
				Decode: []zdp.DecodeConverter{
					{
						Name:     "AirQualityAttributes",
						Cluster:  airQualityClusterID,
						Kinds:    []zdp.MessageKind{zdp.AttributeReport, zdp.ReadResponse},
						Provides: []string{"temperature", "humidity", "voc_quality", "aqi", "air_quality"},
						Decode:   decodeAirQuality,
					},
				},
				Encode: []zdp.EncodeConverter{
					{
						Name: "AirQualityRefresh",
						Keys: []string{"temperature", "humidity", "aqi"},
						Get:  getAirQuality,
					},
				},
				Clusters: []cluster.Definition{airQualityCluster},
				Configure: []configure.Step{
					{
						Name:      "BindAirQuality",
						Endpoint:  1,
						Operation: configure.Bind{Cluster: airQualityClusterID},
					},
					{
						Name:     "TemperatureReporting",
						Endpoint: 1,
						Operation: configure.Reporting{
							Cluster:          airQualityClusterID,
							Attribute:        airTemperatureAttribute,
							DataType:         zcl.TypeSignedInt16,
							Minimum:          1 * time.Minute,
							Maximum:          5 * time.Minute,
							ReportableChange: uint(10),
						},
					},
					{
						Name:     "AQIReporting",
						Endpoint: 1,
						Operation: configure.Reporting{
							Cluster:          airQualityClusterID,
							Attribute:        airAQIAttribute,
							DataType:         zcl.TypeUnsignedInt16,
							Minimum:          1 * time.Minute,
							Maximum:          15 * time.Minute,
							ReportableChange: uint(5),
						},
					},
				},
			},
		},
	}
}

func decodeAirQuality(_ context.Context, m zdp.Message, _ zdp.DecodeContext) (zdp.Patch, error) {
	patch := zdp.Patch{}

	if v, ok := m.Attributes[airTemperatureAttribute]; ok {
		if raw, ok := intValue(v); ok {
			patch["temperature"] = float64(raw) / 100.0
		}
	}

	if v, ok := m.Attributes[airHumidityAttribute]; ok {
		if raw, ok := uintValue(v); ok && raw <= 10000 {
			patch["humidity"] = float64(raw) / 100.0
		}
	}

	if v, ok := m.Attributes[airVOCLevelAttribute]; ok {
		if code, ok := uintValue(v); ok {
			patch["voc_quality"] = vocLevels.SymbolOr(uint8(code), lookup.Unrecognised)
		}
	}

	if v, ok := m.Attributes[airAQIAttribute]; ok {
		if aqi, ok := uintValue(v); ok {
			patch["aqi"] = int(aqi)
			patch["air_quality"] = aqiBand(aqi)
		}
	}

	return patch, nil
}

func aqiBand(aqi uint64) string {
	switch {
	case aqi <= 50:
		return "good"
	case aqi <= 100:
		return "moderate"
	case aqi <= 300:
		return "unhealthy"
	default:
		return "hazardous"
	}
}

func getAirQuality(ctx context.Context, t zdp.Target, key string, ec zdp.EncodeContext) error {
	var attribute zcl.AttributeID

	switch key {
	case "temperature":
		attribute = airTemperatureAttribute
	case "humidity":
		attribute = airHumidityAttribute
	case "aqi":
		attribute = airAQIAttribute
	default:
		return fmt.Errorf("%w: %s", zdp.PropertyNotHandledError, key)
	}

	return ec.Transport.ReadAttributes(ctx, t, airQualityClusterID, ArdenManufacturerCode, []zcl.AttributeID{attribute})
}
