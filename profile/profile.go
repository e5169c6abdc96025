package profile

import (
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zdp/cluster"
	"github.com/shimmeringbee/zdp/configure"
	"github.com/shimmeringbee/zdp/expose"
)

// Extend is a reusable bundle of device behaviour: the properties it
// exposes, the converters serving them, any vendor private clusters they
// rely on, and the extend's contribution to the one shot configuration
// sequence.
//
// Condition, when not empty, is an expression over the device's observed
// state; the extend is only part of the composed profile while it evaluates
// true. Example: `device_mode == "shutter"`.
type Extend struct {
	Name      string
	Condition string

	Exposes   []expose.Descriptor
	Decode    []zdp.DecodeConverter
	Encode    []zdp.EncodeConverter
	Clusters  []cluster.Definition
	Configure []configure.Step
}

// Definition describes one device model family: the model identifiers it
// reports and the extends its profile is composed from.
type Definition struct {
	Vendor      string
	Models      []string
	Description string

	Extends []Extend
}

// MatchesModel reports whether the definition covers the model identifier a
// device reported during interview.
func (d Definition) MatchesModel(model string) bool {
	for _, m := range d.Models {
		if m == model {
			return true
		}
	}

	return false
}

// Snapshot is the composed profile at a point in time, built from the
// currently active extends.
type Snapshot struct {
	Exposes   []expose.Descriptor
	Decode    []zdp.DecodeConverter
	Encode    *zdp.EncodeRegistry
	Clusters  *cluster.Registry
	Configure []configure.Step
}

// Exposed reports whether the snapshot exposes a property by name.
func (s Snapshot) Exposed(name string) bool {
	for _, e := range s.Exposes {
		if e.Name == name {
			return true
		}
	}

	return false
}
