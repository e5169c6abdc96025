package cluster

import (
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDefinition(t *testing.T) {
	t.Run("validates successfully with unique attribute and command ids", func(t *testing.T) {
		d := Definition{
			Name: "Siren",
			ID:   0xfc80,
			Attributes: map[string]Attribute{
				"Volume": {ID: 0x0000, DataType: zcl.TypeEnum8},
				"State":  {ID: 0x0001, DataType: zcl.TypeEnum8},
			},
			Commands: map[string]Command{
				"Calibrate": {ID: 0x01},
			},
		}

		assert.NoError(t, d.Validate())
	})

	t.Run("rejects duplicate attribute ids within a cluster", func(t *testing.T) {
		d := Definition{
			Name: "Siren",
			ID:   0xfc80,
			Attributes: map[string]Attribute{
				"Volume": {ID: 0x0000},
				"State":  {ID: 0x0000},
			},
		}

		assert.Error(t, d.Validate())
	})

	t.Run("rejects duplicate command ids within a cluster", func(t *testing.T) {
		d := Definition{
			Name: "Siren",
			ID:   0xfc80,
			Commands: map[string]Command{
				"Calibrate": {ID: 0x01},
				"Reset":     {ID: 0x01},
			},
		}

		assert.Error(t, d.Validate())
	})

	t.Run("rejects a nameless cluster", func(t *testing.T) {
		assert.Error(t, Definition{ID: 0xfc80}.Validate())
	})

	t.Run("looks up attributes in both directions", func(t *testing.T) {
		d := Definition{
			Name: "Siren",
			ID:   0xfc80,
			Attributes: map[string]Attribute{
				"Volume": {ID: 0x0002, DataType: zcl.TypeEnum8},
			},
		}

		a, ok := d.Attribute("Volume")
		assert.True(t, ok)
		assert.Equal(t, zcl.AttributeID(0x0002), a.ID)

		name, ok := d.AttributeName(0x0002)
		assert.True(t, ok)
		assert.Equal(t, "Volume", name)

		_, ok = d.AttributeName(0x7fff)
		assert.False(t, ok)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("registers and retrieves by name and id", func(t *testing.T) {
		r := NewRegistry()

		assert.NoError(t, r.Register(Definition{Name: "Siren", ID: 0xfc80}))

		d, ok := r.Get("Siren")
		assert.True(t, ok)
		assert.Equal(t, zigbee.ClusterID(0xfc80), d.ID)

		d, ok = r.ByID(0xfc80)
		assert.True(t, ok)
		assert.Equal(t, "Siren", d.Name)
	})

	t.Run("rejects duplicate names and duplicate ids", func(t *testing.T) {
		r := NewRegistry()

		assert.NoError(t, r.Register(Definition{Name: "Siren", ID: 0xfc80}))
		assert.Error(t, r.Register(Definition{Name: "Siren", ID: 0xfc81}))
		assert.Error(t, r.Register(Definition{Name: "Scene", ID: 0xfc80}))
	})

	t.Run("names are sorted", func(t *testing.T) {
		r := NewRegistry()

		assert.NoError(t, r.Register(Definition{Name: "Scene", ID: 0xfc81}))
		assert.NoError(t, r.Register(Definition{Name: "AirQuality", ID: 0xfc83}))

		assert.Equal(t, []string{"AirQuality", "Scene"}, r.Names())
	})
}
