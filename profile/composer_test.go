package profile

import (
	"context"
	"github.com/shimmeringbee/persistence/impl/memory"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zdp/expose"
	"github.com/stretchr/testify/assert"
	"testing"
)

func modalDefinition() Definition {
	return Definition{
		Vendor: "Arden",
		Models: []string{"ARD-MIO-01"},
		Extends: []Extend{
			{
				Name:    "Mode",
				Exposes: []expose.Descriptor{expose.NewEnum("device_mode", expose.ReadWrite, "light", "shutter").WithCategory(expose.Config)},
			},
			{
				Name:      "Light",
				Condition: `device_mode == "light"`,
				Exposes: []expose.Descriptor{
					expose.NewBinary("state", expose.ReadWrite),
					expose.NewBinary("overload", expose.Read).WithCategory(expose.Diagnostic).AsCommon(),
				},
			},
			{
				Name:      "Cover",
				Condition: `device_mode == "shutter"`,
				Exposes: []expose.Descriptor{
					expose.NewNumeric("position", expose.ReadWrite).WithRange(0, 100),
					expose.NewBinary("overload", expose.Read).WithCategory(expose.Diagnostic).AsCommon(),
				},
			},
		},
	}
}

func TestComposer(t *testing.T) {
	t.Run("extends without a condition are active from the start, conditional ones are not", func(t *testing.T) {
		c, err := New(modalDefinition(), memory.New())
		assert.NoError(t, err)

		s, err := c.Snapshot()
		assert.NoError(t, err)

		assert.True(t, s.Exposed("device_mode"))
		assert.False(t, s.Exposed("state"))
		assert.False(t, s.Exposed("position"))
	})

	t.Run("observing a mode change swaps the exposed properties", func(t *testing.T) {
		c, err := New(modalDefinition(), memory.New())
		assert.NoError(t, err)

		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "shutter"}))

		s, err := c.Snapshot()
		assert.NoError(t, err)

		assert.True(t, s.Exposed("position"))
		assert.True(t, s.Exposed("overload"))
		assert.False(t, s.Exposed("state"))

		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "light"}))

		s, err = c.Snapshot()
		assert.NoError(t, err)

		assert.True(t, s.Exposed("state"))
		assert.False(t, s.Exposed("position"))
	})

	t.Run("subscribers are notified when the active set changes, and only then", func(t *testing.T) {
		c, err := New(modalDefinition(), memory.New())
		assert.NoError(t, err)

		notifications := 0
		c.OnCapabilitiesChanged(func(_ context.Context, cc CapabilitiesChanged) error {
			notifications++
			assert.True(t, cc.Snapshot.Exposed("position"))
			return nil
		})

		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "shutter"}))
		assert.Equal(t, 1, notifications)

		// Same mode again, and an unrelated property, must not re-notify.
		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "shutter"}))
		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"overload": false}))
		assert.Equal(t, 1, notifications)
	})

	t.Run("observed state survives a restart via persistence", func(t *testing.T) {
		s := memory.New()

		c, err := New(modalDefinition(), s)
		assert.NoError(t, err)
		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "shutter"}))

		restarted, err := New(modalDefinition(), s)
		assert.NoError(t, err)
		assert.NoError(t, restarted.Load(context.Background()))

		snapshot, err := restarted.Snapshot()
		assert.NoError(t, err)
		assert.True(t, snapshot.Exposed("position"))
	})

	t.Run("a shared property must be marked common by both extends", func(t *testing.T) {
		d := Definition{
			Extends: []Extend{
				{Name: "A", Exposes: []expose.Descriptor{expose.NewBinary("overload", expose.Read).AsCommon()}},
				{Name: "B", Exposes: []expose.Descriptor{expose.NewBinary("overload", expose.Read)}},
			},
		}

		c, err := New(d, memory.New())
		assert.NoError(t, err)

		_, err = c.Snapshot()
		assert.Error(t, err)
		assert.ErrorContains(t, err, "overload")
	})

	t.Run("a converter serving an unexposed property fails composition", func(t *testing.T) {
		d := Definition{
			Extends: []Extend{
				{
					Name:    "Orphan",
					Exposes: []expose.Descriptor{expose.NewBinary("state", expose.ReadWrite)},
					Encode:  []zdp.EncodeConverter{{Name: "Orphan", Keys: []string{"state", "brightness"}}},
				},
			},
		}

		c, err := New(d, memory.New())
		assert.NoError(t, err)

		_, err = c.Snapshot()
		assert.Error(t, err)
		assert.ErrorContains(t, err, "brightness")
	})

	t.Run("two active extends claiming the same encode key fail composition", func(t *testing.T) {
		d := Definition{
			Extends: []Extend{
				{
					Name:    "A",
					Exposes: []expose.Descriptor{expose.NewBinary("state", expose.ReadWrite).AsCommon()},
					Encode:  []zdp.EncodeConverter{{Name: "A", Keys: []string{"state"}}},
				},
				{
					Name:    "B",
					Exposes: []expose.Descriptor{expose.NewBinary("state", expose.ReadWrite).AsCommon()},
					Encode:  []zdp.EncodeConverter{{Name: "B", Keys: []string{"state"}}},
				},
			},
		}

		c, err := New(d, memory.New())
		assert.NoError(t, err)

		_, err = c.Snapshot()
		assert.Error(t, err)
	})

	t.Run("an invalid condition expression is rejected at construction", func(t *testing.T) {
		d := Definition{
			Extends: []Extend{
				{Name: "Broken", Condition: `device_mode ==`},
			},
		}

		_, err := New(d, memory.New())
		assert.Error(t, err)
	})
}

func TestDefinition_MatchesModel(t *testing.T) {
	t.Run("matches any listed model identifier", func(t *testing.T) {
		d := Definition{Models: []string{"ARD-SRN-01", "ARD-SRN-01-EU"}}

		assert.True(t, d.MatchesModel("ARD-SRN-01-EU"))
		assert.False(t, d.MatchesModel("ARD-BTN-04"))
	})
}
