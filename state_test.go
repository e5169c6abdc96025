package zdp

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestPatch(t *testing.T) {
	t.Run("merge is last write wins per key", func(t *testing.T) {
		p := Patch{"a": 1, "b": "x"}
		p.Merge(Patch{"b": "y", "c": true})

		assert.Equal(t, Patch{"a": 1, "b": "y", "c": true}, p)
	})
}

func TestState(t *testing.T) {
	t.Run("typed accessors report presence and type", func(t *testing.T) {
		s := State{"mode": "light", "on": true}

		v, ok := s.String("mode")
		assert.True(t, ok)
		assert.Equal(t, "light", v)

		b, ok := s.Bool("on")
		assert.True(t, ok)
		assert.True(t, b)

		_, ok = s.String("on")
		assert.False(t, ok)

		_, ok = s.Value("missing")
		assert.False(t, ok)
	})
}

func TestSettings(t *testing.T) {
	t.Run("typed accessors behave as rules settings do", func(t *testing.T) {
		s := Settings{"name": "siren", "count": 2, "scale": 0.5, "enabled": true}

		str, ok := s.String("name")
		assert.True(t, ok)
		assert.Equal(t, "siren", str)

		i, ok := s.Int("count")
		assert.True(t, ok)
		assert.Equal(t, 2, i)

		f, ok := s.Float("scale")
		assert.True(t, ok)
		assert.Equal(t, 0.5, f)

		b, ok := s.Boolean("enabled")
		assert.True(t, ok)
		assert.True(t, b)

		_, ok = s.Int("name")
		assert.False(t, ok)
	})
}
