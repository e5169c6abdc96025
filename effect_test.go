package zdp

import (
	"context"
	"errors"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"sync/atomic"
	"testing"
)

func TestEffectRunner(t *testing.T) {
	t.Run("runs effects without the caller waiting on them", func(t *testing.T) {
		e := NewEffectRunner(logwrap.New(discard.Discard()))

		var ran atomic.Bool
		release := make(chan struct{})

		e.Run("Test", func(_ context.Context) error {
			<-release
			ran.Store(true)
			return nil
		})

		// Run has returned while the effect is still blocked.
		assert.False(t, ran.Load())

		close(release)
		e.Wait()

		assert.True(t, ran.Load())
	})

	t.Run("swallows effect failures", func(t *testing.T) {
		e := NewEffectRunner(logwrap.New(discard.Discard()))

		e.Run("Failing", func(_ context.Context) error {
			return errors.New("device rejected acknowledgement")
		})

		e.Wait()
	})

	t.Run("swallows effect panics", func(t *testing.T) {
		e := NewEffectRunner(logwrap.New(discard.Discard()))

		e.Run("Panicking", func(_ context.Context) error {
			panic("boom")
		})

		e.Wait()
	})
}
