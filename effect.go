package zdp

import (
	"context"
	"github.com/shimmeringbee/logwrap"
	"sync"
	"time"
)

const DefaultEffectTimeout = 5 * time.Second

// EffectRunner executes fire and forget side effects raised inside decode
// converters, e.g. acknowledging a button press. Effects are never awaited
// by the decode path and their failures are logged and swallowed, a
// downstream command failure must never stall or crash message processing.
type EffectRunner struct {
	logger  logwrap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewEffectRunner(l logwrap.Logger) *EffectRunner {
	return &EffectRunner{
		logger:  l,
		timeout: DefaultEffectTimeout,
	}
}

// Run launches f on its own goroutine with a bounded context. The caller
// continues immediately.
func (e *EffectRunner) Run(name string, f func(context.Context) error) {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				e.logger.LogError(ctx, "Side effect panicked.", logwrap.Datum("Effect", name), logwrap.Datum("Panic", r))
			}
		}()

		if err := f(ctx); err != nil {
			e.logger.LogWarn(ctx, "Side effect failed.", logwrap.Datum("Effect", name), logwrap.Err(err))
		}
	}()
}

// Wait blocks until all launched effects have completed. Intended for
// orderly shutdown and tests.
func (e *EffectRunner) Wait() {
	e.wg.Wait()
}
