package configure

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/da"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/shimmeringbee/retry"
	"github.com/shimmeringbee/zdp"
	"golang.org/x/sync/semaphore"
	"log"
	"sync"
	"time"
)

const DefaultNetworkTimeout = 3000 * time.Millisecond
const DefaultNetworkRetries = 5

// Sequencer runs a device's one shot configuration sequence after the
// profile composer has produced it and before steady state operation.
// Steps are awaited strictly in order, and sequences for the same device are
// serialised; the shared radio must never see unordered concurrency against
// one device.
type Sequencer struct {
	transport zdp.Transport
	logger    logwrap.Logger

	m    sync.Mutex
	sems map[string]*semaphore.Weighted
}

func NewSequencer(t zdp.Transport) *Sequencer {
	return &Sequencer{
		transport: t,
		logger:    logwrap.New(discard.Discard()),
		sems:      map[string]*semaphore.Weighted{},
	}
}

func (s *Sequencer) WithGoLogger(parentLogger *log.Logger) {
	s.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (s *Sequencer) WithLogWrapLogger(lw logwrap.Logger) {
	s.logger = lw
}

// Configure executes steps against d in order. A mandatory step that fails
// aborts the sequence, leaving later steps unexecuted, and the device should
// be surfaced as unconfigured. Best effort failures are logged and skipped.
func (s *Sequencer) Configure(pctx context.Context, d da.Device, steps []Step) error {
	sem := s.semaphoreFor(d.Identifier().String())

	if err := sem.Acquire(pctx, 1); err != nil {
		return fmt.Errorf("configuration: acquiring device: %w", err)
	}
	defer sem.Release(1)

	ctx, end := s.logger.Segment(pctx, "Device configuration.", logwrap.Datum("Identifier", d.Identifier().String()))
	defer end()

	for i, step := range steps {
		target := zdp.Target{Device: d, Endpoint: step.Endpoint}

		err := retry.Retry(ctx, DefaultNetworkTimeout, DefaultNetworkRetries, func(rctx context.Context) error {
			return step.Operation.apply(rctx, s.transport, target)
		})

		if err != nil {
			if step.BestEffort {
				s.logger.LogWarn(ctx, "Best effort configuration step failed, continuing.", logwrap.Datum("Step", step.Name), logwrap.Datum("Operation", step.Operation.describe()), logwrap.Err(err))
				continue
			}

			s.logger.LogError(ctx, "Mandatory configuration step failed, aborting.", logwrap.Datum("Step", step.Name), logwrap.Datum("Operation", step.Operation.describe()), logwrap.Err(err))
			return fmt.Errorf("configuration step %d (%s): %w", i+1, step.Name, err)
		}

		s.logger.LogDebug(ctx, "Configuration step complete.", logwrap.Datum("Step", step.Name))
	}

	return nil
}

func (s *Sequencer) semaphoreFor(id string) *semaphore.Weighted {
	s.m.Lock()
	defer s.m.Unlock()

	sem, ok := s.sems[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.sems[id] = sem
	}

	return sem
}
