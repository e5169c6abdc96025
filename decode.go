package zdp

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/zigbee"
	"sync"
)

const lastSequenceKey = "LastSequence"

// DecodeContext carries the per invocation collaborators a decode converter
// may use. Section is private to the (device, endpoint, converter) triple,
// keeping converter state keyed per endpoint so devices cannot interfere
// with each other.
type DecodeContext struct {
	State     State
	Settings  Settings
	Section   persistence.Section
	Effects   *EffectRunner
	Transport Transport
}

type DecodeFunc func(context.Context, Message, DecodeContext) (Patch, error)

// DecodeConverter translates inbound messages on one cluster into a state
// patch. Provides lists the property names the converter can emit, used by
// the profile composer to check every property has an exposed descriptor.
type DecodeConverter struct {
	Name     string
	Cluster  zigbee.ClusterID
	Kinds    []MessageKind
	Provides []string

	// DedupeBySequence suppresses re-invocation for a redelivered message
	// carrying the same transaction sequence for the same endpoint.
	DedupeBySequence bool

	Decode DecodeFunc
}

func (c DecodeConverter) matches(m Message) bool {
	if c.Cluster != m.Cluster {
		return false
	}

	for _, k := range c.Kinds {
		if k == m.Kind {
			return true
		}
	}

	return false
}

type pipelineDevice struct {
	converters []DecodeConverter
	settings   Settings
	state      State
}

// Pipeline owns inbound message dispatch. Each message is offered to every
// attached converter whose cluster and kind match, in registration order,
// and the resulting patches are merged with later converters overriding
// earlier ones.
type Pipeline struct {
	transport Transport
	section   persistence.Section
	logger    logwrap.Logger
	effects   *EffectRunner

	m       sync.RWMutex
	devices map[string]*pipelineDevice
}

func NewPipeline(t Transport, s persistence.Section) *Pipeline {
	p := &Pipeline{
		transport: t,
		section:   s,
		logger:    logwrap.New(discard.Discard()),
		devices:   map[string]*pipelineDevice{},
	}

	p.effects = NewEffectRunner(p.logger)

	return p
}

// AttachDevice registers the decode converters and settings for a device,
// replacing any previous registration. Called initially after composition
// and again whenever the composer signals a capability change.
func (p *Pipeline) AttachDevice(id string, converters []DecodeConverter, settings Settings) {
	p.m.Lock()
	defer p.m.Unlock()

	state := State{}
	if existing, ok := p.devices[id]; ok {
		state = existing.state
	}

	p.devices[id] = &pipelineDevice{
		converters: converters,
		settings:   settings,
		state:      state,
	}
}

func (p *Pipeline) DetachDevice(id string) {
	p.m.Lock()
	defer p.m.Unlock()

	delete(p.devices, id)
}

// StateFor returns a copy of the accumulated state for a device.
func (p *Pipeline) StateFor(id string) State {
	p.m.RLock()
	defer p.m.RUnlock()

	if d, ok := p.devices[id]; ok {
		return d.state.copy()
	}

	return State{}
}

func (p *Pipeline) Effects() *EffectRunner {
	return p.effects
}

// Process dispatches one inbound message and returns the merged patch, which
// may be empty if no converter produced anything. Converter failures are
// logged and do not affect other converters or subsequent messages.
func (p *Pipeline) Process(ctx context.Context, m Message) (Patch, error) {
	if m.Device == nil {
		return nil, fmt.Errorf("message has no device reference")
	}

	id := m.Device.Identifier().String()

	p.m.RLock()
	d, ok := p.devices[id]
	p.m.RUnlock()

	if !ok {
		p.logger.LogDebug(ctx, "Message for unattached device.", logwrap.Datum("Identifier", id), logwrap.Datum("Cluster", m.Cluster))
		return nil, nil
	}

	merged := Patch{}

	for _, c := range d.converters {
		if !c.matches(m) {
			continue
		}

		if c.DedupeBySequence && p.alreadyProcessed(id, m.Endpoint, c.Name, m.Sequence) {
			p.logger.LogDebug(ctx, "Suppressed redelivered message.", logwrap.Datum("Identifier", id), logwrap.Datum("Converter", c.Name), logwrap.Datum("Sequence", m.Sequence))
			continue
		}

		dctx := DecodeContext{
			State:     p.StateFor(id),
			Settings:  d.settings,
			Section:   p.converterSection(id, m.Endpoint, c.Name),
			Effects:   p.effects,
			Transport: p.transport,
		}

		patch, err := c.Decode(ctx, m, dctx)
		if err != nil {
			p.logger.LogWarn(ctx, "Decode converter failed.", logwrap.Datum("Identifier", id), logwrap.Datum("Converter", c.Name), logwrap.Err(err))
			continue
		}

		merged.Merge(patch)
	}

	if len(merged) > 0 {
		p.m.Lock()
		for k, v := range merged {
			d.state[k] = v
		}
		p.m.Unlock()
	}

	return merged, nil
}

// alreadyProcessed records the sequence as a side effect, so the first caller
// for a given sequence proceeds and all repeats are suppressed.
func (p *Pipeline) alreadyProcessed(id string, e zigbee.Endpoint, converter string, sequence uint8) bool {
	s := p.converterSection(id, e, converter)

	if v, ok := s.Int(lastSequenceKey); ok && uint8(v) == sequence {
		return true
	}

	s.Set(lastSequenceKey, int(sequence))

	return false
}

func (p *Pipeline) converterSection(id string, e zigbee.Endpoint, converter string) persistence.Section {
	return p.section.Section("Device", id, "Endpoint", fmt.Sprintf("%d", e), "Converter", converter)
}
