package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"
	"github.com/shimmeringbee/callbacks"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zdp/cluster"
	"github.com/shimmeringbee/zdp/expose"
	"log"
	"sync"
)

const observedStateKey = "ObservedState"

// CapabilitiesChanged is raised through the composer's callbacks when an
// observed state change alters the set of active extends. Subscribers should
// re-read the snapshot and re-attach converters; no re-pairing is required.
type CapabilitiesChanged struct {
	Snapshot Snapshot
}

// Composer owns the composition of one device's profile. It remembers the
// observed state that conditional extends depend on, explicitly, instead of
// stashing ad hoc fields on a shared device object.
type Composer struct {
	definition Definition
	conditions []*vm.Program
	section    persistence.Section
	callbacks  callbacks.AdderCaller
	logger     logwrap.Logger

	m        sync.RWMutex
	observed map[string]any
	active   []bool
}

// New compiles the definition's conditional expressions and computes the
// initial active set. Extends with no condition are always active.
func New(definition Definition, s persistence.Section) (*Composer, error) {
	c := &Composer{
		definition: definition,
		section:    s,
		callbacks:  callbacks.Create(),
		logger:     logwrap.New(discard.Discard()),
		observed:   map[string]any{},
	}

	for _, e := range definition.Extends {
		if e.Condition == "" {
			c.conditions = append(c.conditions, nil)
			continue
		}

		p, err := expr.Compile(e.Condition, expr.Env(map[string]any{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("extend %s: condition compilation: %w", e.Name, err)
		}

		c.conditions = append(c.conditions, p)
	}

	c.active = c.computeActive()

	return c, nil
}

func (c *Composer) WithGoLogger(parentLogger *log.Logger) {
	c.WithLogWrapLogger(logwrap.New(golog.Wrap(parentLogger)))
}

func (c *Composer) WithLogWrapLogger(lw logwrap.Logger) {
	c.logger = lw
}

// Load restores the remembered observed state from persistence, so
// conditional exposure survives a restart without waiting for the device to
// report again.
func (c *Composer) Load(_ context.Context) error {
	c.m.Lock()
	defer c.m.Unlock()

	if encoded, ok := c.section.String(observedStateKey); ok {
		observed := map[string]any{}
		if err := json.Unmarshal([]byte(encoded), &observed); err != nil {
			return fmt.Errorf("composer: corrupt observed state: %w", err)
		}

		c.observed = observed
	}

	c.active = c.computeActive()

	return nil
}

// OnCapabilitiesChanged subscribes to active set changes.
func (c *Composer) OnCapabilitiesChanged(cb func(context.Context, CapabilitiesChanged) error) {
	c.callbacks.Add(cb)
}

// Observe feeds a decoded state patch into the composer. When the patch
// flips any extend's condition the composed profile is rebuilt and
// subscribers are notified.
func (c *Composer) Observe(ctx context.Context, patch zdp.Patch) error {
	if len(patch) == 0 {
		return nil
	}

	c.m.Lock()

	for k, v := range patch {
		c.observed[k] = v
	}

	if encoded, err := json.Marshal(c.observed); err == nil {
		c.section.Set(observedStateKey, string(encoded))
	}

	newActive := c.computeActive()
	changed := len(newActive) != len(c.active)

	for i := range newActive {
		if !changed && newActive[i] != c.active[i] {
			changed = true
		}
	}

	c.active = newActive
	c.m.Unlock()

	if !changed {
		return nil
	}

	c.logger.LogInfo(ctx, "Observed state changed active extends, recomposing profile.")

	snapshot, err := c.Snapshot()
	if err != nil {
		c.logger.LogError(ctx, "Failed to recompose profile.", logwrap.Err(err))
		return err
	}

	if err := c.callbacks.Call(ctx, CapabilitiesChanged{Snapshot: snapshot}); err != nil {
		c.logger.LogError(ctx, "Capabilities changed callback failed.", logwrap.Err(err))
		return err
	}

	return nil
}

// Snapshot composes the profile from the currently active extends, checking
// the composition invariants: one encode owner per property, unique cluster
// names, and an exposed descriptor for every property a converter serves.
func (c *Composer) Snapshot() (Snapshot, error) {
	c.m.RLock()
	defer c.m.RUnlock()

	s := Snapshot{
		Encode:   zdp.NewEncodeRegistry(),
		Clusters: cluster.NewRegistry(),
	}

	exposed := map[string]expose.Descriptor{}

	for i, e := range c.definition.Extends {
		if !c.active[i] {
			continue
		}

		for _, d := range e.Exposes {
			if existing, present := exposed[d.Name]; present {
				if !existing.Common || !d.Common {
					return Snapshot{}, fmt.Errorf("extend %s: property exposed twice and not marked common: %s", e.Name, d.Name)
				}

				continue
			}

			exposed[d.Name] = d
			s.Exposes = append(s.Exposes, d)
		}

		s.Decode = append(s.Decode, e.Decode...)

		for _, enc := range e.Encode {
			if err := s.Encode.Add(enc); err != nil {
				return Snapshot{}, fmt.Errorf("extend %s: %w", e.Name, err)
			}
		}

		for _, cd := range e.Clusters {
			if _, present := s.Clusters.Get(cd.Name); present {
				continue
			}

			if err := s.Clusters.Register(cd); err != nil {
				return Snapshot{}, fmt.Errorf("extend %s: %w", e.Name, err)
			}
		}

		s.Configure = append(s.Configure, e.Configure...)
	}

	for i, e := range c.definition.Extends {
		if !c.active[i] {
			continue
		}

		for _, dec := range e.Decode {
			for _, name := range dec.Provides {
				if _, present := exposed[name]; !present {
					return Snapshot{}, fmt.Errorf("extend %s: decode converter %s provides unexposed property: %s", e.Name, dec.Name, name)
				}
			}
		}

		for _, enc := range e.Encode {
			for _, name := range enc.Keys {
				if _, present := exposed[name]; !present {
					return Snapshot{}, fmt.Errorf("extend %s: encode converter %s handles unexposed property: %s", e.Name, enc.Name, name)
				}
			}
		}
	}

	return s, nil
}

// ObservedState returns a copy of the remembered state.
func (c *Composer) ObservedState() map[string]any {
	c.m.RLock()
	defer c.m.RUnlock()

	observed := make(map[string]any, len(c.observed))
	for k, v := range c.observed {
		observed[k] = v
	}

	return observed
}

func (c *Composer) computeActive() []bool {
	active := make([]bool, len(c.definition.Extends))

	for i := range c.definition.Extends {
		if c.conditions[i] == nil {
			active[i] = true
			continue
		}

		out, err := expr.Run(c.conditions[i], c.observed)
		if err != nil {
			active[i] = false
			continue
		}

		b, ok := out.(bool)
		active[i] = ok && b
	}

	return active
}
