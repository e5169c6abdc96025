package cluster

import (
	"fmt"
	"github.com/shimmeringbee/zigbee"
	"sort"
	"sync"
)

// Registry holds the cluster definitions known to one device profile.
// Cluster names and IDs are unique within a registry.
type Registry struct {
	m      sync.RWMutex
	byName map[string]Definition
	byID   map[zigbee.ClusterID]string
}

func NewRegistry() *Registry {
	return &Registry{
		byName: map[string]Definition{},
		byID:   map[zigbee.ClusterID]string{},
	}
}

func (r *Registry) Register(d Definition) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.m.Lock()
	defer r.m.Unlock()

	if _, present := r.byName[d.Name]; present {
		return fmt.Errorf("cluster name already registered: %s", d.Name)
	}

	if other, present := r.byID[d.ID]; present {
		return fmt.Errorf("cluster id 0x%04x already registered as %s", uint16(d.ID), other)
	}

	r.byName[d.Name] = d
	r.byID[d.ID] = d.Name

	return nil
}

func (r *Registry) Get(name string) (Definition, bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	d, ok := r.byName[name]
	return d, ok
}

func (r *Registry) ByID(id zigbee.ClusterID) (Definition, bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	if name, ok := r.byID[id]; ok {
		return r.byName[name], true
	}

	return Definition{}, false
}

// Names returns all registered cluster names, sorted.
func (r *Registry) Names() []string {
	r.m.RLock()
	defer r.m.RUnlock()

	var names []string
	for n := range r.byName {
		names = append(names, n)
	}

	sort.Strings(names)
	return names
}
