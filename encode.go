package zdp

import (
	"context"
	"fmt"
	"sort"
)

// EncodeContext carries the collaborators an encode converter may use. State
// is the last known device state, letting converters refuse operations the
// hardware's current condition forbids.
type EncodeContext struct {
	State     State
	Settings  Settings
	Transport Transport
}

// SetFunc validates and transforms value into its wire representation,
// issues the write or command, and returns an optimistic patch for the
// accepted value. It must not issue any wire operation for a value outside
// the property's domain.
type SetFunc func(ctx context.Context, t Target, key string, value any, ec EncodeContext) (Patch, error)

// GetFunc issues the read for a property. The resulting state arrives
// asynchronously via the decode path, so nothing is returned.
type GetFunc func(ctx context.Context, t Target, key string, ec EncodeContext) error

// EncodeConverter translates set and get requests for one or more property
// keys into outbound ZCL operations. A converter invoked with a key outside
// Keys must return PropertyNotHandledError rather than silently dropping the
// request.
type EncodeConverter struct {
	Name string
	Keys []string
	Set  SetFunc
	Get  GetFunc
}

func (c EncodeConverter) handles(key string) bool {
	for _, k := range c.Keys {
		if k == key {
			return true
		}
	}

	return false
}

// EncodeRegistry routes property set and get requests to the converter
// owning the key. Each key has exactly one owner.
type EncodeRegistry struct {
	converters []EncodeConverter
	byKey      map[string]int
}

func NewEncodeRegistry() *EncodeRegistry {
	return &EncodeRegistry{
		byKey: map[string]int{},
	}
}

func (r *EncodeRegistry) Add(c EncodeConverter) error {
	for _, k := range c.Keys {
		if _, present := r.byKey[k]; present {
			return fmt.Errorf("encode converter %s: property already registered: %s", c.Name, k)
		}
	}

	r.converters = append(r.converters, c)

	for _, k := range c.Keys {
		r.byKey[k] = len(r.converters) - 1
	}

	return nil
}

// Keys returns all registered property keys, sorted.
func (r *EncodeRegistry) Keys() []string {
	var keys []string
	for k := range r.byKey {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

func (r *EncodeRegistry) Set(ctx context.Context, t Target, key string, value any, ec EncodeContext) (Patch, error) {
	c, err := r.lookup(key)
	if err != nil {
		return nil, err
	}

	if c.Set == nil {
		return nil, fmt.Errorf("%w: %s is read only", OperationNotSupportedError, key)
	}

	return c.Set(ctx, t, key, value, ec)
}

func (r *EncodeRegistry) Get(ctx context.Context, t Target, key string, ec EncodeContext) error {
	c, err := r.lookup(key)
	if err != nil {
		return err
	}

	if c.Get == nil {
		return fmt.Errorf("%w: %s is not readable", OperationNotSupportedError, key)
	}

	return c.Get(ctx, t, key, ec)
}

func (r *EncodeRegistry) lookup(key string) (EncodeConverter, error) {
	i, ok := r.byKey[key]
	if !ok {
		return EncodeConverter{}, fmt.Errorf("%w: %s", NoConverterForPropertyError, key)
	}

	return r.converters[i], nil
}
