package profile

import (
	"fmt"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zigbee"
	"gopkg.in/yaml.v3"
	"io"
)

// Filter selects the devices a rule applies to. Nil fields match anything.
type Filter struct {
	ManufacturerCode *zigbee.ManufacturerCode `yaml:"manufacturerCode"`
	ManufacturerName *string                  `yaml:"manufacturerName"`
	ProductName      *string                  `yaml:"productName"`
	DeviceId         *uint16                  `yaml:"deviceId"`
}

func (f Filter) matches(m MatchData) bool {
	if f.ManufacturerCode != nil && *f.ManufacturerCode != m.ManufacturerCode {
		return false
	}

	if f.ManufacturerName != nil && *f.ManufacturerName != m.ManufacturerName {
		return false
	}

	if f.ProductName != nil && *f.ProductName != m.ProductName {
		return false
	}

	if f.DeviceId != nil && *f.DeviceId != m.DeviceId {
		return false
	}

	return true
}

// MatchData is the identifying information a device reported at interview.
type MatchData struct {
	ManufacturerCode zigbee.ManufacturerCode
	ManufacturerName string
	ProductName      string
	DeviceId         uint16
}

// Rule is a node in the per model settings tree. Settings are namespaced and
// inherited from parent rules, so a vendor wide default can be narrowed for
// one product.
type Rule struct {
	parent      *Rule
	Description string                  `yaml:"description"`
	Filter      Filter                  `yaml:"filter"`
	Children    []*Rule                 `yaml:"children"`
	Settings    map[string]zdp.Settings `yaml:"settings"`
}

// LoadRules reads a rule tree from YAML.
func LoadRules(r io.Reader) (*Rule, error) {
	rule := &Rule{}

	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(rule); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}

	rule.PopulateParentage()

	return rule, nil
}

func (r *Rule) PopulateParentage() {
	for _, c := range r.Children {
		c.parent = r
		c.PopulateParentage()
	}
}

// Match returns the deepest rule matching m, or nil if this subtree does not
// match at all.
func (r *Rule) Match(m MatchData) *Rule {
	if !r.Filter.matches(m) {
		return nil
	}

	for _, c := range r.Children {
		if mr := c.Match(m); mr != nil {
			return mr
		}
	}

	return r
}

func (r *Rule) StringSetting(ns string, key string, def string) string {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.String(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.StringSetting(ns, key, def)
	}

	return def
}

func (r *Rule) IntSetting(ns string, key string, def int) int {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.Int(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.IntSetting(ns, key, def)
	}

	return def
}

func (r *Rule) FloatSetting(ns string, key string, def float64) float64 {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.Float(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.FloatSetting(ns, key, def)
	}

	return def
}

func (r *Rule) BooleanSetting(ns string, key string, def bool) bool {
	if s, nsOk := r.Settings[ns]; nsOk {
		if v, valOk := s.Boolean(key); valOk {
			return v
		}
	}

	if r.parent != nil {
		return r.parent.BooleanSetting(ns, key, def)
	}

	return def
}

// FlattenSettings collapses the inherited settings for one namespace into a
// single Settings map, nearest rule winning.
func (r *Rule) FlattenSettings(ns string) zdp.Settings {
	flattened := zdp.Settings{}

	for rule := r; rule != nil; rule = rule.parent {
		if s, ok := rule.Settings[ns]; ok {
			for k, v := range s {
				if _, present := flattened[k]; !present {
					flattened[k] = v
				}
			}
		}
	}

	return flattened
}
