package zdp

// Patch is a flat set of property updates produced by decode converters and
// returned optimistically by encode converters. Merging is last write wins
// per key.
type Patch map[string]any

// Merge folds o into p, o taking precedence on key collision.
func (p Patch) Merge(o Patch) Patch {
	for k, v := range o {
		p[k] = v
	}

	return p
}

// State is the last known value for each property of a device, as
// accumulated from merged patches.
type State map[string]any

func (s State) Value(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

func (s State) String(key string) (string, bool) {
	if v, ok := s[key]; ok {
		sv, ok := v.(string)
		return sv, ok
	}

	return "", false
}

func (s State) Bool(key string) (bool, bool) {
	if v, ok := s[key]; ok {
		bv, ok := v.(bool)
		return bv, ok
	}

	return false, false
}

func (s State) copy() State {
	n := make(State, len(s))
	for k, v := range s {
		n[k] = v
	}

	return n
}

// Settings are free form user options attached to a device, namespaced by
// the profile rules that produced them.
type Settings map[string]any

func (s Settings) String(k string) (string, bool) {
	if val, found := s[k]; found {
		v, ok := val.(string)
		return v, ok
	}

	return "", false
}

func (s Settings) Boolean(k string) (bool, bool) {
	if val, found := s[k]; found {
		v, ok := val.(bool)
		return v, ok
	}

	return false, false
}

func (s Settings) Int(k string) (int, bool) {
	if val, found := s[k]; found {
		v, ok := val.(int)
		return v, ok
	}

	return 0, false
}

func (s Settings) Float(k string) (float64, bool) {
	if val, found := s[k]; found {
		v, ok := val.(float64)
		return v, ok
	}

	return 0.0, false
}
