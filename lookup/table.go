package lookup

import (
	"fmt"
	"sort"
)

// Unrecognised is the symbol returned when a wire code has no entry in the
// table. Future firmware may introduce undocumented codes and these must
// degrade rather than crash the decode pipeline.
const Unrecognised = "unrecognised"

// Table is a static bidirectional mapping between the symbolic value of an
// enumeration property and its wire code.
type Table[C comparable] struct {
	forward map[string]C
	reverse map[C]string
}

func New[C comparable](m map[string]C) (Table[C], error) {
	t := Table[C]{
		forward: make(map[string]C, len(m)),
		reverse: make(map[C]string, len(m)),
	}

	for symbol, code := range m {
		if existing, present := t.reverse[code]; present {
			return Table[C]{}, fmt.Errorf("lookup table: code %v mapped by both %s and %s", code, existing, symbol)
		}

		t.forward[symbol] = code
		t.reverse[code] = symbol
	}

	return t, nil
}

// Must is for package level table declarations, where a duplicate code is a
// programming error.
func Must[C comparable](m map[string]C) Table[C] {
	t, err := New(m)
	if err != nil {
		panic(err)
	}

	return t
}

// Code returns the wire code for a symbol.
func (t Table[C]) Code(symbol string) (C, bool) {
	c, ok := t.forward[symbol]
	return c, ok
}

// Symbol returns the symbol for a wire code.
func (t Table[C]) Symbol(code C) (string, bool) {
	s, ok := t.reverse[code]
	return s, ok
}

// SymbolOr returns the symbol for a wire code, or fallback when the code is
// not in the table.
func (t Table[C]) SymbolOr(code C, fallback string) string {
	if s, ok := t.reverse[code]; ok {
		return s
	}

	return fallback
}

// Symbols returns every symbol in the table, sorted, for error messages and
// expose descriptors.
func (t Table[C]) Symbols() []string {
	var symbols []string
	for s := range t.forward {
		symbols = append(symbols, s)
	}

	sort.Strings(symbols)
	return symbols
}
