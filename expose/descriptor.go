package expose

// Access is a bitmask of the directions a property supports.
type Access uint8

const (
	Read Access = 1 << iota
	Write
)

const ReadWrite = Read | Write

func (a Access) Readable() bool {
	return a&Read != 0
}

func (a Access) Writable() bool {
	return a&Write != 0
}

type Kind int

const (
	Binary Kind = iota
	Numeric
	Enum
	Text
	Composite
)

type Category int

const (
	// State properties reflect the device's live condition.
	State Category = iota
	// Config properties alter device behaviour and usually persist on the
	// device itself.
	Config
	// Diagnostic properties are informational only.
	Diagnostic
)

// Descriptor describes one exposed property for the UI and publication
// collaborators. Common marks a descriptor that conditional extends are
// allowed to share; any other name collision during composition is an error.
type Descriptor struct {
	Name     string
	Access   Access
	Kind     Kind
	Category Category
	Common   bool

	Unit    string
	Minimum *float64
	Maximum *float64
	Values  []string

	Children []Descriptor
}

func NewBinary(name string, access Access) Descriptor {
	return Descriptor{Name: name, Access: access, Kind: Binary}
}

func NewNumeric(name string, access Access) Descriptor {
	return Descriptor{Name: name, Access: access, Kind: Numeric}
}

func NewEnum(name string, access Access, values ...string) Descriptor {
	return Descriptor{Name: name, Access: access, Kind: Enum, Values: values}
}

func NewText(name string, access Access) Descriptor {
	return Descriptor{Name: name, Access: access, Kind: Text}
}

func NewComposite(name string, children ...Descriptor) Descriptor {
	return Descriptor{Name: name, Access: Read, Kind: Composite, Children: children}
}

func (d Descriptor) WithUnit(unit string) Descriptor {
	d.Unit = unit
	return d
}

func (d Descriptor) WithRange(minimum float64, maximum float64) Descriptor {
	d.Minimum = &minimum
	d.Maximum = &maximum
	return d
}

func (d Descriptor) WithCategory(c Category) Descriptor {
	d.Category = c
	return d
}

func (d Descriptor) AsCommon() Descriptor {
	d.Common = true
	return d
}
