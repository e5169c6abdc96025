package cluster

import (
	"fmt"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zigbee"
)

// Attribute describes one attribute of a cluster. Manufacturer is
// zigbee.NoManufacturer for standard attributes.
type Attribute struct {
	ID           zcl.AttributeID
	DataType     zcl.AttributeDataType
	Manufacturer zigbee.ManufacturerCode
}

// Parameter describes one field of a command payload, in wire order.
type Parameter struct {
	Name     string
	DataType zcl.AttributeDataType
}

type Command struct {
	ID         uint8
	Parameters []Parameter
}

// Definition is a named cluster with its attribute and command tables,
// either a standard ZCL cluster or a vendor private one.
type Definition struct {
	Name         string
	ID           zigbee.ClusterID
	Manufacturer zigbee.ManufacturerCode

	Attributes map[string]Attribute
	Commands   map[string]Command
}

// Validate checks the intra cluster invariants: attribute and command IDs
// unique within the cluster.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("cluster 0x%04x: name required", uint16(d.ID))
	}

	attributesSeen := map[zcl.AttributeID]string{}
	for name, a := range d.Attributes {
		if other, present := attributesSeen[a.ID]; present {
			return fmt.Errorf("cluster %s: attribute id 0x%04x used by both %s and %s", d.Name, uint16(a.ID), other, name)
		}

		attributesSeen[a.ID] = name
	}

	commandsSeen := map[uint8]string{}
	for name, c := range d.Commands {
		if other, present := commandsSeen[c.ID]; present {
			return fmt.Errorf("cluster %s: command id 0x%02x used by both %s and %s", d.Name, c.ID, other, name)
		}

		commandsSeen[c.ID] = name
	}

	return nil
}

// Attribute returns the attribute with the given symbolic name.
func (d Definition) Attribute(name string) (Attribute, bool) {
	a, ok := d.Attributes[name]
	return a, ok
}

// AttributeName performs the reverse lookup, wire attribute ID to symbolic
// name.
func (d Definition) AttributeName(id zcl.AttributeID) (string, bool) {
	for name, a := range d.Attributes {
		if a.ID == id {
			return name, true
		}
	}

	return "", false
}

func (d Definition) Command(name string) (Command, bool) {
	c, ok := d.Commands[name]
	return c, ok
}
