package zdp

import (
	"errors"
	"fmt"
	"strings"
)

// PropertyNotHandledError is returned when an encode converter is invoked for
// a property key it does not own. This is an integration bug and is always
// surfaced loudly rather than silently dropping the write.
var PropertyNotHandledError = errors.New("property not handled by converter")

// NoConverterForPropertyError is returned by the encode registry when no
// converter at all claims the requested property.
var NoConverterForPropertyError = errors.New("no converter registered for property")

// OperationNotSupportedError is returned when a converter has no Set or Get
// implementation for the requested direction.
var OperationNotSupportedError = errors.New("operation not supported by converter")

// InvalidValueError describes a set request whose value is outside the
// property's declared domain. No wire operation will have been issued.
type InvalidValueError struct {
	Property string
	Value    any
	Allowed  []string
}

func (e InvalidValueError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid value for %s: %v, expected one of: %s", e.Property, e.Value, strings.Join(e.Allowed, ", "))
	}

	return fmt.Sprintf("invalid value for %s: %v", e.Property, e.Value)
}

// MalformedValueError describes a set request whose value could not be parsed
// into the wire representation, e.g. a hex string of the wrong length.
type MalformedValueError struct {
	Property string
	Reason   string
}

func (e MalformedValueError) Error() string {
	return fmt.Sprintf("malformed value for %s: %s", e.Property, e.Reason)
}

// DeviceNotReadyError describes a set request that the device's current state
// forbids, e.g. triggering calibration while it is not idle.
type DeviceNotReadyError struct {
	Property string
	Reason   string
}

func (e DeviceNotReadyError) Error() string {
	return fmt.Sprintf("device not ready for %s: %s", e.Property, e.Reason)
}
