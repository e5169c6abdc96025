package devices

import (
	"context"
	"errors"
	"github.com/shimmeringbee/persistence/impl/memory"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zdp/mocks"
	"github.com/shimmeringbee/zdp/profile"
	"github.com/shimmeringbee/zigbee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"testing"
)

func TestMultiPurposeModuleComposition(t *testing.T) {
	t.Run("only the mode is exposed until the device reports one", func(t *testing.T) {
		c, err := profile.New(MultiPurposeModule(), memory.New())
		assert.NoError(t, err)

		s, err := c.Snapshot()
		assert.NoError(t, err)

		assert.True(t, s.Exposed("device_mode"))
		assert.False(t, s.Exposed("state"))
		assert.False(t, s.Exposed("position"))
		assert.False(t, s.Exposed("overload"))
	})

	t.Run("light mode exposes the switch, shutter mode exposes the position", func(t *testing.T) {
		c, err := profile.New(MultiPurposeModule(), memory.New())
		assert.NoError(t, err)

		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "light"}))

		s, err := c.Snapshot()
		assert.NoError(t, err)
		assert.True(t, s.Exposed("state"))
		assert.True(t, s.Exposed("overload"))
		assert.False(t, s.Exposed("position"))

		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "shutter"}))

		s, err = c.Snapshot()
		assert.NoError(t, err)
		assert.True(t, s.Exposed("position"))
		assert.True(t, s.Exposed("overload"))
		assert.False(t, s.Exposed("state"))
	})

	t.Run("an unrecognised mode deactivates both modal extends", func(t *testing.T) {
		c, err := profile.New(MultiPurposeModule(), memory.New())
		assert.NoError(t, err)

		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "light"}))
		assert.NoError(t, c.Observe(context.Background(), zdp.Patch{"device_mode": "unrecognised"}))

		s, err := c.Snapshot()
		assert.NoError(t, err)
		assert.True(t, s.Exposed("device_mode"))
		assert.False(t, s.Exposed("state"))
		assert.False(t, s.Exposed("position"))
	})
}

func TestDeviceMode(t *testing.T) {
	t.Run("decodes the mode attribute to its symbol", func(t *testing.T) {
		patch, err := decodeDeviceMode(context.Background(), zdp.Message{
			Cluster: moduleConfigClusterID,
			Kind:    zdp.ReadResponse,
			Attributes: map[zcl.AttributeID]zcl.AttributeDataTypeValue{
				deviceModeAttribute: {DataType: zcl.TypeEnum8, Value: uint8(0x01)},
			},
		}, zdp.DecodeContext{})

		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"device_mode": "shutter"}, patch)
	})

	t.Run("setting the mode writes the manufacturer specific attribute", func(t *testing.T) {
		mt := &mocks.MockTransport{}
		defer mt.AssertExpectations(t)

		target := testTarget()

		mt.On("WriteAttributes", mock.Anything, target, zigbee.ClusterID(moduleConfigClusterID), ArdenManufacturerCode, map[zcl.AttributeID]zcl.AttributeDataTypeValue{
			deviceModeAttribute: {DataType: zcl.TypeEnum8, Value: uint8(0x00)},
		}).Return(nil).Once()

		patch, err := setDeviceMode(context.Background(), target, "device_mode", "light", zdp.EncodeContext{Transport: mt})

		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"device_mode": "light"}, patch)
	})

	t.Run("an unknown mode is rejected without touching the network", func(t *testing.T) {
		mt := &mocks.MockTransport{}
		defer mt.AssertExpectations(t)

		_, err := setDeviceMode(context.Background(), testTarget(), "device_mode", "dimmer", zdp.EncodeContext{Transport: mt})

		var invalid zdp.InvalidValueError
		assert.True(t, errors.As(err, &invalid))
	})
}

func TestLightState(t *testing.T) {
	t.Run("decodes the on off attribute", func(t *testing.T) {
		patch, err := decodeLightState(context.Background(), zdp.Message{
			Cluster: zcl.OnOffId,
			Kind:    zdp.AttributeReport,
			Attributes: map[zcl.AttributeID]zcl.AttributeDataTypeValue{
				onOffAttribute: {DataType: zcl.TypeBoolean, Value: true},
			},
		}, zdp.DecodeContext{})

		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"state": true}, patch)
	})

	t.Run("setting the state sends the matching on off command", func(t *testing.T) {
		mt := &mocks.MockTransport{}
		defer mt.AssertExpectations(t)

		target := testTarget()

		mt.On("SendCommand", mock.Anything, target, zcl.OnOffId, zigbee.NoManufacturer, onOffOnCommand, nil).Return(nil).Once()

		patch, err := setLightState(context.Background(), target, "state", true, zdp.EncodeContext{Transport: mt})
		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"state": true}, patch)

		mt.On("SendCommand", mock.Anything, target, zcl.OnOffId, zigbee.NoManufacturer, onOffOffCommand, nil).Return(nil).Once()

		patch, err = setLightState(context.Background(), target, "state", false, zdp.EncodeContext{Transport: mt})
		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"state": false}, patch)
	})
}

func TestCoverPosition(t *testing.T) {
	t.Run("decodes the lift percentage, discarding out of range reports", func(t *testing.T) {
		patch, err := decodeCoverPosition(context.Background(), zdp.Message{
			Cluster: windowCoveringClusterID,
			Kind:    zdp.AttributeReport,
			Attributes: map[zcl.AttributeID]zcl.AttributeDataTypeValue{
				liftPercentAttribute: {DataType: zcl.TypeUnsignedInt8, Value: uint8(60)},
			},
		}, zdp.DecodeContext{})

		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"position": 60}, patch)

		patch, err = decodeCoverPosition(context.Background(), zdp.Message{
			Cluster: windowCoveringClusterID,
			Kind:    zdp.AttributeReport,
			Attributes: map[zcl.AttributeID]zcl.AttributeDataTypeValue{
				liftPercentAttribute: {DataType: zcl.TypeUnsignedInt8, Value: uint8(180)},
			},
		}, zdp.DecodeContext{})

		assert.NoError(t, err)
		assert.Nil(t, patch)
	})

	t.Run("setting the position sends a go to lift percentage command", func(t *testing.T) {
		mt := &mocks.MockTransport{}
		defer mt.AssertExpectations(t)

		target := testTarget()

		mt.On("SendCommand", mock.Anything, target, windowCoveringClusterID, zigbee.NoManufacturer, goToLiftPercentCommand, &liftPercent{Percentage: 25}).Return(nil).Once()

		patch, err := setCoverPosition(context.Background(), target, "position", 25, zdp.EncodeContext{Transport: mt})

		assert.NoError(t, err)
		assert.Equal(t, zdp.Patch{"position": 25}, patch)
	})

	t.Run("positions outside 0 to 100 are rejected without touching the network", func(t *testing.T) {
		mt := &mocks.MockTransport{}
		defer mt.AssertExpectations(t)

		_, err := setCoverPosition(context.Background(), testTarget(), "position", 140, zdp.EncodeContext{Transport: mt})
		assert.Error(t, err)

		_, err = setCoverPosition(context.Background(), testTarget(), "position", -1, zdp.EncodeContext{Transport: mt})
		assert.Error(t, err)
	})
}
