package devices

import (
	"context"
	"fmt"
	"github.com/shimmeringbee/bytecodec"
	"github.com/shimmeringbee/zcl"
	"github.com/shimmeringbee/zdp"
	"github.com/shimmeringbee/zdp/cluster"
	"github.com/shimmeringbee/zdp/configure"
	"github.com/shimmeringbee/zdp/expose"
	"github.com/shimmeringbee/zdp/profile"
)

const sceneClusterID = 0xfc81

const (
	sceneNotifyCommand      uint8 = 0x00
	sceneAcknowledgeCommand uint8 = 0x01
)

const (
	sceneActionRelease uint8 = 0x00
	sceneActionPress   uint8 = 0x01
	sceneActionHold    uint8 = 0x02
)

var sceneCluster = cluster.Definition{
	Name:         "ArdenScene",
	ID:           sceneClusterID,
	Manufacturer: ArdenManufacturerCode,
	Commands: map[string]cluster.Command{
		"Notify": {ID: sceneNotifyCommand, Parameters: []cluster.Parameter{
			{Name: "Button", DataType: zcl.TypeUnsignedInt8},
			{Name: "Action", DataType: zcl.TypeEnum8},
			{Name: "Duration", DataType: zcl.TypeUnsignedInt16},
		}},
		"Acknowledge": {ID: sceneAcknowledgeCommand, Parameters: []cluster.Parameter{
			{Name: "Button", DataType: zcl.TypeUnsignedInt8},
		}},
	},
}

type sceneNotify struct {
	Button   uint8
	Action   uint8
	Duration uint16
}

type sceneAcknowledge struct {
	Button uint8
}

// SceneButton is the ARD-BTN-04 four button scene controller. Button events
// arrive as vendor private commands which the device retransmits until
// acknowledged, so decoding is deduplicated by transaction sequence and the
// acknowledgement is sent fire and forget.
func SceneButton() profile.Definition {
	return profile.Definition{
		Vendor:      "Arden",
		Models:      []string{"ARD-BTN-04"},
		Description: "Four button scene controller",
		Extends: []profile.Extend{
			{
				Name: "SceneButton",
				Exposes: []expose.Descriptor{
					expose.NewEnum("action", expose.Read, "press", "hold", "release"),
					expose.NewNumeric("button", expose.Read).WithRange(1, 4).WithCategory(expose.Diagnostic),
					expose.NewNumeric("duration", expose.Read).WithUnit("ms").WithCategory(expose.Diagnostic),
				},
				Decode: []zdp.DecodeConverter{
					{
						Name:             "SceneNotify",
						Cluster:          sceneClusterID,
						Kinds:            []zdp.MessageKind{zdp.RawCommand},
						Provides:         []string{"action", "button", "duration"},
						DedupeBySequence: true,
						Decode:           decodeSceneNotify,
					},
				},
				Clusters: []cluster.Definition{sceneCluster},
				Configure: []configure.Step{
					{
						Name:      "BindScene",
						Endpoint:  1,
						Operation: configure.Bind{Cluster: sceneClusterID},
					},
				},
			},
		},
	}
}

func decodeSceneNotify(_ context.Context, m zdp.Message, dc zdp.DecodeContext) (zdp.Patch, error) {
	if m.CommandID != sceneNotifyCommand {
		return nil, nil
	}

	var n sceneNotify
	if err := bytecodec.Unmarshal(m.Payload, &n); err != nil {
		return nil, fmt.Errorf("scene notify payload: %w", err)
	}

	pendingKey := fmt.Sprintf("PendingButton%d", n.Button)

	switch n.Action {
	case sceneActionPress:
		acknowledgeScene(dc, m, n.Button)
		return zdp.Patch{"action": "press", "button": int(n.Button)}, nil

	case sceneActionHold:
		if n.Duration == 0 {
			return nil, nil
		}

		if _, pending := dc.Section.Int(pendingKey); pending {
			// Repeated hold notification for an in-progress press, track
			// the growing duration without re-announcing.
			dc.Section.Set(pendingKey, int(n.Duration))
			return nil, nil
		}

		dc.Section.Set(pendingKey, int(n.Duration))
		acknowledgeScene(dc, m, n.Button)

		return zdp.Patch{"action": "hold", "button": int(n.Button), "duration": int(n.Duration)}, nil

	case sceneActionRelease:
		if _, pending := dc.Section.Int(pendingKey); !pending {
			// Release with no press in progress, likely a replay.
			return nil, nil
		}

		dc.Section.Delete(pendingKey)
		acknowledgeScene(dc, m, n.Button)

		return zdp.Patch{"action": "release", "button": int(n.Button)}, nil

	default:
		return nil, nil
	}
}

// acknowledgeScene confirms receipt so the device stops retransmitting. The
// decode path must never wait on, or fail because of, this exchange.
func acknowledgeScene(dc zdp.DecodeContext, m zdp.Message, button uint8) {
	t := zdp.Target{Device: m.Device, Endpoint: m.Endpoint}

	dc.Effects.Run("SceneAcknowledge", func(ctx context.Context) error {
		return dc.Transport.SendCommand(ctx, t, sceneClusterID, ArdenManufacturerCode, sceneAcknowledgeCommand, &sceneAcknowledge{Button: button})
	})
}
