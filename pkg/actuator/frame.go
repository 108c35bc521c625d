package actuator

import (
	"fmt"

	"wavecam/pkg/camera"
)

// Frame is the set of resolved magnitudes the imaging hardware runs at.
type Frame struct {
	Width     int
	Height    int
	FPS       float64
	Shutter   float64 // degrees
	Recording bool
}

// FrameFromSnapshot resolves a snapshot into hardware magnitudes. An FPS entry
// that needs user data is replaced by userFPS; every other entry, including
// the MAX sentinel, is passed through as its table value.
func FrameFromSnapshot(snap *camera.Snapshot, userFPS float64) Frame {
	fps := snap[camera.FPS].Value
	for _, u := range snap[camera.FPS].User {
		if u == snap[camera.FPS].Index {
			fps = userFPS
			break
		}
	}
	return Frame{
		Width:     int(snap[camera.Width].Value),
		Height:    int(snap[camera.Height].Value),
		FPS:       fps,
		Shutter:   snap[camera.Shutter].Value,
		Recording: snap[camera.Mode].Index == camera.ModeRec,
	}
}

// String renders the wire line without the trailing newline.
func (f Frame) String() string {
	rec := 0
	if f.Recording {
		rec = 1
	}
	return fmt.Sprintf("W=%d H=%d FPS=%.3f SH=%.3f REC=%d", f.Width, f.Height, f.FPS, f.Shutter, rec)
}
