// Package videometa reads the handful of video properties the engine needs
// from the external decoder: width, height, duration, and frame rate. It
// never touches pixel data; the engine only consumes this to convert
// pixel-denominated settings (click_merge_distance_px) to normalized units.
package videometa

import (
	"fmt"

	vidio "github.com/AlexEidt/Vidio"
)

// Metadata is the subset of a video file's properties the pipeline cares
// about.
type Metadata struct {
	Width     int
	Height    int
	Duration  float64
	FrameRate float64
}

// Probe opens path just long enough to read its container metadata, then
// closes it. It never decodes a frame.
func Probe(path string) (Metadata, error) {
	video, err := vidio.NewVideo(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("videometa: open %s: %w", path, err)
	}
	defer video.Close()

	fps := video.FPS()
	frames := video.Frames()
	duration := 0.0
	if fps > 0 {
		duration = float64(frames) / fps
	}

	return Metadata{
		Width:     video.Width(),
		Height:    video.Height(),
		Duration:  duration,
		FrameRate: fps,
	}, nil
}
