// Package config defines the Settings value struct that drives the whole
// analysis pipeline, plus YAML load/save and validation.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vedantwpatil/autozoom/internal/easing"
)

// SpringKind selects which of the two equivalent spring parameterizations
// a Settings value was authored with.
type SpringKind string

const (
	SpringPhysical SpringKind = "physical" // tension/friction/mass
	SpringDuration SpringKind = "duration" // duration/bounce
)

// SpringSettings describes the spring used for Follow-mode camera tracking
// and Pan transitions. Exactly one of the two parameterizations is used,
// selected by Kind; Resolve converts either into the physical form the
// internal/spring package consumes.
type SpringSettings struct {
	Kind SpringKind `yaml:"kind"`

	Tension  float64 `yaml:"tension,omitempty"`
	Friction float64 `yaml:"friction,omitempty"`
	Mass     float64 `yaml:"mass,omitempty"`

	Duration float64 `yaml:"duration,omitempty"`
	Bounce   float64 `yaml:"bounce,omitempty"` // 0 = critically damped, 1 = undamped (damping ratio 1-bounce)
}

// Resolve returns the physical (tension, friction, mass) triple regardless
// of which parameterization was authored.
func (s SpringSettings) Resolve() (tension, friction, mass float64) {
	if s.Kind == SpringDuration {
		mass = 1
		// Approximate a settling time of ~Duration via omega0 = 2*pi/Duration.
		omega0 := 2 * math.Pi / math.Max(s.Duration, 0.05)
		tension = omega0 * omega0 * mass
		zeta := 1 - clampf(s.Bounce, 0, 1)
		friction = zeta * 2 * math.Sqrt(tension*mass)
		return
	}
	return s.Tension, s.Friction, s.Mass
}

func maxf(a, b float64) float64 {
	return math.Max(a, b)
}
func clampf(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// ReferenceSize is the canvas size that ClickMergeDistancePixels is
// denominated against (e.g. 1920x1080).
type ReferenceSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Settings enumerates every tunable named in the system's configuration
// surface. It is an immutable value for the duration of one pipeline run.
type Settings struct {
	AutoZoomEnabled bool    `yaml:"auto_zoom_enabled"`
	BaseScale       float64 `yaml:"base_scale"`

	HoldMin               float64 `yaml:"hold_min"`
	HoldBase              float64 `yaml:"hold_base"`
	HoldMax               float64 `yaml:"hold_max"`
	HoldExtensionPerEvent float64 `yaml:"hold_extension_per_event"`

	EaseInDuration  float64 `yaml:"ease_in_duration"`
	EaseOutDuration float64 `yaml:"ease_out_duration"`
	PanDuration     float64 `yaml:"pan_duration"`

	IdleTimeout float64 `yaml:"idle_timeout"`

	ClickMergeTime       float64       `yaml:"click_merge_time"`
	ClickMergeDistancePx float64       `yaml:"click_merge_distance_px"`
	ReferenceSize        ReferenceSize `yaml:"reference_size"`

	LargeDistanceThreshold float64 `yaml:"large_distance_threshold"`
	TConfirm               float64 `yaml:"t_confirm"`

	DynamicScaleEnabled bool    `yaml:"dynamic_scale_enabled"`
	EdgeFactorMin       float64 `yaml:"edge_factor_min"`
	EdgeFactorMax       float64 `yaml:"edge_factor_max"`
	CornerBoost         float64 `yaml:"corner_boost"`
	MaxScale            float64 `yaml:"max_scale"`

	FollowEdgeMargin float64        `yaml:"follow_edge_margin"`
	Spring           SpringSettings `yaml:"spring"`

	ZoomOutOnKeyboard  bool    `yaml:"zoom_out_on_keyboard"`
	KeyboardHoldBuffer float64 `yaml:"keyboard_hold_buffer"`

	Easing     easing.Kind `yaml:"-"`
	EasingName string      `yaml:"easing"`

	CursorHighlightEnabled   bool    `yaml:"cursor_highlight_enabled"`
	HighlightScaleWhenZoomed float64 `yaml:"highlight_scale_when_zoomed"`
}

// Default returns the settings described throughout the spec as defaults.
func Default() Settings {
	return Settings{
		AutoZoomEnabled: true,
		BaseScale:       2.0,

		HoldMin:               0.6,
		HoldBase:              1.4,
		HoldMax:               4.0,
		HoldExtensionPerEvent: 0.3,

		EaseInDuration:  0.3,
		EaseOutDuration: 0.4,
		PanDuration:     0.5,

		IdleTimeout: 3.0,

		ClickMergeTime:       0.35,
		ClickMergeDistancePx: 120,
		ReferenceSize:        ReferenceSize{Width: 1920, Height: 1080},

		LargeDistanceThreshold: 0.3,
		TConfirm:               0.18,

		DynamicScaleEnabled: true,
		EdgeFactorMin:       0.85,
		EdgeFactorMax:       1.25,
		CornerBoost:         1.10,
		MaxScale:            6.0,

		FollowEdgeMargin: 0.15,
		Spring: SpringSettings{
			Kind: SpringPhysical, Tension: 210, Friction: 26, Mass: 1,
		},

		ZoomOutOnKeyboard:  true,
		KeyboardHoldBuffer: 5.0,

		Easing:     easing.KindEaseInOut,
		EasingName: "ease_in_out",

		CursorHighlightEnabled:   true,
		HighlightScaleWhenZoomed: 1.4,
	}
}

// Validate implements the InconsistentSettings error-taxonomy entry: a
// pure check run once at timeline-build time.
func (s Settings) Validate() error {
	if s.HoldMin > s.HoldMax {
		return fmt.Errorf("config: hold_min (%v) > hold_max (%v)", s.HoldMin, s.HoldMax)
	}
	if s.BaseScale < 1.0 || s.BaseScale > 6.0 {
		return fmt.Errorf("config: base_scale %v out of [1.0,6.0]", s.BaseScale)
	}
	if s.MaxScale < s.BaseScale {
		return fmt.Errorf("config: max_scale %v below base_scale %v", s.MaxScale, s.BaseScale)
	}
	if s.LargeDistanceThreshold < 0.1 || s.LargeDistanceThreshold > 0.5 {
		return fmt.Errorf("config: large_distance_threshold %v out of [0.1,0.5]", s.LargeDistanceThreshold)
	}
	if s.FollowEdgeMargin < 0 || s.FollowEdgeMargin > 0.3 {
		return fmt.Errorf("config: follow_edge_margin %v out of [0,0.3]", s.FollowEdgeMargin)
	}
	if s.HighlightScaleWhenZoomed < 1.0 || s.HighlightScaleWhenZoomed > 3.0 {
		return fmt.Errorf("config: highlight_scale_when_zoomed %v out of [1.0,3.0]", s.HighlightScaleWhenZoomed)
	}
	if s.ReferenceSize.Width <= 0 || s.ReferenceSize.Height <= 0 {
		return fmt.Errorf("config: reference_size must be positive, got %+v", s.ReferenceSize)
	}
	tension, friction, mass := s.Spring.Resolve()
	if tension <= 0 || mass <= 0 || friction < 0 {
		return fmt.Errorf("config: resolved spring parameters invalid (tension=%v friction=%v mass=%v)", tension, friction, mass)
	}
	return nil
}

// NormalizedClickMergeDistance converts ClickMergeDistancePx into the
// normalized units the aggregator operates in, per the
// reference-size conversion in the component design.
func (s Settings) NormalizedClickMergeDistance() float64 {
	ref := maxf(float64(s.ReferenceSize.Width), float64(s.ReferenceSize.Height))
	if ref <= 0 {
		return 0
	}
	return s.ClickMergeDistancePx / ref
}

// Load reads and validates a YAML-encoded Settings file.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	s.Easing = parseEasingName(s.EasingName)
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes s as YAML to path.
func Save(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func parseEasingName(name string) easing.Kind {
	switch name {
	case "linear":
		return easing.KindLinear
	case "ease_in":
		return easing.KindEaseIn
	case "ease_out":
		return easing.KindEaseOut
	default:
		return easing.KindEaseInOut
	}
}
