// Package capture records a live mouse/keyboard event log, the companion
// input half of the engine: it turns a live session into exactly the
// eventlog.Session shape the analysis pipeline consumes. It is a recorder,
// not an analyzer — it owns no zoom/pan logic.
package capture

import (
	"sync"
	"time"

	"github.com/go-vgo/robotgo"
	hook "github.com/robotn/gohook"
	"github.com/rs/zerolog"

	"github.com/vedantwpatil/autozoom/internal/eventlog"
	"github.com/vedantwpatil/autozoom/internal/geometry"
)

// pollInterval is how often the cursor position is sampled between clicks.
const pollInterval = 10 * time.Millisecond

// Recorder captures mouse moves/clicks and key down/up events into an
// in-memory event log, normalizing screen-pixel positions against the
// screen size measured at Start.
type Recorder struct {
	log zerolog.Logger

	mu        sync.Mutex
	recording bool
	start     time.Time
	mouse     []eventlog.MouseEvent
	keyboard  []eventlog.KeyboardEvent

	screenW, screenH int
	stopChan         chan struct{}
	doneChan         chan struct{}
}

// NewRecorder returns a Recorder that logs through log.
func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log}
}

// Start begins polling the cursor and registering click/key hooks. It
// returns immediately; call Stop to end the recording and retrieve the
// resulting Session.
func (r *Recorder) Start() {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return
	}
	r.recording = true
	r.start = time.Now()
	r.mouse = nil
	r.keyboard = nil
	r.screenW, r.screenH = robotgo.GetScreenSize()
	r.stopChan = make(chan struct{})
	r.doneChan = make(chan struct{})
	r.mu.Unlock()

	r.log.Info().Int("screen_w", r.screenW).Int("screen_h", r.screenH).Msg("capture: recording started")

	go r.pollCursor()
	go r.runHooks()
}

func (r *Recorder) pollCursor() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			x, y := robotgo.Location()
			r.recordMouse(eventlog.Move, x, y)
		}
	}
}

func (r *Recorder) runHooks() {
	hook.Register(hook.MouseDown, []string{}, func(e hook.Event) {
		kind := eventlog.LeftClick
		if e.Button == hook.MouseMap["right"] {
			kind = eventlog.RightClick
		} else if e.Clicks >= 2 {
			kind = eventlog.DoubleClick
		}
		r.recordMouse(kind, int(e.X), int(e.Y))
	})
	hook.Register(hook.KeyDown, []string{}, func(e hook.Event) {
		r.recordKey(eventlog.KeyDown, uint16(e.Rawcode))
	})
	hook.Register(hook.KeyUp, []string{}, func(e hook.Event) {
		r.recordKey(eventlog.KeyUp, uint16(e.Rawcode))
	})

	evChan := hook.Start()
	go func() {
		<-r.stopChan
		hook.End()
	}()

	defer close(r.doneChan)
	<-hook.Process(evChan)
}

func (r *Recorder) recordMouse(kind eventlog.MouseKind, px, py int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	t := time.Since(r.start).Seconds()
	pos := geometry.Vec2{X: float64(px) / float64(r.screenW), Y: float64(py) / float64(r.screenH)}.Clamp01()
	r.mouse = append(r.mouse, eventlog.MouseEvent{Kind: kind, Position: pos, T: t})
}

func (r *Recorder) recordKey(kind eventlog.KeyKind, code uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	t := time.Since(r.start).Seconds()
	r.keyboard = append(r.keyboard, eventlog.KeyboardEvent{Kind: kind, T: t, KeyCode: code})
}

// Stop ends the recording and returns the captured Session, with duration
// set to the elapsed wall-clock time since Start.
func (r *Recorder) Stop() eventlog.Session {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return eventlog.Session{}
	}
	r.recording = false
	duration := time.Since(r.start).Seconds()
	stopChan := r.stopChan
	doneChan := r.doneChan
	mouse := append([]eventlog.MouseEvent(nil), r.mouse...)
	keyboard := append([]eventlog.KeyboardEvent(nil), r.keyboard...)
	r.mu.Unlock()

	close(stopChan)
	<-doneChan

	r.log.Info().Int("mouse_events", len(mouse)).Int("keyboard_events", len(keyboard)).Msg("capture: recording stopped")
	return eventlog.New(mouse, keyboard, duration)
}
