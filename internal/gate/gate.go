// Package gate decides when a motion alert may be sent. It is a cooldown
// state machine fed by two trigger sources: automatic detection and an
// operator's manual trigger.
package gate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kai5263499/roi-sentry/internal/notify"
)

// Source identifies what asked the gate to fire.
type Source int

const (
	Automatic Source = iota
	Manual
)

func (s Source) String() string {
	switch s {
	case Automatic:
		return "automatic"
	case Manual:
		return "manual"
	}
	return "unknown"
}

// Body is the notification text for the source.
func (s Source) Body() string {
	if s == Manual {
		return "Manual Motion Triggered"
	}
	return "Motion Detected"
}

// State of a cooldown window.
type State int

const (
	Idle State = iota
	Cooling
)

func (s State) String() string {
	if s == Cooling {
		return "cooling"
	}
	return "idle"
}

// Config parameterises a Gate.
type Config struct {
	// Threshold is the motion percentage that must be exceeded.
	Threshold float64
	// MotionCooldown applies to automatic firing, and to manual firing
	// when cooldowns are shared.
	MotionCooldown time.Duration
	// ManualCooldown applies to manual firing when Independent is set.
	ManualCooldown time.Duration
	// Independent gives each source its own last-fired timestamp.
	// When false both sources share one window.
	Independent bool

	// Message fields copied into every notification.
	Title    string
	Priority string
	Tags     []string
}

// Event describes one firing.
type Event struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Ratio  float64   `json:"ratio"`
	Time   time.Time `json:"time"`
	// Err is the delivery error, if any. It never affects gate state.
	Err error `json:"-"`
}

// Gate is safe for concurrent use.
type Gate struct {
	cfg      Config
	notifier notify.Notifier

	mu        sync.Mutex
	lastFired map[Source]time.Time
	lastEvent *Event
}

func New(cfg Config, notifier notify.Notifier) *Gate {
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &Gate{
		cfg:       cfg,
		notifier:  notifier,
		lastFired: make(map[Source]time.Time),
	}
}

// Observe is the automatic path. It fires when ratio exceeds the threshold
// and the gate is idle.
func (g *Gate) Observe(ctx context.Context, ratio float64, now time.Time) (Event, bool) {
	if ratio <= g.cfg.Threshold {
		return Event{}, false
	}
	return g.fire(ctx, Automatic, ratio, now)
}

// Trigger is the manual path. It fires when the gate is idle.
func (g *Gate) Trigger(ctx context.Context, now time.Time) (Event, bool) {
	return g.fire(ctx, Manual, 0, now)
}

// State reports whether src could fire at now.
func (g *Gate) State(src Source, now time.Time) State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked(src, now)
}

// LastFired returns when the window used by src last fired, or the zero
// time if it never has.
func (g *Gate) LastFired(src Source) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastFired[g.key(src)]
}

// LastEvent returns the most recent event from either source.
func (g *Gate) LastEvent() (Event, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastEvent == nil {
		return Event{}, false
	}
	return *g.lastEvent, true
}

func (g *Gate) key(src Source) Source {
	if g.cfg.Independent {
		return src
	}
	return Automatic
}

func (g *Gate) cooldown(src Source) time.Duration {
	if g.cfg.Independent && src == Manual {
		return g.cfg.ManualCooldown
	}
	return g.cfg.MotionCooldown
}

func (g *Gate) stateLocked(src Source, now time.Time) State {
	last, fired := g.lastFired[g.key(src)]
	if !fired || now.Sub(last) >= g.cooldown(src) {
		return Idle
	}
	return Cooling
}

// fire claims the window under the lock, then delivers without holding it.
// A failed delivery still consumes the window.
func (g *Gate) fire(ctx context.Context, src Source, ratio float64, now time.Time) (Event, bool) {
	g.mu.Lock()
	if g.stateLocked(src, now) == Cooling {
		g.mu.Unlock()
		log.Debug().Str("source", src.String()).Float64("ratio", ratio).Msg("Notification suppressed, cooling down")
		return Event{}, false
	}
	g.lastFired[g.key(src)] = now
	ev := Event{
		ID:     uuid.NewString(),
		Source: src.String(),
		Ratio:  ratio,
		Time:   now,
	}
	stored := ev
	g.lastEvent = &stored
	g.mu.Unlock()

	log.Info().
		Str("event", ev.ID).
		Str("source", ev.Source).
		Float64("ratio", ratio).
		Msg(src.Body() + "! Sending notification...")

	err := g.notifier.Send(ctx, notify.Message{
		EventID:  ev.ID,
		Title:    g.cfg.Title,
		Body:     src.Body(),
		Priority: g.cfg.Priority,
		Tags:     g.cfg.Tags,
	})
	if err != nil {
		log.Warn().Err(err).Str("event", ev.ID).Msg("Notification delivery failed")
		ev.Err = err
		g.recordErr(ev)
	} else if notify.Queued(g.notifier) {
		log.Info().Str("event", ev.ID).Msg("Notification queued")
	} else {
		log.Info().Str("event", ev.ID).Msg("Notification sent")
	}
	return ev, true
}

// recordErr attaches a delivery error to the last event unless a newer one
// has replaced it.
func (g *Gate) recordErr(ev Event) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastEvent != nil && g.lastEvent.ID == ev.ID {
		stored := ev
		g.lastEvent = &stored
	}
}
