package surveillance

import (
	"context"
	"sync"
	"time"

	"github.com/kai5263499/roi-sentry/internal/gate"
)

// Status is a point-in-time view of the monitor.
type Status struct {
	Camera          string      `json:"camera"`
	Running         bool        `json:"running"`
	Resolution      string      `json:"resolution,omitempty"`
	StartedAt       time.Time   `json:"started_at"`
	FramesProcessed int64       `json:"frames_processed"`
	LastRatio       float64     `json:"last_ratio"`
	Threshold       float64     `json:"threshold"`
	GateState       string      `json:"gate_state"`
	LastFired       *time.Time  `json:"last_fired,omitempty"`
	LastEvent       *gate.Event `json:"last_event,omitempty"`
}

// Control holds the state shared between the frame loop and the control
// server: the gate and the frame counters.
type Control struct {
	name      string
	threshold float64
	gate      *gate.Gate
	now       func() time.Time

	mu         sync.RWMutex
	running    bool
	resolution string
	startedAt  time.Time
	frames     int64
	lastRatio  float64
}

func NewControl(name string, threshold float64, g *gate.Gate) *Control {
	return &Control{
		name:      name,
		threshold: threshold,
		gate:      g,
		now:       time.Now,
	}
}

// Trigger fires the manual path.
func (c *Control) Trigger(ctx context.Context) (gate.Event, bool) {
	return c.gate.Trigger(ctx, c.now())
}

// observe records a processed frame and feeds the automatic path.
func (c *Control) observe(ctx context.Context, ratio float64) (gate.Event, bool) {
	c.mu.Lock()
	c.frames++
	c.lastRatio = ratio
	c.mu.Unlock()
	return c.gate.Observe(ctx, ratio, c.now())
}

func (c *Control) setRunning(running bool, resolution string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = running
	if running {
		c.startedAt = c.now()
		c.resolution = resolution
	}
}

// Status returns a snapshot of the monitor.
func (c *Control) Status() Status {
	c.mu.RLock()
	s := Status{
		Camera:          c.name,
		Running:         c.running,
		Resolution:      c.resolution,
		StartedAt:       c.startedAt,
		FramesProcessed: c.frames,
		LastRatio:       c.lastRatio,
		Threshold:       c.threshold,
	}
	c.mu.RUnlock()

	s.GateState = c.gate.State(gate.Automatic, c.now()).String()
	if last := c.gate.LastFired(gate.Automatic); !last.IsZero() {
		s.LastFired = &last
	}
	if ev, ok := c.gate.LastEvent(); ok {
		s.LastEvent = &ev
	}
	return s
}
