package surveillance

import (
	"context"
	"testing"
	"time"

	"github.com/kai5263499/roi-sentry/internal/gate"
	"github.com/kai5263499/roi-sentry/internal/notify"
)

type nopNotifier struct{ sent int }

func (n *nopNotifier) Send(context.Context, notify.Message) error {
	n.sent++
	return nil
}

func newTestControl(clock *time.Time) (*Control, *nopNotifier) {
	n := &nopNotifier{}
	g := gate.New(gate.Config{Threshold: 20, MotionCooldown: 5 * time.Second}, n)
	c := NewControl("front", 20, g)
	c.now = func() time.Time { return *clock }
	return c, n
}

func TestControlStatusInitial(t *testing.T) {
	clock := time.Unix(1000, 0)
	c, _ := newTestControl(&clock)

	s := c.Status()
	if s.Camera != "front" {
		t.Errorf("Expected camera 'front', got '%s'", s.Camera)
	}
	if s.Running {
		t.Error("Expected monitor not running")
	}
	if s.GateState != "idle" {
		t.Errorf("Expected idle gate, got '%s'", s.GateState)
	}
	if s.LastFired != nil || s.LastEvent != nil {
		t.Error("Expected no last fired time or event")
	}
}

func TestControlObserve(t *testing.T) {
	clock := time.Unix(1000, 0)
	c, n := newTestControl(&clock)
	c.setRunning(true, "640x480")

	c.observe(context.Background(), 5)
	c.observe(context.Background(), 30)
	clock = clock.Add(time.Second)
	c.observe(context.Background(), 40)

	s := c.Status()
	if s.FramesProcessed != 3 {
		t.Errorf("Expected 3 frames, got %d", s.FramesProcessed)
	}
	if s.LastRatio != 40 {
		t.Errorf("Expected last ratio 40, got %f", s.LastRatio)
	}
	if n.sent != 1 {
		t.Errorf("Expected 1 notification, got %d", n.sent)
	}
	if s.GateState != "cooling" {
		t.Errorf("Expected cooling gate, got '%s'", s.GateState)
	}
	if s.LastFired == nil || !s.LastFired.Equal(time.Unix(1000, 0)) {
		t.Errorf("Expected last fired at start, got %v", s.LastFired)
	}
	if s.LastEvent == nil || s.LastEvent.Source != "automatic" {
		t.Errorf("Expected automatic last event, got %+v", s.LastEvent)
	}
	if !s.Running || s.Resolution != "640x480" {
		t.Errorf("Expected running at 640x480, got %+v", s)
	}
}

func TestControlTriggerSharesGate(t *testing.T) {
	clock := time.Unix(1000, 0)
	c, n := newTestControl(&clock)

	if _, fired := c.Trigger(context.Background()); !fired {
		t.Fatal("Expected manual trigger to fire")
	}
	clock = clock.Add(time.Second)
	c.observe(context.Background(), 90)

	if n.sent != 1 {
		t.Errorf("Expected automatic path to be suppressed, got %d sends", n.sent)
	}
	if _, fired := c.Trigger(context.Background()); fired {
		t.Error("Expected second manual trigger to be suppressed")
	}
}
