package gboard

import "time"

// Tween slides a piece between two pixel positions with an ease-out curve.
type Tween struct {
	fromX, fromY float64
	toX, toY     float64
	elapsed      time.Duration
	duration     time.Duration
}

func NewTween(fromX, fromY, toX, toY float64, d time.Duration) *Tween {
	return &Tween{fromX: fromX, fromY: fromY, toX: toX, toY: toY, duration: d}
}

// Update advances the tween and reports whether it has finished.
func (t *Tween) Update(dt time.Duration) bool {
	t.elapsed = min(t.elapsed+dt, t.duration)
	return t.Done()
}

func (t *Tween) Done() bool { return t.elapsed >= t.duration }

func (t *Tween) Progress() float64 {
	if t.duration <= 0 {
		return 1
	}
	return float64(t.elapsed) / float64(t.duration)
}

// Pos is the current position; ease-out cubic.
func (t *Tween) Pos() (float64, float64) {
	p := 1 - t.Progress()
	e := 1 - p*p*p
	return t.fromX + (t.toX-t.fromX)*e, t.fromY + (t.toY-t.fromY)*e
}
