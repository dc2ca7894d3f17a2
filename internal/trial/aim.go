package trial

import (
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
	"github.com/verte-zerg/cogtrain/internal/random"
	"github.com/verte-zerg/cogtrain/internal/sched"
	"github.com/verte-zerg/cogtrain/internal/stats"
)

const (
	aimMaxTargets    = 6
	aimFirstSpawn    = 300 * time.Millisecond
	aimPlaceTries    = 10
	aimOverlapMargin = 12
	aimThrottle      = 120 * time.Millisecond
)

// Area is the playing field in pixels.
type Area struct {
	Width, Height float64
}

// Target is a live aim target.
type Target struct {
	ID     uint64
	X, Y   float64
	Radius float64
	Born   time.Duration

	expiry *sched.Timer
}

// Aim spawns expiring circular targets for a fixed duration.
type Aim struct {
	base
	prefs     model.AimPrefs
	area      Area
	targets   []*Target
	nextID    uint64
	startedAt time.Duration
	lastClick time.Duration
	clicked   bool

	hits     int
	attempts int
	spawns   int
	expired  int
}

// NewAim returns an aim engine over area.
func NewAim(env Env, prefs model.AimPrefs, area Area) *Aim {
	return &Aim{base: newBase(env), prefs: prefs, area: area}
}

func (a *Aim) Game() model.Game { return model.GameAim }

// Begin implements Engine.
func (a *Aim) Begin() {
	if !a.start() {
		return
	}
	if a.prefs.DurationSec <= 0 {
		a.finish()
		return
	}
	a.trial.next()
	a.startedAt = a.env.Clock.Now()
	a.timers.After(aimFirstSpawn, a.spawn)
	a.timers.After(time.Duration(a.prefs.DurationSec)*time.Second, a.finish)
}

func (a *Aim) spawn() {
	if !a.live() {
		return
	}
	r := float64(a.prefs.Radius)
	var x, y float64
	for tries := 0; tries < aimPlaceTries; tries++ {
		x = r + a.env.Rand.Float64()*(a.area.Width-2*r)
		y = r + a.env.Rand.Float64()*(a.area.Height-2*r)
		if !a.overlaps(x, y, r) {
			break
		}
	}
	a.nextID++
	t := &Target{ID: a.nextID, X: x, Y: y, Radius: r, Born: a.env.Clock.Now()}
	id := t.ID
	t.expiry = a.timers.After(model.Ms(a.prefs.TargetLifeMs), func() {
		if a.remove(id) {
			a.expired++
		}
	})
	a.targets = append([]*Target{t}, a.targets...)
	if len(a.targets) > aimMaxTargets {
		for _, old := range a.targets[aimMaxTargets:] {
			old.expiry.Stop()
		}
		a.targets = a.targets[:aimMaxTargets]
	}
	a.spawns++

	lo, hi := float64(a.prefs.SpawnMinMs), float64(a.prefs.SpawnMaxMs)
	if hi < lo {
		hi = lo
	}
	next := random.Uniform(a.env.Rand, lo, hi)
	if next < 1 {
		next = 1
	}
	a.timers.After(time.Duration(next*float64(time.Millisecond)), a.spawn)
}

func (a *Aim) overlaps(x, y, r float64) bool {
	for _, t := range a.targets {
		dx, dy := t.X-x, t.Y-y
		gap := t.Radius + r + aimOverlapMargin
		if dx*dx+dy*dy < gap*gap {
			return true
		}
	}
	return false
}

func (a *Aim) remove(id uint64) bool {
	for i, t := range a.targets {
		if t.ID == id {
			a.targets = append(a.targets[:i], a.targets[i+1:]...)
			return true
		}
	}
	return false
}

// Observe implements Engine with a click at (in.X, in.Y). Clicks closer
// together than the throttle interval are dropped.
func (a *Aim) Observe(in Input) bool {
	if !a.live() {
		return false
	}
	now := a.env.Clock.Now()
	if a.clicked && now-a.lastClick < aimThrottle {
		return false
	}
	a.clicked = true
	a.lastClick = now
	a.attempts++
	for _, t := range a.targets {
		dx, dy := t.X-in.X, t.Y-in.Y
		if dx*dx+dy*dy <= t.Radius*t.Radius {
			t.expiry.Stop()
			a.remove(t.ID)
			a.hits++
			break
		}
	}
	return true
}

// Targets returns the live targets, newest first.
func (a *Aim) Targets() []Target {
	out := make([]Target, 0, len(a.targets))
	for _, t := range a.targets {
		out = append(out, *t)
	}
	return out
}

// Area returns the playing field.
func (a *Aim) Area() Area { return a.area }

// TimeLeft returns the remaining session time.
func (a *Aim) TimeLeft() time.Duration {
	if !a.started {
		return time.Duration(a.prefs.DurationSec) * time.Second
	}
	left := time.Duration(a.prefs.DurationSec)*time.Second - (a.env.Clock.Now() - a.startedAt)
	if left < 0 || a.done {
		return 0
	}
	return left
}

func (a *Aim) Log() model.TrialLog {
	return model.AimLog{
		Hits:        a.hits,
		Attempts:    a.attempts,
		Spawns:      a.spawns,
		Expired:     a.expired,
		DurationSec: a.prefs.DurationSec,
	}
}

func (a *Aim) Result() model.Metrics { return stats.Summarize(a.Log()) }
