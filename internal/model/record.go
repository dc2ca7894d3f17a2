package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format of SessionRecord dates (UTC, millisecond ISO).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidRecord is returned when a serialized record is malformed, for
// example when its metric object does not match its game.
var ErrInvalidRecord = errors.New("invalid session record")

// Metrics is the per-game result carried by a SessionRecord. Exactly one
// implementation exists per game.
type Metrics interface {
	Game() Game
	metrics()
}

// ReactionMetrics summarises a reaction time session.
type ReactionMetrics struct {
	Attempts  []float64 `json:"attempts"`
	AverageMs float64   `json:"averageMs"`
	BestMs    float64   `json:"bestMs"`
}

// AimMetrics summarises an aim trainer session.
type AimMetrics struct {
	Hits     int     `json:"hits"`
	Accuracy float64 `json:"accuracy"`
	TimeSec  int     `json:"timeSec"`
}

// SequenceMetrics summarises a sequence memory round.
type SequenceMetrics struct {
	Level   int `json:"level"`
	Longest int `json:"longest"`
}

// GoNoGoMetrics summarises a go/no-go session.
type GoNoGoMetrics struct {
	GoAcc   float64 `json:"goAcc"`
	NogoAcc float64 `json:"nogoAcc"`
	AvgRtMs float64 `json:"avgRtMs"`
}

// StroopMetrics summarises a Stroop session.
type StroopMetrics struct {
	CongruentAvgMs   float64 `json:"congruentAvgMs"`
	IncongruentAvgMs float64 `json:"incongruentAvgMs"`
	Accuracy         float64 `json:"accuracy"`
	CostMs           float64 `json:"costMs"`
}

// TapsMetrics summarises a tap speed session.
type TapsMetrics struct {
	Taps          int     `json:"taps"`
	Seconds       int     `json:"seconds"`
	AvgIntervalMs float64 `json:"avgIntervalMs"`
}

// PosnerMetrics summarises a Posner cueing session.
type PosnerMetrics struct {
	ValidAvgMs   float64 `json:"validAvgMs"`
	InvalidAvgMs float64 `json:"invalidAvgMs"`
	CostMs       float64 `json:"costMs"`
	Accuracy     float64 `json:"accuracy"`
}

// StopSignalMetrics summarises a stop-signal session.
type StopSignalMetrics struct {
	AvgSsdMs       float64 `json:"avgSsdMs"`
	SsrtMs         float64 `json:"ssrtMs"`
	StopSuccessPct float64 `json:"stopSuccessPct"`
	GoAcc          float64 `json:"goAcc"`
}

// ChoiceMetrics summarises a choice reaction time session.
type ChoiceMetrics struct {
	Choices  int     `json:"choices"`
	AvgRtMs  float64 `json:"avgRtMs"`
	Accuracy float64 `json:"accuracy"`
}

func (ReactionMetrics) Game() Game { return GameReaction }
func (AimMetrics) Game() Game { return GameAim }
func (SequenceMetrics) Game() Game { return GameSequence }
func (GoNoGoMetrics) Game() Game { return GameGoNoGo }
func (StroopMetrics) Game() Game { return GameStroop }
func (TapsMetrics) Game() Game { return GameTaps }
func (PosnerMetrics) Game() Game { return GamePosner }
func (StopSignalMetrics) Game() Game { return GameStop }
func (ChoiceMetrics) Game() Game { return GameChoice }

func (ReactionMetrics) metrics() {}
func (AimMetrics) metrics() {}
func (SequenceMetrics) metrics() {}
func (GoNoGoMetrics) metrics() {}
func (StroopMetrics) metrics() {}
func (TapsMetrics) metrics() {}
func (PosnerMetrics) metrics() {}
func (StopSignalMetrics) metrics() {}
func (ChoiceMetrics) metrics() {}

// SessionRecord is one persisted, completed game session. The game is
// derived from Metrics so the two can never disagree.
type SessionRecord struct {
	ID      string
	Date    time.Time
	Metrics Metrics
}

// NewRecord creates a record with a fresh id, completed at the given time.
func NewRecord(m Metrics, at time.Time) SessionRecord {
	return SessionRecord{
		ID:      uuid.New().String(),
		Date:    at.UTC().Truncate(time.Millisecond),
		Metrics: m,
	}
}

// Game returns the game the record belongs to.
func (r SessionRecord) Game() Game {
	if r.Metrics == nil {
		return ""
	}
	return r.Metrics.Game()
}

// DateISO returns the record date in wire format.
func (r SessionRecord) DateISO() string {
	return r.Date.UTC().Format(DateLayout)
}

type recordWire struct {
	ID       string             `json:"id"`
	Game     Game               `json:"game"`
	DateISO  string             `json:"dateIso"`
	Reaction *ReactionMetrics   `json:"reaction,omitempty"`
	Aim      *AimMetrics        `json:"aim,omitempty"`
	Sequence *SequenceMetrics   `json:"sequence,omitempty"`
	GoNoGo   *GoNoGoMetrics     `json:"gng,omitempty"`
	Stroop   *StroopMetrics     `json:"stroop,omitempty"`
	Taps     *TapsMetrics       `json:"taps,omitempty"`
	Posner   *PosnerMetrics     `json:"posner,omitempty"`
	Stop     *StopSignalMetrics `json:"sst,omitempty"`
	Choice   *ChoiceMetrics     `json:"crt,omitempty"`
}

// MarshalJSON encodes the record in the sparse wire shape, with the
// metric object stored under the game key.
func (r SessionRecord) MarshalJSON() ([]byte, error) {
	if r.Metrics == nil {
		return nil, fmt.Errorf("%w: record %q has no metrics", ErrInvalidRecord, r.ID)
	}
	w := recordWire{ID: r.ID, Game: r.Game(), DateISO: r.DateISO()}
	switch m := r.Metrics.(type) {
	case ReactionMetrics:
		if m.Attempts == nil {
			m.Attempts = []float64{}
		}
		w.Reaction = &m
	case AimMetrics:
		w.Aim = &m
	case SequenceMetrics:
		w.Sequence = &m
	case GoNoGoMetrics:
		w.GoNoGo = &m
	case StroopMetrics:
		w.Stroop = &m
	case TapsMetrics:
		w.Taps = &m
	case PosnerMetrics:
		w.Posner = &m
	case StopSignalMetrics:
		w.Stop = &m
	case ChoiceMetrics:
		w.Choice = &m
	default:
		return nil, fmt.Errorf("%w: unsupported metrics %T", ErrInvalidRecord, r.Metrics)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the sparse wire shape. Exactly one metric object
// must be present and it must match the game key.
func (r *SessionRecord) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidRecord)
	}
	if !w.Game.Valid() {
		return fmt.Errorf("%w: %w %q", ErrInvalidRecord, ErrUnknownGame, w.Game)
	}
	date, err := time.Parse(time.RFC3339Nano, w.DateISO)
	if err != nil {
		return fmt.Errorf("%w: bad dateIso %q", ErrInvalidRecord, w.DateISO)
	}

	var found []Metrics
	if w.Reaction != nil {
		if w.Reaction.Attempts == nil {
			w.Reaction.Attempts = []float64{}
		}
		found = append(found, *w.Reaction)
	}
	if w.Aim != nil {
		found = append(found, *w.Aim)
	}
	if w.Sequence != nil {
		found = append(found, *w.Sequence)
	}
	if w.GoNoGo != nil {
		found = append(found, *w.GoNoGo)
	}
	if w.Stroop != nil {
		found = append(found, *w.Stroop)
	}
	if w.Taps != nil {
		found = append(found, *w.Taps)
	}
	if w.Posner != nil {
		found = append(found, *w.Posner)
	}
	if w.Stop != nil {
		found = append(found, *w.Stop)
	}
	if w.Choice != nil {
		found = append(found, *w.Choice)
	}
	if len(found) != 1 {
		return fmt.Errorf("%w: record %q has %d metric objects", ErrInvalidRecord, w.ID, len(found))
	}
	if found[0].Game() != w.Game {
		return fmt.Errorf("%w: record %q is %q but carries %q metrics", ErrInvalidRecord, w.ID, w.Game, found[0].Game())
	}

	*r = SessionRecord{ID: w.ID, Date: date.UTC(), Metrics: found[0]}
	return nil
}
