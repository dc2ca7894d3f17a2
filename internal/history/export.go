package history

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/cogtrain/internal/model"
)

const utf8BOM = "\uFEFF"

// Column names. The first block matches the spreadsheet export of the web
// version; DateISO and Reaction_Attempts_ms make the file re-importable.
const (
	colID                  = "ID"
	colGame                = "Game"
	colDate                = "Date"
	colTime                = "Time"
	colReactionAvg         = "Reaction_AvgRT_ms"
	colReactionBest        = "Reaction_BestRT_ms"
	colReactionAccuracy    = "Reaction_Accuracy_percent"
	colAimHits             = "Aim_Hits"
	colAimAccuracy         = "Aim_Accuracy_percent"
	colAimDuration         = "Aim_Duration_seconds"
	colSequenceLevel       = "Sequence_Level"
	colSequenceLongest     = "Sequence_Longest"
	colGoNoGoGoAcc         = "GoNoGo_GoAccuracy_percent"
	colGoNoGoNogoAcc       = "GoNoGo_NoGoAccuracy_percent"
	colGoNoGoAvg           = "GoNoGo_AvgRT_ms"
	colStroopCongruent     = "Stroop_CongruentAvg_ms"
	colStroopIncongruent   = "Stroop_IncongruentAvg_ms"
	colStroopCost          = "Stroop_InterferenceCost_ms"
	colStroopAccuracy      = "Stroop_Accuracy_percent"
	colTapsCount           = "Taps_Count"
	colTapsDuration        = "Taps_Duration_seconds"
	colTapsInterval        = "Taps_AvgInterval_ms"
	colPosnerValid         = "Posner_ValidAvg_ms"
	colPosnerInvalid       = "Posner_InvalidAvg_ms"
	colPosnerCost          = "Posner_SwitchCost_ms"
	colPosnerAccuracy      = "Posner_Accuracy_percent"
	colStopSSD             = "StopSignal_AvgSSD_ms"
	colStopSSRT            = "StopSignal_SSRT_ms"
	colStopSuccess         = "StopSignal_StopSuccess_percent"
	colStopGoAcc           = "StopSignal_GoAccuracy_percent"
	colChoiceChoices       = "ChoiceRT_Choices"
	colChoiceAvg           = "ChoiceRT_AvgRT_ms"
	colChoiceAccuracy      = "ChoiceRT_Accuracy_percent"
	colDateISO             = "DateISO"
	colReactionAttempts    = "Reaction_Attempts_ms"
	attemptsSeparator      = ";"
	csvDateLayout          = "2006-01-02"
	csvTimeLayout          = "15:04:05"
	csvLocalDateTimeLayout = csvDateLayout + " " + csvTimeLayout
)

// CSVHeader is the column order of ExportCSV.
var CSVHeader = []string{
	colID, colGame, colDate, colTime,
	colReactionAvg, colReactionBest, colReactionAccuracy,
	colAimHits, colAimAccuracy, colAimDuration,
	colSequenceLevel, colSequenceLongest,
	colGoNoGoGoAcc, colGoNoGoNogoAcc, colGoNoGoAvg,
	colStroopCongruent, colStroopIncongruent, colStroopCost, colStroopAccuracy,
	colTapsCount, colTapsDuration, colTapsInterval,
	colPosnerValid, colPosnerInvalid, colPosnerCost, colPosnerAccuracy,
	colStopSSD, colStopSSRT, colStopSuccess, colStopGoAcc,
	colChoiceChoices, colChoiceAvg, colChoiceAccuracy,
	colDateISO, colReactionAttempts,
}

// ExportJSON writes records as a two-space indented JSON array.
func ExportJSON(w io.Writer, records []model.SessionRecord) error {
	if records == nil {
		records = []model.SessionRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// ExportCSV writes one row per record. Columns of other games stay blank.
// Date and Time are in the local zone; DateISO carries the exact instant.
func ExportCSV(w io.Writer, records []model.SessionRecord) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	for _, r := range records {
		cells := metricCells(r.Metrics)
		local := r.Date.Local()
		cells[colID] = r.ID
		cells[colGame] = string(r.Game())
		cells[colDate] = local.Format(csvDateLayout)
		cells[colTime] = local.Format(csvTimeLayout)
		cells[colDateISO] = r.DateISO()
		row := make([]string, len(CSVHeader))
		for i, name := range CSVHeader {
			row[i] = cells[name]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

func metricCells(m model.Metrics) map[string]string {
	c := map[string]string{}
	switch v := m.(type) {
	case model.ReactionMetrics:
		c[colReactionAvg] = num(v.AverageMs)
		c[colReactionBest] = num(v.BestMs)
		parts := make([]string, len(v.Attempts))
		for i, a := range v.Attempts {
			parts[i] = num(a)
		}
		c[colReactionAttempts] = strings.Join(parts, attemptsSeparator)
	case model.AimMetrics:
		c[colAimHits] = strconv.Itoa(v.Hits)
		c[colAimAccuracy] = num(v.Accuracy)
		c[colAimDuration] = strconv.Itoa(v.TimeSec)
	case model.SequenceMetrics:
		c[colSequenceLevel] = strconv.Itoa(v.Level)
		c[colSequenceLongest] = strconv.Itoa(v.Longest)
	case model.GoNoGoMetrics:
		c[colGoNoGoGoAcc] = num(v.GoAcc)
		c[colGoNoGoNogoAcc] = num(v.NogoAcc)
		c[colGoNoGoAvg] = num(v.AvgRtMs)
	case model.StroopMetrics:
		c[colStroopCongruent] = num(v.CongruentAvgMs)
		c[colStroopIncongruent] = num(v.IncongruentAvgMs)
		c[colStroopCost] = num(v.CostMs)
		c[colStroopAccuracy] = num(v.Accuracy)
	case model.TapsMetrics:
		c[colTapsCount] = strconv.Itoa(v.Taps)
		c[colTapsDuration] = strconv.Itoa(v.Seconds)
		c[colTapsInterval] = num(v.AvgIntervalMs)
	case model.PosnerMetrics:
		c[colPosnerValid] = num(v.ValidAvgMs)
		c[colPosnerInvalid] = num(v.InvalidAvgMs)
		c[colPosnerCost] = num(v.CostMs)
		c[colPosnerAccuracy] = num(v.Accuracy)
	case model.StopSignalMetrics:
		c[colStopSSD] = num(v.AvgSsdMs)
		c[colStopSSRT] = num(v.SsrtMs)
		c[colStopSuccess] = num(v.StopSuccessPct)
		c[colStopGoAcc] = num(v.GoAcc)
	case model.ChoiceMetrics:
		c[colChoiceChoices] = strconv.Itoa(v.Choices)
		c[colChoiceAvg] = num(v.AvgRtMs)
		c[colChoiceAccuracy] = num(v.Accuracy)
	}
	return c
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DecodeJSON parses an exported JSON array. Any malformed record rejects the
// whole document.
func DecodeJSON(data []byte) ([]model.SessionRecord, error) {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	var blobs []json.RawMessage
	if err := json.Unmarshal(data, &blobs); err != nil {
		return nil, &ImportError{Index: -1, Err: err}
	}
	records := make([]model.SessionRecord, 0, len(blobs))
	for i, b := range blobs {
		var rec model.SessionRecord
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, &ImportError{Index: i, Err: err}
		}
		records = append(records, rec)
	}
	if err := checkUnique(records); err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeCSV parses a file written by ExportCSV. Files without the DateISO
// column fall back to the local Date and Time columns.
func DecodeCSV(r io.Reader) ([]model.SessionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &ImportError{Index: -1, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ImportError{Index: -1, Err: errors.New("missing header row")}
	}
	index := map[string]int{}
	for i, name := range rows[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colID, colGame} {
		if _, ok := index[required]; !ok {
			return nil, &ImportError{Index: -1, Err: fmt.Errorf("missing %s column", required)}
		}
	}

	records := make([]model.SessionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cell := func(name string) string {
			if j, ok := index[name]; ok && j < len(row) {
				return strings.TrimSpace(row[j])
			}
			return ""
		}
		rec, err := recordFromCells(cell)
		if err != nil {
			return nil, &ImportError{Index: i, Err: err}
		}
		records = append(records, rec)
	}
	if err := checkUnique(records); err != nil {
		return nil, err
	}
	return records, nil
}

func recordFromCells(cell func(string) string) (model.SessionRecord, error) {
	id := cell(colID)
	if id == "" {
		return model.SessionRecord{}, fmt.Errorf("%w: missing id", model.ErrInvalidRecord)
	}
	game, err := model.ParseGame(cell(colGame))
	if err != nil {
		return model.SessionRecord{}, err
	}
	date, err := csvDate(cell)
	if err != nil {
		return model.SessionRecord{}, err
	}
	p := cellParser{cell: cell}
	var m model.Metrics
	switch game {
	case model.GameReaction:
		m = model.ReactionMetrics{
			Attempts:  p.floats(colReactionAttempts),
			AverageMs: p.float(colReactionAvg),
			BestMs:    p.float(colReactionBest),
		}
	case model.GameAim:
		m = model.AimMetrics{Hits: p.integer(colAimHits), Accuracy: p.float(colAimAccuracy), TimeSec: p.integer(colAimDuration)}
	case model.GameSequence:
		m = model.SequenceMetrics{Level: p.integer(colSequenceLevel), Longest: p.integer(colSequenceLongest)}
	case model.GameGoNoGo:
		m = model.GoNoGoMetrics{GoAcc: p.float(colGoNoGoGoAcc), NogoAcc: p.float(colGoNoGoNogoAcc), AvgRtMs: p.float(colGoNoGoAvg)}
	case model.GameStroop:
		m = model.StroopMetrics{
			CongruentAvgMs:   p.float(colStroopCongruent),
			IncongruentAvgMs: p.float(colStroopIncongruent),
			Accuracy:         p.float(colStroopAccuracy),
			CostMs:           p.float(colStroopCost),
		}
	case model.GameTaps:
		m = model.TapsMetrics{Taps: p.integer(colTapsCount), Seconds: p.integer(colTapsDuration), AvgIntervalMs: p.float(colTapsInterval)}
	case model.GamePosner:
		m = model.PosnerMetrics{
			ValidAvgMs:   p.float(colPosnerValid),
			InvalidAvgMs: p.float(colPosnerInvalid),
			CostMs:       p.float(colPosnerCost),
			Accuracy:     p.float(colPosnerAccuracy),
		}
	case model.GameStop:
		m = model.StopSignalMetrics{
			AvgSsdMs:       p.float(colStopSSD),
			SsrtMs:         p.float(colStopSSRT),
			StopSuccessPct: p.float(colStopSuccess),
			GoAcc:          p.float(colStopGoAcc),
		}
	case model.GameChoice:
		m = model.ChoiceMetrics{Choices: p.integer(colChoiceChoices), AvgRtMs: p.float(colChoiceAvg), Accuracy: p.float(colChoiceAccuracy)}
	}
	if p.err != nil {
		return model.SessionRecord{}, p.err
	}
	return model.SessionRecord{ID: id, Date: date, Metrics: m}, nil
}

func csvDate(cell func(string) string) (time.Time, error) {
	if iso := cell(colDateISO); iso != "" {
		t, err := time.Parse(time.RFC3339Nano, iso)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: bad %s %q", model.ErrInvalidRecord, colDateISO, iso)
		}
		return t.UTC(), nil
	}
	local := cell(colDate) + " " + cell(colTime)
	t, err := time.ParseInLocation(csvLocalDateTimeLayout, local, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", model.ErrInvalidRecord, local)
	}
	return t.UTC(), nil
}

// cellParser converts numeric cells, remembering the first failure. Blank
// cells read as zero.
type cellParser struct {
	cell func(string) string
	err  error
}

func (p *cellParser) float(name string) float64 {
	s := p.cell(name)
	if s == "" || p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.err = fmt.Errorf("%w: %s: %v", model.ErrInvalidRecord, name, err)
		return 0
	}
	return v
}

func (p *cellParser) integer(name string) int {
	v := p.float(name)
	if v != float64(int(v)) && p.err == nil {
		p.err = fmt.Errorf("%w: %s: %v is not an integer", model.ErrInvalidRecord, name, v)
	}
	return int(v)
}

func (p *cellParser) floats(name string) []float64 {
	s := p.cell(name)
	out := []float64{}
	if s == "" || p.err != nil {
		return out
	}
	for _, part := range strings.Split(s, attemptsSeparator) {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			p.err = fmt.Errorf("%w: %s: %v", model.ErrInvalidRecord, name, err)
			return nil
		}
		out = append(out, v)
	}
	return out
}

func checkUnique(records []model.SessionRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if _, ok := seen[r.ID]; ok {
			return &ImportError{Index: i, Err: fmt.Errorf("duplicate id %q", r.ID)}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
