package solver

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lox/spingosolver/game"
)

// strategyCSVHeader is the fixed column order the strategy file contract
// requires.
var strategyCSVHeader = []string{
	"Round", "Player", "Abstraction", "PreviousActions", "Strategy", "CumulatedPot", "StrategyUpdateCount",
}

// StrategyRecord is one information set's exported average strategy: one
// row of the strategy CSV.
type StrategyRecord struct {
	Round           game.Round
	Player          int
	Abstraction     string
	PreviousActions string
	Actions         []game.Action
	Probabilities   []float64
	CumulatedPotBB  float64
	UpdateCount     int
}

// ExportStrategy writes every information set accumulated in t's regret
// table to path as a strategy CSV, one row per info set, using each node's
// time-averaged strategy.
func (t *Trainer) ExportStrategy(path string) error {
	records := make([]StrategyRecord, 0, t.regrets.Size())
	for _, entry := range t.regrets.Entries() {
		records = append(records, recordFromEntry(entry))
	}
	return WriteStrategyCSV(path, records)
}

func recordFromEntry(entry *RegretEntry) StrategyRecord {
	entry.mutex.Lock()
	actions := append([]game.Action(nil), entry.Actions...)
	updateCount := entry.UpdateCount
	key := entry.Key
	entry.mutex.Unlock()

	return StrategyRecord{
		Round:           game.Round(key.Round),
		Player:          key.Seat,
		Abstraction:     key.Bucket,
		PreviousActions: key.ActionHistory,
		Actions:         actions,
		Probabilities:   entry.AverageStrategy(),
		CumulatedPotBB:  float64(key.PotTotal) / float64(game.BigBlindUnits),
		UpdateCount:     updateCount,
	}
}

// WriteStrategyCSV writes records to path in the fixed column order, sorted
// for reproducible diffs between runs.
func WriteStrategyCSV(path string, records []StrategyRecord) error {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Round != b.Round {
			return a.Round < b.Round
		}
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		if a.Abstraction != b.Abstraction {
			return a.Abstraction < b.Abstraction
		}
		return a.PreviousActions < b.PreviousActions
	})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create strategy file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(strategyCSVHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec.row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (rec StrategyRecord) row() []string {
	return []string{
		rec.Round.String(),
		strconv.Itoa(rec.Player),
		rec.Abstraction,
		rec.PreviousActions,
		formatStrategy(rec.Actions, rec.Probabilities),
		strconv.FormatFloat(rec.CumulatedPotBB, 'f', -1, 64),
		strconv.Itoa(rec.UpdateCount),
	}
}

// formatStrategy renders the action/probability pairs as
// "<ACTION>:<prob>|<ACTION>:<prob>..." with six decimal places, in the
// info-set's action order.
func formatStrategy(actions []game.Action, probabilities []float64) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		p := 0.0
		if i < len(probabilities) {
			p = probabilities[i]
		}
		parts[i] = fmt.Sprintf("%s:%.6f", a.String(), p)
	}
	return strings.Join(parts, "|")
}

// ReadStrategyCSV loads a previously written strategy file.
func ReadStrategyCSV(path string) ([]StrategyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("strategy file %s has no header", path)
	}

	records := make([]StrategyRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := parseStrategyRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseStrategyRow(row []string) (StrategyRecord, error) {
	if len(row) != len(strategyCSVHeader) {
		return StrategyRecord{}, fmt.Errorf("strategy row has %d columns, want %d", len(row), len(strategyCSVHeader))
	}

	round, err := parseRound(row[0])
	if err != nil {
		return StrategyRecord{}, err
	}
	player, err := strconv.Atoi(row[1])
	if err != nil {
		return StrategyRecord{}, fmt.Errorf("parse player: %w", err)
	}
	actions, probs, err := parseStrategy(row[4])
	if err != nil {
		return StrategyRecord{}, err
	}
	pot, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return StrategyRecord{}, fmt.Errorf("parse cumulated pot: %w", err)
	}
	updateCount, err := strconv.Atoi(row[6])
	if err != nil {
		return StrategyRecord{}, fmt.Errorf("parse update count: %w", err)
	}

	return StrategyRecord{
		Round:           round,
		Player:          player,
		Abstraction:     row[2],
		PreviousActions: row[3],
		Actions:         actions,
		Probabilities:   probs,
		CumulatedPotBB:  pot,
		UpdateCount:     updateCount,
	}, nil
}

func parseStrategy(field string) ([]game.Action, []float64, error) {
	if field == "" {
		return nil, nil, nil
	}
	parts := strings.Split(field, "|")
	actions := make([]game.Action, 0, len(parts))
	probs := make([]float64, 0, len(parts))
	for _, p := range parts {
		idx := strings.LastIndex(p, ":")
		if idx < 0 {
			return nil, nil, fmt.Errorf("malformed strategy entry %q", p)
		}
		action, err := parseActionToken(p[:idx])
		if err != nil {
			return nil, nil, err
		}
		prob, err := strconv.ParseFloat(p[idx+1:], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse probability in %q: %w", p, err)
		}
		actions = append(actions, action)
		probs = append(probs, prob)
	}
	return actions, probs, nil
}

func parseActionToken(token string) (game.Action, error) {
	if strings.HasPrefix(token, "BET_") {
		size, err := strconv.ParseFloat(strings.TrimPrefix(token, "BET_"), 64)
		if err != nil {
			return game.Action{}, fmt.Errorf("parse bet size in %q: %w", token, err)
		}
		return game.Action{Kind: game.Bet, Size: size}, nil
	}
	switch token {
	case "FOLD":
		return game.Action{Kind: game.Fold}, nil
	case "CHECK":
		return game.Action{Kind: game.Check}, nil
	case "CALL":
		return game.Action{Kind: game.Call}, nil
	case "ALL_IN":
		return game.Action{Kind: game.AllIn}, nil
	default:
		return game.Action{}, fmt.Errorf("unknown action token %q", token)
	}
}

func parseRound(s string) (game.Round, error) {
	switch s {
	case "preflop":
		return game.Preflop, nil
	case "flop":
		return game.Flop, nil
	case "turn":
		return game.Turn, nil
	case "river":
		return game.River, nil
	case "showdown":
		return game.Showdown, nil
	default:
		return 0, fmt.Errorf("unknown round %q", s)
	}
}
