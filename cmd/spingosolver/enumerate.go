package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lox/spingosolver/cmd/spingosolver/shared"
	"github.com/lox/spingosolver/game"
	"github.com/lox/spingosolver/poker"
)

// EnumerateCmd writes every canonical (suit-isomorphism-reduced) hole+board
// configuration for a round to a flat file, one canonical string per line.
// Resumable: re-running with the same Output file only emits configurations
// not already present.
type EnumerateCmd struct {
	Round  string `kong:"default='preflop',enum='preflop,flop,turn,river',help='Round to enumerate board cards for'"`
	Output string `kong:"required,help='Output path for the canonical-configuration list'"`
}

func (c *EnumerateCmd) Run(cli *CLI) error {
	logger := shared.NewLogger(cli.LogLevel)

	boardCards, err := boardCardsForRound(c.Round)
	if err != nil {
		return err
	}

	seen, err := loadSeenLines(c.Output)
	if err != nil {
		return err
	}
	startCount := len(seen)

	enumerator := poker.NewEnumerator(2, boardCards, seen)

	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("enumerate: open output: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	emitted := 0
	enumerator.Enumerate(func(canonical string) {
		fmt.Fprintln(w, canonical)
		emitted++
	})

	if err := w.Flush(); err != nil {
		return fmt.Errorf("enumerate: flush output: %w", err)
	}

	logger.Info().
		Str("round", c.Round).
		Int("already_seen", startCount).
		Int("emitted", emitted).
		Msg("enumeration complete")
	return nil
}

func boardCardsForRound(round string) (int, error) {
	switch round {
	case "preflop":
		return 0, nil
	case "flop":
		return 3, nil
	case "turn":
		return 4, nil
	case "river":
		return 5, nil
	default:
		return 0, fmt.Errorf("enumerate: unknown round %q", round)
	}
}

func roundFromString(s string) (game.Round, error) {
	switch s {
	case "preflop":
		return game.Preflop, nil
	case "flop":
		return game.Flop, nil
	case "turn":
		return game.Turn, nil
	case "river":
		return game.River, nil
	default:
		return 0, fmt.Errorf("unknown round %q", s)
	}
}

func loadSeenLines(path string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("enumerate: open existing output: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		seen[line] = struct{}{}
	}
	return seen, scanner.Err()
}
