package main

import (
	"fmt"
	"strings"

	"github.com/lox/spingosolver/poker"
)

// parseCanonical parses the "H:<cards>|B:<cards>" strings written by
// EnumerateCmd back into hole and board card slices.
func parseCanonical(canonical string) (hole, board []poker.Card, err error) {
	parts := strings.SplitN(canonical, "|", 2)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("canonical: malformed entry %q", canonical)
	}

	hole, err = parseCardRun(strings.TrimPrefix(parts[0], "H:"))
	if err != nil {
		return nil, nil, fmt.Errorf("canonical: hole cards: %w", err)
	}
	board, err = parseCardRun(strings.TrimPrefix(parts[1], "B:"))
	if err != nil {
		return nil, nil, fmt.Errorf("canonical: board cards: %w", err)
	}
	return hole, board, nil
}

func parseCardRun(run string) ([]poker.Card, error) {
	if len(run)%2 != 0 {
		return nil, fmt.Errorf("odd-length card run %q", run)
	}
	cards := make([]poker.Card, 0, len(run)/2)
	for i := 0; i < len(run); i += 2 {
		c, err := poker.ParseCard(run[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
