package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/lox/spingosolver/cmd/spingosolver/shared"
	"github.com/lox/spingosolver/equity"
	"github.com/lox/spingosolver/internal/fileutil"
)

// SampleEquityCmd runs Monte Carlo equity estimation over every canonical
// configuration in Input (as written by EnumerateCmd), writing one equity
// estimate per line to Output.
type SampleEquityCmd struct {
	Input  string `kong:"required,help='Canonical-configuration list, as written by the enumerate command'"`
	Output string `kong:"required,help='CSV output path for per-hand equity estimates'"`
	Trials int    `kong:"default='2000',help='Monte Carlo trials per hand'"`
	Seed   int64  `kong:"help='RNG seed (0 for random)'"`
}

func (c *SampleEquityCmd) Run(cli *CLI) error {
	logger := shared.NewLogger(cli.LogLevel)

	seed := c.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	f, err := os.Open(c.Input)
	if err != nil {
		return fmt.Errorf("sample-equity: open input: %w", err)
	}
	defer f.Close()

	var rows [][]string
	rows = append(rows, []string{"canonical", "equity", "win_rate", "tie_rate", "trials"})

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	count := 0
	for scanner.Scan() {
		canonical := scanner.Text()
		if canonical == "" {
			continue
		}
		hole, board, err := parseCanonical(canonical)
		if err != nil {
			return fmt.Errorf("sample-equity: %w", err)
		}

		res := equity.Estimate(hole, board, equity.RandomRange{}, c.Trials, rng)
		rows = append(rows, []string{
			canonical,
			strconv.FormatFloat(res.Equity(), 'f', 6, 64),
			strconv.FormatFloat(res.WinRate(), 'f', 6, 64),
			strconv.FormatFloat(res.TieRate(), 'f', 6, 64),
			strconv.Itoa(int(res.TotalSimulations)),
		})
		count++
		if count%1000 == 0 {
			logger.Info().Int("hands", count).Msg("sampled equity")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("sample-equity: read input: %w", err)
	}

	var buf []byte
	buf, err = encodeCSV(rows)
	if err != nil {
		return fmt.Errorf("sample-equity: encode csv: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.Output, buf, 0o644); err != nil {
		return fmt.Errorf("sample-equity: write output: %w", err)
	}

	logger.Info().Int("hands", count).Str("output", c.Output).Msg("equity sampling complete")
	return nil
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var sb stringBuilderWriter
	w := csv.NewWriter(&sb)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return sb.buf, nil
}

type stringBuilderWriter struct {
	buf []byte
}

func (w *stringBuilderWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
