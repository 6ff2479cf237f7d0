package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	err error
}

func (f fakeRepo) TotalOutcomes() (int64, error) { return 3, f.err }
func (f fakeRepo) TotalRuns() (int64, error)     { return 2, f.err }
func (f fakeRepo) OutcomesByStatus() (map[string]int64, error) {
	return map[string]int64{"saved": 2, "unauthorized": 1}, f.err
}
func (f fakeRepo) AuthorStatusMatrix() (map[string]map[string]int64, error) {
	return map[string]map[string]int64{
		"alice":   {"saved": 2},
		"mallory": {"unauthorized": 1},
	}, f.err
}
func (f fakeRepo) AllAuthors() ([]string, error) { return []string{"alice", "mallory"}, f.err }

func TestPrintMatrix(t *testing.T) {
	var buf bytes.Buffer
	PrintMatrix(&buf, GenerateSummary(fakeRepo{}))
	out := buf.String()

	assert.Contains(t, out, "Total: 3 entries in 2 runs")
	lines := strings.Split(out, "\n")
	var alice, mallory string
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "| alice"):
			alice = l
		case strings.HasPrefix(l, "| mallory"):
			mallory = l
		}
	}
	assert.Equal(t, "| alice                    | 2              | 0              | 0              | 0              | 0              | 0              |", alice)
	assert.Equal(t, "| mallory                  | 0              | 0              | 1              | 0              | 0              | 0              |", mallory)
}

func TestPrintMatrixNoData(t *testing.T) {
	var buf bytes.Buffer
	PrintMatrix(&buf, GenerateSummary(fakeRepo{err: errors.New("db down")}))
	assert.Equal(t, "Copy History Summary", strings.SplitN(buf.String(), "\n", 2)[0])

	buf.Reset()
	PrintMatrix(&buf, Summary{})
	assert.Equal(t, "(no data)\n", buf.String())
}
