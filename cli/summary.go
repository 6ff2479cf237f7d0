package main

import (
	"fmt"
	"io"
	"strings"

	"go-mod.ewintr.nl/delicious-copy/domain"
)

type SummaryRepo interface {
	TotalOutcomes() (int64, error)
	TotalRuns() (int64, error)
	OutcomesByStatus() (map[string]int64, error)
	AuthorStatusMatrix() (map[string]map[string]int64, error)
	AllAuthors() ([]string, error)
}

type Summary struct {
	TotalOutcomes int64
	TotalRuns     int64
	ByStatus      map[string]int64
	AuthorStatus  map[string]map[string]int64
	Authors       []string
}

func GenerateSummary(repo SummaryRepo) Summary {
	total, err := repo.TotalOutcomes()
	if err != nil {
		fmt.Printf("Warning: could not get total outcomes: %v\n", err)
	}
	runs, err := repo.TotalRuns()
	if err != nil {
		fmt.Printf("Warning: could not get total runs: %v\n", err)
	}
	byStatus, err := repo.OutcomesByStatus()
	if err != nil {
		fmt.Printf("Warning: could not get outcomes by status: %v\n", err)
	}
	authorStatus, err := repo.AuthorStatusMatrix()
	if err != nil {
		fmt.Printf("Warning: could not get author status matrix: %v\n", err)
	}
	authors, err := repo.AllAuthors()
	if err != nil {
		fmt.Printf("Warning: could not get authors: %v\n", err)
	}

	return Summary{
		TotalOutcomes: total,
		TotalRuns:     runs,
		ByStatus:      byStatus,
		AuthorStatus:  authorStatus,
		Authors:       authors,
	}
}

func PrintMatrix(w io.Writer, s Summary) {
	if len(s.Authors) == 0 {
		fmt.Fprintln(w, "(no data)")
		return
	}

	fmt.Fprintln(w, "Copy History Summary")
	fmt.Fprintln(w, "====================")
	fmt.Fprintf(w, "Total: %d entries in %d runs\n\n", s.TotalOutcomes, s.TotalRuns)
	fmt.Fprintln(w, "Poster × Status Matrix:")

	colWidth := 15

	header := fmt.Sprintf("| %-24s ", "")
	for _, status := range domain.AllStatuses {
		header += fmt.Sprintf("| %-*s ", colWidth-1, status)
	}
	header += "|"
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("+", len(header)))

	for _, author := range s.Authors {
		counts := s.AuthorStatus[author]
		row := fmt.Sprintf("| %-24s ", author)
		for _, status := range domain.AllStatuses {
			row += fmt.Sprintf("| %-*d ", colWidth-1, counts[string(status)])
		}
		row += "|"
		fmt.Fprintln(w, row)
	}

	fmt.Fprintln(w, strings.Repeat("+", len(header)))
	total := fmt.Sprintf("| %-24s ", "total")
	for _, status := range domain.AllStatuses {
		total += fmt.Sprintf("| %-*d ", colWidth-1, s.ByStatus[string(status)])
	}
	fmt.Fprintln(w, total+"|")
}
