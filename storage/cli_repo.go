package storage

import (
	"fmt"
)

type CliRepo struct {
	c *Client
}

func NewCliRepo(c *Client) *CliRepo {
	return &CliRepo{c: c}
}

func (r *CliRepo) TotalOutcomes() (int64, error) {
	var count int64
	if err := r.c.db.QueryRow("SELECT COUNT(*) FROM outcome").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	return count, nil
}

func (r *CliRepo) TotalRuns() (int64, error) {
	var count int64
	if err := r.c.db.QueryRow("SELECT COUNT(DISTINCT run_id) FROM outcome").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	return count, nil
}

func (r *CliRepo) OutcomesByStatus() (map[string]int64, error) {
	rows, err := r.c.db.Query("SELECT status, COUNT(*) FROM outcome GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}
		result[status] = count
	}

	return result, rows.Err()
}

func (r *CliRepo) AuthorStatusMatrix() (map[string]map[string]int64, error) {
	rows, err := r.c.db.Query(`
		SELECT author, status, COUNT(*)
		FROM outcome
		GROUP BY author, status
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	defer rows.Close()

	result := make(map[string]map[string]int64)
	for rows.Next() {
		var author string
		var status string
		var count int64
		if err := rows.Scan(&author, &status, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}

		if result[author] == nil {
			result[author] = make(map[string]int64)
		}
		result[author][status] = count
	}

	return result, rows.Err()
}

func (r *CliRepo) AllAuthors() ([]string, error) {
	rows, err := r.c.db.Query("SELECT DISTINCT author FROM outcome ORDER BY author")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var author string
		if err := rows.Scan(&author); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}
		authors = append(authors, author)
	}

	return authors, rows.Err()
}
