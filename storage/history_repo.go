package storage

import (
	"context"
	"fmt"

	"go-mod.ewintr.nl/delicious-copy/domain"
)

// HistoryRepo stores the outcome of every processed inbox entry.
type HistoryRepo struct {
	c *Client
}

func NewHistoryRepo(c *Client) *HistoryRepo {
	return &HistoryRepo{c: c}
}

func (r *HistoryRepo) Record(ctx context.Context, o domain.Outcome) error {
	p := r.c.dialect.placeholder
	query := fmt.Sprintf(`INSERT INTO outcome
(run_id, idx, url, author, status, tags, processed)
VALUES (%s, %s, %s, %s, %s, %s, %s)`,
		p(1), p(2), p(3), p(4), p(5), p(6), p(7))
	if _, err := r.c.db.ExecContext(ctx, query,
		o.RunID, o.Index, o.URL, o.Author,
		string(o.Status), o.Tags, o.Time.UTC(),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}

	return nil
}

// CopiedURLs returns the urls that were saved or found to be present
// already in earlier runs.
func (r *HistoryRepo) CopiedURLs(ctx context.Context) ([]string, error) {
	p := r.c.dialect.placeholder
	query := fmt.Sprintf(`SELECT DISTINCT url FROM outcome
WHERE status IN (%s, %s)
ORDER BY url`, p(1), p(2))
	rows, err := r.c.db.QueryContext(ctx, query, string(domain.StatusSaved), string(domain.StatusDuplicate))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
		}
		urls = append(urls, u)
	}

	return urls, rows.Err()
}
