package inbox

import (
	"context"
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go-mod.ewintr.nl/delicious-copy/domain"
	miniflux "miniflux.app/v2/client"
)

// Miniflux reads the unread entries of one category as inbox. The
// entry author is taken as poster.
type Miniflux struct {
	client     *miniflux.Client
	categoryID int64
}

func NewMiniflux(host, apiKey string, categoryID int64) *Miniflux {
	return &Miniflux{
		client:     miniflux.NewClient(host, apiKey),
		categoryID: categoryID,
	}
}

func (mf *Miniflux) FetchInbox(ctx context.Context) ([]domain.InboxEntry, error) {
	result, err := mf.client.CategoryEntriesContext(ctx, mf.categoryID, &miniflux.Filter{
		Statuses:  []string{"unread"},
		Order:     "published_at",
		Direction: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("could not fetch unread entries: %v", err)
	}

	entries := make([]domain.InboxEntry, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, domain.InboxEntry{
			Author: e.Author,
			Link:   e.URL,
			Title:  e.Title,
			Notes:  ConvertHTMLToMarkdown(e.Content),
		})
	}

	return entries, nil
}

func ConvertHTMLToMarkdown(html string) string {
	if html == "" {
		return ""
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		markdown = fmt.Sprintf("Error: could not convert html: %v", err)
	}

	return markdown
}
