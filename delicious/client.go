package delicious

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go-mod.ewintr.nl/delicious-copy/copier"
	"go-mod.ewintr.nl/delicious-copy/domain"
)

const (
	DefaultAPIURL    = "https://api.del.icio.us"
	DefaultFeedsURL  = "http://feeds.delicious.com"
	DefaultUserAgent = "delicious-copy"
	DefaultTimeout   = 30 * time.Second
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrAuthentication       = errors.New("delicious rejected the credentials")
	ErrUnexpectedResponse   = errors.New("unexpected response from delicious")
)

var _ copier.Service = (*Client)(nil)

type Config struct {
	Username  string
	Password  string
	Key       string
	APIURL    string
	FeedsURL  string
	UserAgent string
	Timeout   time.Duration
}

type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: missing username", ErrInvalidConfiguration)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.FeedsURL == "" {
		cfg.FeedsURL = DefaultFeedsURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	cfg.FeedsURL = strings.TrimRight(cfg.FeedsURL, "/")

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// FetchInbox reads the private rss inbox feed of the account.
func (c *Client) FetchInbox(ctx context.Context) ([]domain.InboxEntry, error) {
	q := url.Values{}
	if c.cfg.Key != "" {
		q.Set("private", c.cfg.Key)
	}
	body, err := c.get(ctx, c.feedURL("rss", "inbox", c.cfg.Username), q, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not parse inbox: %v", ErrUnexpectedResponse, err)
	}

	entries := make([]domain.InboxEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		entries = append(entries, domain.InboxEntry{
			Author: itemAuthor(item),
			Link:   item.Link,
			Title:  item.Title,
			Notes:  item.Description,
		})
	}

	return entries, nil
}

// FetchContacts reads the network of the account.
func (c *Client) FetchContacts(ctx context.Context) (domain.ContactSet, error) {
	body, err := c.get(ctx, c.feedURL("json", "network", c.cfg.Username), nil, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var members []networkMember
	if err := json.NewDecoder(body).Decode(&members); err != nil {
		return nil, fmt.Errorf("%w: could not decode network: %v", ErrUnexpectedResponse, err)
	}

	contacts := make(domain.ContactSet, len(members))
	for _, m := range members {
		if m != "" {
			contacts[string(m)] = struct{}{}
		}
	}

	return contacts, nil
}

// FetchURLInfo returns the first urlinfo record for the hash, or nil if
// delicious knows nothing about the url. A record without a title key
// yields copier.ErrMissingMetadata.
func (c *Client) FetchURLInfo(ctx context.Context, fingerprint string) (*domain.URLInfo, error) {
	body, err := c.get(ctx, c.feedURL("json", "urlinfo", fingerprint), nil, false)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var records []urlInfoRecord
	if err := json.NewDecoder(body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: could not decode urlinfo: %v", ErrUnexpectedResponse, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if records[0].Title == nil {
		return nil, fmt.Errorf("%w: %s", copier.ErrMissingMetadata, fingerprint)
	}

	return &domain.URLInfo{
		Title:   *records[0].Title,
		TopTags: []string(records[0].TopTags),
	}, nil
}

// CreateBookmark adds a post to the account without replacing an
// existing one.
func (c *Client) CreateBookmark(ctx context.Context, bm domain.Bookmark) error {
	q := url.Values{}
	q.Set("url", bm.URL)
	q.Set("description", bm.Title)
	q.Set("tags", bm.Tags)
	if bm.Notes != "" {
		q.Set("extended", bm.Notes)
	}
	q.Set("replace", "no")

	body, err := c.get(ctx, c.cfg.APIURL+"/v1/posts/add", q, true)
	if err != nil {
		return err
	}
	defer body.Close()

	var res struct {
		Code string `xml:"code,attr"`
	}
	if err := xml.NewDecoder(body).Decode(&res); err != nil {
		return fmt.Errorf("%w: could not decode result: %v", ErrUnexpectedResponse, err)
	}

	switch res.Code {
	case "done":
		return nil
	case "item already exists":
		return fmt.Errorf("%w: %s", copier.ErrAlreadyExists, bm.URL)
	default:
		return fmt.Errorf("%w: result code %q", ErrUnexpectedResponse, res.Code)
	}
}

func (c *Client) feedURL(format, feed, arg string) string {
	return fmt.Sprintf("%s/v2/%s/%s/%s", c.cfg.FeedsURL, format, feed, url.PathEscape(arg))
}

func (c *Client) get(ctx context.Context, u string, q url.Values, auth bool) (io.ReadCloser, error) {
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if auth {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, ErrAuthentication
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: status %s", ErrUnexpectedResponse, resp.Status)
	}

	return resp.Body, nil
}

func itemAuthor(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && p.Name != "" {
			return p.Name
		}
	}
	if item.Author != nil {
		return item.Author.Name
	}
	return ""
}
