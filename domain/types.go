package domain

import "time"

type InboxEntry struct {
	Author string
	Link   string
	Title  string
	Notes  string
}

type URLInfo struct {
	Title   string
	TopTags []string
}

type Bookmark struct {
	URL   string
	Title string
	Tags  string
	Notes string
}

// ContactSet holds the account names of the user's network.
type ContactSet map[string]struct{}

func NewContactSet(names ...string) ContactSet {
	cs := make(ContactSet, len(names))
	for _, n := range names {
		cs[n] = struct{}{}
	}
	return cs
}

func (cs ContactSet) Contains(name string) bool {
	_, ok := cs[name]
	return ok
}

type Status string

const (
	StatusSaved        Status = "saved"
	StatusDuplicate    Status = "duplicate"
	StatusUnauthorized Status = "unauthorized"
	StatusNoMetadata   Status = "no_metadata"
	StatusSkipped      Status = "skipped"
	StatusFailed       Status = "failed"
)

var AllStatuses = []Status{
	StatusSaved, StatusDuplicate, StatusUnauthorized,
	StatusNoMetadata, StatusSkipped, StatusFailed,
}

type Outcome struct {
	RunID  string
	Index  int
	URL    string
	Author string
	Status Status
	Tags   string
	Time   time.Time
}
