package delicious

import (
	"bytes"
	"encoding/json"
	"sort"
)

// networkMember is either a bare user name or an object with a user
// field.
type networkMember string

func (m *networkMember) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*m = networkMember(name)
		return nil
	}
	var obj struct {
		User string `json:"user"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*m = networkMember(obj.User)
	return nil
}

type urlInfoRecord struct {
	Hash       string  `json:"hash"`
	Title      *string `json:"title"`
	URL        string  `json:"url"`
	TotalPosts int     `json:"total_posts"`
	TopTags    topTags `json:"top_tags"`
}

// topTags accepts a list of tags or an object of tag counts. Counted
// tags are ordered by count, highest first, then by name.
type topTags []string

func (t *topTags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*t = list
		return nil
	}

	var counts map[string]int
	if err := json.Unmarshal(b, &counts); err != nil {
		return err
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	*t = tags
	return nil
}
