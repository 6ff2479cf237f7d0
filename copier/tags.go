package copier

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Fingerprint is the url hash the urlinfo feed is keyed by.
func Fingerprint(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// BuildTags returns "via:<author>" followed by the top tags, with spaces
// inside a tag replaced by underscores.
func BuildTags(author string, topTags []string) string {
	parts := make([]string, 0, len(topTags)+1)
	parts = append(parts, "via:"+author)
	for _, t := range topTags {
		parts = append(parts, strings.ReplaceAll(t, " ", "_"))
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
