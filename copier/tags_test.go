package copier

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Fingerprint(""))
	assert.Equal(t, "a6bf1757fff057f266b697df9cf176fd", Fingerprint("http://example.com/"))
	assert.Len(t, Fingerprint("http://del.icio.us/"), 32)
}

func TestBuildTags(t *testing.T) {
	for _, tc := range []struct {
		name    string
		author  string
		topTags []string
		exp     string
	}{
		{name: "no tags", author: "alice", exp: "via:alice"},
		{name: "plain", author: "alice", topTags: []string{"go", "web"}, exp: "via:alice go web"},
		{name: "spaces", author: "bob", topTags: []string{"foo", "bar baz", "a b c"}, exp: "via:bob foo bar_baz a_b_c"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, BuildTags(tc.author, tc.topTags))
		})
	}
}

func TestKindOf(t *testing.T) {
	for _, tc := range []struct {
		err   error
		kind  Kind
		fatal bool
	}{
		{err: ErrUnauthorized, kind: KindUnauthorized},
		{err: fmt.Errorf("%w: bob", ErrUnauthorized), kind: KindUnauthorized},
		{err: ErrMissingMetadata, kind: KindMissingMetadata},
		{err: fmt.Errorf("%w: code %q", ErrAlreadyExists, "item already exists"), kind: KindAlreadyExists},
		{err: ErrServiceFailure, kind: KindServiceFailure, fatal: true},
		{err: errors.New("timeout"), kind: KindServiceFailure, fatal: true},
	} {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.kind, KindOf(tc.err))
			assert.Equal(t, tc.fatal, KindOf(tc.err).Fatal())
		})
	}
}
