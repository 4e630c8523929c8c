package href_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwinews/feedstore/pkg/href"
)

func TestNormalizeCanonicalizes(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"HTTP://Example.COM/a/b", "http://example.com/a/b"},
		{"http://example.com:80/a", "http://example.com/a"},
		{"http://example.com/a/", "http://example.com/a"},
		{"http://example.com/a/../b", "http://example.com/b"},
		{"http://example.com//a//b", "http://example.com/a/b"},
		{"http://example.com/a?b=2&a=1", "http://example.com/a?a=1&b=2"},
	}

	for _, tc := range cases {
		got, err := href.Normalize(tc.raw)
		require.NoError(t, err, "Normalize(%q)", tc.raw)
		assert.Equal(t, tc.want, got, "Normalize(%q)", tc.raw)
	}
}

func TestNormalizePreservesWWW(t *testing.T) {
	got, err := href.Normalize("http://www.example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "http://www.example.com/a", got,
		"www subdomain must survive normalization; it is a distinct host")
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"http://a.com",
		"HTTPS://WWW.Example.com:443/x/../y/?q=1&p=2",
		"http://example.com//a/./b/",
	}

	for _, raw := range inputs {
		once, err := href.Normalize(raw)
		require.NoError(t, err, "first pass %q", raw)

		twice, err := href.Normalize(once)
		require.NoError(t, err, "second pass %q", once)

		assert.Equal(t, once, twice, "Normalize must be idempotent for %q", raw)
	}
}
