package types_test

import (
	"testing"

	"github.com/kiwinews/feedstore/pkg/types"
)

func TestParseIDRoundTrip(t *testing.T) {
	cases := []types.ID{
		{Namespace: "kiwi", Index: "1"},
		{Namespace: "kiwi", Index: "6de4a5ff"},
		{Namespace: "feed", Index: "abc123def"},
	}

	for _, want := range cases {
		got, err := types.ParseID(want.String())
		if err != nil {
			t.Fatalf("ParseID(%q) failed: %v", want.String(), err)
		}
		if got != want {
			t.Errorf("ParseID(%q) = %+v, want %+v", want.String(), got, want)
		}
	}
}

func TestNewIDString(t *testing.T) {
	id := types.NewID("kiwi", "1")
	if id.String() != "kiwi:0x1" {
		t.Errorf("String() = %q, want %q", id.String(), "kiwi:0x1")
	}
}

func TestParseIDRejectsMalformed(t *testing.T) {
	malformed := []string{
		"",
		"kiwi",
		"kiwi:1",  // missing 0x marker
		":0x1",    // empty namespace
		"kiwi:0x", // empty index
		"0x1",     // no namespace separator
	}

	for _, s := range malformed {
		if _, err := types.ParseID(s); err == nil {
			t.Errorf("ParseID(%q) succeeded, want error", s)
		}
	}
}

func TestParseIDKeepsFirstMarker(t *testing.T) {
	// An index may itself contain hex digits resembling a marker; only the
	// first ":0x" splits namespace from index.
	got, err := types.ParseID("kiwi:0xa:0xb")
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if got.Namespace != "kiwi" || got.Index != "a:0xb" {
		t.Errorf("got %+v, want {kiwi a:0xb}", got)
	}
}
