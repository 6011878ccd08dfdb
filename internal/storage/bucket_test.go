package storage

import (
	"strings"
	"testing"
	"time"
)

func TestPublicURLDefaultsToCanonicalGCS(t *testing.T) {
	s := urlScheme{bucket: "genius-media"}
	got := s.publicURL("teachers/123_photo.jpg")
	want := "https://storage.googleapis.com/genius-media/teachers/123_photo.jpg"
	if got != want {
		t.Fatalf("publicURL = %q, want %q", got, want)
	}
}

func TestPublicURLPrefersCDN(t *testing.T) {
	s := urlScheme{bucket: "genius-media", cdnDomain: "media.geniusclasses.in"}
	got := s.publicURL("results/1_a.png")
	if got != "https://media.geniusclasses.in/results/1_a.png" {
		t.Fatalf("unexpected CDN url: %q", got)
	}
}

func TestKeyFromURLRoundTrips(t *testing.T) {
	schemes := []urlScheme{
		{bucket: "genius-media"},
		{bucket: "genius-media", cdnDomain: "media.geniusclasses.in"},
		{bucket: "genius-media", baseURL: "http://localhost:4443"},
	}
	for _, s := range schemes {
		key := "materials/1700000000000_algebra_notes.pdf"
		got, err := s.keyFromURL(s.publicURL(key))
		if err != nil {
			t.Fatalf("keyFromURL: %v", err)
		}
		if got != key {
			t.Fatalf("round trip = %q, want %q", got, key)
		}
	}
}

func TestKeyFromURLStripsQueryAndUnescapes(t *testing.T) {
	s := urlScheme{bucket: "genius-media"}
	got, err := s.keyFromURL("https://storage.googleapis.com/genius-media/teachers/1_a%20b.jpg?alt=media&token=x")
	if err != nil {
		t.Fatalf("keyFromURL: %v", err)
	}
	if got != "teachers/1_a b.jpg" {
		t.Fatalf("key = %q", got)
	}
}

func TestKeyFromURLRejectsForeignURL(t *testing.T) {
	s := urlScheme{bucket: "genius-media"}
	if _, err := s.keyFromURL("https://example.com/elsewhere.png"); err == nil {
		t.Fatalf("expected error for foreign URL")
	}
}

func TestObjectKeyShape(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	got := ObjectKeyAt("teachers", "my photo.jpg", at)
	if got != "teachers/1700000000000_my_photo.jpg" {
		t.Fatalf("ObjectKeyAt = %q", got)
	}
	if strings.Contains(ObjectKeyAt("materials", "../../evil.pdf", at), "..") {
		t.Fatalf("path traversal survived sanitization")
	}
}
