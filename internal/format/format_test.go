package format

import (
	"bytes"
	"strings"
	"testing"
)

type samplePayload struct {
	ID         string   `json:"id"`
	PriceCents int      `json:"priceCents"`
	Tags       []string `json:"tags,omitempty"`
	Archived   bool     `json:"archived"`
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, samplePayload{ID: "prod-apples", PriceCents: 250}, "json", false)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `{"id":"prod-apples","priceCents":250,"archived":false}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteEDN(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, samplePayload{ID: "prod-apples", PriceCents: 250, Tags: []string{"fruit"}}, "edn", false)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	got := buf.String()
	for _, frag := range []string{":id \"prod-apples\"", ":priceCents 250", "[\"fruit\"]", ":archived false"} {
		if !strings.Contains(got, frag) {
			t.Errorf("missing %q in %q", frag, got)
		}
	}
}

func TestWriteEDNPrettyIndents(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEDN(&buf, map[string]any{"a": []any{1, 2}}, true)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  :a") {
		t.Fatalf("not pretty-printed: %q", buf.String())
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 1, "yaml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
