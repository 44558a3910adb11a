package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"File", KeyFile, "dicts.md", File("dicts.md")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Rule", KeyRule, "toc-sync", Rule("toc-sync")},
		{"Severity", KeySeverity, "ERROR", Severity("ERROR")},
		{"Trigger", KeyTrigger, "fsevent", Trigger("fsevent")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestIntHelpers(t *testing.T) {
	if a := Line(12); a.Value.Int64() != 12 {
		t.Fatalf("Line: got %d", a.Value.Int64())
	}
	if a := Files(3); a.Key != KeyFiles {
		t.Fatalf("Files key: %s", a.Key)
	}
}

func TestErrorHelper(t *testing.T) {
	if a := Error(nil); a.Value.String() != "" {
		t.Fatalf("nil error should produce empty value, got %q", a.Value.String())
	}
	if a := Error(errors.New("boom")); a.Value.String() != "boom" {
		t.Fatalf("got %q", a.Value.String())
	}
}
