package game

import (
	"errors"
	"testing"
)

func TestCopyReport(t *testing.T) {
	orig := setClipboardText
	t.Cleanup(func() { setClipboardText = orig })

	var got string
	setClipboardText = func(s string) error { got = s; return nil }
	if err := CopyReport("kills=3"); err != nil {
		t.Fatalf("CopyReport: %v", err)
	}
	if got != "kills=3" {
		t.Fatalf("clipboard = %q", got)
	}
	if err := CopyReport(""); err != nil || got != " " {
		t.Fatalf("empty report: err=%v clipboard=%q", err, got)
	}

	boom := errors.New("no display")
	setClipboardText = func(string) error { return boom }
	if err := CopyReport("x"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
