package game

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// setClipboardText is swapped out in tests.
var setClipboardText = clipboard.WriteAll

// CopyReport puts report on the system clipboard.
func CopyReport(report string) error {
	if report == "" {
		report = " "
	}
	if err := setClipboardText(report); err != nil {
		return fmt.Errorf("copy report to clipboard: %w", err)
	}
	return nil
}
