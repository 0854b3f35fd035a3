package gclipboard

import (
	"strings"

	"github.com/atotto/clipboard"
)

// CopyLayout puts a board layout on the system clipboard.
func CopyLayout(layout string) error {
	return clipboard.WriteAll(layout)
}

// PasteLayout reads the clipboard, trimmed of surrounding whitespace.
func PasteLayout() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
