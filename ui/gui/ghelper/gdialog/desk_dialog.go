package gdialog

import (
	"github.com/sqweek/dialog"
)

// OpenLevel asks for a level JSON file. dialog.ErrCancelled means the
// user closed the window.
func OpenLevel(title string) (string, error) {
	return dialog.File().Title(title).Filter("Level files", "json").Load()
}
