package config

import (
	"os"
	"path/filepath"
	"testing"

	"glitchchess/src/testutil"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, *c, Default())
}

func TestCorrectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	doc := `{"theme": "neon", "language": "de", "window_w": 10, "window_h": 10,
		"log_level": "loud", "hint_level": "psychic", "time_limit": -5, "debug": true}`
	testutil.MustNoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := Load(path)
	testutil.MustNoError(t, err)
	def := Default()
	testutil.AssertEqual(t, c.Theme, def.Theme)
	testutil.AssertEqual(t, c.Lang, def.Lang)
	testutil.AssertEqual(t, c.WindowW, def.WindowW)
	testutil.AssertEqual(t, c.LogLevel, def.LogLevel)
	testutil.AssertEqual(t, c.Hint, def.Hint)
	testutil.AssertEqual(t, c.TimeLimit, 0)
	testutil.AssertTrue(t, c.Debug)
	testutil.AssertEqual(t, c.DBPath, def.DBPath, "absent keys keep defaults")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	c := Default()
	c.Theme = "light"
	c.TimeLimit = 30
	testutil.MustNoError(t, c.Save(path))

	got, err := Load(path)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, *got, c)
}

func TestBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	testutil.MustNoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err := Load(path)
	testutil.AssertTrue(t, err != nil)
}
