package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"glitchchess/src/testutil"
)

func TestLevelByString(t *testing.T) {
	testutil.AssertEqual(t, GetLoggerLevelByString("debug"), zapcore.DebugLevel)
	testutil.AssertEqual(t, GetLoggerLevelByString("WARN"), zapcore.WarnLevel)
	testutil.AssertEqual(t, GetLoggerLevelByString("chatty"), zapcore.InfoLevel)
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "info"}, &buf)
	l.Debug("hidden")
	l.Named("level-1").Infof("player piece changed to %s", "rook")
	testutil.MustNoError(t, l.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	testutil.AssertEqual(t, len(lines), 1, "debug is below the threshold")
	var rec map[string]any
	testutil.MustNoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	testutil.AssertEqual(t, rec["MESSAGE"], "player piece changed to rook")
	testutil.AssertEqual(t, rec["NAME"], "level-1")
	testutil.AssertEqual(t, rec["LEVEL"], "info")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Errorf("nothing %d", 1)
	l.Named("x").Warn("still nothing")
}
