package progress

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"glitchchess/src/testutil"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	testutil.MustNoError(t, err)
	t.Cleanup(func() { db.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestUnlockProgression(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			lvl, err := s.Unlocked(ctx)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, lvl, FirstLevel)

			lvl, err = s.UnlockNext(ctx, 1)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, lvl, 2)

			lvl, err = s.UnlockNext(ctx, 2)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, lvl, 3)

			// replaying an older level never lowers or skips
			lvl, err = s.UnlockNext(ctx, 1)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, lvl, 3)

			testutil.MustNoError(t, s.Reset(ctx))
			lvl, err = s.Unlocked(ctx)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, lvl, FirstLevel)
		})
	}
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			for i, won := range []bool{false, true, false} {
				testutil.MustNoError(t, s.RecordRun(ctx, Run{
					ID:         name + string(rune('a'+i)),
					Level:      i + 1,
					Name:       "level",
					Won:        won,
					Reason:     "time expired",
					Moves:      i * 2,
					Notation:   "1. Ra1-a3",
					Duration:   1500 * time.Millisecond,
					FinishedAt: base.Add(time.Duration(i) * time.Minute),
				}))
			}
			runs, err := s.Runs(ctx, 2)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, len(runs), 2)
			testutil.AssertEqual(t, runs[0].Level, 3, "latest first")
			testutil.AssertEqual(t, runs[1].Won, true)
			testutil.AssertEqual(t, runs[1].Duration, 1500*time.Millisecond)
			testutil.AssertTrue(t, runs[1].FinishedAt.Equal(base.Add(time.Minute)))

			all, err := s.Runs(ctx, 0)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, len(all), 3)

			testutil.MustNoError(t, s.Reset(ctx))
			all, err = s.Runs(ctx, 0)
			testutil.MustNoError(t, err)
			testutil.AssertEqual(t, len(all), 0)
		})
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	s, err := OpenSQLite(path)
	testutil.MustNoError(t, err)
	_, err = s.UnlockNext(ctx, 1)
	testutil.MustNoError(t, err)
	testutil.MustNoError(t, s.RecordRun(ctx, Run{Level: 1, Name: "Wake Up", Won: true, Reason: "enemy king captured"}))
	testutil.MustNoError(t, s.Close())

	s, err = OpenSQLite(path)
	testutil.MustNoError(t, err)
	defer s.Close()
	lvl, err := s.Unlocked(ctx)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, lvl, 2)
	runs, err := s.Runs(ctx, 0)
	testutil.MustNoError(t, err)
	testutil.AssertEqual(t, len(runs), 1)
	testutil.AssertTrue(t, runs[0].ID != "", "run id is generated")
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	testutil.MustNoError(t, m.Close())
	_, err := m.Unlocked(context.Background())
	testutil.AssertErrorIs(t, err, ErrClosed)
}
