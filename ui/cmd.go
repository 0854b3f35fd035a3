package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"glitchchess/src"
	"glitchchess/src/config"
	"glitchchess/src/engine"
	"glitchchess/src/engine/myengine"
	"glitchchess/src/level"
	"glitchchess/src/logx"
	"glitchchess/src/progress"
	clic "glitchchess/ui/cli"
	"glitchchess/ui/gui"
)

const logfile string = "glitchchess.log"

// app is everything a command needs, built from the shared flags.
type app struct {
	cfg    *config.Config
	logger *logx.Logx
	store  progress.Store
	file   *os.File
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Errorf("close progress store: %v", err)
	}
	_ = a.logger.Sync()
	if a.file != nil {
		a.file.Close()
	}
}

func GetLogger(file *os.File, c *cli.Command, cfg *config.Config) *logx.Logx {
	lvl := cfg.LogLevel
	if c.IsSet("log-level") {
		lvl = c.String("log-level")
	}
	var w io.Writer
	if file != nil {
		w = file
	}
	return logx.New(logx.Options{
		Level:   lvl,
		Dev:     c.Bool("dev"),
		Console: c.Bool("console"),
	}, w)
}

func openApp(c *cli.Command) (*app, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	if !c.Bool("console") {
		a.file, err = os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("error open logfile: %w", err)
		}
	}
	a.logger = GetLogger(a.file, c, cfg)

	dsn := cfg.DBPath
	if c.IsSet("db") {
		dsn = c.String("db")
	}
	a.store = progress.NewMemory()
	if dsn != "" {
		db, err := progress.OpenSQLite(dsn)
		if err != nil {
			a.logger.Errorf("open progress database %s, progress kept in memory: %v", dsn, err)
		} else {
			a.store = db
		}
	}
	return a, nil
}

func (a *app) builder() *src.GameBuilder {
	gb := src.NewBuilderGame(a.logger)
	gb.SetProgressStore(a.store)
	gb.SetEngine(myengine.NewGlitchEngine(), engine.HintLevelFromString(a.cfg.Hint))
	if a.cfg.TimeLimit > 0 {
		gb.SetTimeLimit(time.Duration(a.cfg.TimeLimit) * time.Second)
	}
	return gb
}

func RunGUI(ctx context.Context, c *cli.Command) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	g, err := gui.NewGUI(a.builder(), a.cfg, c.String("config"), a.logger)
	if err != nil {
		return err
	}
	return g.Run()
}

func runPlay(ctx context.Context, c *cli.Command) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	gb := a.builder()

	switch {
	case c.String("file") != "":
		err = gb.CreateFromFile(c.String("file"))
	case c.String("layout") != "":
		err = gb.CreateFromLayout(c.String("layout"))
	case c.IsSet("level"):
		err = gb.CreateFromNumber(ctx, c.Int("level"))
	default:
		err = gb.CreateFromNumber(ctx, gb.Unlocked(ctx))
	}
	if err != nil {
		return err
	}

	color := !c.Bool("no-color")
	if color {
		clic.EnableANSI()
	}
	cl := clic.NewCLI(gb, clic.Options{Color: color, Debug: a.cfg.Debug})
	if c.Bool("line") {
		return cl.RunLineMode(ctx)
	}
	return cl.Run(ctx)
}

func runLevels(ctx context.Context, c *cli.Command) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	unlocked, err := a.store.Unlocked(ctx)
	if err != nil {
		return err
	}
	for _, l := range level.Builtin() {
		mark := " "
		if l.Number > unlocked {
			mark = "*"
		}
		fmt.Printf("%s %2d  %-16s %2dx%-2d %3ds  %s\n", mark, l.Number, l.Name, l.Size, l.Size, int(l.TimeLimit.Seconds()), l.Layout())
	}
	fmt.Println("* locked")
	return nil
}

func runCheck(ctx context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("check: level file required")
	}
	l, err := level.LoadFile(path)
	if err != nil {
		var lerr *level.Error
		if errors.As(err, &lerr) {
			fmt.Printf("%s: invalid level %q\n", path, lerr.Level)
			for _, p := range lerr.Problems {
				fmt.Printf("  - %s\n", p)
			}
			return cli.Exit("", 1)
		}
		return err
	}
	fmt.Printf("%s: ok, %s, %dx%d, %d enemies, layout %s\n", path, l.Title(), l.Size, l.Size, len(l.Enemies), l.Layout())
	return nil
}

func runProgressShow(ctx context.Context, c *cli.Command) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	unlocked, err := a.store.Unlocked(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("unlocked up to level %d of %d\n", min(unlocked, level.Count()), level.Count())
	runs, err := a.store.Runs(ctx, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, r := range runs {
		result := "lost"
		if r.Won {
			result = "won "
		}
		fmt.Printf("%s  %-4s level %d %-16s %3d moves  %6s  %s\n",
			r.FinishedAt.Local().Format("2006-01-02 15:04"), result, r.Level, r.Name, r.Moves,
			r.Duration.Round(time.Second), r.Reason)
	}
	return nil
}

func runProgressReset(ctx context.Context, c *cli.Command) error {
	a, err := openApp(c)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.store.Reset(ctx); err != nil {
		return err
	}
	a.logger.Info("progress reset")
	fmt.Println("progress reset, only level 1 is unlocked")
	return nil
}

func RunGlitchChess() error {
	shared := []cli.Flag{
		&cli.BoolFlag{
			Name:  "dev",
			Usage: "development logger encoding",
		},
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Usage:   "logger level (debug, info, warn, error)",
		},
		&cli.BoolFlag{
			Name:    "console",
			Aliases: []string{"c"},
			Usage:   "log to stdout instead of " + logfile,
		},
		&cli.StringFlag{
			Name:  "config",
			Value: config.DefaultFile,
			Usage: "path to settings file",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "progress database, empty keeps progress in memory",
		},
	}

	return (&cli.Command{
		Name:  "glitchchess",
		Usage: "chess puzzles with an unstable piece",
		Flags: shared,
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "level", Usage: "built-in level number"},
					&cli.StringFlag{Name: "layout", Usage: "board layout, e.g. 4k/5/5/5/R4"},
					&cli.StringFlag{Name: "file", Usage: "path to level JSON file"},
					&cli.BoolFlag{Name: "line", Usage: "line mode instead of raw keys"},
					&cli.BoolFlag{Name: "no-color", Usage: "plain board without ANSI colors"},
				},
				Action: runPlay,
			},
			{
				Name:   "gui",
				Usage:  "open the desktop window",
				Action: RunGUI,
			},
			{
				Name:   "levels",
				Usage:  "list built-in levels",
				Action: runLevels,
			},
			{
				Name:      "check",
				Usage:     "validate a level file",
				ArgsUsage: "<file>",
				Action:    runCheck,
			},
			{
				Name:  "progress",
				Usage: "inspect or reset saved progress",
				Commands: []*cli.Command{
					{
						Name:   "show",
						Flags:  []cli.Flag{&cli.IntFlag{Name: "limit", Value: 10, Usage: "runs to list, 0 for all"}},
						Action: runProgressShow,
					},
					{
						Name:   "reset",
						Action: runProgressReset,
					},
				},
			},
		},
		Action: RunGUI,
	}).Run(context.Background(), os.Args)
}
