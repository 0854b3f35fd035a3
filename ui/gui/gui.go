package gui

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"glitchchess/src"
	"glitchchess/src/config"
	"glitchchess/src/logx"
	"glitchchess/ui/gui/ddraw"
	"glitchchess/ui/gui/ddraw/dmenu"
	"glitchchess/ui/gui/ddraw/dplay"
	"glitchchess/ui/gui/ghelper/gfont"
	"glitchchess/ui/gui/tools/lang"
)

type GUIProcessing struct {
	current ddraw.Scene
	ctx     ddraw.GameContext
}

func NewGUI(b *src.GameBuilder, cfg *config.Config, cfgPath string, logger logx.Logger) (*GUIProcessing, error) {
	fonts, err := gfont.LoadFonts()
	if err != nil {
		return nil, err
	}
	lw, err := lang.NewGUILangWorker(lang.FromCode(cfg.Lang))
	if err != nil {
		return nil, err
	}
	ctx := ddraw.GameContext{
		Builder:    b,
		Config:     cfg,
		ConfigPath: cfgPath,
		Helper:     ddraw.NewGUIHelperDraw(),
		Lang:       lw,
		Fonts:      fonts,
		Theme:      ddraw.PaletteByName(cfg.Theme),
		Window:     struct{ W, H int }{cfg.WindowW, cfg.WindowH},
		Logx:       logger.Named("gui"),
		Scenes: ddraw.Scenes{
			Menu: dmenu.NewGUIMenuDrawer,
			Play: dplay.NewGUIPlayDrawer,
		},
	}
	gp := &GUIProcessing{ctx: ctx}
	gp.current = dmenu.NewGUIMenuDrawer(&gp.ctx)
	return gp, nil
}

func (gp *GUIProcessing) Run() error {
	ebiten.SetWindowSize(gp.ctx.Window.W, gp.ctx.Window.H)
	ebiten.SetWindowTitle("Glitch Chess")
	err := ebiten.RunGame(gp)
	if errors.Is(err, ddraw.ErrExit) {
		return nil
	}
	return err
}

func (gp *GUIProcessing) Update() error {
	next, err := gp.current.Update(&gp.ctx)
	if err != nil {
		return err
	}
	if next != nil {
		gp.current = next
	}
	return nil
}

func (gp *GUIProcessing) Draw(screen *ebiten.Image) {
	gp.current.Draw(&gp.ctx, screen)
}

func (gp *GUIProcessing) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return gp.ctx.Window.W, gp.ctx.Window.H
}
