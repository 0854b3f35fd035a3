package dmenu

import (
	"context"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/sqweek/dialog"

	"glitchchess/src/level"
	"glitchchess/ui/gui/ddraw"
	"glitchchess/ui/gui/ghelper/gdialog"
)

type opened struct {
	path string
	err  error
}

type GUIMenuDrawer struct {
	levels  []*ddraw.Button
	open    *ddraw.Button
	exit    *ddraw.Button
	numbers []int

	// messagebox
	msg ddraw.MessageBox

	// language selector square bottom-left
	langBoxX, langBoxY, langBoxS int

	// file dialog runs off the game loop
	dialogCh chan opened
	dialogOn bool

	// click tracking
	prevMouseDown bool
}

func NewGUIMenuDrawer(ctx *ddraw.GameContext) ddraw.Scene {
	md := &GUIMenuDrawer{dialogCh: make(chan opened, 1)}
	md.makeLayout(ctx)
	return md
}

func (md *GUIMenuDrawer) Update(ctx *ddraw.GameContext) (ddraw.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ctx.Config.Theme == "light" {
			ctx.Config.Theme = "dark"
		} else {
			ctx.Config.Theme = "light"
		}
		ctx.Theme = ddraw.PaletteByName(ctx.Config.Theme)
		ctx.SaveConfig()
		md.makeLayout(ctx)
	}

	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justClicked := mouseDown && !md.prevMouseDown
	md.prevMouseDown = mouseDown

	if md.msg.Open {
		if justClicked {
			okX, okY, okW, okH := ctx.Helper.ModalOK(ctx)
			mx, my := ebiten.CursorPosition()
			if ctx.Helper.PointInRect(mx, my, okX, okY, okW, okH) {
				ctx.Helper.CloseMessage(&md.msg)
			}
		}
		ctx.Helper.AnimateMessage(&md.msg)
		return nil, nil
	}

	select {
	case res := <-md.dialogCh:
		md.dialogOn = false
		return md.loadFile(ctx, res), nil
	default:
	}
	if md.dialogOn {
		return nil, nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		md.openDialog(ctx)
		return nil, nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return nil, ddraw.ErrExit
	}

	if !justClicked {
		return nil, nil
	}
	mx, my := ebiten.CursorPosition()
	for i, b := range md.levels {
		if !ctx.Helper.PointInRect(mx, my, b.X, b.Y, b.W, b.H) {
			continue
		}
		if b.Disabled {
			return nil, nil
		}
		n := md.numbers[i]
		ctx.Logx.Infof("menu: level %d selected", n)
		if err := ctx.Builder.CreateFromNumber(context.Background(), n); err != nil {
			ctx.Logx.Errorf("create level %d: %v", n, err)
			ctx.Helper.ShowMessage(&md.msg, err.Error(), nil)
			return nil, nil
		}
		return ctx.Scenes.Play(ctx), nil
	}
	switch {
	case ctx.Helper.PointInRect(mx, my, md.open.X, md.open.Y, md.open.W, md.open.H):
		md.openDialog(ctx)
	case ctx.Helper.PointInRect(mx, my, md.exit.X, md.exit.Y, md.exit.W, md.exit.H):
		return nil, ddraw.ErrExit
	case ctx.Helper.PointInRect(mx, my, md.langBoxX, md.langBoxY, md.langBoxS, md.langBoxS):
		if err := ctx.Lang.Toggle(); err != nil {
			ctx.Logx.Errorf("switch language: %v", err)
			return nil, nil
		}
		ctx.Config.Lang = ctx.Lang.GetLang().Code()
		ctx.SaveConfig()
		md.makeLayout(ctx)
	}
	return nil, nil
}

func (md *GUIMenuDrawer) openDialog(ctx *ddraw.GameContext) {
	md.dialogOn = true
	title := ctx.Lang.T("menu.open_title")
	go func() {
		path, err := gdialog.OpenLevel(title)
		md.dialogCh <- opened{path: path, err: err}
	}()
}

func (md *GUIMenuDrawer) loadFile(ctx *ddraw.GameContext, res opened) ddraw.Scene {
	if errors.Is(res.err, dialog.ErrCancelled) {
		return nil
	}
	if res.err == nil {
		res.err = ctx.Builder.CreateFromFile(res.path)
	}
	if res.err != nil {
		ctx.Logx.Errorf("open level file: %v", res.err)
		ctx.Helper.ShowMessage(&md.msg, ctx.Lang.T("play.bad_file"), nil)
		return nil
	}
	return ctx.Scenes.Play(ctx)
}

func (md *GUIMenuDrawer) Draw(ctx *ddraw.GameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)

	title := ctx.Lang.T("menu.title")
	tb := text.BoundString(ctx.Fonts.Title, title)
	text.Draw(screen, title, ctx.Fonts.Title, (ctx.Window.W-tb.Dx())/2, 90, ctx.Theme.Accent)
	sub := ctx.Lang.T("menu.subtitle")
	sb := text.BoundString(ctx.Fonts.Normal, sub)
	text.Draw(screen, sub, ctx.Fonts.Normal, (ctx.Window.W-sb.Dx())/2, 124, ctx.Theme.MenuText)

	for _, b := range md.levels {
		ctx.Helper.DrawButton(ctx, screen, b)
	}
	ctx.Helper.DrawButton(ctx, screen, md.open)
	ctx.Helper.DrawButton(ctx, screen, md.exit)

	// language box bottom-left
	ctx.Helper.DrawImageAt(screen, ctx.Helper.RenderRoundedRect(md.langBoxS, md.langBoxS, 8, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 2), float64(md.langBoxX), float64(md.langBoxY))
	text.Draw(screen, ctx.Lang.T("lang.type"), ctx.Fonts.Normal, md.langBoxX+16, md.langBoxY+md.langBoxS/2+6, ctx.Theme.ButtonText)
	text.Draw(screen, ctx.Lang.T("lang.title"), ctx.Fonts.Small, md.langBoxX+2, md.langBoxY-6, ctx.Theme.MenuText)

	// version on bottom-right
	ver := ctx.Lang.T("version")
	vb := text.BoundString(ctx.Fonts.Small, ver)
	text.Draw(screen, ver, ctx.Fonts.Small, ctx.Window.W-vb.Dx()-20, ctx.Window.H-24, ctx.Theme.MenuText)

	ctx.Helper.DrawModal(ctx, screen, &md.msg)

	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}

func (md *GUIMenuDrawer) makeLayout(ctx *ddraw.GameContext) {
	unlocked := ctx.Builder.Unlocked(context.Background())

	// two columns of level buttons
	btnW, btnH, gap := 240, 48, 14
	cols := 2
	catalog := level.Builtin()
	rows := (len(catalog) + cols - 1) / cols
	startX := (ctx.Window.W - (cols*btnW + (cols-1)*gap)) / 2
	startY := 160

	md.levels = md.levels[:0]
	md.numbers = md.numbers[:0]
	for i, l := range catalog {
		x := startX + (i%cols)*(btnW+gap)
		y := startY + (i/cols)*(btnH+gap)
		label := fmt.Sprintf("%d. %s", l.Number, l.Name)
		if l.Number > unlocked {
			label = fmt.Sprintf("%d. %s", l.Number, ctx.Lang.T("menu.locked"))
		}
		b := ctx.Helper.NewButton(ctx, label, x, y, btnW, btnH)
		b.Disabled = l.Number > unlocked
		md.levels = append(md.levels, b)
		md.numbers = append(md.numbers, l.Number)
	}

	y := startY + rows*(btnH+gap) + 20
	cx := ctx.Window.W / 2
	md.open = ctx.Helper.NewButton(ctx, ctx.Lang.T("menu.open"), cx-btnW/2, y, btnW, btnH)
	md.exit = ctx.Helper.NewButton(ctx, ctx.Lang.T("menu.exit"), cx-btnW/2, y+btnH+gap, btnW, btnH)

	md.langBoxS = 56
	md.langBoxX = 20
	md.langBoxY = ctx.Window.H - md.langBoxS - 20
}
