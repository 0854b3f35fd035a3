package dplay

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/sqweek/dialog"

	"glitchchess/src/base"
	"glitchchess/src/level"
	"glitchchess/src/logic/turn"
	"glitchchess/ui/gui/ddraw"
	"glitchchess/ui/gui/gboard"
	"glitchchess/ui/gui/ghelper/gclipboard"
	"glitchchess/ui/gui/ghelper/gdialog"
)

const (
	headerH   = 110
	footerH   = 110
	moveTime  = 220 * time.Millisecond
	hintLimit = 3 * time.Second
)

type opened struct {
	path string
	err  error
}

// GUIPlayDrawer implements Scene
type GUIPlayDrawer struct {
	geo gboard.Geometry

	// animation of the committed move; Settle runs when it finishes
	tween *gboard.Tween
	moved base.Piece

	hint     *base.Point
	lastTick time.Time
	ended    bool

	buttons   []*ddraw.Button
	idxRetry  int
	idxHint   int
	idxNext   int
	idxMenu   int
	nextLevel int

	msg ddraw.MessageBox

	dialogCh chan opened
	dialogOn bool

	prevMouseDown bool
}

func NewGUIPlayDrawer(ctx *ddraw.GameContext) ddraw.Scene {
	pd := &GUIPlayDrawer{
		lastTick: time.Now(),
		dialogCh: make(chan opened, 1),
	}
	pd.reset(ctx)
	return pd
}

// reset follows a new or restarted attempt.
func (pd *GUIPlayDrawer) reset(ctx *ddraw.GameContext) {
	pd.geo = gboard.Fit(ctx.Window.W, ctx.Window.H, ctx.Builder.Board().Size(), headerH, footerH)
	pd.tween = nil
	pd.hint = nil
	pd.ended = false
	pd.lastTick = time.Now()
	pd.makeLayoutButtons(ctx)
}

func (pd *GUIPlayDrawer) makeLayoutButtons(ctx *ddraw.GameContext) {
	pd.buttons = pd.buttons[:0]
	addBtn := func(label string, x, y, w, h int) int {
		pd.buttons = append(pd.buttons, ctx.Helper.NewButton(ctx, label, x, y, w, h))
		return len(pd.buttons) - 1
	}
	w, h, gap := 130, 40, 12
	total := 4*w + 3*gap
	x := (ctx.Window.W - total) / 2
	y := ctx.Window.H - footerH + 20
	pd.idxRetry = addBtn(ctx.Lang.T("play.restart"), x, y, w, h)
	pd.idxHint = addBtn(ctx.Lang.T("play.hint"), x+(w+gap), y, w, h)
	pd.idxNext = addBtn(ctx.Lang.T("play.next_level"), x+2*(w+gap), y, w, h)
	pd.idxMenu = addBtn(ctx.Lang.T("play.menu"), x+3*(w+gap), y, w, h)

	pd.nextLevel = 0
	if l := ctx.Builder.Level(); l != nil && l.Number > 0 && l.Number < level.Count() {
		pd.nextLevel = l.Number + 1
	}
	pd.buttons[pd.idxNext].Disabled = !pd.canAdvance(ctx)
}

func (pd *GUIPlayDrawer) canAdvance(ctx *ddraw.GameContext) bool {
	return pd.nextLevel > 0 && pd.nextLevel <= ctx.Builder.Unlocked(context.Background())
}

func (pd *GUIPlayDrawer) Update(ctx *ddraw.GameContext) (ddraw.Scene, error) {
	now := time.Now()
	dt := now.Sub(pd.lastTick)
	pd.lastTick = now

	if pd.tween != nil {
		if pd.tween.Update(dt) {
			pd.tween = nil
			ctx.Builder.Settle()
		}
	}
	ctx.Builder.Tick(dt)

	if ctx.Builder.Status().Terminal() && !pd.ended && pd.tween == nil {
		pd.ended = true
		pd.buttons[pd.idxNext].Disabled = !pd.canAdvance(ctx)
		ctx.Helper.ShowMessage(&pd.msg, pd.endText(ctx), nil)
	}

	mouseDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := mouseDown && !pd.prevMouseDown
	pd.prevMouseDown = mouseDown
	mx, my := ebiten.CursorPosition()

	if pd.msg.Open {
		if justPressed {
			okX, okY, okW, okH := ctx.Helper.ModalOK(ctx)
			if ctx.Helper.PointInRect(mx, my, okX, okY, okW, okH) {
				ctx.Helper.CloseMessage(&pd.msg)
			}
		}
		ctx.Helper.AnimateMessage(&pd.msg)
		return nil, nil
	}

	select {
	case res := <-pd.dialogCh:
		pd.dialogOn = false
		pd.loadFile(ctx, res)
	default:
	}
	if pd.dialogOn {
		return nil, nil
	}

	// keys
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ctx.Scenes.Menu(ctx), nil
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		pd.restart(ctx)
		return nil, nil
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		pd.askHint(ctx)
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		ctx.Config.Debug = !ctx.Config.Debug
	case inpututil.IsKeyJustPressed(ebiten.KeyO):
		pd.openDialog(ctx)
		return nil, nil
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := gclipboard.CopyLayout(ctx.Builder.Layout()); err != nil {
			ctx.Logx.Warnf("copy layout: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		pd.pasteLayout(ctx)
		return nil, nil
	}

	if !justPressed {
		return nil, nil
	}
	for i, b := range pd.buttons {
		if !ctx.Helper.PointInRect(mx, my, b.X, b.Y, b.W, b.H) || b.Disabled {
			continue
		}
		switch i {
		case pd.idxRetry:
			pd.restart(ctx)
		case pd.idxHint:
			pd.askHint(ctx)
		case pd.idxNext:
			if err := ctx.Builder.CreateFromNumber(context.Background(), pd.nextLevel); err != nil {
				ctx.Logx.Errorf("next level: %v", err)
				return nil, nil
			}
			pd.reset(ctx)
		case pd.idxMenu:
			return ctx.Scenes.Menu(ctx), nil
		}
		return nil, nil
	}

	// input is rejected while a move resolves
	if pd.tween != nil || ctx.Builder.Busy() {
		return nil, nil
	}
	if cell, ok := pd.geo.CellAt(mx, my); ok {
		pd.selectCell(ctx, cell)
	}
	return nil, nil
}

func (pd *GUIPlayDrawer) selectCell(ctx *ddraw.GameContext, cell base.Point) {
	moved := ctx.Builder.Player()
	res, err := ctx.Builder.Select(cell)
	if err != nil {
		return
	}
	pd.hint = nil
	fx, fy := pd.geo.Origin(res.From)
	tx, ty := pd.geo.Origin(res.To)
	pd.moved = moved
	pd.tween = gboard.NewTween(float64(fx), float64(fy), float64(tx), float64(ty), moveTime)
}

func (pd *GUIPlayDrawer) restart(ctx *ddraw.GameContext) {
	if err := ctx.Builder.Restart(); err != nil {
		ctx.Logx.Errorf("restart: %v", err)
		return
	}
	pd.reset(ctx)
}

func (pd *GUIPlayDrawer) askHint(ctx *ddraw.GameContext) {
	if pd.tween != nil || ctx.Builder.Status() != turn.AwaitingInput {
		return
	}
	hctx, cancel := context.WithTimeout(context.Background(), hintLimit)
	defer cancel()
	c, err := ctx.Builder.Hint(hctx)
	if err != nil {
		ctx.Logx.Warnf("hint: %v", err)
		return
	}
	to := c.To
	pd.hint = &to
}

func (pd *GUIPlayDrawer) openDialog(ctx *ddraw.GameContext) {
	pd.dialogOn = true
	title := ctx.Lang.T("menu.open_title")
	go func() {
		path, err := gdialog.OpenLevel(title)
		pd.dialogCh <- opened{path: path, err: err}
	}()
}

func (pd *GUIPlayDrawer) loadFile(ctx *ddraw.GameContext, res opened) {
	if errors.Is(res.err, dialog.ErrCancelled) {
		return
	}
	if res.err == nil {
		res.err = ctx.Builder.CreateFromFile(res.path)
	}
	if res.err != nil {
		// the previous level keeps running
		ctx.Logx.Errorf("open level file: %v", res.err)
		ctx.Helper.ShowMessage(&pd.msg, ctx.Lang.T("play.bad_file"), nil)
		return
	}
	pd.reset(ctx)
}

// pasteLayout starts a custom level from a layout on the clipboard.
func (pd *GUIPlayDrawer) pasteLayout(ctx *ddraw.GameContext) {
	layout, err := gclipboard.PasteLayout()
	if err == nil {
		err = ctx.Builder.CreateFromLayout(layout)
	}
	if err != nil {
		ctx.Logx.Warnf("paste layout: %v", err)
		ctx.Helper.ShowMessage(&pd.msg, ctx.Lang.T("play.bad_layout"), nil)
		return
	}
	pd.reset(ctx)
}

func (pd *GUIPlayDrawer) endText(ctx *ddraw.GameContext) string {
	if ctx.Builder.Status() == turn.Won {
		return ctx.Lang.T("play.won")
	}
	reason := ctx.Lang.T("reason." + ctx.Builder.Reason().String())
	return fmt.Sprintf("%s: %s", ctx.Lang.T("play.lost"), reason)
}

// Draw
func (pd *GUIPlayDrawer) Draw(ctx *ddraw.GameContext, screen *ebiten.Image) {
	screen.Fill(ctx.Theme.Bg)
	gb := ctx.Builder
	th := ctx.Theme

	// header: title, piece, preview, clock
	text.Draw(screen, gb.Level().Title(), ctx.Fonts.Bold, 20, 36, th.MenuText)
	status := fmt.Sprintf("%s: %s    %s: %s", ctx.Lang.T("play.piece"), gb.Kind(), ctx.Lang.T("play.next"), gb.Next())
	text.Draw(screen, status, ctx.Fonts.Normal, 20, 70, th.MenuText)
	if clock := gb.Clock(); clock.Enabled() {
		clr := th.MenuText
		if clock.Seconds() <= 10 {
			clr = th.King
		}
		tm := fmt.Sprintf("%s: %02d:%02d", ctx.Lang.T("play.time"), clock.Seconds()/60, clock.Seconds()%60)
		tb := text.BoundString(ctx.Fonts.Bold, tm)
		text.Draw(screen, tm, ctx.Fonts.Bold, ctx.Window.W-tb.Dx()-20, 36, clr)
	}
	pd.drawPreview(ctx, screen)

	// board border
	size := pd.geo.Size()
	ctx.Helper.DrawImageAt(screen, ctx.Helper.RenderRoundedRect(size+8, size+8, 6, th.ButtonFill, th.ButtonStroke, 2), float64(pd.geo.X-4), float64(pd.geo.Y-4))

	// tiles and highlights
	showMoves := pd.tween == nil && gb.Status() == turn.AwaitingInput
	var moves, captures, hazards, threats base.Cells
	if showMoves {
		moves, captures, hazards = gb.LegalMoves(), gb.Captures(), gb.Hazards()
	}
	if ctx.Config.Debug {
		threats = gb.Threats()
	}
	cell := float64(pd.geo.Cell)
	for row := 0; row < pd.geo.N; row++ {
		for col := 0; col < pd.geo.N; col++ {
			p := base.Point{Col: col, Row: row}
			x, y := pd.geo.Origin(p)
			fx, fy := float64(x), float64(y)
			tile := th.DarkSq
			if (row+col)%2 == 1 {
				tile = th.LightSq
			}
			ctx.Helper.EbitenutilDrawRect(screen, fx, fy, cell, cell, tile)
			var over *color.RGBA
			switch {
			case hazards.Contains(p):
				over = &th.Danger
			case captures.Contains(p):
				over = &th.Capture
			case moves.Contains(p) && !gb.Board().IsOccupied(p):
				over = &th.Move
			case threats.Contains(p):
				over = &th.Threat
			}
			if over != nil {
				ctx.Helper.EbitenutilDrawRect(screen, fx, fy, cell, cell, *over)
			}
			if pd.hint != nil && *pd.hint == p {
				ctx.Helper.EbitenutilDrawRectStroke(screen, fx+3, fy+3, cell-6, cell-6, 4, th.Hint)
			}
		}
	}
	if showMoves {
		mx, my := ebiten.CursorPosition()
		if p, ok := pd.geo.CellAt(mx, my); ok {
			x, y := pd.geo.Origin(p)
			ctx.Helper.EbitenutilDrawRectStroke(screen, float64(x)+2, float64(y)+2, cell-4, cell-4, 2, th.Accent)
		}
	}

	// pieces
	for _, e := range gb.Enemies() {
		x, y := pd.geo.Origin(e.Pos)
		pd.drawPiece(ctx, screen, e, float64(x), float64(y))
	}
	if pd.tween != nil {
		x, y := pd.tween.Pos()
		pd.drawPiece(ctx, screen, pd.moved, x, y)
	} else {
		p := gb.Player()
		x, y := pd.geo.Origin(p.Pos)
		pd.drawPiece(ctx, screen, p, float64(x), float64(y))
	}

	// footer
	for _, b := range pd.buttons {
		ctx.Helper.DrawButton(ctx, screen, b)
	}
	keys := ctx.Lang.T("play.keys")
	kb := text.BoundString(ctx.Fonts.Small, keys)
	text.Draw(screen, keys, ctx.Fonts.Small, (ctx.Window.W-kb.Dx())/2, ctx.Window.H-24, th.MenuText)
	if n := gb.History().Len(); n > 0 {
		last, _ := gb.History().Last()
		text.Draw(screen, fmt.Sprintf("%d. %s", n, last.Notation()), ctx.Fonts.Small, 20, ctx.Window.H-footerH+6, th.MenuText)
	}

	ctx.Helper.DrawModal(ctx, screen, &pd.msg)

	if ctx.Config.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()))
	}
}

// drawPreview shows the kind the player becomes after the next move.
func (pd *GUIPlayDrawer) drawPreview(ctx *ddraw.GameContext, screen *ebiten.Image) {
	const s = 36
	x, y := ctx.Window.W-s-24, 52
	disc := ctx.Helper.RenderDisc(s, ctx.Theme.Player, ctx.Theme.Accent, 2)
	ctx.Helper.DrawImageAt(screen, disc, float64(x), float64(y))
	letter := string(ctx.Builder.Next().Rune())
	b := text.BoundString(ctx.Fonts.Normal, letter)
	text.Draw(screen, letter, ctx.Fonts.Normal, x+(s-b.Dx())/2, y+(s+b.Dy())/2, ctx.Theme.Enemy)
}

func (pd *GUIPlayDrawer) drawPiece(ctx *ddraw.GameContext, screen *ebiten.Image, p base.Piece, x, y float64) {
	th := ctx.Theme
	pad := pd.geo.Cell / 8
	s := pd.geo.Cell - 2*pad
	fill, stroke, ink := th.Player, th.Accent, th.Enemy
	if p.Side == base.Enemy {
		fill, stroke, ink = th.Enemy, th.ButtonStroke, th.Player
		if p.Royal {
			stroke = th.King
		}
	}
	ctx.Helper.DrawImageAt(screen, ctx.Helper.RenderDisc(s, fill, stroke, 3), x+float64(pad), y+float64(pad))
	letter := string(p.Kind.Rune())
	b := text.BoundString(ctx.Fonts.Bold, letter)
	text.Draw(screen, letter, ctx.Fonts.Bold, int(x)+pad+(s-b.Dx())/2, int(y)+pad+(s+b.Dy())/2, ink)
}
