package ddraw

import (
	"errors"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"glitchchess/src"
	"glitchchess/src/config"
	"glitchchess/src/logx"
	"glitchchess/ui/gui/ghelper/gfont"
	"glitchchess/ui/gui/tools/lang"
)

var ErrExit = errors.New("exit request")

// ---- Styles (palettes) ----

type Palette struct {
	Bg           color.RGBA
	ButtonFill   color.RGBA
	ButtonStroke color.RGBA
	ButtonText   color.RGBA
	MenuText     color.RGBA
	Accent       color.RGBA
	ModalBg      color.RGBA

	LightSq color.RGBA
	DarkSq  color.RGBA
	Move    color.RGBA
	Capture color.RGBA
	Danger  color.RGBA
	Hint    color.RGBA
	Threat  color.RGBA
	Player  color.RGBA
	Enemy   color.RGBA
	King    color.RGBA
}

var LightPalette = Palette{
	Bg:           color.RGBA{0xf7, 0xf7, 0xf7, 0xff},
	ButtonFill:   color.RGBA{0xff, 0xff, 0xff, 0xff},
	ButtonStroke: color.RGBA{0xd0, 0xd6, 0xdb, 0xff},
	ButtonText:   color.RGBA{0x22, 0x22, 0x22, 0xff},
	MenuText:     color.RGBA{0x22, 0x22, 0x22, 0xff},
	Accent:       color.RGBA{0x22, 0x88, 0xcc, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x88},

	LightSq: color.RGBA{0xee, 0xee, 0xd2, 0xff},
	DarkSq:  color.RGBA{0x76, 0x96, 0x56, 0xff},
	Move:    color.RGBA{0x3c, 0xb3, 0x71, 0x90},
	Capture: color.RGBA{0xf0, 0xb4, 0x29, 0xa0},
	Danger:  color.RGBA{0xd9, 0x3b, 0x3b, 0x90},
	Hint:    color.RGBA{0x8e, 0x44, 0xad, 0xa0},
	Threat:  color.RGBA{0xd9, 0x3b, 0x3b, 0x40},
	Player:  color.RGBA{0xfa, 0xfa, 0xfa, 0xff},
	Enemy:   color.RGBA{0x2b, 0x2b, 0x2b, 0xff},
	King:    color.RGBA{0xc0, 0x39, 0x2b, 0xff},
}

var DarkPalette = Palette{
	Bg:           color.RGBA{0x12, 0x12, 0x12, 0xff},
	ButtonFill:   color.RGBA{0x20, 0x20, 0x20, 0xff},
	ButtonStroke: color.RGBA{0x40, 0x40, 0x40, 0xff},
	ButtonText:   color.RGBA{0xee, 0xee, 0xee, 0xff},
	MenuText:     color.RGBA{0xee, 0xee, 0xee, 0xff},
	Accent:       color.RGBA{0x2a, 0xa1, 0xd1, 0xff},
	ModalBg:      color.RGBA{0x00, 0x00, 0x00, 0x99},

	LightSq: color.RGBA{0x5a, 0x5f, 0x6b, 0xff},
	DarkSq:  color.RGBA{0x33, 0x37, 0x40, 0xff},
	Move:    color.RGBA{0x2e, 0xcc, 0x71, 0x80},
	Capture: color.RGBA{0xf1, 0xc4, 0x0f, 0x90},
	Danger:  color.RGBA{0xe7, 0x4c, 0x3c, 0x90},
	Hint:    color.RGBA{0x9b, 0x59, 0xb6, 0xa0},
	Threat:  color.RGBA{0xe7, 0x4c, 0x3c, 0x38},
	Player:  color.RGBA{0xf5, 0xf5, 0xf5, 0xff},
	Enemy:   color.RGBA{0x10, 0x10, 0x10, 0xff},
	King:    color.RGBA{0xe7, 0x4c, 0x3c, 0xff},
}

func PaletteByName(theme string) Palette {
	if theme == "light" {
		return LightPalette
	}
	return DarkPalette
}

// ---- UI elements ----

type Button struct {
	Label      string
	X, Y, W, H int
	Disabled   bool
	Image      *ebiten.Image // pre-rendered rounded rect with stroke
}

type MessageBox struct {
	Open      bool
	Animating bool
	Scale     float64 // 0..1
	Opening   bool
	Text      string
	OnClose   func()
}

// ---- GUI Context ----

type GameContext struct {
	Builder    *src.GameBuilder
	Config     *config.Config
	ConfigPath string
	Helper     *GUIHelperDraw
	Lang       *lang.GUILangWorker
	Fonts      *gfont.Fonts
	Theme      Palette
	Window     struct{ W, H int }
	Logx       logx.Logger
	Scenes     Scenes
}

type Scene interface {
	Update(ctx *GameContext) (Scene, error)
	Draw(ctx *GameContext, screen *ebiten.Image)
}

// Scenes builds the menu and play scenes; set by the window owner so the
// scene packages do not import each other.
type Scenes struct {
	Menu func(ctx *GameContext) Scene
	Play func(ctx *GameContext) Scene
}

// SaveConfig writes the settings after a menu toggle.
func (ctx *GameContext) SaveConfig() {
	if err := ctx.Config.Save(ctx.ConfigPath); err != nil {
		ctx.Logx.Errorf("save config: %v", err)
	}
}

type GUIHelperDraw struct {
	rects map[rectKey]*ebiten.Image
}

type rectKey struct {
	w, h, r      int
	fill, stroke color.RGBA
	strokeW      float64
	circle       bool
}

func NewGUIHelperDraw() *GUIHelperDraw {
	return &GUIHelperDraw{rects: make(map[rectKey]*ebiten.Image)}
}

// ---- helpers ----

// RenderRoundedRect draws an anti-aliased rounded rectangle with gg; images
// are cached by geometry and colors.
func (hd *GUIHelperDraw) RenderRoundedRect(w, h, radius int, fill color.RGBA, stroke color.RGBA, strokeW float64) *ebiten.Image {
	key := rectKey{w: w, h: h, r: radius, fill: fill, stroke: stroke, strokeW: strokeW}
	if img, ok := hd.rects[key]; ok {
		return img
	}
	dc := gg.NewContext(w, h)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.DrawRoundedRectangle(strokeW/2, strokeW/2, float64(w)-strokeW, float64(h)-strokeW, float64(radius))
	dc.FillPreserve()
	dc.SetRGBA255(int(stroke.R), int(stroke.G), int(stroke.B), int(stroke.A))
	dc.SetLineWidth(strokeW)
	dc.Stroke()
	img := ebiten.NewImageFromImage(dc.Image())
	hd.rects[key] = img
	return img
}

// RenderDisc draws a filled circle used as a piece token.
func (hd *GUIHelperDraw) RenderDisc(size int, fill color.RGBA, stroke color.RGBA, strokeW float64) *ebiten.Image {
	key := rectKey{w: size, h: size, fill: fill, stroke: stroke, strokeW: strokeW, circle: true}
	if img, ok := hd.rects[key]; ok {
		return img
	}
	dc := gg.NewContext(size, size)
	r := float64(size)/2 - strokeW
	dc.DrawCircle(float64(size)/2, float64(size)/2, r)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.FillPreserve()
	dc.SetRGBA255(int(stroke.R), int(stroke.G), int(stroke.B), int(stroke.A))
	dc.SetLineWidth(strokeW)
	dc.Stroke()
	img := ebiten.NewImageFromImage(dc.Image())
	hd.rects[key] = img
	return img
}

func (hd *GUIHelperDraw) DrawImageAt(screen, img *ebiten.Image, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x, y)
	screen.DrawImage(img, op)
}

func (hd *GUIHelperDraw) EbitenutilDrawRectStroke(screen *ebiten.Image, x, y, w, h float64, sw float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), float32(sw), c, false)
}

func (hd *GUIHelperDraw) EbitenutilDrawRect(screen *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (hd *GUIHelperDraw) PointInRect(px, py, rx, ry, rw, rh int) bool {
	return px >= rx && px < rx+rw && py >= ry && py < ry+rh
}

// DrawButton draws the pre-rendered button with its label centered.
func (hd *GUIHelperDraw) DrawButton(ctx *GameContext, screen *ebiten.Image, b *Button) {
	hd.DrawImageAt(screen, b.Image, float64(b.X), float64(b.Y))
	clr := ctx.Theme.ButtonText
	if b.Disabled {
		clr = ctx.Theme.ButtonStroke
	}
	bounds := text.BoundString(ctx.Fonts.Normal, b.Label)
	text.Draw(screen, b.Label, ctx.Fonts.Normal, b.X+(b.W-bounds.Dx())/2, b.Y+b.H/2+bounds.Dy()/2-2, clr)
}

func (hd *GUIHelperDraw) NewButton(ctx *GameContext, label string, x, y, w, h int) *Button {
	return &Button{
		Label: label,
		X:     x, Y: y, W: w, H: h,
		Image: hd.RenderRoundedRect(w, h, 12, ctx.Theme.ButtonFill, ctx.Theme.ButtonStroke, 3),
	}
}

// ---- MessageBox ----

const modalW, modalH = 440, 200

func (hd *GUIHelperDraw) AnimateMessage(box *MessageBox) {
	// basic animation: linear scale (0->1 opening, 1->0 closing)
	const dt = 1.0 / 60.0
	const speed = 6.0
	if !box.Animating {
		return
	}
	if box.Opening {
		box.Scale += speed * dt
		if box.Scale >= 1.0 {
			box.Scale = 1.0
			box.Animating = false
		}
	} else {
		box.Scale -= speed * dt
		if box.Scale <= 0.0 {
			box.Scale = 0.0
			box.Animating = false
			box.Open = false
			if box.OnClose != nil {
				box.OnClose()
			}
		}
	}
}

func (hd *GUIHelperDraw) ShowMessage(box *MessageBox, msg string, onClose func()) {
	box.Text = msg
	box.Open = true
	box.Opening = true
	box.Animating = true
	box.Scale = 0.0
	box.OnClose = onClose
}

// CloseMessage starts the closing animation; OnClose runs when it ends.
func (hd *GUIHelperDraw) CloseMessage(box *MessageBox) {
	box.Opening = false
	box.Animating = true
}

// ModalOK is the OK button rectangle of a fully opened modal.
func (hd *GUIHelperDraw) ModalOK(ctx *GameContext) (x, y, w, h int) {
	mx := (ctx.Window.W - modalW) / 2
	my := (ctx.Window.H - modalH) / 2
	w, h = 120, 44
	return mx + (modalW-w)/2, my + modalH - 60, w, h
}

func (hd *GUIHelperDraw) DrawModal(ctx *GameContext, screen *ebiten.Image, box *MessageBox) {
	if !box.Open && !box.Animating {
		return
	}
	hd.EbitenutilDrawRect(screen, 0, 0, float64(ctx.Window.W), float64(ctx.Window.H), ctx.Theme.ModalBg)

	scale := min(max(box.Scale, 0), 1)
	currW := max(int(modalW*scale), 6)
	currH := max(int(modalH*scale), 6)
	mx := (ctx.Window.W - currW) / 2
	my := (ctx.Window.H - currH) / 2
	// scaled modals are not cached, the size changes each frame
	dc := gg.NewContext(currW, currH)
	dc.DrawRoundedRectangle(1.5, 1.5, float64(currW)-3, float64(currH)-3, 16)
	dc.SetRGBA255(int(ctx.Theme.ButtonFill.R), int(ctx.Theme.ButtonFill.G), int(ctx.Theme.ButtonFill.B), 0xff)
	dc.FillPreserve()
	dc.SetRGBA255(int(ctx.Theme.Accent.R), int(ctx.Theme.Accent.G), int(ctx.Theme.Accent.B), 0xff)
	dc.SetLineWidth(3)
	dc.Stroke()
	hd.DrawImageAt(screen, ebiten.NewImageFromImage(dc.Image()), float64(mx), float64(my))

	if scale > 0.85 {
		bounds := text.BoundString(ctx.Fonts.Normal, box.Text)
		text.Draw(screen, box.Text, ctx.Fonts.Normal, mx+(currW-bounds.Dx())/2, my+70, ctx.Theme.MenuText)
		okX, okY, okW, okH := hd.ModalOK(ctx)
		hd.DrawImageAt(screen, hd.RenderRoundedRect(okW, okH, 16, ctx.Theme.Accent, ctx.Theme.ButtonStroke, 3), float64(okX), float64(okY))
		ok := ctx.Lang.T("button.ok")
		ob := text.BoundString(ctx.Fonts.Normal, ok)
		text.Draw(screen, ok, ctx.Fonts.Normal, okX+(okW-ob.Dx())/2, okY+okH/2+ob.Dy()/2-2, color.White)
	}
}
