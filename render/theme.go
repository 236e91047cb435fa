package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Theme colors the UI panels; the track palette stays fixed
type Theme struct {
	Panel      tcell.Color
	Text       tcell.Color
	Hint       tcell.Color
	Accent     tcell.Color
	Button     tcell.Color
	ButtonText tcell.Color
}

// DefaultTheme is used until a host announces its own
func DefaultTheme() Theme {
	return Theme{
		Panel:      RgbPanel,
		Text:       RgbText,
		Hint:       RgbTextDim,
		Accent:     RgbNextGate,
		Button:     RgbHighlightBg,
		ButtonText: RgbPanel,
	}
}

// ThemeColors are host supplied #rrggbb strings
type ThemeColors struct {
	Background string
	Text       string
	Hint       string
	Link       string
	Button     string
	ButtonText string
}

// With overrides t by every valid entry of c, empty or malformed entries keep t
func (t Theme) With(c ThemeColors) Theme {
	t.Panel = hexOr(c.Background, t.Panel)
	t.Text = hexOr(c.Text, t.Text)
	t.Hint = hexOr(c.Hint, t.Hint)
	t.Accent = hexOr(c.Link, t.Accent)
	t.Button = hexOr(c.Button, t.Button)
	t.ButtonText = hexOr(c.ButtonText, t.ButtonText)
	return t
}

func hexOr(s string, fallback tcell.Color) tcell.Color {
	if !strings.HasPrefix(s, "#") {
		return fallback
	}
	c := tcell.GetColor(s)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}

func (t Theme) panel() tcell.Style {
	return tcell.StyleDefault.Background(t.Panel).Foreground(t.Text)
}

func (t Theme) dim() tcell.Style {
	return tcell.StyleDefault.Background(t.Panel).Foreground(t.Hint)
}

func (t Theme) title() tcell.Style {
	return tcell.StyleDefault.Background(t.Panel).Foreground(t.Accent).Bold(true)
}

func (t Theme) selected() tcell.Style {
	return tcell.StyleDefault.Background(t.Button).Foreground(t.ButtonText).Bold(true)
}
