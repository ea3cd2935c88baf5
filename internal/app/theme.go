package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// MapScaleTheme tints the default theme with the calibration box color.
type MapScaleTheme struct{}

var _ fyne.Theme = (*MapScaleTheme)(nil)

func (t *MapScaleTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xFF, G: 0x69, B: 0xB4, A: 0xFF} // Hot pink, as the box
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0x69, B: 0xB4, A: 0x60}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *MapScaleTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *MapScaleTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *MapScaleTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13 // Denser readouts in the bottom bar
	default:
		return theme.DefaultTheme().Size(name)
	}
}
