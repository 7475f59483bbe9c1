package theme

// Palette constants and InitStyles, which activates the base theme and
// configures the semantic widget styles of the booth.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

const (
	ColorBg        = "#FDF2F8" // app background, blush
	ColorSurface   = "#ffffff"
	ColorBorder    = "#E9D5FF" // lavender
	ColorPrimary   = "#A083F7" // violet buttons
	ColorPrimaryHi = "#8B6CF0"
	ColorDeep      = "#27009D" // headings, selected frame
	ColorDanger    = "#dc2626"
	ColorText      = "#27009D"
	ColorTextMuted = "#7c6fa8"
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleTitleLabel    = "title.TLabel"
	StyleStatusLabel   = "status.TLabel"
	StyleErrorLabel    = "error.TLabel"
)

// InitStyles applies the booth palette.
func InitStyles() {
	_ = ActivateTheme("azure light") // baseline metrics
	App.Configure(Background(ColorBg))

	StyleConfigure(StylePrimaryButton,
		Background(ColorPrimary),
		Foreground("white"),
		Padding("6p 4p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(ColorDanger),
		Foreground("white"),
		Padding("6p 4p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleTitleLabel,
		Foreground(ColorDeep),
		Background(ColorBg),
		Padding("4p 2p"),
	)
	StyleConfigure(StyleStatusLabel,
		Foreground("white"),
		Background(ColorPrimary),
		Padding("6p 3p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleErrorLabel,
		Foreground(ColorDanger),
		Background(ColorBg),
		Padding("4p 2p"),
	)
}
