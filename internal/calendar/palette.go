package calendar

// Color is a palette tag selecting the display color of an event or calendar.
type Color string

// Palette tags.
const (
	ColorLavender Color = "lavender"
	ColorSage     Color = "sage"
	ColorCoral    Color = "coral"
	ColorSky      Color = "sky"
	ColorMarigold Color = "marigold"
	ColorRose     Color = "rose"
	ColorOcean    Color = "ocean"
	ColorForest   Color = "forest"
	ColorBerry    Color = "berry"
	ColorSlate    Color = "slate"
)

// DefaultColor is the first palette entry, preselected for new events and calendars.
const DefaultColor = ColorLavender

// Swatch is one entry of the palette catalog.
type Swatch struct {
	Name string
	Tag  Color
	Hex  string
}

// Palette is the fixed, ordered color catalog.
var Palette = []Swatch{
	{Name: "Lavender", Tag: ColorLavender, Hex: "#a855f7"},
	{Name: "Sage", Tag: ColorSage, Hex: "#22c55e"},
	{Name: "Coral", Tag: ColorCoral, Hex: "#ef4444"},
	{Name: "Sky", Tag: ColorSky, Hex: "#3b82f6"},
	{Name: "Marigold", Tag: ColorMarigold, Hex: "#eab308"},
	{Name: "Rose", Tag: ColorRose, Hex: "#ec4899"},
	{Name: "Ocean", Tag: ColorOcean, Hex: "#06b6d4"},
	{Name: "Forest", Tag: ColorForest, Hex: "#10b981"},
	{Name: "Berry", Tag: ColorBerry, Hex: "#d946ef"},
	{Name: "Slate", Tag: ColorSlate, Hex: "#64748b"},
}

func (c Color) swatch() (Swatch, bool) {
	for _, s := range Palette {
		if s.Tag == c {
			return s, true
		}
	}
	return Swatch{}, false
}

// Valid reports whether c is a palette tag.
func (c Color) Valid() bool {
	_, ok := c.swatch()
	return ok
}

// Name returns the display name of the color, or the raw tag if it is not
// in the palette.
func (c Color) Name() string {
	if s, ok := c.swatch(); ok {
		return s.Name
	}
	return string(c)
}

// Hex returns the RGB hex value for the color. Unknown tags map to the
// default color.
func (c Color) Hex() string {
	if s, ok := c.swatch(); ok {
		return s.Hex
	}
	s, _ := DefaultColor.swatch()
	return s.Hex
}
