package core

import "fmt"

// Color is a packed ARGB value.
type Color uint32

// Con colors.
const (
	ColorGrey      Color = 0xFF808080
	ColorGreen     Color = 0xFF00FF00
	ColorLightBlue Color = 0xFF00FFFF
	ColorBlue      Color = 0xFF0000FF
	ColorWhite     Color = 0xFFFFFFFF
	ColorYellow    Color = 0xFFFFFF00
	ColorRed       Color = 0xFFFF0000
)

// RGB builds an opaque color from its components.
func RGB(r, g, b uint8) Color {
	return Color(0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// FromRGB builds an opaque color from components clamped to 0..255.
func FromRGB(r, g, b int) Color {
	return RGB(clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func (c Color) Alpha() uint8 { return uint8(c >> 24) }
func (c Color) Red() uint8   { return uint8(c >> 16) }
func (c Color) Green() uint8 { return uint8(c >> 8) }
func (c Color) Blue() uint8  { return uint8(c) }

// ToRGB drops the alpha channel.
func (c Color) ToRGB() uint32 {
	return uint32(c) & 0xFFFFFF
}

// WithAlpha replaces the alpha channel.
func (c Color) WithAlpha(a uint8) Color {
	return Color(c.ToRGB() | uint32(a)<<24)
}

// Inverted returns the RGB complement, keeping alpha.
func (c Color) Inverted() Color {
	return Color((0xFFFFFF - c.ToRGB()) | uint32(c)&0xFF000000)
}

func (c Color) String() string {
	return fmt.Sprintf("%d %d %d", c.Red(), c.Green(), c.Blue())
}

// ConColor maps a consider level to its display color.
func ConColor(level int) Color {
	switch level {
	case 0, 1:
		return ColorGrey
	case 2:
		return ColorGreen
	case 3:
		return ColorLightBlue
	case 4:
		return ColorBlue
	case 5:
		return ColorWhite
	case 6:
		return ColorYellow
	case 7:
		return ColorRed
	}
	return ColorWhite
}
