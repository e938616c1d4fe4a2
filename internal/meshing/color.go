package meshing

import (
	"math"
	"unicode/utf16"
)

// Color is a flat RGB tint with components in [0,1].
type Color struct {
	R, G, B float32
}

// HashColor derives a stable tint from an identity string.
//
// The hash is the 31-multiplier polynomial hash over the UTF-16 code units of
// identity, kept in an int32 so overflow wraps exactly like a 32-bit signed
// integer. Bits 24-31, 16-23 and 8-15 become the R, G and B channels, each
// scaled to [0,1] and rounded to three decimals. Different identities may
// share a color.
func HashColor(identity string) Color {
	var hash int32
	for _, unit := range utf16.Encode([]rune(identity)) {
		hash = int32(unit) + ((hash << 5) - hash)
	}

	return Color{
		R: channel(hash >> 24),
		G: channel(hash >> 16),
		B: channel(hash >> 8),
	}
}

func channel(v int32) float32 {
	c := float64(v&0xff) / 255.0
	return float32(math.Round(c*1000) / 1000)
}
