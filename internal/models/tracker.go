package models

import "time"

// Tracker represents a habit or one-off event being tracked
type Tracker struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Color     int       `json:"color"` // 1-based index into ColorPalette
	Schedule  Schedule  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOneOff reports whether the tracker is an irregular event rather than
// a recurring habit.
func (t Tracker) IsOneOff() bool {
	return len(t.Schedule) == 0
}

// EmojiPalette is the fixed set of glyphs a tracker may carry.
var EmojiPalette = []string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱",
	"😇", "😡", "🥶", "🤔", "🙌", "🍔",
	"🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

// ColorPalette is the fixed set of tracker colors as hex values. A
// tracker's Color field is a 1-based index into this slice.
var ColorPalette = []string{
	"#FD4C49", "#FF881E", "#007BFA", "#6E44FE", "#33CF69", "#E66DD4",
	"#F9D4D4", "#34A7FE", "#46E69D", "#35347C", "#FF674D", "#FF99CC",
	"#F6C48B", "#7994F5", "#832CF1", "#AD56DA", "#8D72E3", "#2FD058",
}

// ValidEmoji reports whether the glyph is drawn from the fixed palette.
func ValidEmoji(emoji string) bool {
	for _, e := range EmojiPalette {
		if e == emoji {
			return true
		}
	}
	return false
}

// ValidColor reports whether the 1-based color index is within the palette.
func ValidColor(color int) bool {
	return color >= 1 && color <= len(ColorPalette)
}

// ColorHex returns the hex value for a 1-based palette index, or the first
// palette entry if the index is out of range.
func ColorHex(color int) string {
	if !ValidColor(color) {
		return ColorPalette[0]
	}
	return ColorPalette[color-1]
}
