package constants

// Emojis is the fixed glyph palette offered by the tracker form.
var Emojis = [18]string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱",
	"😇", "😡", "🥶", "🤔", "🙌", "🍔",
	"🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

// Colors is the fixed color palette as 6-digit RGB hex values without the leading '#'.
var Colors = [18]string{
	"FD4C49", "FF881E", "007BFA", "6E44FE", "33CF69", "E66DD4",
	"F9D4D4", "34A7FE", "46E69D", "35347C", "FF674D", "FF99CC",
	"F6C48B", "7994F5", "832CF1", "AD56DA", "8D72E6", "2FD058",
}
