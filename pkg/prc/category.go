package prc

import "strings"

// categoryNames maps well-known resource tags to the directory names
// used when extraction organizes output by type.
var categoryNames = map[string]string{
	"code": "code",
	"data": "data",
	"pref": "preferences",
	"NFNT": "fonts",
	"tFRM": "forms",
	"tSTR": "strings",
	"tSTL": "string-lists",
	"Talt": "alerts",
	"Tbmp": "bitmaps",
	"tAIB": "app-icons",
	"tAIN": "app-info",
	"clut": "color-tables",
	"xloc": "locales",
	"gdef": "graphics-defs",
	"tver": "version",
	"Tbtn": "buttons",
	"tMNU": "menus",
	"tICN": "icons",
	"tLST": "lists",
	"tFBM": "form-bitmaps",
	"tgrb": "graffiti",
	"wrdl": "word-lists",
	"boot": "boot-code",
	"silk": "silk-screen",
}

// CategoryDir returns the directory name for a resource tag, falling
// back to the lowercase tag for anything outside the known set.
func CategoryDir(tag string) string {
	if name, ok := categoryNames[tag]; ok {
		return name
	}
	return strings.ToLower(tag)
}
