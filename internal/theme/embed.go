package theme

import (
	"embed"
)

// embeddedStyles contains the stylesheets compiled into the binary.
//
//go:embed themes/*.css
var embeddedStyles embed.FS

// Names of the bundled stylesheets.
const (
	BaseStyleSheetName = "Base.css"
	DarkStyleSheetName = "Dark.css"
)

// BundledCSS retrieves a bundled stylesheet by file name.
// Returns the CSS content and whether it was found.
func BundledCSS(name string) (string, bool) {
	data, err := embeddedStyles.ReadFile("themes/" + name)
	if err != nil {
		return "", false
	}
	return string(data), true
}
