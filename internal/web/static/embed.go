// Package static embeds the browser UI.
package static

import _ "embed"

//go:embed index.html
var indexHTML []byte

// IndexHTML returns the embedded UI page.
func IndexHTML() []byte {
	return indexHTML
}
