package assets

import (
	"embed"
)

//go:embed index.html
var FS embed.FS

// IndexHTML returns the embedded browser client.
func IndexHTML() []byte {
	b, err := FS.ReadFile("index.html")
	if err != nil {
		return nil
	}
	return b
}
