package generator

import (
	"path/filepath"
)

// OutputPath is where an article named name is written: {dir}/{name}.html.
func OutputPath(dir string, name string) string {
	return filepath.Join(dir, name+".html")
}
