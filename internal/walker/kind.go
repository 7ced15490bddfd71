package walker

import (
	"path/filepath"
	"strings"
)

// Kind classifies a file found under the content directory.
type Kind string

const (
	KindMarkdown Kind = "markdown"
	KindHTML     Kind = "html"
	KindAsset    Kind = "asset"
	KindOther    Kind = ""
)

// extensionToKind maps file extensions to how the site builder treats them.
var extensionToKind = map[string]Kind{
	".md":       KindMarkdown,
	".markdown": KindMarkdown,
	".html":     KindHTML,
	".htm":      KindHTML,
	// Images for posters and galleries.
	".jpg":  KindAsset,
	".jpeg": KindAsset,
	".png":  KindAsset,
	".gif":  KindAsset,
	".webp": KindAsset,
	".avif": KindAsset,
	".svg":  KindAsset,
	".ico":  KindAsset,
	// Extra stylesheets, scripts and fonts.
	".css":   KindAsset,
	".js":    KindAsset,
	".woff":  KindAsset,
	".woff2": KindAsset,
	".pdf":   KindAsset,
}

// DetectKind returns the Kind for the given filename or path.
func DetectKind(filename string) Kind {
	ext := strings.ToLower(filepath.Ext(filename))
	return extensionToKind[ext]
}

// IsPage reports whether k is rendered as a site page.
func (k Kind) IsPage() bool {
	return k == KindMarkdown || k == KindHTML
}
