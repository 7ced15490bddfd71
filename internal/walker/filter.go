package walker

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never entered during a walk.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".filmguide",
	".idea",
	".vscode",
	".DS_Store",
}

func isSkippedDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// contentFilter decides which files of a content directory reach the site
// builder. Exclude patterns drop pages and assets alike; include patterns
// only narrow the pages, so posters and stylesheets are never lost to a
// "**/*.md" include.
type contentFilter struct {
	include []string
	exclude []string
	drafts  bool
}

func newContentFilter(config WalkerConfig) contentFilter {
	return contentFilter{
		include: config.Include,
		exclude: config.Exclude,
		drafts:  config.IncludeDrafts,
	}
}

// classify returns the kind of relPath and whether it is a draft page. ok
// is false for files that are not part of the guide.
func (f contentFilter) classify(relPath string) (kind Kind, draft, ok bool) {
	slash := filepath.ToSlash(relPath)
	if globMatch(slash, f.exclude) {
		return KindOther, false, false
	}

	kind = DetectKind(slash)
	switch {
	case kind == KindOther:
		return kind, false, false
	case kind == KindAsset:
		return kind, false, true
	}

	if len(f.include) > 0 && !globMatch(slash, f.include) {
		return kind, false, false
	}
	draft = isDraft(slash)
	return kind, draft, f.drafts || !draft
}

// globMatch reports whether the slash-separated path, or its base name,
// matches one of patterns. "**" spans directories.
func globMatch(slash string, patterns []string) bool {
	base := path.Base(slash)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, err := doublestar.Match(pattern, slash); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// isDraft reports whether a page is unpublished: its name starts with an
// underscore or it lives under a _drafts directory.
func isDraft(slash string) bool {
	if strings.HasPrefix(path.Base(slash), "_") {
		return true
	}
	return strings.HasPrefix(slash, "_drafts/") || strings.Contains(slash, "/_drafts/")
}
