// Package walker discovers the pages and assets of a guide's content
// directory.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the largest page processed (4 MB). Assets are not
// limited.
const DefaultMaxFileSize int64 = 4 << 20

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path        string // Absolute path on disk.
	RelPath     string // Slash-separated path relative to the root directory.
	Size        int64  // File size in bytes.
	Kind        Kind   // Page or asset classification.
	ContentHash string // SHA-256 hex digest of the file content.
	IsDraft     bool   // Whether the page is unpublished.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir       string   // Root directory to walk.
	Include       []string // Glob patterns a page must match.
	Exclude       []string // Glob patterns excluding pages and assets.
	MaxFileSize   int64    // Pages larger than this are skipped (0 = use default).
	IncludeDrafts bool     // Keep draft pages.
	SkipDirs      []string // Directories never entered, e.g. the build output.
}

// Walk traverses the directory tree rooted at config.RootDir and returns
// every page and asset that passes filtering, sorted by RelPath. Pages must
// match Include; binary pages are skipped. Patterns from a .gitignore at
// the root are honoured.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	skip := make(map[string]bool, len(config.SkipDirs))
	for _, d := range config.SkipDirs {
		if abs, err := filepath.Abs(d); err == nil {
			skip[abs] = true
		}
	}

	filter := newContentFilter(config)
	gitignorePatterns := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if path != root && (isSkippedDir(d.Name()) || skip[path]) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if matchesGitignore(relPath, gitignorePatterns) {
			return nil
		}
		kind, draft, ok := filter.classify(relPath)
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if kind.IsPage() && (info.Size() > maxSize || isBinary(path)) {
			return nil
		}

		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:        path,
			RelPath:     filepath.ToSlash(relPath),
			Size:        info.Size(),
			Kind:        kind,
			ContentHash: hash,
			IsDraft:     draft,
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// Pages returns the page entries of files.
func Pages(files []FileInfo) []FileInfo {
	var out []FileInfo
	for _, f := range files {
		if f.Kind.IsPage() {
			out = append(out, f)
		}
	}
	return out
}

// Assets returns the asset entries of files.
func Assets(files []FileInfo) []FileInfo {
	var out []FileInfo
	for _, f := range files {
		if f.Kind == KindAsset {
			out = append(out, f)
		}
	}
	return out
}

// Fingerprint combines the content hashes of files into one digest, so a
// watcher can tell whether anything actually changed.
func Fingerprint(files []FileInfo) string {
	h := sha256.New()
	for _, f := range files {
		io.WriteString(h, f.RelPath)
		io.WriteString(h, "\x00")
		io.WriteString(h, f.ContentHash)
		io.WriteString(h, "\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// isBinary reads the first 512 bytes of a file and checks for NUL bytes.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true // treat unreadable files as binary
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}

	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			return true
		}
	}
	return false
}

// hashFile computes the SHA-256 digest of the given file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
func matchesGitignore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalized := filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")

		if strings.Contains(pattern, "/") {
			pattern = strings.TrimPrefix(pattern, "/")
			if matched, _ := filepath.Match(pattern, normalized); matched {
				return true
			}
			if dirOnly && strings.HasPrefix(normalized, pattern+"/") {
				return true
			}
			continue
		}

		// No slash: match any path component. Directory-only patterns
		// match components other than the file name.
		parts := strings.Split(normalized, "/")
		for i, part := range parts {
			if dirOnly && i == len(parts)-1 {
				break
			}
			if matched, _ := filepath.Match(pattern, part); matched {
				return true
			}
		}
	}
	return false
}
