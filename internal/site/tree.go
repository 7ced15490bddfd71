package site

import (
	"fmt"
	"html"
	"path"
	"sort"
	"strings"
)

// NavTree is a node in the sidebar navigation built from output page paths.
type NavTree struct {
	Name     string
	Title    string // Display name: page title for files, formatted name for dirs.
	Path     string // Output path relative to the site root ("essays/noir.html").
	IsDir    bool
	Children []*NavTree
}

// BuildTree constructs a NavTree from output page paths. titleMap maps a
// page path to its display title.
func BuildTree(paths []string, titleMap map[string]string) *NavTree {
	root := &NavTree{Name: "site", IsDir: true}

	for _, p := range paths {
		parts := strings.Split(p, "/")
		current := root
		for i, part := range parts {
			isLast := i == len(parts)-1
			var next *NavTree
			for _, child := range current.Children {
				if child.Name == part && child.IsDir == !isLast {
					next = child
					break
				}
			}
			if next == nil {
				next = &NavTree{Name: part, IsDir: !isLast}
				if isLast {
					next.Path = p
					next.Title = titleMap[p]
				} else {
					next.Path = strings.Join(parts[:i+1], "/")
					next.Title = formatDirName(part)
				}
				current.Children = append(current.Children, next)
			}
			current = next
		}
	}

	sortTree(root)
	return root
}

// sortTree orders children directories first, then files, by name. The
// films directory is kept last.
func sortTree(node *NavTree) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if (a.Path == "films") != (b.Path == "films") {
			return b.Path == "films"
		}
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		if child.IsDir {
			sortTree(child)
		}
	}
}

// ToHTML renders the tree as nested lists for the sidebar. basePath is the
// prefix back to the site root ("../" for a page one level deep).
func (t *NavTree) ToHTML(activePath, basePath string) string {
	ancestors := activeAncestors(activePath)

	var b strings.Builder
	homeActive := ""
	if activePath == "index.html" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, homeActive)

	renderChildren(&b, t, activePath, basePath, ancestors)
	return b.String()
}

// activeAncestors returns the directory paths above activePath.
// For "films/akira.html" it returns {"films"}.
func activeAncestors(activePath string) map[string]bool {
	ancestors := make(map[string]bool)
	parts := strings.Split(activePath, "/")
	for i := 1; i < len(parts); i++ {
		ancestors[strings.Join(parts[:i], "/")] = true
	}
	return ancestors
}

func renderChildren(b *strings.Builder, node *NavTree, activePath, basePath string, ancestors map[string]bool) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		if child.IsDir {
			expanded := ""
			if ancestors[child.Path] {
				expanded = " expanded"
			}
			fmt.Fprintf(b, `<li class="dir%s"><span class="dir-toggle">%s</span>`+"\n", expanded, html.EscapeString(child.Title))
			renderChildren(b, child, activePath, basePath, ancestors)
			b.WriteString("</li>\n")
			continue
		}
		if child.Path == "index.html" {
			continue
		}
		label := child.Title
		if label == "" {
			label = strings.TrimSuffix(child.Name, ".html")
		}
		active := ""
		if child.Path == activePath {
			active = ` class="active"`
		}
		fmt.Fprintf(b, `<li class="file"><a href="%s%s"%s>%s</a></li>`+"\n", basePath, child.Path, active, html.EscapeString(label))
	}
	b.WriteString("</ul>\n")
}

// pagePath maps a content path to its output path.
func pagePath(rel string) string {
	switch path.Ext(rel) {
	case ".md", ".markdown":
		return strings.TrimSuffix(rel, path.Ext(rel)) + ".html"
	case ".htm":
		return strings.TrimSuffix(rel, ".htm") + ".html"
	}
	return rel
}

// basePathFor returns the relative prefix from page back to the site root.
func basePathFor(page string) string {
	return strings.Repeat("../", strings.Count(page, "/"))
}

// formatDirName title-cases a directory slug ("film-noir" -> "Film Noir").
func formatDirName(name string) string {
	words := strings.FieldsFunc(name, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
