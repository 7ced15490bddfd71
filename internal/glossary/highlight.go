package glossary

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultSelector is the CSS selector of the page region scanned for terms.
const DefaultSelector = ".main-content"

// MarkerConfig describes the inline element produced for each match.
type MarkerConfig struct {
	Tag            string `yaml:"tag" koanf:"tag"`
	Class          string `yaml:"class" koanf:"class"`
	DefinitionAttr string `yaml:"definition_attr" koanf:"definition_attr"`
	LinkAttr       string `yaml:"link_attr" koanf:"link_attr"`
}

// DefaultMarkerConfig returns the marker shape the tooltip script expects.
func DefaultMarkerConfig() MarkerConfig {
	return MarkerConfig{
		Tag:            "span",
		Class:          "glossary-term",
		DefinitionAttr: "data-definition",
		LinkAttr:       "data-wikipedia-url",
	}
}

// skipped lists elements whose text is not page prose: non-rendering
// elements and literal code.
var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Textarea: true,
	atom.Title:    true,
	atom.Pre:      true,
	atom.Code:     true,
	atom.Kbd:      true,
	atom.Samp:     true,
}

// Stats summarises one highlight pass.
type Stats struct {
	TextNodes  int `json:"text_nodes"`
	Candidates int `json:"candidates"`
	Markers    int `json:"markers"`
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.TextNodes += o.TextNodes
	s.Candidates += o.Candidates
	s.Markers += o.Markers
}

// Highlighter rewrites glossary matches in HTML trees. The zero value is
// not usable; construct one with NewHighlighter.
type Highlighter struct {
	marker MarkerConfig
}

// NewHighlighter returns a Highlighter producing markers shaped by m.
// Empty fields of m fall back to DefaultMarkerConfig.
func NewHighlighter(m MarkerConfig) *Highlighter {
	def := DefaultMarkerConfig()
	if m.Tag == "" {
		m.Tag = def.Tag
	}
	if m.Class == "" {
		m.Class = def.Class
	}
	if m.DefinitionAttr == "" {
		m.DefinitionAttr = def.DefinitionAttr
	}
	if m.LinkAttr == "" {
		m.LinkAttr = def.LinkAttr
	}
	return &Highlighter{marker: m}
}

// Marker returns the marker configuration in use.
func (h *Highlighter) Marker() MarkerConfig { return h.marker }

// HighlightNode rewrites every glossary match in the text under root.
// Text inside non-rendering elements, code and markers from an earlier
// pass is left alone, so running it again over the same tree changes
// nothing. A nil root or an empty index is a no-op.
func (h *Highlighter) HighlightNode(root *html.Node, idx *Index) Stats {
	var stats Stats
	if root == nil || idx.Len() == 0 {
		return stats
	}

	// Collect first: rewriting while walking would revisit new nodes.
	var textNodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (skipped[n.DataAtom] || h.isMarker(n)) {
			return
		}
		if n.Type == html.TextNode {
			if strings.TrimSpace(n.Data) != "" {
				textNodes = append(textNodes, n)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	for _, n := range textNodes {
		stats.TextNodes++
		candidates := FindCandidates(n.Data, idx)
		stats.Candidates += len(candidates)
		if len(candidates) == 0 {
			continue
		}
		kept := Resolve(candidates)
		stats.Markers += len(kept)
		h.replace(n, Segments(n.Data, kept))
	}
	return stats
}

// replace swaps text node n for the rebuilt segments.
func (h *Highlighter) replace(n *html.Node, segments []Segment) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for _, seg := range segments {
		if seg.Match == nil {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: seg.Text}, n)
			continue
		}
		parent.InsertBefore(h.newMarker(seg.Text, seg.Match.Entry), n)
	}
	parent.RemoveChild(n)
}

func (h *Highlighter) newMarker(label string, e *Entry) *html.Node {
	attrs := []html.Attribute{
		{Key: "class", Val: h.marker.Class},
		{Key: h.marker.DefinitionAttr, Val: e.Definition},
	}
	if e.ReferenceLink != "" {
		attrs = append(attrs, html.Attribute{Key: h.marker.LinkAttr, Val: e.ReferenceLink})
	}
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     h.marker.Tag,
		DataAtom: atom.Lookup([]byte(h.marker.Tag)),
		Attr:     attrs,
	}
	el.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	return el
}

func (h *Highlighter) isMarker(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == h.marker.Class {
				return true
			}
		}
	}
	return false
}

// HighlightDocument highlights the containers of doc matched by selector.
// Containers nested inside another matched container are covered by their
// ancestor and not walked twice. An empty selector scans the whole document.
func (h *Highlighter) HighlightDocument(doc *goquery.Document, selector string, idx *Index) Stats {
	var stats Stats
	if doc == nil || idx.Len() == 0 {
		return stats
	}
	if selector == "" {
		for _, n := range doc.Nodes {
			stats.Add(h.HighlightNode(n, idx))
		}
		return stats
	}

	containers := doc.Find(selector).Nodes
	selected := make(map[*html.Node]bool, len(containers))
	for _, n := range containers {
		selected[n] = true
	}
	for _, n := range containers {
		if hasSelectedAncestor(n, selected) {
			continue
		}
		stats.Add(h.HighlightNode(n, idx))
	}
	return stats
}

func hasSelectedAncestor(n *html.Node, selected map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if selected[p] {
			return true
		}
	}
	return false
}

// HighlightHTML parses a full HTML document from r, highlights the regions
// matched by selector and renders the result to w.
func (h *Highlighter) HighlightHTML(r io.Reader, w io.Writer, selector string, idx *Index) (Stats, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Stats{}, fmt.Errorf("parsing html: %w", err)
	}
	stats := h.HighlightDocument(doc, selector, idx)
	for _, n := range doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return stats, fmt.Errorf("rendering html: %w", err)
		}
	}
	return stats, nil
}

// HighlightFragment highlights an HTML fragment (no html/body wrapper) and
// returns the rewritten fragment.
func (h *Highlighter) HighlightFragment(fragment string, idx *Index) (string, Stats, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", Stats{}, fmt.Errorf("parsing fragment: %w", err)
	}
	for _, n := range nodes {
		ctx.AppendChild(n)
	}

	stats := h.HighlightNode(ctx, idx)

	var buf bytes.Buffer
	for c := ctx.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", stats, fmt.Errorf("rendering fragment: %w", err)
		}
	}
	return buf.String(), stats, nil
}
