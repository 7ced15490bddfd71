package site

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/filmguide/internal/glossary"
	"github.com/ziadkadry99/filmguide/internal/progress"
	"github.com/ziadkadry99/filmguide/internal/sources"
	"github.com/ziadkadry99/filmguide/internal/walker"
)

// Output paths the generator owns.
const (
	glossaryPage    = "glossary.html"
	homePage        = "index.html"
	filmsIndexPage  = "films/index.html"
	searchIndexFile = "search-index.json"
	glossaryFile    = "glossary.json"
)

// Options configures a Generator.
type Options struct {
	ContentDir     string
	OutputDir      string
	ProjectName    string
	Logo           string
	FilmsFile      string
	Selector       string
	Include        []string
	Exclude        []string
	Marker         glossary.MarkerConfig
	MaxConcurrency int
	IncludeDrafts  bool
	LiveReload     bool
}

// IndexLoader supplies the glossary index for a build. *sources.Loader
// satisfies it.
type IndexLoader interface {
	LoadIndex(ctx context.Context) (*glossary.Index, sources.Result)
}

type fixedIndex struct {
	idx *glossary.Index
}

func (f fixedIndex) LoadIndex(context.Context) (*glossary.Index, sources.Result) {
	return f.idx, sources.Result{Entries: f.idx.Entries(), Source: "fixed"}
}

// FixedIndex returns an IndexLoader that always yields idx.
func FixedIndex(idx *glossary.Index) IndexLoader {
	return fixedIndex{idx: idx}
}

// BuildResult summarises one site build.
type BuildResult struct {
	Pages          int
	Films          int
	Assets         int
	Terms          int
	GlossarySource string
	Stats          glossary.Stats
	Duration       time.Duration
}

// Generator renders a content directory and film catalog into a static
// site with glossary terms highlighted. Build may be called repeatedly; the
// glossary is reloaded on every build.
type Generator struct {
	opts        Options
	loader      IndexLoader
	logger      *zap.Logger
	reporter    progress.Reporter
	highlighter *glossary.Highlighter
	md          goldmark.Markdown
	tmpl        *template.Template
	index       atomic.Pointer[glossary.Index]
}

// NewGenerator validates opts and prepares the markdown renderer and page
// templates.
func NewGenerator(opts Options, loader IndexLoader, logger *zap.Logger) (*Generator, error) {
	if opts.ContentDir == "" || opts.OutputDir == "" {
		return nil, errors.New("site: content and output directories are required")
	}
	if loader == nil {
		return nil, errors.New("site: glossary loader is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ProjectName == "" {
		opts.ProjectName = "Film Companion Guide"
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	if opts.Selector == "" {
		opts.Selector = glossary.DefaultSelector
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	g := &Generator{
		opts:        opts,
		loader:      loader,
		logger:      logger,
		reporter:    progress.Nop{},
		highlighter: glossary.NewHighlighter(opts.Marker),
		md:          newMarkdown(),
		tmpl:        tmpl,
	}
	g.index.Store(glossary.BuildIndex(nil))
	return g, nil
}

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"asset":    assetURL,
		"anchor":   termAnchor,
		"gradient": posterGradient,
	}
	tmpl := template.New("site").Funcs(funcs)
	for _, src := range []string{layoutTemplate, filmTemplate, filmsIndexTemplate, homeTemplate, glossaryTemplate} {
		if _, err := tmpl.Parse(src); err != nil {
			return nil, fmt.Errorf("parsing templates: %w", err)
		}
	}
	return tmpl, nil
}

// SetReporter replaces the progress reporter (progress.Nop by default).
func (g *Generator) SetReporter(r progress.Reporter) {
	if r == nil {
		r = progress.Nop{}
	}
	g.reporter = r
}

// Index returns the glossary index of the most recent build.
func (g *Generator) Index() *glossary.Index {
	return g.index.Load()
}

// Highlighter returns the highlighter used for every page.
func (g *Generator) Highlighter() *glossary.Highlighter {
	return g.highlighter
}

// Options returns the generator's effective options.
func (g *Generator) Options() Options {
	return g.opts
}

// page is one output file before rendering.
type page struct {
	Path        string // output path relative to the site root
	Title       string
	Description string
	Kind        string // page, film, films, glossary, home
	Content     template.HTML
	Raw         []byte // full HTML document passed through unwrapped
	Highlight   bool
}

// frontMatter is the optional YAML header of a content page.
type frontMatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Draft       bool   `yaml:"draft"`
	Glossary    *bool  `yaml:"glossary"`
}

// Build renders the whole site into the output directory.
func (g *Generator) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	idx, res := g.loader.LoadIndex(ctx)
	if idx == nil {
		idx = glossary.BuildIndex(nil)
	}
	g.index.Store(idx)

	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:       g.opts.ContentDir,
		Include:       g.opts.Include,
		Exclude:       g.opts.Exclude,
		IncludeDrafts: g.opts.IncludeDrafts,
		SkipDirs:      []string{g.opts.OutputDir},
	})
	if err != nil {
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	catalog, err := LoadFilms(g.opts.FilmsFile)
	if err != nil {
		return nil, err
	}

	pages, err := g.contentPages(walker.Pages(files))
	if err != nil {
		return nil, err
	}
	generated, err := g.generatedPages(pages, catalog, idx, res.Source)
	if err != nil {
		return nil, err
	}
	pages = append(pages, generated...)
	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })

	if err := os.MkdirAll(g.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	logoFile, err := g.copyLogo()
	if err != nil {
		return nil, err
	}

	var navPaths []string
	titles := make(map[string]string)
	for _, p := range pages {
		if p.Raw != nil || p.Kind == "glossary" || p.Kind == "home" {
			continue
		}
		navPaths = append(navPaths, p.Path)
		titles[p.Path] = p.Title
	}
	tree := BuildTree(navPaths, titles)

	result := &BuildResult{
		Films:          len(catalog.Films),
		Terms:          idx.Len(),
		GlossarySource: res.Source,
	}

	var (
		mu      sync.Mutex
		entries []SearchEntry
	)
	g.reporter.Start(len(pages))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.MaxConcurrency)
	for _, p := range pages {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			stats, entry, err := g.renderPage(p, tree, logoFile, idx)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", p.Path, err)
			}
			mu.Lock()
			result.Stats.Add(stats)
			if entry != nil {
				entries = append(entries, *entry)
			}
			mu.Unlock()
			g.reporter.Advance(p.Path)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	g.reporter.Finish()

	assets, err := g.copyAssets(walker.Assets(files))
	if err != nil {
		return nil, err
	}

	glossaryEntries := idx.Alphabetical()
	entries = append(entries, glossarySearchEntries(glossaryEntries)...)
	if err := WriteSearchIndex(entries, filepath.Join(g.opts.OutputDir, searchIndexFile)); err != nil {
		return nil, fmt.Errorf("writing search index: %w", err)
	}
	if err := writeJSON(filepath.Join(g.opts.OutputDir, glossaryFile), glossaryEntries); err != nil {
		return nil, fmt.Errorf("writing glossary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(g.opts.OutputDir, "style.css"), []byte(cssContent), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(g.opts.OutputDir, "script.js"), []byte(jsContent), 0o644); err != nil {
		return nil, err
	}

	result.Pages = len(pages)
	result.Assets = assets
	result.Duration = time.Since(start)
	g.logger.Info("site built",
		zap.String("output", g.opts.OutputDir),
		zap.Int("pages", result.Pages),
		zap.Int("films", result.Films),
		zap.Int("terms", result.Terms),
		zap.Int("markers", result.Stats.Markers),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// contentPages reads and converts the pages found in the content directory.
func (g *Generator) contentPages(files []walker.FileInfo) ([]page, error) {
	var pages []page
	for _, f := range files {
		src, err := os.ReadFile(f.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.RelPath, err)
		}
		fm, body, err := splitFrontMatter(src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.RelPath, err)
		}
		if fm.Draft && !g.opts.IncludeDrafts {
			g.logger.Debug("skipping draft", zap.String("page", f.RelPath))
			continue
		}

		p := page{
			Path:        pagePath(f.RelPath),
			Title:       fm.Title,
			Description: fm.Description,
			Kind:        "page",
			Highlight:   fm.Glossary == nil || *fm.Glossary,
		}
		switch {
		case f.Kind == walker.KindMarkdown:
			var buf bytes.Buffer
			if err := g.md.Convert(body, &buf); err != nil {
				return nil, fmt.Errorf("converting %s: %w", f.RelPath, err)
			}
			p.Content = template.HTML(rewriteMDLinks(buf.String()))
			if p.Title == "" {
				p.Title = extractTitle(string(body))
			}
		case isFullDocument(body):
			p.Raw = body
			if p.Title == "" {
				p.Title = documentTitle(body)
			}
		default:
			p.Content = template.HTML(rewriteMDLinks(string(body)))
			if p.Title == "" {
				p.Title = fragmentTitle(string(body))
			}
		}
		if p.Title == "" {
			p.Title = formatDirName(strings.TrimSuffix(path.Base(f.RelPath), path.Ext(f.RelPath)))
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// generatedPages builds the film, glossary and (when missing) home pages.
func (g *Generator) generatedPages(existing []page, catalog *Catalog, idx *glossary.Index, source string) ([]page, error) {
	taken := make(map[string]bool, len(existing))
	for _, p := range existing {
		taken[p.Path] = true
	}

	var out []page
	claim := func(p page) error {
		if taken[p.Path] {
			return fmt.Errorf("content page %s conflicts with a generated page", p.Path)
		}
		taken[p.Path] = true
		out = append(out, p)
		return nil
	}

	for i, f := range catalog.Films {
		body, err := g.renderFilm(catalog, i)
		if err != nil {
			return nil, err
		}
		if err := claim(page{Path: f.PagePath(), Title: f.Title, Description: f.Pairing, Kind: "film", Content: body, Highlight: true}); err != nil {
			return nil, err
		}
	}

	sections := catalog.Sections()
	if len(catalog.Films) > 0 {
		body, err := g.execute("films", cardsData{Sections: sections, BasePath: "../"})
		if err != nil {
			return nil, err
		}
		if err := claim(page{Path: filmsIndexPage, Title: "Films", Kind: "films", Content: body, Highlight: true}); err != nil {
			return nil, err
		}
	}

	entries := idx.Alphabetical()
	body, err := g.execute("glossary", glossaryData{Groups: groupEntries(entries), Source: source, Count: len(entries)})
	if err != nil {
		return nil, err
	}
	if err := claim(page{Path: glossaryPage, Title: "Glossary", Kind: "glossary", Content: body}); err != nil {
		return nil, err
	}

	if !taken[homePage] {
		var links []pageLink
		for _, p := range existing {
			links = append(links, pageLink{Path: p.Path, Title: p.Title})
		}
		home, err := g.execute("home", homeData{
			cardsData:   cardsData{Sections: sections, FilmsBase: "films/"},
			ProjectName: g.opts.ProjectName,
			Pages:       links,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, page{Path: homePage, Title: "Home", Kind: "home", Content: home, Highlight: true})
	}
	return out, nil
}

// cardsData feeds the film-cards template. FilmsBase is the prefix from
// the current page to the films directory.
type cardsData struct {
	Sections  []FilmSection
	BasePath  string
	FilmsBase string
}

type homeData struct {
	cardsData
	ProjectName string
	Intro       string
	Pages       []pageLink
}

type pageLink struct {
	Path  string
	Title string
}

type filmData struct {
	Film     Film
	Poster   *Image
	Gallery  []Image
	Summary  template.HTML
	Gradient int
	Prev     *Film
	Next     *Film
}

type glossaryData struct {
	Groups []letterGroup
	Source string
	Count  int
}

type letterGroup struct {
	Letter  string
	Entries []glossary.Entry
}

func (g *Generator) renderFilm(c *Catalog, i int) (template.HTML, error) {
	f := c.Films[i]
	base := basePathFor(f.PagePath())
	data := filmData{Film: f, Gradient: posterGradient(f.ID)}

	if f.Poster != "" {
		data.Poster = &Image{Src: assetURL(base, f.Poster), Caption: f.Title}
	}
	for _, img := range f.Gallery {
		data.Gallery = append(data.Gallery, Image{Src: assetURL(base, img.Src), Caption: img.Caption})
	}
	if f.Summary != "" {
		var buf bytes.Buffer
		if err := g.md.Convert([]byte(f.Summary), &buf); err != nil {
			return "", fmt.Errorf("film %s summary: %w", f.ID, err)
		}
		data.Summary = template.HTML(buf.String())
	}
	if i > 0 {
		data.Prev = &c.Films[i-1]
	}
	if i < len(c.Films)-1 {
		data.Next = &c.Films[i+1]
	}
	return g.execute("film", data)
}

func (g *Generator) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s template: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// pageData is passed to the layout template.
type pageData struct {
	Title       string
	Description string
	ProjectName string
	Kind        string
	Content     template.HTML
	TreeHTML    template.HTML
	BasePath    string
	LogoFile    string
	Marker      glossary.MarkerConfig
	LiveReload  bool
}

// renderPage wraps p in the layout, highlights it and writes it out. It
// returns the highlight stats and the page's search entry.
func (g *Generator) renderPage(p page, tree *NavTree, logoFile string, idx *glossary.Index) (glossary.Stats, *SearchEntry, error) {
	var src io.Reader
	if p.Raw != nil {
		src = bytes.NewReader(p.Raw)
	} else {
		base := basePathFor(p.Path)
		var buf bytes.Buffer
		err := g.tmpl.ExecuteTemplate(&buf, "layout", pageData{
			Title:       p.Title,
			Description: p.Description,
			ProjectName: g.opts.ProjectName,
			Kind:        p.Kind,
			Content:     p.Content,
			TreeHTML:    template.HTML(tree.ToHTML(p.Path, base)),
			BasePath:    base,
			LogoFile:    logoFile,
			Marker:      g.highlighter.Marker(),
			LiveReload:  g.opts.LiveReload,
		})
		if err != nil {
			return glossary.Stats{}, nil, err
		}
		src = &buf
	}

	doc, err := goquery.NewDocumentFromReader(src)
	if err != nil {
		return glossary.Stats{}, nil, fmt.Errorf("parsing html: %w", err)
	}

	var stats glossary.Stats
	if p.Highlight {
		stats = g.highlighter.HighlightDocument(doc, g.opts.Selector, idx)
	}

	var entry *SearchEntry
	if p.Kind != "glossary" {
		e := searchEntryFromHTML(p.Path, p.Title, p.Kind, doc, g.opts.Selector)
		entry = &e
	}

	var out bytes.Buffer
	for _, n := range doc.Nodes {
		if err := html.Render(&out, n); err != nil {
			return stats, nil, fmt.Errorf("rendering html: %w", err)
		}
	}

	outPath := filepath.Join(g.opts.OutputDir, filepath.FromSlash(p.Path))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return stats, nil, err
	}
	if err := os.WriteFile(outPath, out.Bytes(), 0o644); err != nil {
		return stats, nil, err
	}
	return stats, entry, nil
}

// copyAssets copies images and other static files into the output tree.
func (g *Generator) copyAssets(files []walker.FileInfo) (int, error) {
	for _, f := range files {
		dst := filepath.Join(g.opts.OutputDir, filepath.FromSlash(f.RelPath))
		if err := copyFile(f.Path, dst); err != nil {
			return 0, fmt.Errorf("copying asset %s: %w", f.RelPath, err)
		}
	}
	return len(files), nil
}

// copyLogo copies the configured logo to the site root and returns its
// output name. A missing logo is logged and ignored.
func (g *Generator) copyLogo() (string, error) {
	if g.opts.Logo == "" {
		return "", nil
	}
	if _, err := os.Stat(g.opts.Logo); err != nil {
		g.logger.Warn("logo not found, skipping", zap.String("logo", g.opts.Logo), zap.Error(err))
		return "", nil
	}
	name := "logo" + strings.ToLower(filepath.Ext(g.opts.Logo))
	if err := copyFile(g.opts.Logo, filepath.Join(g.opts.OutputDir, name)); err != nil {
		return "", fmt.Errorf("copying logo: %w", err)
	}
	return name, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// splitFrontMatter separates a leading "---" YAML block from the body.
func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	rest, ok := bytes.CutPrefix(src, []byte("---\n"))
	if !ok {
		rest, ok = bytes.CutPrefix(src, []byte("---\r\n"))
	}
	if !ok {
		return fm, src, nil
	}
	header, body, found := cutFrontMatterEnd(rest)
	if !found {
		return fm, src, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return fm, body, nil
}

// cutFrontMatterEnd finds the closing "---" line.
func cutFrontMatterEnd(b []byte) (header, body []byte, found bool) {
	for off := 0; off <= len(b); {
		end := bytes.IndexByte(b[off:], '\n')
		line := b[off:]
		next := len(b)
		if end >= 0 {
			line = b[off : off+end]
			next = off + end + 1
		}
		if string(bytes.TrimRight(line, "\r")) == "---" {
			return b[:off], b[next:], true
		}
		if end < 0 {
			break
		}
		off = next
	}
	return nil, nil, false
}

// extractTitle pulls the first "# " heading from markdown outside fenced
// code blocks.
func extractTitle(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// fragmentTitle returns the text of the first <h1> in an HTML fragment.
func fragmentTitle(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return collapseSpace(doc.Find("h1").First().Text())
}

// documentTitle returns the <title> of a full HTML document, falling back
// to its first <h1>.
func documentTitle(src []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return ""
	}
	if t := collapseSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return collapseSpace(doc.Find("h1").First().Text())
}

// isFullDocument reports whether src is a complete HTML document rather
// than a body fragment.
func isFullDocument(src []byte) bool {
	head := bytes.TrimLeftFunc(src, unicode.IsSpace)
	if len(head) > 64 {
		head = head[:64]
	}
	lower := bytes.ToLower(head)
	return bytes.HasPrefix(lower, []byte("<!doctype")) || bytes.HasPrefix(lower, []byte("<html"))
}

// rewriteMDLinks changes .md links in HTML content to .html links.
func rewriteMDLinks(content string) string {
	content = strings.ReplaceAll(content, `.md"`, `.html"`)
	return strings.ReplaceAll(content, `.md#`, `.html#`)
}

// groupEntries splits alphabetically sorted entries by initial letter.
// Terms not starting with a letter are grouped under "#".
func groupEntries(entries []glossary.Entry) []letterGroup {
	var groups []letterGroup
	for _, e := range entries {
		letter := "#"
		if r, _ := utf8.DecodeRuneInString(e.Key()); unicode.IsLetter(r) {
			letter = string(unicode.ToUpper(r))
		}
		if n := len(groups); n == 0 || groups[n-1].Letter != letter {
			groups = append(groups, letterGroup{Letter: letter})
		}
		groups[len(groups)-1].Entries = append(groups[len(groups)-1].Entries, e)
	}
	return groups
}

// assetURL resolves a content-relative image path against base. Absolute
// URLs and root-relative paths are returned unchanged.
func assetURL(base, src string) string {
	if strings.Contains(src, "://") || strings.HasPrefix(src, "/") || strings.HasPrefix(src, "data:") {
		return src
	}
	return base + strings.TrimPrefix(src, "./")
}

// posterGradient picks one of the placeholder gradients for a film id.
func posterGradient(id string) int {
	sum := 0
	for _, r := range id {
		sum += int(r)
	}
	return sum % 6
}
