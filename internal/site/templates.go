package site

// layoutTemplate wraps every generated page. The marker attribute names are
// published on <body> so the tooltip script reads whatever the highlighter
// was configured to emit.
const layoutTemplate = `{{define "layout"}}<!DOCTYPE html>
<html lang="en" data-theme="dark">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} | {{.ProjectName}}</title>
  {{with .Description}}<meta name="description" content="{{.}}">{{end}}
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body class="page-{{.Kind}}" data-marker-class="{{.Marker.Class}}" data-definition-attr="{{.Marker.DefinitionAttr}}" data-link-attr="{{.Marker.LinkAttr}}">
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      {{if .LogoFile}}<a href="{{.BasePath}}index.html" class="sidebar-logo-link"><img src="{{.BasePath}}{{.LogoFile}}" alt="{{.ProjectName}}" class="sidebar-logo"></a>{{end}}
      <h2 class="project-title"><a href="{{.BasePath}}index.html">{{.ProjectName}}</a></h2>
      <input type="text" id="search-input" placeholder="Search films, essays, terms..." autocomplete="off">
    </div>
    <div class="sidebar-tree" id="sidebar-tree">
      {{.TreeHTML}}
      <ul><li class="file glossary-link"><a href="{{.BasePath}}glossary.html">Glossary</a></li></ul>
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <div class="content">
    <div class="top-bar">
      <button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">
        <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
        </svg>
      </button>
      <div class="search-results" id="search-results"></div>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/>
        </svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
        </svg>
      </button>
    </div>
    <main class="main-content page-content">
      {{.Content}}
    </main>
    <footer class="site-footer">{{.ProjectName}}</footer>
  </div>
  <div class="lightbox" id="lightbox" hidden>
    <button class="lightbox-close" aria-label="Close">&times;</button>
    <img alt="">
    <p class="lightbox-caption"></p>
  </div>
  <script src="{{.BasePath}}script.js"></script>
  {{if .LiveReload}}<script>
  (function() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/livereload");
    ws.onmessage = function(ev) { if (ev.data === "reload") location.reload(); };
  })();
  </script>{{end}}
</body>
</html>
{{end}}`

// filmTemplate renders a single film page.
const filmTemplate = `{{define "film"}}<article class="film" id="film-{{.Film.ID}}">
  <header class="film-header">
    <div class="poster-frame poster-gradient-{{.Gradient}}">
      {{with .Poster}}<img class="film-poster" src="{{.Src}}" alt="{{.Caption}}" data-lightbox>{{end}}
      <div class="poster-placeholder">{{.Film.Title}}</div>
    </div>
    <div class="film-meta">
      <h1>{{.Film.Title}}</h1>
      <p class="film-credits">{{if .Film.Year}}<span class="film-year">{{.Film.Year}}</span>{{end}}{{with .Film.Director}} <span class="film-director">dir. {{.}}</span>{{end}}</p>
      {{with .Film.Section}}<p class="film-section-name">{{.}}</p>{{end}}
      {{with .Film.Pairing}}<p class="film-pairing"><strong>Pair with:</strong> {{.}}</p>{{end}}
    </div>
  </header>
  {{with .Summary}}<section class="film-summary">{{.}}</section>{{end}}
  {{if .Gallery}}<section class="slideshow" data-slideshow>
    {{range $i, $img := .Gallery}}<figure class="slide{{if eq $i 0}} active{{end}}">
      <img src="{{$img.Src}}" alt="{{$img.Caption}}" loading="lazy" data-lightbox>
      {{with $img.Caption}}<figcaption>{{.}}</figcaption>{{end}}
    </figure>
    {{end}}<button class="slide-prev" aria-label="Previous still">&lsaquo;</button>
    <button class="slide-next" aria-label="Next still">&rsaquo;</button>
  </section>{{end}}
  {{if .Film.Links}}<section class="film-links">
    <h2>Further reading</h2>
    <ul>{{range .Film.Links}}<li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Text}}</a></li>{{end}}</ul>
  </section>{{end}}
  <nav class="film-nav">
    {{with .Prev}}<a class="film-prev" href="{{.ID}}.html">&larr; {{.Title}}</a>{{end}}
    <a class="film-all" href="index.html">All films</a>
    {{with .Next}}<a class="film-next" href="{{.ID}}.html">{{.Title}} &rarr;</a>{{end}}
  </nav>
</article>
{{end}}`

// filmsIndexTemplate lists the catalog grouped by section. It is rendered
// both at films/index.html and inside the generated home page.
const filmsIndexTemplate = `{{define "film-cards"}}{{range .Sections}}<section class="film-section"{{with .ID}} id="{{.}}"{{end}}>
  {{with .Name}}<h2>{{.}}</h2>{{end}}
  <div class="film-grid">
    {{range .Films}}<a class="film-card" href="{{$.FilmsBase}}{{.ID}}.html">
      <div class="poster-frame poster-gradient-{{gradient .ID}}">
        {{with .Poster}}<img class="film-poster" src="{{asset $.BasePath .}}" alt="" loading="lazy">{{end}}
        <div class="poster-placeholder">{{.Title}}</div>
      </div>
      <span class="film-card-title">{{.Title}}</span>
      {{if .Year}}<span class="film-card-year">{{.Year}}</span>{{end}}
    </a>
    {{end}}
  </div>
</section>
{{end}}{{end}}
{{define "films"}}<h1>Films</h1>
{{template "film-cards" .}}{{end}}`

// homeTemplate is used when the content directory has no index page.
const homeTemplate = `{{define "home"}}<section class="hero">
  <h1>{{.ProjectName}}</h1>
  {{with .Intro}}<p class="hero-intro">{{.}}</p>{{end}}
</section>
{{if .Sections}}{{template "film-cards" .}}{{end}}
{{if .Pages}}<section class="page-list">
  <h2>Essays and notes</h2>
  <ul>{{range .Pages}}<li><a href="{{.Path}}">{{.Title}}</a></li>{{end}}</ul>
</section>{{end}}
{{end}}`

// glossaryTemplate lists every term. The page is never highlighted.
const glossaryTemplate = `{{define "glossary"}}<h1>Glossary</h1>
{{if not .Groups}}<p class="glossary-empty">The glossary is unavailable.</p>{{end}}
{{with .Source}}<p class="glossary-source">{{$.Count}} terms from {{.}}</p>{{end}}
{{range .Groups}}<section class="glossary-letter" id="letter-{{.Letter}}">
  <h2>{{.Letter}}</h2>
  <dl>
    {{range .Entries}}<dt id="{{anchor .Term}}">{{.Term}}</dt>
    <dd>{{.Definition}}{{with .ReferenceLink}} <a href="{{.}}" target="_blank" rel="noopener">Wikipedia</a>{{end}}</dd>
    {{end}}
  </dl>
</section>
{{end}}{{end}}`

// cssContent is the stylesheet for the guide.
const cssContent = `/* ============ Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #c2255c;
  --accent-hover: #a61e4d;
  --accent-light: #fff0f6;
  --code-bg: #f1f3f5;
  --link: #c2255c;
  --sidebar-width: 280px;
  --content-max-width: 920px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
  --shadow-lg: 0 8px 24px rgba(0,0,0,0.18);
  --tooltip-bg: #1a1b1e;
  --tooltip-text: #f1f3f5;
}

[data-theme="dark"] {
  --bg: #141517;
  --bg-secondary: #1a1b1e;
  --bg-sidebar: #101113;
  --text: #e9ecef;
  --text-secondary: #ced4da;
  --text-muted: #909296;
  --border: #2c2e33;
  --accent: #f06595;
  --accent-hover: #f783ac;
  --accent-light: #2b1a22;
  --code-bg: #1a1b1e;
  --link: #f06595;
  --tooltip-bg: #f1f3f5;
  --tooltip-text: #1a1b1e;
}

* { box-sizing: border-box; }

html { scroll-behavior: smooth; }

body {
  margin: 0;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
  background: var(--bg);
  color: var(--text);
  line-height: 1.7;
  opacity: 0;
  transition: opacity 0.3s ease;
}

body.loaded { opacity: 1; }

a { color: var(--link); text-decoration: none; }
a:hover { color: var(--accent-hover); text-decoration: underline; }

/* ============ Sidebar ============ */
.sidebar {
  position: fixed;
  top: 0; left: 0; bottom: 0;
  width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  overflow-y: auto;
  z-index: 20;
  transition: transform 0.2s ease;
}

.sidebar-header { padding: 20px 16px 12px; border-bottom: 1px solid var(--border); }
.sidebar-logo { max-width: 100%; max-height: 64px; display: block; margin-bottom: 8px; }
.project-title { font-size: 1.1rem; margin: 0 0 12px; }
.project-title a { color: var(--text); }

#search-input {
  width: 100%;
  padding: 8px 10px;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text);
  font-size: 0.9rem;
}

.sidebar-tree { padding: 8px 0; font-size: 0.92rem; }
.sidebar-tree ul { list-style: none; margin: 0; padding-left: 14px; }
.sidebar-tree > ul { padding-left: 8px; }
.sidebar-tree li { margin: 2px 0; }
.sidebar-tree li.hidden { display: none; }
.sidebar-tree a { display: block; padding: 3px 8px; border-radius: 4px; color: var(--text-secondary); }
.sidebar-tree a.active { background: var(--accent-light); color: var(--accent); font-weight: 600; }
.dir-toggle { cursor: pointer; display: block; padding: 3px 8px; font-weight: 600; color: var(--text); }
.dir-toggle::before { content: "\25B8"; display: inline-block; width: 1em; transition: transform 0.15s; }
.dir.expanded > .dir-toggle::before { transform: rotate(90deg); }
.dir > ul { display: none; }
.dir.expanded > ul { display: block; }

.sidebar-overlay { display: none; }

/* ============ Content ============ */
.content { margin-left: var(--sidebar-width); min-height: 100vh; position: relative; }

.top-bar {
  position: sticky; top: 0;
  display: flex; align-items: center; justify-content: flex-end;
  gap: 12px;
  padding: 10px 24px;
  background: var(--bg);
  border-bottom: 1px solid var(--border);
  z-index: 10;
}

.menu-toggle, .theme-toggle {
  background: none; border: none; cursor: pointer;
  color: var(--text-secondary);
  padding: 4px;
}
.menu-toggle { display: none; margin-right: auto; }
[data-theme="dark"] .sun-icon, [data-theme="light"] .moon-icon { display: none; }

.main-content {
  max-width: var(--content-max-width);
  margin: 0 auto;
  padding: 32px 40px 64px;
}

.main-content h1 { font-size: 2.2rem; line-height: 1.2; margin-top: 0; }
.main-content h2 { margin-top: 2.2em; border-bottom: 1px solid var(--border); padding-bottom: 0.3em; }
.main-content img { max-width: 100%; }
.main-content pre { background: var(--code-bg); padding: 14px 16px; border-radius: 6px; overflow-x: auto; }
.main-content code { font-family: "SFMono-Regular", Menlo, Consolas, monospace; font-size: 0.88em; }
.main-content table { border-collapse: collapse; width: 100%; }
.main-content th, .main-content td { border: 1px solid var(--border); padding: 6px 10px; text-align: left; }
.main-content blockquote { margin: 0; padding: 4px 16px; border-left: 4px solid var(--accent); color: var(--text-secondary); }

.site-footer { text-align: center; color: var(--text-muted); font-size: 0.85rem; padding: 24px; border-top: 1px solid var(--border); }

/* ============ Glossary terms ============ */
.glossary-term {
  border-bottom: 1px dotted var(--accent);
  cursor: help;
  transition: background 0.15s;
}
.glossary-term:hover, .glossary-term.active { background: var(--accent-light); }

#glossary-tooltip {
  position: absolute;
  max-width: 320px;
  padding: 12px 14px;
  background: var(--tooltip-bg);
  color: var(--tooltip-text);
  border-radius: 8px;
  box-shadow: var(--shadow-lg);
  font-size: 0.9rem;
  line-height: 1.5;
  z-index: 100;
  opacity: 0;
  visibility: hidden;
  transition: opacity 0.15s ease, visibility 0.15s ease;
}
#glossary-tooltip.visible { opacity: 1; visibility: visible; }
#glossary-tooltip .tooltip-wiki-link { display: inline-block; margin-top: 8px; color: var(--accent); font-weight: 600; }

/* ============ Films ============ */
.film-grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(170px, 1fr)); gap: 20px; }
.film-card { display: flex; flex-direction: column; color: var(--text); }
.film-card:hover { text-decoration: none; }
.film-card:hover .poster-frame { transform: translateY(-4px); box-shadow: var(--shadow-lg); }
.film-card-title { font-weight: 600; margin-top: 8px; }
.film-card-year { color: var(--text-muted); font-size: 0.85rem; }

.poster-frame {
  position: relative;
  aspect-ratio: 2 / 3;
  border-radius: 8px;
  overflow: hidden;
  box-shadow: var(--shadow);
  transition: transform 0.2s ease, box-shadow 0.2s ease;
}
.poster-frame img { position: absolute; inset: 0; width: 100%; height: 100%; object-fit: cover; z-index: 1; opacity: 0; transition: opacity 0.3s; }
.poster-frame img.loaded { opacity: 1; }
.poster-frame img.failed { display: none; }
.poster-placeholder {
  position: absolute; inset: 0;
  display: flex; align-items: center; justify-content: center;
  padding: 12px; text-align: center;
  color: #fff; font-weight: 700; text-shadow: 0 1px 3px rgba(0,0,0,0.5);
}
.poster-gradient-0 { background: linear-gradient(135deg, #667eea, #764ba2); }
.poster-gradient-1 { background: linear-gradient(135deg, #f093fb, #f5576c); }
.poster-gradient-2 { background: linear-gradient(135deg, #4facfe, #00f2fe); }
.poster-gradient-3 { background: linear-gradient(135deg, #43e97b, #38f9d7); }
.poster-gradient-4 { background: linear-gradient(135deg, #fa709a, #fee140); }
.poster-gradient-5 { background: linear-gradient(135deg, #30cfd0, #330867); }

.film-header { display: grid; grid-template-columns: 240px 1fr; gap: 32px; align-items: start; margin-bottom: 32px; }
.film-credits { color: var(--text-muted); margin: 0; }
.film-section-name { text-transform: uppercase; letter-spacing: 0.08em; font-size: 0.8rem; color: var(--accent); }
.film-pairing { background: var(--bg-secondary); border-left: 3px solid var(--accent); padding: 8px 12px; }

.slideshow { position: relative; margin: 32px 0; border-radius: 8px; overflow: hidden; background: #000; }
.slide { display: none; margin: 0; }
.slide.active { display: block; animation: fade 0.4s ease; }
.slide img { width: 100%; max-height: 520px; object-fit: contain; display: block; cursor: zoom-in; }
.slide figcaption { position: absolute; bottom: 0; left: 0; right: 0; padding: 10px 16px; background: rgba(0,0,0,0.6); color: #fff; font-size: 0.9rem; }
.slide-prev, .slide-next {
  position: absolute; top: 50%; transform: translateY(-50%);
  background: rgba(0,0,0,0.5); color: #fff; border: none;
  font-size: 2rem; width: 44px; height: 44px; border-radius: 50%; cursor: pointer;
}
.slide-prev { left: 12px; }
.slide-next { right: 12px; }

.film-nav { display: flex; justify-content: space-between; gap: 12px; margin-top: 48px; padding-top: 16px; border-top: 1px solid var(--border); }

.lightbox { position: fixed; inset: 0; background: rgba(0,0,0,0.9); display: flex; flex-direction: column; align-items: center; justify-content: center; z-index: 200; }
.lightbox[hidden] { display: none; }
.lightbox img { max-width: 92vw; max-height: 84vh; }
.lightbox-caption { color: #ddd; }
.lightbox-close { position: absolute; top: 16px; right: 24px; background: none; border: none; color: #fff; font-size: 2.4rem; cursor: pointer; }

.hero { padding: 24px 0 8px; }
.hero-intro { font-size: 1.15rem; color: var(--text-secondary); }

.glossary-letter dt { font-weight: 700; margin-top: 14px; scroll-margin-top: 72px; }
.glossary-letter dt:target { color: var(--accent); }
.glossary-letter dd { margin: 2px 0 0 0; color: var(--text-secondary); }
.glossary-source { color: var(--text-muted); font-size: 0.9rem; }

/* ============ Search ============ */
.search-results { flex: 1; position: relative; }
.search-panel {
  position: absolute; top: 8px; left: 0; right: 0;
  max-height: 60vh; overflow-y: auto;
  background: var(--bg); border: 1px solid var(--border); border-radius: 8px;
  box-shadow: var(--shadow-lg);
}
.search-hit { display: block; padding: 10px 14px; border-bottom: 1px solid var(--border); color: var(--text); }
.search-hit:hover { background: var(--bg-secondary); text-decoration: none; }
.search-hit-kind { font-size: 0.75rem; text-transform: uppercase; color: var(--accent); margin-left: 6px; }
.search-hit-summary { display: block; color: var(--text-muted); font-size: 0.85rem; }

/* ============ Animation ============ */
.reveal { opacity: 0; transform: translateY(16px); transition: opacity 0.5s ease, transform 0.5s ease; }
.reveal.visible { opacity: 1; transform: none; }
@keyframes fade { from { opacity: 0; } to { opacity: 1; } }

/* ============ Mobile ============ */
@media (max-width: 860px) {
  .sidebar { transform: translateX(-100%); }
  .sidebar.open { transform: none; }
  .sidebar-overlay.visible { display: block; position: fixed; inset: 0; background: rgba(0,0,0,0.4); z-index: 15; }
  .content { margin-left: 0; }
  .menu-toggle { display: block; }
  .main-content { padding: 20px 18px 48px; }
  .film-header { grid-template-columns: 1fr; }
  .film-header .poster-frame { max-width: 240px; }
}

@media (prefers-reduced-motion: reduce) {
  html { scroll-behavior: auto; }
  .reveal, .slide.active, body { transition: none; animation: none; }
}
`

// jsContent drives tooltips, navigation, search and the film pages.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var body = document.body;

  function getBasePath() {
    var link = document.querySelector("link[rel=stylesheet]");
    return link ? link.getAttribute("href").replace("style.css", "") : "";
  }

  function escapeHtml(str) {
    var div = document.createElement("div");
    div.textContent = str;
    return div.innerHTML;
  }

  // ===== Page load =====
  window.addEventListener("load", function() { body.classList.add("loaded"); });
  setTimeout(function() { body.classList.add("loaded"); }, 400);

  // ===== Theme toggle =====
  var themeToggle = document.getElementById("theme-toggle");

  function getStoredTheme() {
    try { return localStorage.getItem("filmguide-theme"); } catch(e) { return null; }
  }

  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("filmguide-theme", theme); } catch(e) {}
  }

  var stored = getStoredTheme();
  if (stored) {
    setTheme(stored);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: light)").matches) {
    setTheme("light");
  }

  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      setTheme(html.getAttribute("data-theme") === "dark" ? "light" : "dark");
    });
  }

  // ===== Sidebar =====
  var menuToggle = document.getElementById("menu-toggle");
  var sidebar = document.getElementById("sidebar");
  var overlay = document.getElementById("sidebar-overlay");

  function toggleSidebar() {
    sidebar.classList.toggle("open");
    overlay.classList.toggle("visible");
  }

  if (menuToggle) menuToggle.addEventListener("click", toggleSidebar);
  if (overlay) overlay.addEventListener("click", toggleSidebar);

  document.querySelectorAll(".dir-toggle").forEach(function(toggle) {
    toggle.addEventListener("click", function() {
      this.parentElement.classList.toggle("expanded");
    });
  });

  // ===== Glossary tooltip =====
  var markerClass = body.getAttribute("data-marker-class") || "glossary-term";
  var definitionAttr = body.getAttribute("data-definition-attr") || "data-definition";
  var linkAttr = body.getAttribute("data-link-attr") || "data-wikipedia-url";

  var tooltip = document.createElement("div");
  tooltip.id = "glossary-tooltip";
  tooltip.setAttribute("role", "tooltip");
  tooltip.innerHTML = '<div class="tooltip-definition"></div>' +
    '<a class="tooltip-wiki-link" target="_blank" rel="noopener">Read more on Wikipedia</a>';
  body.appendChild(tooltip);

  var tooltipDefinition = tooltip.querySelector(".tooltip-definition");
  var tooltipLink = tooltip.querySelector(".tooltip-wiki-link");
  var hideTimer = null;
  var activeTerm = null;

  function positionTooltip(term) {
    var rect = term.getBoundingClientRect();
    var tipRect = tooltip.getBoundingClientRect();
    var margin = 8;
    var top = rect.top + window.scrollY - tipRect.height - margin;
    var left = rect.left + window.scrollX + rect.width / 2 - tipRect.width / 2;

    // Flip below the term when there is no room above.
    if (rect.top - tipRect.height - margin < 0) {
      top = rect.bottom + window.scrollY + margin;
    }
    var maxLeft = window.scrollX + document.documentElement.clientWidth - tipRect.width - margin;
    left = Math.max(window.scrollX + margin, Math.min(left, maxLeft));

    tooltip.style.top = top + "px";
    tooltip.style.left = left + "px";
  }

  function showTooltip(term) {
    clearTimeout(hideTimer);
    if (activeTerm && activeTerm !== term) activeTerm.classList.remove("active");
    activeTerm = term;
    term.classList.add("active");

    tooltipDefinition.textContent = term.getAttribute(definitionAttr) || "";
    var link = term.getAttribute(linkAttr);
    if (link) {
      tooltipLink.href = link;
      tooltipLink.style.display = "";
    } else {
      tooltipLink.removeAttribute("href");
      tooltipLink.style.display = "none";
    }
    tooltip.classList.add("visible");
    positionTooltip(term);
  }

  function hideTooltip() {
    tooltip.classList.remove("visible");
    if (activeTerm) activeTerm.classList.remove("active");
    activeTerm = null;
  }

  function scheduleHide() {
    clearTimeout(hideTimer);
    hideTimer = setTimeout(hideTooltip, 300);
  }

  document.querySelectorAll("." + markerClass).forEach(function(term) {
    term.setAttribute("tabindex", "0");
    term.addEventListener("mouseenter", function() { showTooltip(term); });
    term.addEventListener("mouseleave", scheduleHide);
    term.addEventListener("focus", function() { showTooltip(term); });
    term.addEventListener("blur", scheduleHide);
    term.addEventListener("click", function(ev) {
      ev.preventDefault();
      ev.stopPropagation();
      if (activeTerm === term && tooltip.classList.contains("visible")) {
        hideTooltip();
      } else {
        showTooltip(term);
      }
    });
  });

  tooltip.addEventListener("mouseenter", function() { clearTimeout(hideTimer); });
  tooltip.addEventListener("mouseleave", scheduleHide);
  document.addEventListener("click", function(ev) {
    if (!tooltip.contains(ev.target)) hideTooltip();
  });
  window.addEventListener("resize", function() {
    if (activeTerm) positionTooltip(activeTerm);
  });

  // ===== Search =====
  var searchInput = document.getElementById("search-input");
  var searchResults = document.getElementById("search-results");
  var sidebarTree = document.getElementById("sidebar-tree");
  var searchIndex = null;

  fetch(getBasePath() + "search-index.json")
    .then(function(r) { return r.json(); })
    .then(function(data) { searchIndex = data; })
    .catch(function() { searchIndex = null; });

  function renderSearch(query) {
    if (!searchResults) return;
    if (!query || !searchIndex) {
      searchResults.innerHTML = "";
      return;
    }
    var base = getBasePath();
    var hits = searchIndex.filter(function(entry) {
      var haystack = (entry.title + " " + entry.summary + " " + entry.content).toLowerCase();
      return haystack.indexOf(query) !== -1;
    }).slice(0, 12);

    var out = '<div class="search-panel">';
    if (hits.length === 0) {
      out += '<span class="search-hit">No results</span>';
    }
    hits.forEach(function(hit) {
      out += '<a class="search-hit" href="' + escapeHtml(base + hit.path) + '">' +
        escapeHtml(hit.title) + '<span class="search-hit-kind">' + escapeHtml(hit.kind) + '</span>' +
        '<span class="search-hit-summary">' + escapeHtml(hit.summary || "") + '</span></a>';
    });
    searchResults.innerHTML = out + '</div>';
  }

  if (searchInput) {
    searchInput.addEventListener("input", function() {
      var query = this.value.toLowerCase().trim();
      renderSearch(query);
      if (!sidebarTree) return;
      sidebarTree.querySelectorAll(".file").forEach(function(item) {
        var link = item.querySelector("a");
        var match = query === "" || (link && link.textContent.toLowerCase().indexOf(query) !== -1);
        item.classList.toggle("hidden", !match);
      });
      Array.from(sidebarTree.querySelectorAll(".dir")).reverse().forEach(function(dir) {
        var hasVisible = dir.querySelectorAll("li.file:not(.hidden)").length > 0;
        dir.classList.toggle("hidden", !hasVisible);
        if (hasVisible && query !== "") dir.classList.add("expanded");
      });
    });
    searchInput.addEventListener("keydown", function(ev) {
      if (ev.key === "Escape") {
        this.value = "";
        renderSearch("");
      }
    });
  }

  // ===== Posters =====
  document.querySelectorAll(".poster-frame img").forEach(function(img) {
    function done() { img.classList.add("loaded"); }
    function failed() { img.classList.add("failed"); }
    if (img.complete) {
      if (img.naturalWidth > 0) { done(); } else { failed(); }
    } else {
      img.addEventListener("load", done);
      img.addEventListener("error", failed);
    }
  });

  // ===== Slideshow =====
  document.querySelectorAll("[data-slideshow]").forEach(function(show) {
    var slides = show.querySelectorAll(".slide");
    var current = 0;
    if (slides.length < 2) {
      show.querySelectorAll(".slide-prev, .slide-next").forEach(function(b) { b.style.display = "none"; });
      return;
    }
    function go(n) {
      slides[current].classList.remove("active");
      current = (n + slides.length) % slides.length;
      slides[current].classList.add("active");
    }
    show.querySelector(".slide-prev").addEventListener("click", function() { go(current - 1); });
    show.querySelector(".slide-next").addEventListener("click", function() { go(current + 1); });
    show.setAttribute("tabindex", "0");
    show.addEventListener("keydown", function(ev) {
      if (ev.key === "ArrowLeft") go(current - 1);
      if (ev.key === "ArrowRight") go(current + 1);
    });
  });

  // ===== Lightbox =====
  var lightbox = document.getElementById("lightbox");
  if (lightbox) {
    var lightboxImg = lightbox.querySelector("img");
    var lightboxCaption = lightbox.querySelector(".lightbox-caption");
    document.querySelectorAll("img[data-lightbox]").forEach(function(img) {
      img.addEventListener("click", function() {
        lightboxImg.src = img.src;
        lightboxCaption.textContent = img.alt || "";
        lightbox.hidden = false;
      });
    });
    lightbox.addEventListener("click", function(ev) {
      if (ev.target !== lightboxImg) lightbox.hidden = true;
    });
    document.addEventListener("keydown", function(ev) {
      if (ev.key === "Escape") lightbox.hidden = true;
    });
  }

  // ===== Smooth scroll for in-page anchors =====
  document.querySelectorAll('a[href^="#"]').forEach(function(a) {
    a.addEventListener("click", function(ev) {
      var target = document.getElementById(a.getAttribute("href").slice(1));
      if (!target) return;
      ev.preventDefault();
      target.scrollIntoView({ behavior: "smooth", block: "start" });
      history.replaceState(null, "", a.getAttribute("href"));
    });
  });

  // ===== Scroll reveal =====
  if ("IntersectionObserver" in window) {
    var observer = new IntersectionObserver(function(entries) {
      entries.forEach(function(entry) {
        if (entry.isIntersecting) {
          entry.target.classList.add("visible");
          observer.unobserve(entry.target);
        }
      });
    }, { threshold: 0.1 });
    document.querySelectorAll(".film-section, .film-card, .glossary-letter").forEach(function(el) {
      el.classList.add("reveal");
      observer.observe(el);
    });
  }

  // ===== Keyboard: H scrolls to top =====
  document.addEventListener("keydown", function(ev) {
    var tag = (ev.target.tagName || "").toLowerCase();
    if (tag === "input" || tag === "textarea" || ev.ctrlKey || ev.metaKey || ev.altKey) return;
    if (ev.key === "h" || ev.key === "H") {
      window.scrollTo({ top: 0, behavior: "smooth" });
    }
  });
})();
`
