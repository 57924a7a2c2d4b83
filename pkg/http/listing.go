package http

import (
	"bytes"
	"encoding/json"
	"html/template"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

type listingEntry struct {
	Name string
	Href string
	Icon string
	Dir  bool
	Size int64
}

type listingPage struct {
	Path    string
	Parent  string
	Entries []listingEntry
}

var iconsByExt = map[string]string{
	".html": "icon-html",
	".htm":  "icon-html",
	".css":  "icon-css",
	".js":   "icon-js",
	".json": "icon-json",
	".xml":  "icon-xml",
	".txt":  "icon-text",
	".md":   "icon-text",
	".log":  "icon-text",
	".png":  "icon-image",
	".jpg":  "icon-image",
	".jpeg": "icon-image",
	".gif":  "icon-image",
	".svg":  "icon-image",
	".ico":  "icon-image",
	".zip":  "icon-archive",
	".tar":  "icon-archive",
	".gz":   "icon-archive",
	".tgz":  "icon-archive",
	".zst":  "icon-archive",
	".iso":  "icon-disk",
	".img":  "icon-disk",
	".efi":  "icon-binary",
	".bin":  "icon-binary",
	".ipxe": "icon-script",
	".sh":   "icon-script",
}

func iconFor(name string, dir bool) string {
	if dir {
		return "icon-directory"
	}
	if icon, ok := iconsByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return icon
	}
	return "icon-default"
}

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>listing directory {{.Path}}</title>
<style>
body { font: 14px "Helvetica Neue", Helvetica, Arial, sans-serif; margin: 2em; }
ul#files { list-style: none; margin: 0; padding: 0; }
ul#files li { padding: 2px 0; }
ul#files a { text-decoration: none; }
ul#files a::before { display: inline-block; width: 1.5em; }
.icon-directory::before { content: "\1F4C1"; }
.icon-default::before { content: "\1F4C4"; }
.icon-html::before, .icon-xml::before { content: "\1F310"; }
.icon-css::before, .icon-js::before, .icon-json::before, .icon-script::before { content: "\1F4DC"; }
.icon-text::before { content: "\1F4DD"; }
.icon-image::before { content: "\1F5BC"; }
.icon-archive::before { content: "\1F4E6"; }
.icon-disk::before { content: "\1F4BF"; }
.icon-binary::before { content: "\2699"; }
.size { color: #888; margin-left: 1em; }
</style>
</head>
<body>
<h1>{{.Path}}</h1>
<ul id="files">
{{- if .Parent}}
<li><a href="{{.Parent}}" class="icon-directory" title="..">..</a></li>
{{- end}}
{{- range .Entries}}
<li><a href="{{.Href}}" class="{{.Icon}}" title="{{.Name}}">{{.Name}}</a>{{if not .Dir}}<span class="size">{{.Size}}</span>{{end}}</li>
{{- end}}
</ul>
</body>
</html>
`))

// directoryListing renders the contents of directories below root at
// the API prefix, hidden entries included.  Requests that are not a
// GET or HEAD of an existing directory pass to the next handler.
func directoryListing(apiRoot, root string) func(http.Handler) http.Handler {
	prefix := mountPrefix(apiRoot)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			p, ok := resolve(prefix, root, r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			fi, err := os.Stat(p)
			if err != nil || !fi.IsDir() {
				next.ServeHTTP(w, r)
				return
			}

			entries, err := readListing(p, r.URL.Path)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			var body bytes.Buffer
			var ctype string
			switch negotiateListing(r.Header.Get("Accept")) {
			case "application/json":
				ctype = "application/json; charset=utf-8"
				names := make([]string, len(entries))
				for i, e := range entries {
					names[i] = e.Name
				}
				if err := json.NewEncoder(&body).Encode(names); err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			case "text/plain":
				ctype = "text/plain; charset=utf-8"
				for _, e := range entries {
					body.WriteString(e.Name)
					body.WriteString("\n")
				}
			case "text/html":
				ctype = "text/html; charset=utf-8"
				page := listingPage{Path: r.URL.Path, Entries: entries}
				if rel, _ := stripPrefix(prefix, r.URL.Path); strings.Trim(rel, "/") != "" {
					page.Parent = path.Dir(strings.TrimSuffix(r.URL.Path, "/"))
					if !strings.HasSuffix(page.Parent, "/") {
						page.Parent += "/"
					}
				}
				if err := listingTmpl.Execute(&body, page); err != nil {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
			default:
				http.Error(w, http.StatusText(http.StatusNotAcceptable), http.StatusNotAcceptable)
				return
			}

			w.Header().Set("Content-Type", ctype)
			w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
			w.WriteHeader(http.StatusOK)
			if r.Method != http.MethodHead {
				w.Write(body.Bytes())
			}
		})
	}
}

// readListing returns the entries of dir, directories first, each
// group sorted by name.
func readListing(dir, urlPath string) ([]listingEntry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	base := urlPath
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	out := make([]listingEntry, 0, len(des))
	for _, de := range des {
		e := listingEntry{
			Name: de.Name(),
			Dir:  de.IsDir(),
		}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
		}
		e.Href = base + url.PathEscape(e.Name)
		if e.Dir {
			e.Href += "/"
		}
		e.Icon = iconFor(e.Name, e.Dir)
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Dir != out[j].Dir {
			return out[i].Dir
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

// negotiateListing picks the listing format from an Accept header,
// honoring the client's order.  An empty header or a wildcard gets
// HTML; nothing acceptable yields "".
func negotiateListing(accept string) string {
	if strings.TrimSpace(accept) == "" {
		return "text/html"
	}
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mt {
		case "text/html", "text/*", "*/*":
			return "text/html"
		case "application/json":
			return "application/json"
		case "text/plain":
			return "text/plain"
		}
	}
	return ""
}
