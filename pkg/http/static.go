package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// mountPrefix normalizes an API root into the form stripPrefix
// expects: a leading slash and no trailing slash, so "/" becomes "".
func mountPrefix(p string) string {
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return ""
	}
	return p
}

// stripPrefix returns the part of urlPath below prefix, always with a
// leading slash, or false when urlPath is outside prefix.
func stripPrefix(prefix, urlPath string) (string, bool) {
	switch {
	case prefix == "":
		return urlPath, true
	case urlPath == prefix:
		return "/", true
	case strings.HasPrefix(urlPath, prefix+"/"):
		return urlPath[len(prefix):], true
	default:
		return "", false
	}
}

// resolve maps a URL path below prefix onto a file below root.  The
// path is cleaned first so nothing above root can be reached.
func resolve(prefix, root, urlPath string) (string, bool) {
	rel, ok := stripPrefix(prefix, urlPath)
	if !ok {
		return "", false
	}
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+rel))), true
}

// staticFiles serves files below root at the API prefix.  Dotfiles
// are served.  Anything it cannot answer with a file (missing paths,
// directories without an index, other methods) is passed to the next
// handler.
func staticFiles(apiRoot, root string) func(http.Handler) http.Handler {
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
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if fi.IsDir() {
				idx := filepath.Join(p, "index.html")
				ifi, err := os.Stat(idx)
				if err != nil || ifi.IsDir() {
					next.ServeHTTP(w, r)
					return
				}
				if !strings.HasSuffix(r.URL.Path, "/") {
					redirectSlash(w, r)
					return
				}
				p, fi = idx, ifi
			}

			f, err := os.Open(p)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			defer f.Close()

			http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
		})
	}
}

func redirectSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}
