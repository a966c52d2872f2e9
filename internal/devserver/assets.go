// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package devserver

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/ManuGH/devfront/internal/control/http/problem"
	"github.com/ManuGH/devfront/internal/control/middleware"
	"github.com/ManuGH/devfront/internal/define"
	"github.com/ManuGH/devfront/internal/log"
	"github.com/ManuGH/devfront/internal/metrics"
	"github.com/ManuGH/devfront/internal/telemetry"
)

const (
	cacheControlRevalidate = "no-cache"
	cacheControlImmutable  = "public, max-age=31536000, immutable"
	javascriptContentType  = "text/javascript; charset=utf-8"
)

// transformExts are the asset types that may reference compile-time constants.
var transformExts = map[string]struct{}{
	".js":   {},
	".mjs":  {},
	".html": {},
}

// Assets serves the compiled front-end from a directory, substituting
// compile-time constants into scripts and documents.
type Assets struct {
	dir      string
	replacer *define.Replacer
	cache    *assetCache
	site     siteOptions
	logger   zerolog.Logger
}

func newAssets(dir string, replacer *define.Replacer, cache *assetCache, site siteOptions) *Assets {
	return &Assets{
		dir:      dir,
		replacer: replacer,
		cache:    cache,
		site:     site,
		logger:   log.WithComponent("assets"),
	}
}

// Dir returns the served directory.
func (a *Assets) Dir() string { return a.dir }

// Purge drops all transformed bodies and returns how many were held.
func (a *Assets) Purge(trigger string) int {
	return a.cache.purge(trigger)
}

func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		problem.MethodNotAllowed(w, r)
		return
	}

	name, info, err := a.resolve(r.URL.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			problem.NotFound(w, r)
			return
		}
		a.logger.Error().
			Err(err).
			Str(log.FieldEvent, "assets.stat_failed").
			Str(log.FieldPath, r.URL.Path).
			Msg("failed to resolve asset")
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeInternal,
			"Internal Server Error", "ASSET_UNREADABLE", "asset could not be read", nil)
		return
	}

	w.Header().Set("Cache-Control", cacheControlFor(name))
	if ext := path.Ext(name); ext == ".js" || ext == ".mjs" {
		w.Header().Set("Content-Type", javascriptContentType)
	}

	if a.transformable(name) {
		a.serveTransformed(w, r, name, info)
		return
	}

	f, err := os.Open(a.fsPath(name))
	if err != nil {
		a.fail(w, r, name, err)
		return
	}
	defer func() { _ = f.Close() }()

	middleware.AddSpanAttributes(r, telemetry.AssetAttributes(name, false, false)...)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (a *Assets) serveTransformed(w http.ResponseWriter, r *http.Request, name string, info fs.FileInfo) {
	key := cacheKey(name, info.ModTime(), info.Size())
	t, hit := a.cache.get(key)
	if !hit {
		// #nosec G304 -- name is cleaned and rooted at the asset directory
		src, err := os.ReadFile(a.fsPath(name))
		if err != nil {
			a.fail(w, r, name, err)
			return
		}
		var body []byte
		if strings.EqualFold(path.Ext(name), ".html") {
			body = a.replacer.ApplyHTML(src)
		} else {
			body = a.replacer.Apply(src)
		}
		if !bytes.Equal(body, src) {
			metrics.RecordAssetTransform()
		}
		t = &transformed{
			body:    body,
			etag:    etagFor(body),
			modTime: info.ModTime(),
		}
		a.cache.add(key, t)
	}

	middleware.AddSpanAttributes(r, telemetry.AssetAttributes(name, true, hit)...)
	w.Header().Set("ETag", t.etag)
	http.ServeContent(w, r, name, t.modTime, bytes.NewReader(t.body))
}

func (a *Assets) fail(w http.ResponseWriter, r *http.Request, name string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		// Removed between stat and open by a concurrent rebuild.
		problem.NotFound(w, r)
		return
	}
	a.logger.Error().
		Err(err).
		Str(log.FieldEvent, "assets.read_failed").
		Str(log.FieldPath, name).
		Msg("failed to read asset")
	problem.Write(w, r, http.StatusInternalServerError, problem.TypeInternal,
		"Internal Server Error", "ASSET_UNREADABLE", "asset could not be read", nil)
}

func (a *Assets) transformable(name string) bool {
	if a.replacer.Empty() {
		return false
	}
	_, ok := transformExts[strings.ToLower(path.Ext(name))]
	return ok
}

func (a *Assets) fsPath(name string) string {
	return filepath.Join(a.dir, filepath.FromSlash(name))
}

// resolve maps a URL path onto a regular file below the asset directory.
// Lookup order: exact file, "<path>.html", "<path>/index.html", then the
// SPA fallback for extensionless paths.
func (a *Assets) resolve(urlPath string) (string, fs.FileInfo, error) {
	clean := path.Clean("/" + urlPath)

	var candidates []string
	if clean == "/" {
		candidates = []string{"/index.html"}
	} else {
		candidates = []string{clean, clean + ".html", clean + "/index.html"}
	}
	if a.site.spaFallback != "" && path.Ext(clean) == "" {
		candidates = append(candidates, "/"+a.site.spaFallback)
	}

	for _, name := range candidates {
		info, err := os.Stat(a.fsPath(name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
				continue
			}
			return "", nil, err
		}
		if info.Mode().IsRegular() {
			return name, info, nil
		}
	}
	return "", nil, fs.ErrNotExist
}

// cacheControlFor keeps bundler-hashed files (under an "immutable" directory)
// forever and makes browsers revalidate everything else.
func cacheControlFor(name string) string {
	if strings.Contains(name, "/immutable/") {
		return cacheControlImmutable
	}
	return cacheControlRevalidate
}

func etagFor(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}
