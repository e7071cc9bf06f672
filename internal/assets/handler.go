package assets

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/zeusync/vecview/internal/core/observability/log"
)

var contentTypes = map[string]string{
	".wasm":        "application/wasm",
	".js":          "text/javascript; charset=utf-8",
	".vectorimage": "application/octet-stream",
}

// Handler serves the asset named by the request's {name} path value.
func (s *Store) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		a, err := s.Fetch(name)
		switch {
		case errors.Is(err, ErrNotFound):
			http.NotFound(w, r)
			return
		case errors.Is(err, ErrInvalidName):
			http.Error(w, "invalid asset name", http.StatusBadRequest)
			return
		case err != nil:
			s.logger.Error("Failed to serve asset", log.String("name", name), log.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("ETag", a.ETag())
		w.Header().Set("Content-Type", contentType(a.Name))
		http.ServeContent(w, r, a.Name, time.Time{}, bytes.NewReader(a.Data))
	})
}

// CrossOriginIsolation marks every response as cross-origin isolated so
// that browsers grant shared memory to the page.
func CrossOriginIsolation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Embedder-Policy", "require-corp")
		next.ServeHTTP(w, r)
	})
}

func contentType(name string) string {
	ext := path.Ext(name)
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
