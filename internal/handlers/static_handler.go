package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"

	apperrors "eosoracle/internal/errors"
)

// StaticHandler serves the single page UI for requests no API route matched.
type StaticHandler struct {
	root string
}

// NewStaticHandler creates a StaticHandler serving files under root.
func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root}
}

// Fallback serves the requested file when it exists under the UI root and the
// UI entry point otherwise. Only GET and HEAD fall back to the UI.
func (h *StaticHandler) Fallback(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		respondWithError(c, apperrors.ErrNotFound)
		return
	}

	// path.Clean on a rooted path never climbs above the root.
	name := filepath.Join(h.root, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
	if isFile(name) {
		c.File(name)
		return
	}

	index := filepath.Join(h.root, "index.html")
	if !isFile(index) {
		respondWithError(c, apperrors.ErrNotFound)
		return
	}
	c.File(index)
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.Mode().IsRegular()
}
