package frontend

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
	"github.com/ZanzyTHEbar/court-compare/internal/security"
)

const DefaultTitle = "NBA Team Comparison Dashboard"

// Handler serves the dashboard page and its static assets.
type Handler struct {
	files   fs.FS
	index   *template.Template
	server  http.Handler
	title   string
	apiBase string
}

// NewHandler loads the page template from files. apiBase is the prefix the
// page script calls, e.g. "/api/v1".
func NewHandler(files fs.FS, apiBase string) (*Handler, error) {
	index, err := LoadIndexTemplate(files)
	if err != nil {
		return nil, err
	}
	return &Handler{
		files:   files,
		index:   index,
		server:  http.FileServer(http.FS(files)),
		title:   DefaultTitle,
		apiBase: apiBase,
	}, nil
}

// Register mounts the page at "/" and the assets under "/assets/". Unknown
// paths outside the API fall back to the page.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/assets/*filepath", h.Asset)
	r.NoRoute(h.fallback)
}

func (h *Handler) Index(c *gin.Context) {
	nonce := security.GetNonce(c)
	if nonce == "" {
		slog.Warn("CSP nonce not found in context, generating new one")
		var err error
		nonce, err = security.GenerateNonce()
		if err != nil {
			apperrors.Respond(c, apperrors.NewInternalError("nonce generation failed", err))
			return
		}
	}

	data := PageData{Nonce: nonce, Title: h.title, APIBase: h.apiBase}
	if err := RenderIndex(c, h.index, data); err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to render page", err))
	}
}

func (h *Handler) Asset(c *gin.Context) {
	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if info, err := fs.Stat(h.files, name); err != nil || info.IsDir() {
		apperrors.Respond(c, apperrors.NewNotFoundError("asset not found", map[string]string{"path": c.Request.URL.Path}))
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	h.server.ServeHTTP(c.Writer, c.Request)
}

func (h *Handler) fallback(c *gin.Context) {
	path := c.Request.URL.Path
	if c.Request.Method != http.MethodGet || strings.HasPrefix(path, h.apiBase) || strings.HasPrefix(path, "/swagger") {
		apperrors.Respond(c, apperrors.NewNotFoundError("route not found", map[string]string{"path": path}))
		return
	}
	h.Index(c)
}
