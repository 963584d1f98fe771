package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"lexibase/internal/domain"
	"lexibase/internal/service"
)

// ResourcePrefix is the root of the read-only JSON resources
const ResourcePrefix = "/api/v1/"

// ResourceHandler serves the read-only language and source resources.
// Objects are keyed by slug and private fields are left out.
type ResourceHandler struct {
	responder
	svc       *service.CatalogService
	pageLimit int
}

// NewResourceHandler creates a resource handler listing pageLimit objects
// per page by default
func NewResourceHandler(svc *service.CatalogService, pageLimit int, logger *zap.Logger) *ResourceHandler {
	if pageLimit < 1 {
		pageLimit = 20
	}
	return &ResourceHandler{responder: newResponder(logger, "resources"), svc: svc, pageLimit: pageLimit}
}

// ListMeta is the paging block of a resource listing
type ListMeta struct {
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	TotalCount int     `json:"total_count"`
	Next       *string `json:"next"`
	Previous   *string `json:"previous"`
}

// ListResponse is a page of resource objects
type ListResponse[T any] struct {
	Meta    ListMeta `json:"meta"`
	Objects []T      `json:"objects"`
}

// LanguageResource is a language without its comment and bibtex
type LanguageResource struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Language       string    `json:"language"`
	Dialect        string    `json:"dialect"`
	ISOCode        string    `json:"isocode"`
	Glottocode     string    `json:"glottocode"`
	Classification string    `json:"classification"`
	Information    string    `json:"information"`
	Added          time.Time `json:"added"`
	ResourceURI    string    `json:"resource_uri"`
}

func newLanguageResource(l domain.Language) LanguageResource {
	return LanguageResource{
		ID:             l.ID,
		Slug:           l.Slug,
		Language:       l.Language,
		Dialect:        l.Dialect,
		ISOCode:        l.ISOCode,
		Glottocode:     l.Glottocode,
		Classification: l.Classification,
		Information:    l.Information,
		Added:          l.Added,
		ResourceURI:    resourceURI("language", l.Slug),
	}
}

// SourceResource is a source without its information field
type SourceResource struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	Year        string    `json:"year"`
	Reference   string    `json:"reference"`
	Bibtex      string    `json:"bibtex"`
	Comment     string    `json:"comment"`
	Added       time.Time `json:"added"`
	ResourceURI string    `json:"resource_uri"`
}

func newSourceResource(s domain.Source) SourceResource {
	return SourceResource{
		ID:          s.ID,
		Slug:        s.Slug,
		Author:      s.Author,
		Year:        s.Year,
		Reference:   s.Reference,
		Bibtex:      s.Bibtex,
		Comment:     s.Comment,
		Added:       s.Added,
		ResourceURI: resourceURI("source", s.Slug),
	}
}

func resourceURI(kind, slug string) string {
	if slug == "" {
		return ResourcePrefix + kind + "/"
	}
	return ResourcePrefix + kind + "/" + slug + "/"
}

// Languages serves /api/v1/language/
func (h *ResourceHandler) Languages(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	limit, offset, err := h.paging(r)
	if err != nil {
		h.writeError(w, "Invalid paging", err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.svc.Languages(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, "Failed to list languages", err)
		return
	}
	objects := make([]LanguageResource, len(page.Objects))
	for i, l := range page.Objects {
		objects[i] = newLanguageResource(l)
	}
	h.writeJSON(w, ListResponse[LanguageResource]{Meta: meta("language", limit, offset, page.Total), Objects: objects}, http.StatusOK)
}

// Language serves /api/v1/language/{slug}/
func (h *ResourceHandler) Language(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	lang, err := h.svc.Language(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, "Failed to get language", err)
		return
	}
	h.writeJSON(w, newLanguageResource(*lang), http.StatusOK)
}

// Sources serves /api/v1/source/
func (h *ResourceHandler) Sources(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	limit, offset, err := h.paging(r)
	if err != nil {
		h.writeError(w, "Invalid paging", err.Error(), http.StatusBadRequest)
		return
	}

	page, err := h.svc.Sources(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, "Failed to list sources", err)
		return
	}
	objects := make([]SourceResource, len(page.Objects))
	for i, s := range page.Objects {
		objects[i] = newSourceResource(s)
	}
	h.writeJSON(w, ListResponse[SourceResource]{Meta: meta("source", limit, offset, page.Total), Objects: objects}, http.StatusOK)
}

// Source serves /api/v1/source/{slug}/
func (h *ResourceHandler) Source(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	src, err := h.svc.Source(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, "Failed to get source", err)
		return
	}
	h.writeJSON(w, newSourceResource(*src), http.StatusOK)
}

// allow rejects anything but GET and HEAD with a JSON 405
func (h *ResourceHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	h.writeError(w, "Method not allowed", r.Method+" is not supported on read-only resources", http.StatusMethodNotAllowed)
	return false
}

func (h *ResourceHandler) paging(r *http.Request) (limit, offset int, err error) {
	limit = h.pageLimit
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("invalid limit %q", v)
		}
	}
	if v := q.Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", v)
		}
	}
	return limit, offset, nil
}

func meta(kind string, limit, offset, total int) ListMeta {
	m := ListMeta{Limit: limit, Offset: offset, TotalCount: total}
	if offset+limit < total {
		next := fmt.Sprintf("%s?limit=%d&offset=%d", resourceURI(kind, ""), limit, offset+limit)
		m.Next = &next
	}
	if offset > 0 {
		prev := fmt.Sprintf("%s?limit=%d&offset=%d", resourceURI(kind, ""), limit, max(offset-limit, 0))
		m.Previous = &prev
	}
	return m
}
