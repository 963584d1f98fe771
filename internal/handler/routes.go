package handler

import (
	"net/http"

	"go.uber.org/zap"

	"lexibase/internal/service"
)

// Services are the dependencies of the HTTP API
type Services struct {
	Catalog   *service.CatalogService
	Cognacy   *service.CognacyService
	Entry     *service.EntryService
	Events    http.Handler
	PageLimit int
}

// NewRouter registers every route and wraps the mux in the standard
// middleware
func NewRouter(s Services, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	resources := NewResourceHandler(s.Catalog, s.PageLimit, logger)
	catalog := NewCatalogHandler(s.Catalog, logger)
	cognacy := NewCognacyHandler(s.Cognacy, logger)
	entry := NewEntryHandler(s.Entry, logger)

	mux := http.NewServeMux()

	// Read-only resources; method checks happen in the handler
	mux.HandleFunc("/api/v1/language/{$}", resources.Languages)
	mux.HandleFunc("/api/v1/language/{slug}/{$}", resources.Language)
	mux.HandleFunc("/api/v1/source/{$}", resources.Sources)
	mux.HandleFunc("/api/v1/source/{slug}/{$}", resources.Source)

	// Listing and detail
	mux.HandleFunc("GET /api/words", catalog.ListWords)
	mux.HandleFunc("GET /api/words/{slug}", catalog.GetWord)
	mux.HandleFunc("GET /api/subsets/{slug}", catalog.GetSubset)
	mux.HandleFunc("GET /api/cognacy/{id}", catalog.GetCognateSet)
	mux.HandleFunc("GET /api/tasks", catalog.ListTasks)
	mux.HandleFunc("GET /api/tasks/{id}", catalog.GetTask)
	mux.HandleFunc("GET /api/clades", catalog.GetClades)
	mux.HandleFunc("GET /api/statistics", catalog.GetStatistics)
	mux.HandleFunc("GET /health", catalog.Health)

	// Workflows
	mux.HandleFunc("GET /api/cognacy/do", cognacy.GetAssign)
	mux.HandleFunc("POST /api/cognacy/do", cognacy.PostAssign)
	mux.HandleFunc("GET /api/cognacy/{word}/merge", cognacy.GetMerge)
	mux.HandleFunc("POST /api/cognacy/{word}/merge", cognacy.PostMerge)
	mux.HandleFunc("GET /api/entry/tasks/{id}", entry.GetTask)
	mux.HandleFunc("POST /api/entry/tasks/{id}", entry.PostTask)

	if s.Events != nil {
		mux.Handle("GET /events", s.Events)
	}

	return Chain(mux,
		Recover(logger),
		CORS,
		Logger(logger),
	)
}
