// Package server assembles the HTTP surface of the service.
package server

import (
	"net/http"
	"time"

	analyticsH "github.com/fekuna/stockflow-service/internal/analytics/handler"
	"github.com/fekuna/stockflow-service/internal/auth"
	fieldH "github.com/fekuna/stockflow-service/internal/field/handler"
	folderH "github.com/fekuna/stockflow-service/internal/folder/handler"
	"github.com/fekuna/stockflow-service/internal/logger"
	productH "github.com/fekuna/stockflow-service/internal/product/handler"
	sessionH "github.com/fekuna/stockflow-service/internal/session/handler"
)

type Handlers struct {
	Session   *sessionH.SessionHandler
	Analytics *analyticsH.AnalyticsHandler
	Folder    *folderH.FolderHandler
	Field     *fieldH.FieldHandler
	Product   *productH.ProductHandler
}

// NewRouter registers every route. Reads are public, catalog mutations go
// through the session gate.
func NewRouter(h *Handlers, v auth.Validator, log logger.ZapLogger) http.Handler {
	mux := http.NewServeMux()
	gate := auth.RequireSession(v, log)
	guarded := func(fn http.HandlerFunc) http.Handler { return gate(fn) }

	mux.HandleFunc("POST /auth/login", h.Session.Login)
	mux.HandleFunc("POST /auth/logout", h.Session.Logout)
	mux.HandleFunc("GET /auth/verify", h.Session.Verify)

	mux.HandleFunc("GET /analytics/metrics", h.Analytics.GlobalMetrics)
	mux.HandleFunc("GET /analytics/data", h.Analytics.GlobalData)
	mux.HandleFunc("GET /analytics/folder/{id}/metrics", h.Analytics.FolderMetrics)
	mux.HandleFunc("GET /analytics/folder/{id}/data", h.Analytics.FolderData)

	mux.HandleFunc("GET /folders", h.Folder.List)
	mux.Handle("POST /folders", guarded(h.Folder.Create))
	mux.Handle("PUT /folders/{id}", guarded(h.Folder.Rename))
	mux.Handle("DELETE /folders/{id}", guarded(h.Folder.Delete))

	mux.HandleFunc("GET /fields", h.Field.List)
	mux.Handle("POST /fields", guarded(h.Field.Create))
	mux.Handle("PUT /fields/{id}", guarded(h.Field.Rename))
	mux.Handle("DELETE /fields/{id}", guarded(h.Field.Delete))

	mux.HandleFunc("GET /products", h.Product.List)
	mux.Handle("POST /products", guarded(h.Product.Create))
	mux.Handle("PUT /products/{id}", guarded(h.Product.Update))
	mux.Handle("DELETE /products/{id}", guarded(h.Product.Delete))

	return withRecover(log, withRequestID(withRequestLog(log, withCORS(mux))))
}

func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
