// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package httpcatalog

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiesic/skinshelf/core"
	"github.com/poiesic/skinshelf/remote"
)

const defaultHandlerTimeout = 30 * time.Second

type handler struct {
	catalog remote.Catalog
	logger  *slog.Logger
}

// NewHandler serves cat using the catalog wire contract. It also exposes
// /health and the Prometheus /metrics endpoint.
func NewHandler(cat remote.Catalog, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{catalog: cat, logger: logger.With("component", "httpcatalog")}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(defaultHandlerTimeout))

	router.Get("/health", h.handleHealth)
	router.Get(itemsPath, h.handleItems)
	router.Handle("/metrics", promhttp.Handler())
	return router
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleItems(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	var (
		items []*core.ItemRecord
		err   error
	)
	if values.Get(paramWhere) == "" {
		items, err = h.catalog.FetchAll(r.Context())
	} else {
		q, qerr := decodeQuery(values.Get)
		if qerr != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: qerr.Error()})
			return
		}
		items, err = h.catalog.FetchWhere(r.Context(), q)
	}

	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, remote.ErrInvalidQuery) {
			status = http.StatusBadRequest
		}
		h.logger.Warn("catalog request failed", "requestId", middleware.GetReqID(r.Context()), "err", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	if items == nil {
		items = []*core.ItemRecord{}
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
