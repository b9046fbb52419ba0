package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRegisterWebhooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Manager.RegisterAll(r.Context()))
}

// handleConnect establishes the bridge and registers webhooks on both sides
func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Connectors.Storefront(); err != nil {
		writeError(w, http.StatusBadRequest, "Shopify not connected")
		return
	}
	if _, err := s.deps.Connectors.Production(); err != nil {
		writeError(w, http.StatusBadRequest, "Printify not connected")
		return
	}

	result, err := s.deps.Manager.Connect(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to connect bridge")
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Connectors.Status())
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	bridge, err := s.deps.Connectors.Bridge()
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	result, err := bridge.PublishProduct(r.Context(), productID)
	if err != nil {
		s.logger.Error().Err(err).Str("productId", productID).Msg("Failed to publish product")
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
