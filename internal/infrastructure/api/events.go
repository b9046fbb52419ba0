package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"iamtoxico-bridge/internal/domain"
	"iamtoxico-bridge/internal/infrastructure/pubsub"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// handleRecentEvents returns the newest audit log entries
func (s *Server) handleRecentEvents(w http.ResponseWriter, r *http.Request) {
	if s.deps.Events == nil {
		writeJSON(w, http.StatusOK, map[string]any{"events": []*domain.WebhookEvent{}})
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxEventLimit)
	}

	events, err := s.deps.Events.RecentWebhooks(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load webhook events")
		writeError(w, http.StatusInternalServerError, "Failed to load webhook events")
		return
	}
	if events == nil {
		events = []*domain.WebhookEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// handleEventStream streams processed webhook events as server-sent events.
// ?platform= and a comma separated ?topic= narrow the feed.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok || s.deps.Feed == nil {
		writeError(w, http.StatusNotImplemented, "Streaming not supported")
		return
	}

	filter := pubsub.EventFilter{Platform: domain.Platform(r.URL.Query().Get("platform"))}
	if topics := r.URL.Query().Get("topic"); topics != "" {
		filter.Topics = strings.Split(topics, ",")
	}

	subscription := s.deps.Feed.Subscribe(r.Context(), filter)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-subscription.Events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				s.logger.Error().Err(err).Msg("Failed to encode event")
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: webhook\ndata: %s\n\n", event.ID, data)
			flusher.Flush()
		}
	}
}
