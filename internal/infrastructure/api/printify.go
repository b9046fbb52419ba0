package api

import (
	"net/http"
	"strings"

	"iamtoxico-bridge/internal/domain"
)

const maxRelevantBlueprints = 20

// apparelKeywords select blueprints that fit the iamtoxico catalogue
var apparelKeywords = []string{"hoodie", "sweatshirt", "jogger", "tee", "t-shirt", "shorts"}

type blueprintSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handlePrintifyStatus(w http.ResponseWriter, r *http.Request) {
	production, err := s.deps.Connectors.Production()
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"connected": false,
			"message":   "PRINTIFY_API_KEY not set",
			"action":    "Get API key from https://printify.com/app/account/api",
		})
		return
	}

	shops, err := production.Shops(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list printify shops")
		writeJSON(w, http.StatusOK, map[string]any{"connected": false, "error": err.Error()})
		return
	}

	summaries := make([]map[string]any, 0, len(shops))
	for _, shop := range shops {
		summaries = append(summaries, map[string]any{"id": shop.ID, "title": shop.Title})
	}
	writeJSON(w, http.StatusOK, map[string]any{"connected": true, "shops": summaries})
}

func (s *Server) handleBlueprints(w http.ResponseWriter, r *http.Request) {
	production, err := s.deps.Connectors.Production()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Printify not connected")
		return
	}

	blueprints, err := production.Blueprints(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list blueprints")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":               len(blueprints),
		"relevant_for_toxico": relevantBlueprints(blueprints, maxRelevantBlueprints),
	})
}

// relevantBlueprints keeps apparel blueprints in catalogue order
func relevantBlueprints(blueprints []domain.Blueprint, limit int) []blueprintSummary {
	relevant := make([]blueprintSummary, 0, limit)
	for _, bp := range blueprints {
		if len(relevant) == limit {
			break
		}
		if !matchesKeyword(bp.Title, apparelKeywords) {
			continue
		}
		relevant = append(relevant, blueprintSummary{
			ID:          bp.ID,
			Title:       bp.Title,
			Description: truncate(bp.Description, 100),
		})
	}
	return relevant
}

func matchesKeyword(title string, keywords []string) bool {
	title = strings.ToLower(title)
	for _, keyword := range keywords {
		if strings.Contains(title, keyword) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
