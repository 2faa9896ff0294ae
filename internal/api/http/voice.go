package http

import (
	"encoding/json"
	"net/http"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/services"
)

type VoiceHandler struct {
	svc *services.VoiceService
}

func NewVoiceHandler(svc *services.VoiceService) *VoiceHandler {
	return &VoiceHandler{svc: svc}
}

// GetVoice GET /api/voice
func (h *VoiceHandler) GetVoice(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Get(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"doc": doc})
}

// PutVoice PUT /api/voice
func (h *VoiceHandler) PutVoice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Doc string `json:"doc"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.svc.Set(r.Context(), req.Doc); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
