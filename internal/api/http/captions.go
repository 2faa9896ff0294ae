package http

import (
	"encoding/json"
	"net/http"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/captions"
)

type CaptionHandler struct {
	gen *captions.Generator
}

func NewCaptionHandler(gen *captions.Generator) *CaptionHandler {
	return &CaptionHandler{gen: gen}
}

// GenerateCaptions POST /api/captions
//
// Always responds 200. Generation failures surface as placeholder captions
// so the caller can retry rather than handle a transport error.
func (h *CaptionHandler) GenerateCaptions(w http.ResponseWriter, r *http.Request) {
	var req captions.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out := h.gen.Generate(r.Context(), req)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"captions": out})
}
