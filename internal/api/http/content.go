package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/services"
)

// ContentHandler provides HTTP transport for content item operations.
type ContentHandler struct {
	content *services.ContentService
}

func NewContentHandler(svc *services.ContentService) *ContentHandler {
	return &ContentHandler{content: svc}
}

// ListItems GET /api/items
func (h *ContentHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []*model.ContentItem{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// CreateItem POST /api/items
func (h *ContentHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in model.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	item, err := h.content.Create(r.Context(), &in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, item)
}

// UpdateItem PATCH /api/items/{itemId}
func (h *ContentHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["itemId"]
	var p model.ContentItemPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	item, err := h.content.Update(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, item)
}

// DeleteItem DELETE /api/items/{itemId}
func (h *ContentHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["itemId"]
	if err := h.content.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
