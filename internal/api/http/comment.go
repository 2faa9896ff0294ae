package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/services"
)

type CommentHandler struct {
	svc *services.CommentService
}

func NewCommentHandler(svc *services.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// ListComments GET /api/items/{itemId}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	cs, err := h.svc.ListForItem(r.Context(), itemID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if cs == nil {
		cs = []*model.Comment{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"comments": cs, "count": len(cs)})
}

// AddComment POST /api/items/{itemId}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	var req struct {
		Text       string `json:"text"`
		AuthorID   string `json:"author_id"`
		AuthorName string `json:"author_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	c, err := h.svc.Add(r.Context(), itemID, req.Text, req.AuthorID, req.AuthorName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, c)
}

// DeleteComment DELETE /api/comments/{commentId}
//
// The acting member is identified by the X-Actor-Id header. Only the comment
// author may delete their comment.
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["commentId"]
	actorID := r.Header.Get("X-Actor-Id")
	if actorID == "" {
		respond.WriteUnauthorized(w, "X-Actor-Id header required")
		return
	}
	if err := h.svc.Delete(r.Context(), id, actorID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
