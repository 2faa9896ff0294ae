package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/services"
)

type ProductHandler struct {
	svc *services.ProductService
}

func NewProductHandler(svc *services.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// ListProducts GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.svc.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if ps == nil {
		ps = []*model.Product{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"products": ps, "count": len(ps)})
}

// AddProduct POST /api/products
func (h *ProductHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Roast string `json:"roast"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	p, err := h.svc.Add(r.Context(), req.Name, req.Roast)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, p)
}

// RemoveProduct DELETE /api/products/{productId}
func (h *ProductHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["productId"]
	if err := h.svc.Remove(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
