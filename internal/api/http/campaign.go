package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tastcoffee/contentops/internal/api/respond"
	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/services"
)

// CampaignHandler provides HTTP transport for campaign operations, including
// campaign-scoped item creation and publish-sequence reordering.
type CampaignHandler struct {
	campaigns *services.CampaignService
	content   *services.ContentService
}

func NewCampaignHandler(campaigns *services.CampaignService, content *services.ContentService) *CampaignHandler {
	return &CampaignHandler{campaigns: campaigns, content: content}
}

// ListCampaigns GET /api/campaigns
func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := h.campaigns.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if cs == nil {
		cs = []*model.Campaign{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"campaigns": cs, "count": len(cs)})
}

// CreateCampaign POST /api/campaigns
func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in model.Campaign
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	c, err := h.campaigns.Create(r.Context(), &in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, c)
}

// UpdateCampaign PATCH /api/campaigns/{campaignId}
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["campaignId"]
	var p model.CampaignPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	c, err := h.campaigns.Update(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, c)
}

// DeleteCampaign DELETE /api/campaigns/{campaignId}
func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["campaignId"]
	if err := h.campaigns.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCampaignItem POST /api/campaigns/{campaignId}/items
//
// The item is created inside the campaign's scope: any campaignId in the
// body is overridden with the path campaign.
func (h *CampaignHandler) CreateCampaignItem(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["campaignId"]
	var in model.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	item, err := h.content.CreateInCampaign(r.Context(), id, &in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, item)
}

// Resequence POST /api/campaigns/{campaignId}/resequence
func (h *CampaignHandler) Resequence(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["campaignId"]
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.content.Resequence(r.Context(), id, req.From, req.To); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
