package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastcoffee/contentops/internal/captions"
	"github.com/tastcoffee/contentops/internal/model"
	"github.com/tastcoffee/contentops/internal/store/memory"
)

// newTestServer wires the router over a fresh in-memory store. The caption
// upstream is a stub that returns three fixed captions.
func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := json.Marshal(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": `["c1","c2","c3"]`}},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(upstream.Close)

	st := memory.New()
	gen := captions.NewGenerator(upstream.URL, "test-key", "test-model", zerolog.Nop())
	srv := httptest.NewServer(NewRouter(st, gen, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv, st
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	} else {
		resp.Body.Close()
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]interface{}
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", nil, &out)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", out["status"])
}

func TestItemCRUD(t *testing.T) {
	srv, _ := newTestServer(t)

	var created model.ContentItem
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/items",
		map[string]string{"title": "AeroPress recipe"}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StageIdea, created.Stage)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]string{"title": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var updated model.ContentItem
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/items/"+created.ID,
		map[string]string{"stage": "Ready"}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.StageReady, updated.Stage)
	assert.Equal(t, "AeroPress recipe", updated.Title)

	var list struct {
		Items []model.ContentItem `json:"items"`
		Count int                 `json:"count"`
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/items", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, list.Count)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/items/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/items/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCampaignScopedCreateLocksLink(t *testing.T) {
	srv, _ := newTestServer(t)

	var camp model.Campaign
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns",
		map[string]string{"name": "Harvest Series"}, &camp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var item model.ContentItem
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/campaigns/"+camp.ID+"/items",
		map[string]string{"title": "week one post", "campaignId": "spoofed"}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, camp.ID, item.CampaignID)
	assert.Equal(t, model.StageInCampaign, item.Stage)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/campaigns/missing/items",
		map[string]string{"title": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResequenceRoute(t *testing.T) {
	srv, st := newTestServer(t)

	var camp model.Campaign
	doJSON(t, http.MethodPost, srv.URL+"/api/campaigns", map[string]string{"name": "Ordered"}, &camp)

	ids := make([]string, 3)
	for i := range ids {
		var item model.ContentItem
		doJSON(t, http.MethodPost, srv.URL+"/api/campaigns/"+camp.ID+"/items",
			map[string]interface{}{"title": fmt.Sprintf("post %d", i), "seq": i}, &item)
		ids[i] = item.ID
	}

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/campaigns/"+camp.ID+"/resequence",
		map[string]int{"from": 2, "to": 0}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	want := map[string]int{ids[2]: 0, ids[0]: 1, ids[1]: 2}
	items, err := st.ContentItems().List(context.Background())
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, want[it.ID], it.Seq, "item %s", it.ID)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/campaigns/"+camp.ID+"/resequence",
		map[string]int{"from": 0, "to": 9}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	var item model.ContentItem
	doJSON(t, http.MethodPost, srv.URL+"/api/items", map[string]string{"title": "discussed"}, &item)

	var comment model.Comment
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/items/"+item.ID+"/comments",
		map[string]string{"text": "ship it", "author_id": "reggie", "author_name": "Reggie"}, &comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list struct {
		Comments []model.Comment `json:"comments"`
		Count    int             `json:"count"`
	}
	doJSON(t, http.MethodGet, srv.URL+"/api/items/"+item.ID+"/comments", nil, &list)
	assert.Equal(t, 1, list.Count)

	// Deleting without identifying the actor is refused.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/comments/"+comment.ID, nil)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	// A different member is refused too.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/comments/"+comment.ID, nil)
	req.Header.Set("X-Actor-Id", "jason")
	resp2, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)

	// The author succeeds.
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/comments/"+comment.ID, nil)
	req.Header.Set("X-Actor-Id", "reggie")
	resp2, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp2.StatusCode)
}

func TestVoiceRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	var out map[string]string
	doJSON(t, http.MethodGet, srv.URL+"/api/voice", nil, &out)
	assert.Equal(t, model.DefaultBrandVoice, out["doc"])

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/voice", map[string]string{"doc": "short"}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	doJSON(t, http.MethodGet, srv.URL+"/api/voice", nil, &out)
	assert.Equal(t, "short", out["doc"])
}

func TestProductRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	var p model.Product
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/products",
		map[string]string{"name": "House Blend", "roast": "Blend"}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "#ef4056", p.Color)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/products",
		map[string]string{"name": "x", "roast": "Burnt"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/products/"+p.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCaptionRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	var out struct {
		Captions []string `json:"captions"`
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/captions", captions.Request{
		Channel: "Instagram", Context: "new drop", Tone: "warm", BrandVoice: "v",
	}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"c1", "c2", "c3"}, out.Captions)
}
