package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	httpHandlers "github.com/tastcoffee/contentops/internal/api/http"
	"github.com/tastcoffee/contentops/internal/api/recovery"
	"github.com/tastcoffee/contentops/internal/captions"
	"github.com/tastcoffee/contentops/internal/services"
	"github.com/tastcoffee/contentops/internal/store"
)

// NewRouter wires all API routes over the given store.
func NewRouter(s store.Store, gen *captions.Generator, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware(log))

	// Domain services
	contentSvc := services.NewContentService(s, log)
	campaignSvc := services.NewCampaignService(s, log)
	commentSvc := services.NewCommentService(s, log)
	productSvc := services.NewProductService(s, log)
	voiceSvc := services.NewVoiceService(s)

	// Handlers
	healthHandler := httpHandlers.NewHealthHandler(s)
	contentHandler := httpHandlers.NewContentHandler(contentSvc)
	campaignHandler := httpHandlers.NewCampaignHandler(campaignSvc, contentSvc)
	commentHandler := httpHandlers.NewCommentHandler(commentSvc)
	productHandler := httpHandlers.NewProductHandler(productSvc)
	voiceHandler := httpHandlers.NewVoiceHandler(voiceSvc)
	captionHandler := httpHandlers.NewCaptionHandler(gen)

	// Health and metrics
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Content item endpoints
	router.HandleFunc("/api/items", contentHandler.ListItems).Methods("GET")
	router.HandleFunc("/api/items", contentHandler.CreateItem).Methods("POST")
	router.HandleFunc("/api/items/{itemId}", contentHandler.UpdateItem).Methods("PATCH")
	router.HandleFunc("/api/items/{itemId}", contentHandler.DeleteItem).Methods("DELETE")

	// Comment endpoints
	router.HandleFunc("/api/items/{itemId}/comments", commentHandler.ListComments).Methods("GET")
	router.HandleFunc("/api/items/{itemId}/comments", commentHandler.AddComment).Methods("POST")
	router.HandleFunc("/api/comments/{commentId}", commentHandler.DeleteComment).Methods("DELETE")

	// Campaign endpoints
	router.HandleFunc("/api/campaigns", campaignHandler.ListCampaigns).Methods("GET")
	router.HandleFunc("/api/campaigns", campaignHandler.CreateCampaign).Methods("POST")
	router.HandleFunc("/api/campaigns/{campaignId}", campaignHandler.UpdateCampaign).Methods("PATCH")
	router.HandleFunc("/api/campaigns/{campaignId}", campaignHandler.DeleteCampaign).Methods("DELETE")
	router.HandleFunc("/api/campaigns/{campaignId}/items", campaignHandler.CreateCampaignItem).Methods("POST")
	router.HandleFunc("/api/campaigns/{campaignId}/resequence", campaignHandler.Resequence).Methods("POST")

	// Product endpoints
	router.HandleFunc("/api/products", productHandler.ListProducts).Methods("GET")
	router.HandleFunc("/api/products", productHandler.AddProduct).Methods("POST")
	router.HandleFunc("/api/products/{productId}", productHandler.RemoveProduct).Methods("DELETE")

	// Brand voice endpoints
	router.HandleFunc("/api/voice", voiceHandler.GetVoice).Methods("GET")
	router.HandleFunc("/api/voice", voiceHandler.PutVoice).Methods("PUT")

	// Caption generation
	router.HandleFunc("/api/captions", captionHandler.GenerateCaptions).Methods("POST")

	return router
}
