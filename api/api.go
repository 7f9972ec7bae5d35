package api

import (
	"context"
	"log"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/skumar93/folio/api/rest"
	"github.com/skumar93/folio/api/ws"
	"github.com/skumar93/folio/cache"
	"github.com/skumar93/folio/mq"
	"github.com/skumar93/folio/pdf"
	"github.com/skumar93/folio/service"
	"github.com/skumar93/folio/store"
	"github.com/skumar93/folio/worker"
)

type FolioAPI struct {
	restHandler *rest.Handler
	wsHandler   *ws.Handler
	shutdownCtx context.Context
}

func NewFolioAPI(
	folioStore store.FolioStore,
	publishedQueue mq.MessageQueue,
	folioCache cache.FolioCache,
	pdfRenderer pdf.Renderer,
	oauthConfigs map[string]*oauth2.Config,
	jwtSecret []byte,
	appOrigin string,
	shutdownCtx context.Context,
) (*FolioAPI, error) {
	wsHub := ws.NewHub(folioCache)
	err := wsHub.InitSubscriptions(shutdownCtx)
	if err != nil {
		log.Printf("Failed to start WS Hub subscriptions service: %v", err)
		return &FolioAPI{}, err
	}
	go wsHub.Run()

	viewBatcher := worker.NewViewBatcher(folioStore, 60000)
	go viewBatcher.Run(shutdownCtx)

	mqConsumer := worker.NewMQConsumer(publishedQueue, folioStore, folioCache)
	go mqConsumer.Run(shutdownCtx)

	svc, err := service.NewService(
		folioStore,
		folioCache,
		publishedQueue,
		viewBatcher,
		pdfRenderer,
		oauthConfigs,
		jwtSecret,
		appOrigin,
	)
	if err != nil {
		log.Printf("Failed to create service: %v", err)
		return &FolioAPI{}, err
	}

	restHandler := rest.NewHandler(svc)
	wsHandler := ws.NewHandler(svc, wsHub)

	return &FolioAPI{
		restHandler: restHandler,
		wsHandler:   wsHandler,
		shutdownCtx: shutdownCtx,
	}, nil
}

func (folioAPI *FolioAPI) RegisterRoutes(mux *http.ServeMux, requiredOrigin string) {
	// Health check endpoint (no auth required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("/signup", folioAPI.restHandler.HandleSignup)
	mux.HandleFunc("/login", folioAPI.restHandler.HandleLogin)
	mux.HandleFunc("/logout", folioAPI.restHandler.HandleLogout)
	mux.HandleFunc("/me", folioAPI.restHandler.HandleMe)
	mux.HandleFunc("/portfolio", folioAPI.restHandler.HandlePortfolio)
	mux.HandleFunc("/portfolio/", folioAPI.restHandler.HandlePortfolioSubpath)
	mux.HandleFunc("/p/", folioAPI.restHandler.HandlePublic)

	wsUpgrader := folioAPI.wsHandler.NewWsUpgrader(requiredOrigin)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		folioAPI.wsHandler.ServeWS(wsUpgrader, w, r, folioAPI.shutdownCtx)
	})
}
