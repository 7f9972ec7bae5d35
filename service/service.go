package service

import (
	"github.com/skumar93/folio/cache"
	"github.com/skumar93/folio/mq"
	"github.com/skumar93/folio/pdf"
	"github.com/skumar93/folio/store"
	"github.com/skumar93/folio/worker"
	"golang.org/x/oauth2"
)

type Service struct {
	Store        store.FolioStore
	Cache        cache.FolioCache
	MQ           mq.MessageQueue
	Views        *worker.ViewBatcher
	PDF          pdf.Renderer
	Sessions     *SessionManager
	OAuthConfigs map[string]*oauth2.Config
	JWTSecret    []byte
	AppOrigin    string
}

func NewService(
	store store.FolioStore,
	cache cache.FolioCache,
	mq mq.MessageQueue,
	views *worker.ViewBatcher,
	pdfRenderer pdf.Renderer,
	oauthConfigs map[string]*oauth2.Config,
	jwtSecret []byte,
	appOrigin string,
) (*Service, error) {
	oauthConfigs, err := addOauthEndpointsAndScopes(oauthConfigs)
	if err != nil {
		return nil, err
	}

	return &Service{
		Store:        store,
		Cache:        cache,
		MQ:           mq,
		Views:        views,
		PDF:          pdfRenderer,
		Sessions:     NewSessionManager(),
		OAuthConfigs: oauthConfigs,
		JWTSecret:    jwtSecret,
		AppOrigin:    appOrigin,
	}, nil
}
