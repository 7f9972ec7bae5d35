package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/skumar93/folio/cache"
	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/service"
)

type documentData struct {
	Doc models.PortfolioDocument `json:"doc"`
}

type documentMessage struct {
	Type string       `json:"type"`
	Data documentData `json:"data"`
}

// Hub maintains the set of active builder connections and fans document
// change events out to every tab of the same owner.
type Hub struct {
	folioCache        cache.FolioCache
	OpenCh            chan *Client
	CloseCh           chan *Client
	DocumentChangedCh chan service.DocumentChangedMessage
	ownerToClients    map[string]map[*Client]struct{}
}

func NewHub(folioCache cache.FolioCache) *Hub {
	return &Hub{
		folioCache:        folioCache,
		OpenCh:            make(chan *Client, 256),
		CloseCh:           make(chan *Client, 256),
		DocumentChangedCh: make(chan service.DocumentChangedMessage, 256),
		ownerToClients:    make(map[string]map[*Client]struct{}),
	}
}

const maxConnectionsPerUser = 3

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.OpenCh:
			if _, ok := h.ownerToClients[client.user.Id]; !ok {
				h.ownerToClients[client.user.Id] = make(map[*Client]struct{})
			}

			if len(h.ownerToClients[client.user.Id]) >= maxConnectionsPerUser {
				log.Printf("User %s reached max connections (%d)", client.user.Id, maxConnectionsPerUser)
				close(client.Send)
				continue
			}

			h.ownerToClients[client.user.Id][client] = struct{}{}

		case client := <-h.CloseCh:
			delete(h.ownerToClients[client.user.Id], client)
			if len(h.ownerToClients[client.user.Id]) == 0 {
				delete(h.ownerToClients, client.user.Id)
			}

		case changed := <-h.DocumentChangedCh:
			clients, ok := h.ownerToClients[changed.OwnerId]
			if !ok {
				continue
			}
			msg := documentMessage{Type: "document", Data: documentData{Doc: changed.Doc}}
			msgBytes, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			// Every tab gets the authoritative copy, including the one that
			// made the edit.
			for client := range clients {
				client.Send <- msgBytes
			}
		}
	}
}

func (h *Hub) InitSubscriptions(shutdownCtx context.Context) error {
	err := h.folioCache.Subscribe(shutdownCtx, service.DocumentChangedChannel, func(message []byte) {
		var changed service.DocumentChangedMessage
		if err := json.Unmarshal(message, &changed); err == nil {
			h.DocumentChangedCh <- changed
		} else {
			log.Printf("Failed to unmarshal document change message: %v", err)
		}
	})
	if err != nil {
		log.Printf("WS hub failed to subscribe to %s: %v", service.DocumentChangedChannel, err)
		return err
	}

	return nil
}
