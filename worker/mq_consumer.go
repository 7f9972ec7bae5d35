package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/skumar93/folio/cache"
	"github.com/skumar93/folio/models"
	"github.com/skumar93/folio/mq"
	"github.com/skumar93/folio/store"
)

// PortfolioPublishedMessage is queued by the publish flow. The consumer
// drops the stale cached copy of the slug and re-warms it from the store so
// visitors see the new content on the next request.
type PortfolioPublishedMessage struct {
	OwnerId string `json:"ownerId"`
	Slug    string `json:"slug"`
}

type MQConsumer struct {
	publishedQueue mq.MessageQueue
	folioStore     store.FolioStore
	folioCache     cache.FolioCache
}

func NewMQConsumer(publishedQueue mq.MessageQueue, folioStore store.FolioStore, folioCache cache.FolioCache) *MQConsumer {
	return &MQConsumer{
		publishedQueue: publishedQueue,
		folioStore:     folioStore,
		folioCache:     folioCache,
	}
}

// Invalidate-and-warm is quick; a short visibility timeout keeps redelivery
// snappy if a consumer dies mid-message.
const visibilityTimeout = 30

func (mqConsumer MQConsumer) Run(shutdownCtx context.Context) {
	for {
		msg, err := mqConsumer.publishedQueue.Receive(shutdownCtx, visibilityTimeout)

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			log.Printf("mqConsumer receive error: %v", err)
			continue
		}

		if msg == nil {
			continue
		}

		var published PortfolioPublishedMessage
		if err := json.Unmarshal([]byte(msg.Body), &published); err != nil {
			continue
		}

		// timeout should be a little less than queue visibility timeout
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(visibilityTimeout-1)*time.Second)

		if published.Slug != "" {
			if err := mqConsumer.folioCache.InvalidatePublished(ctx, published.Slug); err != nil {
				log.Printf("Failed to invalidate published cache for %s: %v", published.Slug, err)
			}

			doc, err := mqConsumer.folioStore.GetPortfolio(ctx, published.OwnerId)
			if err != nil {
				log.Printf("Failed to warm published cache for %s: %v", published.Slug, err)
			} else {
				record := models.PublishedPortfolio{OwnerId: published.OwnerId, Doc: doc}
				if docBytes, err := json.Marshal(record); err == nil {
					if err := mqConsumer.folioCache.SetPublished(ctx, published.Slug, docBytes); err != nil {
						log.Printf("Failed to set published cache for %s: %v", published.Slug, err)
					}
				}
			}
		}
		cancel()

		if err := mqConsumer.publishedQueue.Delete(context.Background(), msg); err != nil {
			log.Printf("mqConsumer delete error: %v", err)
			continue
		}
	}
}
