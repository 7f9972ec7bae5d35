package worker

import (
	"context"
	"log"
	"time"

	"github.com/skumar93/folio/store"
)

type ViewUpdate struct {
	OwnerId string
	Delta   int
}

// ViewBatcher coalesces public page views and flushes them into the
// portfolio documents on a timer, so a popular page does not turn every
// read into a Dynamo write.
type ViewBatcher struct {
	UpdateCh           chan ViewUpdate
	folioStore         store.FolioStore
	tickerMilliseconds int
}

func NewViewBatcher(folioStore store.FolioStore, tickerMilliseconds int) *ViewBatcher {
	return &ViewBatcher{
		UpdateCh:           make(chan ViewUpdate, 1024),
		folioStore:         folioStore,
		tickerMilliseconds: tickerMilliseconds,
	}
}

func (b *ViewBatcher) Run(shutdownCtx context.Context) {
	ticker := time.NewTicker(time.Duration(b.tickerMilliseconds) * time.Millisecond)
	defer ticker.Stop()

	viewCounts := make(map[string]int)

	flush := func() {
		for ownerId, count := range viewCounts {
			if count == 0 {
				continue
			}
			go func(id string, c int) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := b.folioStore.IncrementPortfolioViews(ctx, id, c); err != nil {
					log.Printf("Failed to update view count for portfolio %s: %v", id, err)
				}
			}(ownerId, count)
		}
		viewCounts = make(map[string]int)
	}

	for {
		select {
		case update := <-b.UpdateCh:
			if update.OwnerId != "" {
				viewCounts[update.OwnerId] += update.Delta
			}

			if len(viewCounts) >= 100 {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-shutdownCtx.Done():
			flush()
			return
		}
	}
}

// Record is the non-blocking producer side; a full channel drops the view
// rather than stalling a public page load.
func (b *ViewBatcher) Record(ownerId string) {
	select {
	case b.UpdateCh <- ViewUpdate{OwnerId: ownerId, Delta: 1}:
	default:
		log.Printf("View batcher channel full, dropping view for %s", ownerId)
	}
}
