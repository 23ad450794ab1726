package workers

import (
	"context"
	"log"
	"time"

	"proofmeet-backend/internal/storage"
)

// StartTokenSweeper periodically deletes expired auth tokens. Resolution
// already rejects expired tokens; the sweeper just keeps the store from
// accumulating them.
func StartTokenSweeper(ctx context.Context, store storage.Store, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweepOnce(ctx, store)
			}
		}
	}()
	log.Println("INFO Token sweeper started")
}

func sweepOnce(ctx context.Context, store storage.Store) {
	n, err := store.DeleteExpiredTokens(ctx, time.Now())
	if err != nil {
		log.Printf("WARN Token sweeper error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Token sweeper removed %d expired tokens", n)
	}
}
