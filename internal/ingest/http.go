package ingest

import (
	"context"

	"github.com/AngelCh415/campaign-dashboard/internal/utils"
)

// FetchWithRetry downloads url, retrying transport errors, 429 and 5xx
// answers with exponential backoff.
func FetchWithRetry(ctx context.Context, c HTTPClient, b utils.Backoff, url string) ([]byte, error) {
	var body []byte
	err := b.Do(ctx, func(int) error {
		var err error
		body, err = fetch(ctx, c, url)
		if err != nil && !retryable(err) {
			return utils.Permanent(err)
		}
		return err
	})
	return body, err
}
