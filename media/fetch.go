package media

import (
	"context"
	"time"
)

// DefaultDownloadTimeout bounds a single image download.
const DefaultDownloadTimeout = 30 * time.Second

// FetchFunc retrieves the bytes of one media item.
type FetchFunc func(ctx context.Context) ([]byte, error)

type fetchResult struct {
	data []byte
	err  error
}

// Fetch runs fn and waits at most timeout for it. On timeout the context
// passed to fn is cancelled and any late result is discarded. An empty
// result is reported as ErrEmpty.
func Fetch(ctx context.Context, timeout time.Duration, fn FetchFunc) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		data, err := fn(ctx)
		done <- fetchResult{data: data, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if len(res.data) == 0 {
			return nil, ErrEmpty
		}
		return res.data, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
