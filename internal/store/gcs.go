package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/NataKl/weather-API/internal/domain"
)

// GCS keeps the user document as a single Cloud Storage object.
type GCS struct {
	client *storage.Client
	bucket string
	object string
	log    *zap.Logger

	retryDelay  time.Duration
	retryJitter time.Duration
}

// OpenGCS creates a Cloud Storage client using application default
// credentials unless opts say otherwise.
func OpenGCS(ctx context.Context, bucket, object string, log *zap.Logger, opts ...option.ClientOption) (*GCS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{
		client:      client,
		bucket:      bucket,
		object:      object,
		log:         log,
		retryDelay:  time.Second,
		retryJitter: 5 * time.Second,
	}, nil
}

// Load reads the document; a missing object yields an empty map.
func (g *GCS) Load(ctx context.Context) (map[int64]domain.User, error) {
	var (
		data    []byte
		missing bool
	)
	err := retry.Do(
		func() error {
			r, openErr := g.client.Bucket(g.bucket).Object(g.object).NewReader(ctx)
			if openErr != nil {
				if errors.Is(openErr, storage.ErrObjectNotExist) {
					missing = true
					return nil
				}
				return fmt.Errorf("open storage reader: %w", openErr)
			}
			defer func() {
				if closeErr := r.Close(); closeErr != nil {
					g.log.Warn("close storage reader", zap.Error(closeErr))
				}
			}()

			var readErr error
			data, readErr = io.ReadAll(r)
			if readErr != nil {
				return fmt.Errorf("read from storage: %w", readErr)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(g.retryDelay),
		retry.MaxDelay(time.Minute),
		retry.MaxJitter(g.retryJitter),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.log.Info("retrying user document load", zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("load after retries: %w", err)
	}
	if missing {
		return make(map[int64]domain.User), nil
	}

	users, skipped, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		g.log.Warn("skipped malformed user entries", zap.Int("skipped", skipped))
	}
	return users, nil
}

// Save overwrites the object with the full document.
func (g *GCS) Save(ctx context.Context, users map[int64]domain.User) error {
	data, err := encodeDocument(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	err = retry.Do(
		func() error {
			w := g.client.Bucket(g.bucket).Object(g.object).NewWriter(ctx)
			w.ContentType = "application/json"
			if _, writeErr := w.Write(data); writeErr != nil {
				if closeErr := w.Close(); closeErr != nil {
					g.log.Warn("close writer after error", zap.Error(closeErr))
				}
				return fmt.Errorf("write to storage: %w", writeErr)
			}
			if closeErr := w.Close(); closeErr != nil {
				return fmt.Errorf("close storage writer: %w", closeErr)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(g.retryDelay),
		retry.MaxDelay(time.Minute),
		retry.MaxJitter(g.retryJitter),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.log.Info("retrying user document save", zap.Uint("attempt", n), zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("save after retries: %w", err)
	}
	return nil
}

// Close releases the storage client.
func (g *GCS) Close() error { return g.client.Close() }
