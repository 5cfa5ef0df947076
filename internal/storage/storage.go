package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Storage persists media payloads and returns a client-retrievable URL
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// RandomKey builds a date-partitioned object key like
// recipes/2026/8/30/<uuid>.png
func RandomKey(prefix, ext string) string {
	d := time.Now()
	return fmt.Sprintf("%s/%d/%d/%d/%v.%s", prefix, d.Year(), int(d.Month()), d.Day(), uuid.New(), ext)
}
