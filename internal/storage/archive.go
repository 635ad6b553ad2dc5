// Package storage keeps copies of donation exports outside the database.
package storage

import (
	"context"
	"fmt"
	"time"
)

// Archive stores an export under key and reports where it ended up.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ExportKey names an archived export: exports/YYYY/MM/<name>-<timestamp>.<ext>.
func ExportKey(name, ext string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("exports/%04d/%02d/%s-%s.%s", at.Year(), int(at.Month()), name, at.Format("20060102T150405Z"), ext)
}
