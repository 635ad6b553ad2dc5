package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"kovil/internal/domain"
	"kovil/internal/storage"
)

// Archive renders items in format and stores the result in every sink,
// returning the locations in sink order.
func Archive(ctx context.Context, sinks []storage.Archive, format string, items []domain.Donation, loc *time.Location, at time.Time) ([]string, error) {
	if len(sinks) == 0 {
		return nil, fmt.Errorf("export: no archive configured")
	}
	if format == "" {
		format = "csv"
	}
	var buf bytes.Buffer
	if err := Write(&buf, format, items, loc); err != nil {
		return nil, err
	}
	key := storage.ExportKey("donations", format, at)
	locations := make([]string, 0, len(sinks))
	for _, sink := range sinks {
		where, err := sink.Put(ctx, key, buf.Bytes(), ContentType(format))
		if err != nil {
			return locations, err
		}
		locations = append(locations, where)
	}
	return locations, nil
}
