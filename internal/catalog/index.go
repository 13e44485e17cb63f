package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shotpath/internal/entity"
	"shotpath/internal/logging"
	"shotpath/internal/pathutil"
	"shotpath/internal/version"
)

// RecordFor describes e as a catalog record stamped with now.
func RecordFor(e entity.Entity, now time.Time) Record {
	info := e.Info()
	ref := e.ReferencePath()
	v := version.ExtractVersion(ref)
	shot, _ := version.ExtractShot(ref)

	rec := Record{
		Ref:            ref,
		Kind:           e.Kind().String(),
		Basename:       e.Basename(),
		Label:          info.Label,
		Online:         info.Online,
		HasRange:       info.HasRange,
		StartFrame:     info.StartFrame,
		EndFrame:       info.EndFrame,
		AvailableCount: info.AvailableCount,
		MissingFrames:  info.MissingFrames,
		Version:        v.Number,
		Take:           v.Take,
		HasTake:        v.HasTake,
		User:           v.User,
		Shot:           shot,
		IndexedAt:      now,
	}
	if !info.Online {
		return rec
	}
	for _, p := range e.Paths() {
		rec.SizeBytes += pathutil.SizeInBytes(p)
	}
	if owner, err := e.Owner(); err == nil {
		rec.Owner = owner
	}
	return rec
}

// IndexFolder lists folder and upserts one record per entity in a single
// transaction. It returns the number of records written.
func (s *Store) IndexFolder(ctx context.Context, folder string, opts ...entity.Option) (int, error) {
	entities, err := entity.List(folder, opts...)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", folder, err)
	}

	now := time.Now()
	recs := make([]Record, 0, len(entities))
	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		recs = append(recs, RecordFor(e, now))
	}
	if err := s.UpsertAll(ctx, recs); err != nil {
		return 0, err
	}

	s.logger.Info("indexed folder",
		slog.String(logging.FieldPath, folder),
		slog.Int("entities", len(recs)),
	)
	return len(recs), nil
}
