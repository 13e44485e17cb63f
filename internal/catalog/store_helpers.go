package catalog

import (
	"database/sql"
	"encoding/json"
	"time"
)

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec        Record
		label      sql.NullString
		online     int
		startFrame sql.NullInt64
		endFrame   sql.NullInt64
		missing    sql.NullString
		owner      sql.NullString
		take       sql.NullInt64
		user       sql.NullString
		shot       sql.NullString
		indexedRaw string
	)
	if err := scanner.Scan(
		&rec.Ref,
		&rec.Kind,
		&rec.Basename,
		&label,
		&online,
		&startFrame,
		&endFrame,
		&rec.AvailableCount,
		&missing,
		&rec.SizeBytes,
		&owner,
		&rec.Version,
		&take,
		&user,
		&shot,
		&indexedRaw,
	); err != nil {
		return nil, err
	}

	rec.Label = label.String
	rec.Online = online != 0
	if startFrame.Valid && endFrame.Valid {
		rec.HasRange = true
		rec.StartFrame = int(startFrame.Int64)
		rec.EndFrame = int(endFrame.Int64)
	}
	if missing.Valid && missing.String != "" {
		if err := json.Unmarshal([]byte(missing.String), &rec.MissingFrames); err != nil {
			return nil, err
		}
	}
	rec.Owner = owner.String
	if take.Valid {
		rec.HasTake = true
		rec.Take = int(take.Int64)
	}
	rec.User = user.String
	rec.Shot = shot.String
	if ts, err := time.Parse(time.RFC3339Nano, indexedRaw); err == nil {
		rec.IndexedAt = ts
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int, valid bool) any {
	if !valid {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
