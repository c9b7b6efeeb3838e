package backup

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/storage"
	"go.uber.org/zap"
)

// collections backed up weekly, one JSON array object per collection.
var collections = []string{"users", "schools", "classrooms", "progress", "certificates"}

func Run(ctx context.Context, database *sql.DB, bucket storage.Bucket, log *zap.SugaredLogger) error {
	if bucket == nil {
		log.Infow("backup skipped: object storage not configured")
		return nil
	}

	date := time.Now().UTC()
	for _, name := range collections {
		data, err := db.DumpCollectionJSON(ctx, database, name)
		if err != nil {
			return fmt.Errorf("dump %s: %w", name, err)
		}
		key := objectKey(date, name)
		if err := bucket.Put(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		log.Infow("collection backed up", "collection", name, "key", key, "bytes", len(data))
	}
	return nil
}

func objectKey(date time.Time, collection string) string {
	return fmt.Sprintf("backups/%s/%s.json", date.Format("2006-01-02"), collection)
}
