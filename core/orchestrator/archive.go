package orchestrator

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"price-tracker/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archiver uploads raw source payloads to object storage so a suspicious
// cycle can be replayed or inspected later. Archiving is best effort and
// never blocks reconciliation.
type Archiver struct {
	client storage.Client
	bucket string
}

// NewArchiver ensures the bucket exists and returns the archiver.
func NewArchiver(ctx context.Context, client storage.Client, bucket string) (*Archiver, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("archiver: bucket check failed: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("archiver: bucket create failed: %w", err)
		}
	}
	return &Archiver{client: client, bucket: bucket}, nil
}

// Put stores one payload under raw/<source>/<timestamp>-<cycle>.json.
func (a *Archiver) Put(ctx context.Context, source, cycleID string, payload []byte) error {
	name := fmt.Sprintf("raw/%s/%s-%s.json", source, time.Now().UTC().Format("20060102T150405Z"), cycleID)
	_, err := a.client.PutObject(ctx, a.bucket, name, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("archiver: upload %s: %w", name, err)
	}
	return nil
}
