package checks

import (
	"context"
	"errors"
	"fmt"

	"library-manager/core/storage"
	"library-manager/feature/catalog/orphans"
)

// ErrBucketMissing is returned when the configured bucket does not exist.
var ErrBucketMissing = errors.New("bucket does not exist")

// StorageReport summarizes the bucket contents.
type StorageReport struct {
	Bucket  string               `json:"bucket"`
	Objects int                  `json:"objects"`
	ByKind  map[orphans.Kind]int `json:"by_kind"`
}

// CheckStorage verifies the bucket exists and counts its objects by kind.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string, classifier *orphans.Classifier) (*StorageReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketMissing, bucket)
	}

	keys, err := storage.ListKeys(ctx, client, bucket, prefix)
	if err != nil {
		return nil, err
	}

	report := &StorageReport{
		Bucket: bucket,
		ByKind: map[orphans.Kind]int{
			orphans.KindPrimaryEbook:   0,
			orphans.KindSecondaryEbook: 0,
			orphans.KindAudiobook:      0,
			orphans.KindUnrecognized:   0,
		},
	}
	for _, key := range keys {
		report.Objects++
		report.ByKind[classifier.Classify(key)]++
	}
	return report, nil
}
