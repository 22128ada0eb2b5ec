// Package export writes schedule snapshots to Cloudflare R2 as dated JSON
// objects, giving operators an audit trail of what the schedule looked like.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/viralengine/slate/internal/config"
	"github.com/viralengine/slate/internal/models"
)

type Exporter struct {
	client *s3.Client
	bucket string
}

// NewExporter builds an R2-backed exporter. Callers should check
// cfg.ExportEnabled() first; credentials are required.
func NewExporter(ctx context.Context, cfg *config.Config) (*Exporter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure R2 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
	})

	return &Exporter{
		client: client,
		bucket: cfg.R2Bucket,
	}, nil
}

// snapshotDocument is the exported object layout.
type snapshotDocument struct {
	Owner      string               `json:"owner"`
	ExportedAt time.Time            `json:"exported_at"`
	Items      []models.ContentItem `json:"items"`
}

// Export uploads the given snapshot and returns the object key.
func (e *Exporter) Export(ctx context.Context, owner string, items []models.ContentItem) (string, error) {
	now := time.Now().UTC()
	doc := snapshotDocument{
		Owner:      owner,
		ExportedAt: now,
		Items:      items,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := fmt.Sprintf("snapshots/%s/%d.json", now.Format("2006/01/02"), now.Unix())
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return key, nil
}
