// Copyright 2025 MediaGenAI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package archive uploads finished deliverables to S3 for long-term
// retention. Archival is optional: when no bucket is configured the
// archiver is disabled, and upload failures are logged but never fail
// the job, since the local deliverable remains the source of truth.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mediagenai/go-trailer-service/internal/config"
)

// Archiver copies rendered deliverables into an S3 bucket.
type Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewArchiver creates an archiver from configuration. A nil archiver (no
// bucket configured) is valid and every method on it is a no-op.
func NewArchiver(ctx context.Context, cfg config.Archive) (*Archiver, error) {
	if cfg.S3Bucket == "" {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Archiver{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.S3Bucket,
		prefix: cfg.S3Prefix,
	}, nil
}

// Enabled reports whether archival is configured.
func (a *Archiver) Enabled() bool { return a != nil }

// ArchiveFile uploads one local file under <prefix>/<jobID>/<basename>.
// Errors are returned for logging; callers must not fail the job on them.
func (a *Archiver) ArchiveFile(ctx context.Context, jobID string, localPath string) (string, error) {
	if a == nil {
		return "", nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open deliverable: %w", err)
	}
	defer f.Close()

	key := path.Join(a.prefix, jobID, path.Base(localPath))
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("video/mp4"),
	})
	if err != nil {
		return "", fmt.Errorf("S3 PutObject: %w", err)
	}

	slog.InfoContext(ctx, "archived deliverable",
		"job_id", jobID,
		"bucket", a.bucket,
		"key", key)
	return key, nil
}
