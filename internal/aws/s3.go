/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/orien/stackpilot/internal/console"
	"github.com/orien/stackpilot/internal/opt"
)

// ArtifactKind names what is being staged, and the key segment it lands under
type ArtifactKind string

const (
	ArtifactTemplate    ArtifactKind = "template"
	ArtifactStackPolicy ArtifactKind = "policy"
)

// Inline size limits enforced by CloudFormation
const (
	TemplateBodyLimit    = 51200
	StackPolicyBodyLimit = 16384
)

// ErrNoArtifactBucket is returned when a body is too large to send inline and
// no bucket is configured to stage it
var ErrNoArtifactBucket = errors.New("no artifact bucket configured")

// Limit returns the largest body CloudFormation accepts inline for the kind
func (k ArtifactKind) Limit() int {
	if k == ArtifactStackPolicy {
		return StackPolicyBodyLimit
	}
	return TemplateBodyLimit
}

// S3Uploader stages artifacts in a bucket keyed by content hash
type S3Uploader struct {
	client S3Client
	bucket string
	prefix string
	region string
}

// NewS3Uploader creates an uploader for the bucket in the given region
func NewS3Uploader(client S3Client, bucket, prefix, region string) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		region: region,
	}
}

// Key returns the object key a body is stored under
func (u *S3Uploader) Key(kind ArtifactKind, body string) string {
	sum := sha256.Sum256([]byte(body))
	return path.Join(u.prefix, string(kind), hex.EncodeToString(sum[:])+".json")
}

// URL returns the HTTPS URL of an object key
func (u *S3Uploader) URL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.%s/%s", u.bucket, u.region, console.DNSSuffix(u.region), key)
}

// Upload stores the body and returns its HTTPS URL. Bodies within the inline
// limit are not uploaded and yield "".
func (u *S3Uploader) Upload(ctx context.Context, kind ArtifactKind, body string) (string, error) {
	if len(body) <= kind.Limit() {
		return "", nil
	}

	key := u.Key(kind, body)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(u.bucket),
		Key:                  aws.String(key),
		Body:                 strings.NewReader(body),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s/%s: %w", kind, u.bucket, key, err)
	}

	return u.URL(key), nil
}

// StageArtifact decides how a body reaches CloudFormation. Small bodies are
// sent inline; larger ones go through the uploader, which may be nil when no
// bucket is configured.
func StageArtifact(ctx context.Context, uploader ArtifactUploader, kind ArtifactKind, body string) (TemplateSource, error) {
	if body == "" {
		return TemplateSource{}, nil
	}
	if len(body) <= kind.Limit() {
		return TemplateSource{Body: opt.Some(body)}, nil
	}
	if uploader == nil {
		return TemplateSource{}, fmt.Errorf("%s is %d bytes, over the %d byte inline limit: %w", kind, len(body), kind.Limit(), ErrNoArtifactBucket)
	}

	url, err := uploader.Upload(ctx, kind, body)
	if err != nil {
		return TemplateSource{}, err
	}
	return TemplateSource{URL: opt.Some(url)}, nil
}
