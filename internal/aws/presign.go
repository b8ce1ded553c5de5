package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImagePresigner hands out short-lived PUT URLs for product image uploads.
// The API never proxies image bytes; clients upload straight to the bucket.
type ImagePresigner struct {
	presign S3PresignAPI
	bucket  string
	expiry  time.Duration
}

func NewImagePresigner(presign S3PresignAPI, bucket string) *ImagePresigner {
	return &ImagePresigner{presign: presign, bucket: bucket, expiry: 15 * time.Minute}
}

// UploadURL returns a presigned PUT URL for the given object key and content
// type, plus the public object URL to store on the product.
func (p *ImagePresigner) UploadURL(ctx context.Context, key, contentType string) (uploadURL, objectURL string, err error) {
	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return "", "", fmt.Errorf("presign put object: %w", err)
	}
	objectURL = fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.bucket, key)
	return req.URL, objectURL, nil
}
