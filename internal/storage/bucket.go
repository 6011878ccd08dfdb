package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/geniusclasses/backend/internal/platform/logger"
)

// BucketService is the blob-store boundary. Uploads stream in fixed-size
// chunks so callers get a monotonic progress feed, and cancellation is
// honored cooperatively at chunk boundaries: a cancelled upload deletes its
// partially written object before returning.
type BucketService interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, onProgress func(sent, total int64)) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteByURL(ctx context.Context, publicURL string) error
	PublicURL(key string) string
}

const uploadChunkSize = 256 * 1024

type bucketService struct {
	log    *logger.Logger
	client *gcs.Client
	scheme urlScheme
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucketName := os.Getenv("GCS_BUCKET_NAME")
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}

	scheme := urlScheme{
		bucket:    bucketName,
		cdnDomain: strings.TrimSpace(os.Getenv("CDN_DOMAIN")),
		baseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_PUBLIC_BASE_URL")), "/"),
	}

	ctx := context.Background()
	var opts []option.ClientOption
	if emulator := strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")); emulator != "" {
		opts = append(opts, option.WithoutAuthentication())
	} else if saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"); saPath != "" {
		opts = append(opts, option.WithCredentialsFile(saPath))
	}
	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog.Info("Object storage initialized",
		"bucket", bucketName,
		"cdn_domain", scheme.cdnDomain,
		"public_base_url", scheme.baseURL,
	)

	return &bucketService{log: serviceLog, client: client, scheme: scheme}, nil
}

func (bs *bucketService) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, onProgress func(sent, total int64)) (string, error) {
	w := bs.client.Bucket(bs.scheme.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = uploadChunkSize

	buf := make([]byte, uploadChunkSize)
	var sent int64
	for {
		if err := ctx.Err(); err != nil {
			_ = w.Close()
			bs.dropPartial(key)
			return "", fmt.Errorf("upload cancelled: %w", err)
		}
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				_ = w.Close()
				bs.dropPartial(key)
				return "", fmt.Errorf("write to bucket: %w", werr)
			}
			sent += int64(n)
			if onProgress != nil {
				onProgress(sent, size)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			_ = w.Close()
			bs.dropPartial(key)
			return "", fmt.Errorf("read upload body: %w", rerr)
		}
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return bs.scheme.publicURL(key), nil
}

// dropPartial removes whatever a failed or cancelled upload left behind.
// Uses a fresh context because the caller's is typically already dead.
func (bs *bucketService) dropPartial(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := bs.client.Bucket(bs.scheme.bucket).Object(key).Delete(ctx); err != nil && err != gcs.ErrObjectNotExist {
		bs.log.Warn("Could not remove partial upload", "key", key, "error", err)
	}
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.client.Bucket(bs.scheme.bucket).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) DeleteByURL(ctx context.Context, publicURL string) error {
	key, err := bs.scheme.keyFromURL(publicURL)
	if err != nil {
		return err
	}
	return bs.Delete(ctx, key)
}

func (bs *bucketService) PublicURL(key string) string {
	return bs.scheme.publicURL(key)
}

// urlScheme maps object keys to publicly dereferenceable URLs and back.
// The persisted asset reference is always the URL, never the raw key, so
// deletion has to recover the key from whatever URL form was stored.
type urlScheme struct {
	bucket    string
	cdnDomain string
	baseURL   string
}

func (s urlScheme) publicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

func (s urlScheme) keyFromURL(publicURL string) (string, error) {
	raw := publicURL
	if i := strings.Index(raw, "?"); i != -1 {
		raw = raw[:i]
	}

	prefixes := []string{
		fmt.Sprintf("https://storage.googleapis.com/%s/", s.bucket),
	}
	if s.cdnDomain != "" {
		prefixes = append(prefixes, fmt.Sprintf("https://%s/", s.cdnDomain))
	}
	if s.baseURL != "" {
		prefixes = append(prefixes, fmt.Sprintf("%s/%s/", s.baseURL, s.bucket))
	}

	for _, p := range prefixes {
		if strings.HasPrefix(raw, p) {
			key := strings.TrimPrefix(raw, p)
			if unescaped, err := url.PathUnescape(key); err == nil {
				key = unescaped
			}
			if key == "" {
				break
			}
			return key, nil
		}
	}
	return "", fmt.Errorf("cannot resolve object key from URL %q", publicURL)
}
