package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cenkalti/backoff/v4"

	"shotpath/internal/config"
	"shotpath/internal/fileutil"
	"shotpath/internal/logging"
)

// Object metadata keys carrying file attributes across the bucket.
const (
	metaModTime = "shotpath-mtime"
	metaMode    = "shotpath-mode"
)

// ObjectAPI is the subset of the S3 client used by the S3 transport.
type ObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 syncs through a bucket. An absolute local path "/prod/a.exr" is stored
// under the key "<prefix>/prod/a.exr", so both sites agree on keys.
type S3 struct {
	client     ObjectAPI
	bucket     string
	prefix     string
	newBackOff func() backoff.BackOff
	logger     *slog.Logger
}

// S3Option configures an S3 transport.
type S3Option func(*S3)

// WithS3Logger sets the logger used for transfers and retries.
func WithS3Logger(logger *slog.Logger) S3Option {
	return func(s *S3) {
		s.logger = logger
	}
}

// WithMaxRetry bounds the total time spent retrying one object.
func WithMaxRetry(d time.Duration) S3Option {
	return func(s *S3) {
		s.newBackOff = func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = d
			return b
		}
	}
}

// WithBackOff replaces the retry policy.
func WithBackOff(newBackOff func() backoff.BackOff) S3Option {
	return func(s *S3) {
		if newBackOff != nil {
			s.newBackOff = newBackOff
		}
	}
}

// NewS3 returns an S3 transport over client.
func NewS3(client ObjectAPI, bucket, prefix string, opts ...S3Option) *S3 {
	s := &S3{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
	WithMaxRetry(time.Minute)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// NewS3FromConfig builds an S3 client from configuration. Static credentials
// are used when set; otherwise the default AWS credential chain applies.
// Custom endpoints use path-style addressing for MinIO compatibility.
func NewS3FromConfig(ctx context.Context, cfg config.Remote, logger *slog.Logger) (*S3, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	endpoint := strings.TrimSpace(cfg.S3.Endpoint)
	if endpoint != "" && !strings.Contains(endpoint, "://") {
		if cfg.S3.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix,
		WithS3Logger(logger),
		WithMaxRetry(time.Duration(cfg.MaxRetrySeconds)*time.Second),
	), nil
}

// Key returns the object key for an absolute local path.
func (s *S3) Key(localPath string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(localPath), "/")
	if s.prefix == "" {
		return rel
	}
	return s.prefix + "/" + rel
}

// localPath is the inverse of Key.
func (s *S3) localPath(key string) string {
	if s.prefix != "" {
		key = strings.TrimPrefix(key, s.prefix+"/")
	}
	return filepath.FromSlash("/" + key)
}

// Put uploads every local match of pattern.
func (s *S3) Put(ctx context.Context, pattern string) error {
	abs, err := filepath.Abs(pattern)
	if err != nil {
		return err
	}
	matches, err := filepath.Glob(abs)
	if err != nil {
		return fmt.Errorf("glob %s: %w", abs, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("%s: %w", abs, ErrNoMatches)
	}
	for _, local := range matches {
		if err := s.upload(ctx, local); err != nil {
			return err
		}
	}
	s.logger.Info("s3 upload complete",
		slog.String(logging.FieldPath, abs),
		slog.String("bucket", s.bucket),
		slog.Int("files", len(matches)),
	)
	return nil
}

func (s *S3) upload(ctx context.Context, local string) error {
	key := s.Key(local)
	return s.retry(ctx, "put "+key, func() error {
		info, err := os.Stat(local)
		if err != nil {
			return backoff.Permanent(err)
		}
		f, err := os.Open(local)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer f.Close()

		_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   f,
			Metadata: map[string]string{
				metaModTime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
				metaMode:    strconv.FormatUint(uint64(info.Mode().Perm()), 8),
			},
		})
		return err
	})
}

// Get downloads every object whose local path matches pattern.
func (s *S3) Get(ctx context.Context, pattern string) error {
	abs, err := filepath.Abs(pattern)
	if err != nil {
		return err
	}
	keys, err := s.list(ctx, s.Key(filepath.Dir(abs))+"/")
	if err != nil {
		return err
	}

	fetched := 0
	for _, key := range keys {
		local := s.localPath(key)
		ok, err := filepath.Match(abs, local)
		if err != nil {
			return fmt.Errorf("match %s: %w", abs, err)
		}
		if !ok {
			continue
		}
		if err := s.download(ctx, key, local); err != nil {
			return err
		}
		fetched++
	}
	if fetched == 0 {
		return fmt.Errorf("%s: %w", abs, ErrNoMatches)
	}
	s.logger.Info("s3 download complete",
		slog.String(logging.FieldPath, abs),
		slog.String("bucket", s.bucket),
		slog.Int("files", fetched),
	)
	return nil
}

func (s *S3) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		var page *s3.ListObjectsV2Output
		err := s.retry(ctx, "list "+prefix, func() error {
			var err error
			page, err = paginator.NextPage(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (s *S3) download(ctx context.Context, key, local string) error {
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(local), err)
	}
	return s.retry(ctx, "get "+key, func() error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return err
		}
		defer out.Body.Close()

		mode, modTime := objectAttributes(out)
		if err := fileutil.WriteFileAtomic(local, out.Body, mode, modTime); err != nil {
			var pathErr *os.PathError
			if errors.As(err, &pathErr) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	})
}

func objectAttributes(out *s3.GetObjectOutput) (os.FileMode, time.Time) {
	mode := os.FileMode(0o644)
	if raw, ok := out.Metadata[metaMode]; ok {
		if parsed, err := strconv.ParseUint(raw, 8, 32); err == nil {
			mode = os.FileMode(parsed)
		}
	}
	var modTime time.Time
	if raw, ok := out.Metadata[metaModTime]; ok {
		if nanos, err := strconv.ParseInt(raw, 10, 64); err == nil {
			modTime = time.Unix(0, nanos)
		}
	} else if out.LastModified != nil {
		modTime = *out.LastModified
	}
	return mode, modTime
}

func (s *S3) retry(ctx context.Context, op string, fn func() error) error {
	notify := func(err error, wait time.Duration) {
		s.logger.Warn("s3 request failed, retrying",
			slog.String("op", op),
			slog.Duration("wait", wait),
			logging.Error(err),
		)
	}
	return backoff.RetryNotify(fn, backoff.WithContext(s.newBackOff(), ctx), notify)
}
