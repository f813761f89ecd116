// Package assets moves inline (data URL) images into an S3-compatible blob
// store and hands back a durable public reference.
//
// Upload never fails: when the store is disabled or any step goes wrong the
// original inline string is kept and the cause is reported alongside it.
package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/logging"
)

var ErrDisabled = errors.New("asset upload is not configured")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Putter is the slice of the S3 API the uploader needs.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	// PublicBaseURL prefixes public object URLs; BaseEndpoint is used when empty.
	PublicBaseURL string
}

// Result is either an uploaded reference or the original inline image kept
// because of Cause.
type Result struct {
	Ref      string
	Uploaded bool
	Cause    error
}

// Value is the string to persist in either case.
func (r Result) Value() string {
	return r.Ref
}

func uploaded(ref string) Result { return Result{Ref: ref, Uploaded: true} }

func keptInline(original string, cause error) Result {
	return Result{Ref: original, Cause: cause}
}

type Uploader struct {
	client Putter
	cfg    Config
	logger logging.Logger
	now    func() time.Time
}

// New builds an uploader backed by S3. An empty bucket yields a disabled
// uploader that keeps every image inline.
func New(ctx context.Context, cfg Config, logger logging.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return NewWithClient(nil, cfg, logger), nil
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			// MinIO and most self-hosted stores only serve path-style URLs.
			o.UsePathStyle = true
		}
	})

	return NewWithClient(client, cfg, logger), nil
}

func NewWithClient(client Putter, cfg Config, logger logging.Logger) *Uploader {
	return &Uploader{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "asset_uploader"),
		now:    time.Now,
	}
}

// Enabled reports whether uploads can reach a blob store.
func (u *Uploader) Enabled() bool {
	return u != nil && u.client != nil && u.cfg.Bucket != ""
}

// Upload stores image under {accountID}/{entityID}/{prefix}_{millis}.{ext}
// when it is inline and returns its public URL. Anything that is not inline
// is returned untouched without contacting the store.
func (u *Uploader) Upload(ctx context.Context, accountID, entityID, image, prefix string) Result {
	if !IsInline(image) {
		return Result{Ref: image}
	}
	if !u.Enabled() {
		return keptInline(image, ErrDisabled)
	}

	ref, err := u.put(ctx, accountID, entityID, image, prefix)
	if err != nil {
		u.logger.Warn(ctx, "image upload failed, keeping inline copy",
			"account", accountID, "entity", entityID, "prefix", prefix, "err", err)
		return keptInline(image, err)
	}
	return uploaded(ref)
}

func (u *Uploader) put(ctx context.Context, accountID, entityID, image, prefix string) (string, error) {
	img, err := ParseDataURL(image)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s_%d.%s", accountID, entityID, prefix, u.now().UnixMilli(), img.Extension())

	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   img.Reader(),
	}
	if img.MIME != "" {
		in.ContentType = aws.String(img.MIME)
	}

	_, err = u.client.PutObject(ctx, in)
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return u.publicURL(key), nil
}

func (u *Uploader) publicURL(key string) string {
	base := u.cfg.PublicBaseURL
	if base == "" {
		base = u.cfg.BaseEndpoint
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), u.cfg.Bucket, key)
}

// IsInline reports whether s is a self-contained data URL.
func IsInline(s string) bool {
	return strings.HasPrefix(s, common.InlineImagePrefix)
}
