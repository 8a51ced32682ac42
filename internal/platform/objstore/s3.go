package objstore

import (
	"bytes"
	"context"
	stderrs "errors"
	"io"
	"sort"
	"time"

	perr "chatclean/internal/platform/errors"
	"chatclean/internal/platform/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3API is the slice of the SDK client we call; tests substitute it
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3 is a Store over one bucket
type S3 struct {
	api       s3API
	bucket    string
	opTimeout time.Duration
}

// NewS3 builds an SDK client from opts. Static credentials win over the default chain
func NewS3(ctx context.Context, opts Options) (*S3, error) {
	var lo []func(*awscfg.LoadOptions) error
	if opts.Region != "" {
		lo = append(lo, awscfg.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		lo = append(lo, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	ac, err := awscfg.LoadDefaultConfig(ctx, lo...)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "load aws config")
	}

	client := s3.NewFromConfig(ac, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.PathStyle
	})

	logger.Named("objstore").Debug().
		Str("bucket", opts.Bucket).
		Str("endpoint", opts.Endpoint).
		Bool("path_style", opts.PathStyle).
		Msg("s3 store ready")

	return newS3WithAPI(client, opts.Bucket, opts.OpTimeout), nil
}

func newS3WithAPI(api s3API, bucket string, opTimeout time.Duration) *S3 {
	return &S3{api: api, bucket: bucket, opTimeout: opTimeout}
}

func (s *S3) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opTimeout)
}

// List pages through ListObjectsV2 with continuation tokens
func (s *S3) List(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	var (
		keys  []string
		token *string
	)
	for {
		out, err := s.api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "list s3://%s/%s", s.bucket, prefix)
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	sort.Strings(keys)
	return keys, nil
}

// Open fetches an object body; the op timeout spans the whole read and ends on Close
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := s.opCtx(ctx)
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		cancel()
		var nsk *types.NoSuchKey
		if stderrs.As(err, &nsk) {
			return nil, perr.WithKey(perr.Wrapf(err, perr.ErrorCodeNotFound, "s3 object %s missing", key), key)
		}
		return nil, perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "get s3://%s/%s", s.bucket, key), key)
	}
	return &cancelOnCloseReader{ReadCloser: out.Body, cancel: cancel}, nil
}

// Put uploads data with a single PutObject
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return perr.WithKey(perr.Wrapf(err, perr.ErrorCodeStorage, "put s3://%s/%s", s.bucket, key), key)
	}
	return nil
}

// ReadText reads a whole object
func (s *S3) ReadText(ctx context.Context, key string) (string, error) {
	return readAllText(ctx, s, key)
}

type cancelOnCloseReader struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *cancelOnCloseReader) Close() error {
	r.cancel()
	return r.ReadCloser.Close()
}
