package manifest

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/routetable/internal/config"
	"github.com/vango-dev/routetable/internal/errors"
)

// Source produces a manifest on demand.
type Source interface {
	Load(ctx context.Context) (*Manifest, error)
	String() string
}

// FileSource reads a manifest from the local filesystem.
type FileSource struct {
	Path   string
	Format string
}

// Load reads and decodes the file.
func (s *FileSource) Load(ctx context.Context) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, errors.New("R042").
			WithDetail(fmt.Sprintf("Failed to read %s: %v", s.Path, err)).
			Wrap(err)
	}
	return Decode(s.Path, data, s.format())
}

func (s *FileSource) format() string {
	if s.Format != "" {
		return s.Format
	}
	return config.FormatFromExt(s.Path)
}

func (s *FileSource) String() string {
	return s.Path
}

// S3API is the subset of the S3 client used to fetch manifests.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a manifest object from S3.
type S3Source struct {
	Client S3API
	Bucket string
	Key    string
	Format string
}

// Load fetches and decodes the object.
func (s *S3Source) Load(ctx context.Context) (*Manifest, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, errors.New("R042").
			WithDetail(fmt.Sprintf("Failed to fetch %s: %v", s, err)).
			Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.New("R042").
			WithDetail(fmt.Sprintf("Failed to read %s: %v", s, err)).
			Wrap(err)
	}

	format := s.Format
	if format == "" {
		format = config.FormatFromExt(s.Key)
	}
	return Decode(s.String(), data, format)
}

func (s *S3Source) String() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// NewS3Client builds an S3 client from the standard AWS environment
// variables. Without an access key the client sends anonymous requests.
// AWS_ENDPOINT_URL_S3 selects an S3-compatible endpoint with path-style
// addressing.
func NewS3Client(region string) *s3.Client {
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.AnonymousCredentials{},
	}
	if id := os.Getenv("AWS_ACCESS_KEY_ID"); id != "" {
		creds := aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "Environment",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	if endpoint := os.Getenv("AWS_ENDPOINT_URL_S3"); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// FromConfig returns the manifest source named by cfg. client is used for
// S3 manifests; when nil a client is built with NewS3Client.
func FromConfig(cfg *config.Config, client S3API) Source {
	if s := cfg.Manifest.S3; s != nil {
		if client == nil {
			client = NewS3Client(s.Region)
		}
		return &S3Source{
			Client: client,
			Bucket: s.Bucket,
			Key:    s.Key,
			Format: cfg.ManifestFormat(),
		}
	}
	return &FileSource{
		Path:   cfg.ManifestPath(),
		Format: cfg.ManifestFormat(),
	}
}
