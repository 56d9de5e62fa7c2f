package appserver

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/hpowernl/wafcli/internal/config"
	"github.com/rs/zerolog"
)

// MetadataSource reads one instance metadata path
type MetadataSource interface {
	GetMetadata(ctx context.Context, path string) (string, error)
}

// IMDSSource reads metadata from the EC2 instance metadata service
type IMDSSource struct {
	client *imds.Client
}

// NewIMDSSource creates a source backed by the default IMDS endpoint
func NewIMDSSource() *IMDSSource {
	return &IMDSSource{client: imds.New(imds.Options{})}
}

// GetMetadata fetches latest/meta-data/<path>
func (s *IMDSSource) GetMetadata(ctx context.Context, path string) (string, error) {
	out, err := s.client.GetMetadata(ctx, &imds.GetMetadataInput{Path: path})
	if err != nil {
		return "", err
	}
	defer out.Content.Close()

	body, err := io.ReadAll(out.Content)
	if err != nil {
		return "", fmt.Errorf("failed to read metadata %s: %w", path, err)
	}
	return string(body), nil
}

// MetadataClient looks up instance metadata with a timeout, caching answers.
// Off EC2 every lookup falls back to a mock value derived from the path.
type MetadataClient struct {
	source  MetadataSource
	cache   *expirable.LRU[string, string]
	timeout time.Duration
	logger  zerolog.Logger
}

// NewMetadataClient creates a client over source
func NewMetadataClient(source MetadataSource, settings config.MetadataSettings, logger zerolog.Logger) *MetadataClient {
	return &MetadataClient{
		source:  source,
		cache:   expirable.NewLRU[string, string](settings.CacheMax, nil, settings.CacheTTL),
		timeout: settings.Timeout,
		logger:  logger,
	}
}

// Get returns the metadata value for path or its mock value
func (m *MetadataClient) Get(ctx context.Context, path string) string {
	if value, ok := m.cache.Get(path); ok {
		return value
	}

	lookupCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	value, err := m.source.GetMetadata(lookupCtx, path)
	if err != nil {
		m.logger.Debug().Err(err).Str("path", path).Msg("Metadata unavailable, using mock value")
		value = MockMetadata(path)
	}

	m.cache.Add(path, value)
	return value
}

// MockMetadata is the value reported when the metadata service cannot be reached
func MockMetadata(path string) string {
	return "mock-" + strings.ReplaceAll(path, "/", "-")
}
