package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

const defaultRegion = "us-east-1"

// Settings controls how the SDK config is resolved.
type Settings struct {
	Region string
	// EndpointOverride points every client at a single endpoint, e.g. LocalStack.
	EndpointOverride string
}

// LoadAWSConfig resolves the shared SDK config for the given settings.
func LoadAWSConfig(ctx context.Context, s Settings) (sdkaws.Config, error) {
	region := s.Region
	if region == "" {
		region = defaultRegion
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if s.EndpointOverride != "" {
		cfg.BaseEndpoint = sdkaws.String(s.EndpointOverride)
	}

	return cfg, nil
}
