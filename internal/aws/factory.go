/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ClientFactory creates AWS clients with proper region configuration
type ClientFactory interface {
	// GetCloudFormationOperations returns CloudFormation operations for specified region
	GetCloudFormationOperations(ctx context.Context, region string) (CloudFormationOperations, error)

	// GetUploader returns an artifact uploader for the region, nil without a bucket
	GetUploader(ctx context.Context, region, bucket, prefix string) (ArtifactUploader, error)

	// DefaultRegion is the region resolved from the shared configuration
	DefaultRegion() string
}

// DefaultClientFactory implements ClientFactory with caching and shared authentication
type DefaultClientFactory struct {
	baseConfig  aws.Config
	clientCache map[string]*DefaultClient
	mutex       sync.RWMutex
}

// NewClientFactory creates a client factory with shared authentication
func NewClientFactory(ctx context.Context, cfg Config) (*DefaultClientFactory, error) {
	baseConfig, err := LoadConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &DefaultClientFactory{
		baseConfig:  baseConfig,
		clientCache: make(map[string]*DefaultClient),
	}, nil
}

func (f *DefaultClientFactory) client(region string) (*DefaultClient, error) {
	if region == "" {
		region = f.baseConfig.Region
	}
	if region == "" {
		return nil, fmt.Errorf("region cannot be empty")
	}

	f.mutex.RLock()
	if c, exists := f.clientCache[region]; exists {
		f.mutex.RUnlock()
		return c, nil
	}
	f.mutex.RUnlock()

	regionConfig := f.baseConfig.Copy()
	regionConfig.Region = region
	c := newClientFromConfig(regionConfig)

	f.mutex.Lock()
	defer f.mutex.Unlock()
	if existing, exists := f.clientCache[region]; exists {
		return existing, nil
	}
	f.clientCache[region] = c
	return c, nil
}

// GetCloudFormationOperations returns CloudFormation operations for the
// specified region, falling back to the default region when empty
func (f *DefaultClientFactory) GetCloudFormationOperations(ctx context.Context, region string) (CloudFormationOperations, error) {
	c, err := f.client(region)
	if err != nil {
		return nil, err
	}
	return c.NewCloudFormationOperations(), nil
}

// GetUploader returns an artifact uploader for the region
func (f *DefaultClientFactory) GetUploader(ctx context.Context, region, bucket, prefix string) (ArtifactUploader, error) {
	c, err := f.client(region)
	if err != nil {
		return nil, err
	}
	return c.NewUploader(bucket, prefix), nil
}

// DefaultRegion returns the region from the shared configuration
func (f *DefaultClientFactory) DefaultRegion() string {
	return f.baseConfig.Region
}
