/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/config/file"
	"github.com/orien/stackpilot/internal/deploy"
	"github.com/orien/stackpilot/internal/diff"
	"github.com/orien/stackpilot/internal/resolve"
	"github.com/spf13/cobra"
)

var (
	// clientFactory can be injected for testing
	clientFactory aws.ClientFactory

	// deployerFactory can be injected for testing
	deployerFactory deploy.Factory
)

// SetClientFactory allows injection of an AWS client factory (for testing)
func SetClientFactory(f aws.ClientFactory) {
	clientFactory = f
}

// SetDeployerFactory allows injection of a deployer factory (for testing)
func SetDeployerFactory(f deploy.Factory) {
	deployerFactory = f
}

// environment is everything a command needs to act on the deploy file
type environment struct {
	provider  config.ConfigProvider
	config    *config.Config
	clients   aws.ClientFactory
	resolver  resolve.Resolver
	deployers deploy.Factory
}

// newEnvironment loads the deploy file and wires the AWS collaborators
func newEnvironment(cmd *cobra.Command) (*environment, error) {
	ctx := cmd.Context()

	provider := file.NewProvider(globals.configFile)
	cfg, err := provider.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := getClientFactory(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deployers := deployerFactory
	if deployers == nil {
		deployers = newDeployerFactory(cmd.OutOrStdout(), cfg, clients)
	}

	return &environment{
		provider:  provider,
		config:    cfg,
		clients:   clients,
		resolver:  resolve.NewStackResolver(provider, clients),
		deployers: withRegionOverride(deployers),
	}, nil
}

// region applies the --region override to a configured region
func (e *environment) region(configured string) string {
	if globals.region != "" {
		return globals.region
	}
	return configured
}

func getClientFactory(ctx context.Context, cfg *config.Config) (aws.ClientFactory, error) {
	if clientFactory != nil {
		return clientFactory, nil
	}

	awsConfig := aws.Config{Region: cfg.Region, Profile: cfg.Profile}
	if globals.region != "" {
		awsConfig.Region = globals.region
	}
	if globals.profile != "" {
		awsConfig.Profile = globals.profile
	}

	f, err := aws.NewClientFactory(ctx, awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return f, nil
}

// newDeployerFactory builds deployers that share the terminal output and the
// artifact bucket of the deploy file
func newDeployerFactory(out io.Writer, cfg *config.Config, clients aws.ClientFactory) deploy.Factory {
	styles := diff.NewStyles(!globals.noColor && diff.ShouldUseColour())

	return func(ctx context.Context, region string) (deploy.Deployer, error) {
		if region == "" {
			region = clients.DefaultRegion()
		}
		ops, err := clients.GetCloudFormationOperations(ctx, region)
		if err != nil {
			return nil, err
		}

		opts := []deploy.Option{
			deploy.WithOutput(out),
			deploy.WithStyles(styles),
			deploy.WithRegion(region),
		}
		if cfg.Artifacts.Bucket != "" {
			uploader, err := clients.GetUploader(ctx, region, cfg.Artifacts.Bucket, cfg.Artifacts.Prefix)
			if err != nil {
				return nil, err
			}
			opts = append(opts, deploy.WithUploader(uploader))
		}
		return deploy.NewStackDeployer(ops, opts...), nil
	}
}

func withRegionOverride(next deploy.Factory) deploy.Factory {
	return func(ctx context.Context, region string) (deploy.Deployer, error) {
		if globals.region != "" {
			region = globals.region
		}
		return next(ctx, region)
	}
}

// printConsoleHint points at the AWS console when err carries a link
func printConsoleHint(out io.Writer, err error) {
	var linker deploy.ConsoleLinker
	if errors.As(err, &linker) && linker.ConsoleURL() != "" {
		fmt.Fprintf(out, "See %s\n", linker.ConsoleURL())
	}
}
