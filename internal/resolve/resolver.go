/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package resolve turns deploy file configuration into deploy inputs:
// templates are read and rendered, parameters resolved, and stacks ordered
// by their dependencies.
package resolve

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/orien/stackpilot/internal/config"
	"github.com/orien/stackpilot/internal/deploy"
)

// ResolvedStack is a stack ready to hand to a deploy.Deployer
type ResolvedStack struct {
	Name         string
	Region       string
	Input        deploy.DeployStackInput
	Dependencies []string
}

// ResolvedStackSet is a stack set ready to hand to a deploy.Deployer
type ResolvedStackSet struct {
	Name   string
	Region string
	Input  deploy.DeployStackSetInput
}

// Resolver resolves configuration into deployment-ready inputs
type Resolver interface {
	ResolveStack(ctx context.Context, stackName string) (*ResolvedStack, error)
	ResolveStackSet(ctx context.Context, stackSetName string) (*ResolvedStackSet, error)
	GetDependencyOrder(stackNames []string) ([]string, error)
}

// dependencyOrder sorts stacks so every stack follows the stacks it depends
// on. Dependencies outside stackNames are ignored. Ties are broken by name.
func dependencyOrder(provider config.ConfigProvider, stackNames []string) ([]string, error) {
	inSet := make(map[string]bool, len(stackNames))
	for _, name := range stackNames {
		inSet[name] = true
	}

	inDegree := make(map[string]int, len(stackNames))
	dependents := make(map[string][]string, len(stackNames))
	for name := range inSet {
		stackConfig, err := provider.GetStack(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get stack %s: %w", name, err)
		}
		inDegree[name] = 0
		for _, dep := range stackConfig.Dependencies {
			if !inSet[dep] {
				continue
			}
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	slices.Sort(queue)

	order := make([]string, 0, len(inDegree))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, next := range dependents[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				slices.Sort(queue)
			}
		}
	}

	if len(order) != len(inDegree) {
		var cyclic []string
		for name, degree := range inDegree {
			if degree > 0 {
				cyclic = append(cyclic, name)
			}
		}
		slices.Sort(cyclic)
		return nil, fmt.Errorf("circular dependency detected between stacks: %s", strings.Join(cyclic, ", "))
	}
	return order, nil
}
