/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/console"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
)

// DeployStackSetInput describes a stack set and where its instances run
type DeployStackSetInput struct {
	StackSetName          string
	Description           opt.Value[string]
	TemplateBody          string
	TemplateURL           opt.Value[string]
	Parameters            []model.Parameter
	Tags                  map[string]string
	Capabilities          []string
	PermissionModel       opt.Value[string]
	AdministrationRoleARN opt.Value[string]
	ExecutionRoleName     opt.Value[string]
	Accounts              []string
	Regions               []string
	Preferences           aws.OperationPreferences

	SkipPrompt                 bool
	Wait                       bool
	RaiseErrorUntilExecStopped bool
	Delays                     time.Duration
	Timeout                    time.Duration
}

// Validate checks the input before any call is made
func (in DeployStackSetInput) Validate() error {
	if in.StackSetName == "" {
		return errors.New("stack set name is required")
	}
	if in.TemplateBody == "" && !in.TemplateURL.IsSet() {
		return fmt.Errorf("stack set %s: a template body or URL is required", in.StackSetName)
	}
	if (len(in.Accounts) == 0) != (len(in.Regions) == 0) {
		return fmt.Errorf("stack set %s: accounts and regions must be given together", in.StackSetName)
	}
	return nil
}

// DeployStackSetResult reports what a stack set deployment did
type DeployStackSetResult struct {
	IsCreate     bool
	Declined     bool
	OperationIDs []string
	Instances    []*model.StackInstance
}

// RemoveStackSetInput describes a stack set deletion
type RemoveStackSetInput struct {
	StackSetName   string
	RetainStacks   bool
	IgnoreNotExist bool
	SkipPrompt     bool
	Preferences    aws.OperationPreferences
	Delays         time.Duration
	Timeout        time.Duration
}

// WaitStackInstancesInput controls how WaitStackInstances polls
type WaitStackInstancesInput struct {
	StackSetName string
	// RaiseErrorUntilExecStopped raises on the first failed instance instead
	// of waiting for every instance to stop
	RaiseErrorUntilExecStopped bool
	Delays                     time.Duration
	Timeout                    time.Duration
}

// DeployStackSet creates or updates a stack set, then adds instances for
// every account and region that does not have one yet
func (d *StackDeployer) DeployStackSet(ctx context.Context, input DeployStackSetInput) (*DeployStackSetResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	existing, err := d.ops.DescribeStackSet(ctx, input.StackSetName)
	if err != nil {
		return nil, err
	}
	exists := existing != nil && existing.Status.IsLive()
	result := &DeployStackSetResult{IsCreate: !exists}

	template := aws.TemplateSource{URL: input.TemplateURL}
	if input.TemplateBody != "" {
		template, err = aws.StageArtifact(ctx, d.uploader, aws.ArtifactTemplate, input.TemplateBody)
		if err != nil {
			return nil, fmt.Errorf("failed to stage template of %s: %w", input.StackSetName, err)
		}
	}

	verb := "update"
	if !exists {
		verb = "create"
	}
	ok, err := d.confirm(input.SkipPrompt, fmt.Sprintf("Do you want to %s stack set %s?", verb, input.StackSetName))
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Declined = true
		return result, nil
	}

	setInput := aws.StackSetInput{
		StackSetName:          input.StackSetName,
		Description:           input.Description,
		Template:              template,
		Parameters:            input.Parameters,
		Tags:                  input.Tags,
		Capabilities:          input.Capabilities,
		PermissionModel:       input.PermissionModel,
		AdministrationRoleARN: input.AdministrationRoleARN,
		ExecutionRoleName:     input.ExecutionRoleName,
		Preferences:           input.Preferences,
	}

	var instances []*model.StackInstance
	if exists {
		instances, err = d.ops.ListStackInstances(ctx, input.StackSetName)
		if err != nil {
			return nil, err
		}
	}

	// one operation may run on a stack set at a time, so each is awaited
	// before the next starts
	var pending []string
	if exists {
		log.Info().Str("stack_set", input.StackSetName).Msg("Updating stack set")
		opID, err := d.ops.UpdateStackSet(ctx, setInput)
		if err != nil {
			return nil, err
		}
		pending = append(pending, opID)
	} else {
		log.Info().Str("stack_set", input.StackSetName).Msg("Creating stack set")
		if _, err := d.ops.CreateStackSet(ctx, setInput); err != nil {
			return nil, err
		}
	}

	start := func(call func() (string, error)) error {
		if err := d.awaitOperations(ctx, input, pending); err != nil {
			return err
		}
		result.OperationIDs = append(result.OperationIDs, pending...)
		pending = nil

		opID, err := call()
		if err != nil {
			return err
		}
		pending = append(pending, opID)
		return nil
	}

	for _, region := range input.Regions {
		missing, present := partitionAccounts(instances, input.Accounts, region)

		// existing instances keep stale overrides until updated explicitly
		if len(present) > 0 && len(input.Parameters) > 0 {
			err := start(func() (string, error) {
				log.Info().Str("stack_set", input.StackSetName).Str("region", region).Strs("accounts", present).Msg("Updating stack instances")
				return d.ops.UpdateStackInstances(ctx, aws.StackInstancesInput{
					StackSetName: input.StackSetName,
					Accounts:     present,
					Regions:      []string{region},
					Parameters:   input.Parameters,
					Preferences:  input.Preferences,
				})
			})
			if err != nil {
				return result, err
			}
		}

		if len(missing) > 0 {
			err := start(func() (string, error) {
				log.Info().Str("stack_set", input.StackSetName).Str("region", region).Strs("accounts", missing).Msg("Creating stack instances")
				return d.ops.CreateStackInstances(ctx, aws.StackInstancesInput{
					StackSetName: input.StackSetName,
					Accounts:     missing,
					Regions:      []string{region},
					Parameters:   input.Parameters,
					Preferences:  input.Preferences,
				})
			})
			if err != nil {
				return result, err
			}
		}
	}

	if !input.Wait {
		result.OperationIDs = append(result.OperationIDs, pending...)
		return result, nil
	}
	if err := d.awaitOperations(ctx, input, pending); err != nil {
		return result, err
	}
	result.OperationIDs = append(result.OperationIDs, pending...)

	result.Instances, err = d.WaitStackInstances(ctx, WaitStackInstancesInput{
		StackSetName:               input.StackSetName,
		RaiseErrorUntilExecStopped: input.RaiseErrorUntilExecStopped,
		Delays:                     input.Delays,
		Timeout:                    input.Timeout,
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// awaitOperations waits for each operation in turn. A failed operation is
// reported through the instances that caused it when any of them failed.
func (d *StackDeployer) awaitOperations(ctx context.Context, input DeployStackSetInput, opIDs []string) error {
	for _, opID := range opIDs {
		err := d.WaitStackSetOperation(ctx, input.StackSetName, opID, input.Delays, input.Timeout)
		var opErr *StackSetOperationFailedError
		if !errors.As(err, &opErr) {
			if err != nil {
				return err
			}
			continue
		}
		if _, instErr := d.WaitStackInstances(ctx, WaitStackInstancesInput{
			StackSetName: input.StackSetName,
			Delays:       input.Delays,
			Timeout:      input.Timeout,
		}); instErr != nil {
			return instErr
		}
		return err
	}
	return nil
}

// partitionAccounts splits accounts into those without an instance in region
// and those with one
func partitionAccounts(instances []*model.StackInstance, accounts []string, region string) (missing, present []string) {
	for _, account := range accounts {
		found := slices.ContainsFunc(instances, func(i *model.StackInstance) bool {
			return i.Account == account && i.Region == region
		})
		if found {
			present = append(present, account)
		} else {
			missing = append(missing, account)
		}
	}
	return missing, present
}

// WaitStackSetOperation polls a stack set operation until it completes
func (d *StackDeployer) WaitStackSetOperation(ctx context.Context, stackSetName, operationID string, delays, timeout time.Duration) error {
	log := logging.FromContext(ctx)
	w := d.newWaiter(delays, timeout)
	return w.Wait(ctx, func(attempt int) (bool, error) {
		st, err := d.ops.DescribeStackSetOperation(ctx, stackSetName, operationID)
		if err != nil {
			return false, err
		}
		log.Debug().Str("stack_set", stackSetName).Str("operation", operationID).Str("status", string(st)).Int("attempt", attempt).Msg("Polled operation")
		if st.IsFailure() {
			return false, &StackSetOperationFailedError{
				StackSetName: stackSetName,
				OperationID:  operationID,
				Status:       st,
				URL:          console.StackSetURL(d.region, stackSetName),
			}
		}
		return st.IsCompleted(), nil
	})
}

// WaitStackInstances polls every instance of a stack set until all have
// stopped. Failed instances are aggregated into one StackInstanceFailedError
// naming the first failed instance of the latest listing.
func (d *StackDeployer) WaitStackInstances(ctx context.Context, input WaitStackInstancesInput) ([]*model.StackInstance, error) {
	log := logging.FromContext(ctx)
	var instances []*model.StackInstance

	w := d.newWaiter(input.Delays, input.Timeout)
	err := w.Wait(ctx, func(attempt int) (bool, error) {
		var err error
		instances, err = d.ops.ListStackInstances(ctx, input.StackSetName)
		if err != nil {
			return false, err
		}

		var failure *StackInstanceFailedError
		failed, stopped := 0, 0
		for _, instance := range instances {
			logical := instance.LogicalStatus()
			if logical.IsStopped() {
				stopped++
			}
			if !logical.IsFailed() {
				continue
			}
			failed++
			if failure == nil {
				failure = &StackInstanceFailedError{
					StackSetName: input.StackSetName,
					Instance:     instance,
					URL:          console.StackInstancesURL(d.region, input.StackSetName),
				}
			}
		}
		log.Debug().Str("stack_set", input.StackSetName).Int("stopped", stopped).Int("failed", failed).Int("total", len(instances)).Int("attempt", attempt).Msg("Polled stack instances")

		if failure != nil {
			failure.Failed = failed
			failure.Total = len(instances)
		}

		allStopped := stopped == len(instances)
		if failure != nil && (input.RaiseErrorUntilExecStopped || allStopped) {
			return false, failure
		}
		return allStopped, nil
	})
	if err != nil {
		return instances, err
	}
	return instances, nil
}

// RemoveStackSet deletes every instance of a stack set and then the stack set
func (d *StackDeployer) RemoveStackSet(ctx context.Context, input RemoveStackSetInput) error {
	if input.StackSetName == "" {
		return errors.New("stack set name is required")
	}
	log := logging.FromContext(ctx)

	existing, err := d.ops.DescribeStackSet(ctx, input.StackSetName)
	if err != nil {
		return err
	}
	if existing == nil || !existing.Status.IsLive() {
		if input.IgnoreNotExist {
			log.Info().Str("stack_set", input.StackSetName).Msg("Stack set does not exist, skipping deletion")
			return nil
		}
		return &StackSetNotExistError{StackSetName: input.StackSetName, URL: console.StackSetURL(d.region, input.StackSetName)}
	}

	instances, err := d.ops.ListStackInstances(ctx, input.StackSetName)
	if err != nil {
		return err
	}

	d.printf("Stack set %s has %d stack instances\n", input.StackSetName, len(instances))
	ok, err := d.confirm(input.SkipPrompt, fmt.Sprintf("Do you want to delete stack set %s and all its instances?", input.StackSetName))
	if err != nil {
		return err
	}
	if !ok {
		log.Info().Str("stack_set", input.StackSetName).Msg("Deletion cancelled")
		return nil
	}

	for _, region := range instanceRegions(instances) {
		var accounts []string
		for _, instance := range instances {
			if instance.Region == region {
				accounts = append(accounts, instance.Account)
			}
		}

		log.Info().Str("stack_set", input.StackSetName).Str("region", region).Strs("accounts", accounts).Msg("Deleting stack instances")
		opID, err := d.ops.DeleteStackInstances(ctx, aws.StackInstancesInput{
			StackSetName: input.StackSetName,
			Accounts:     accounts,
			Regions:      []string{region},
			Preferences:  input.Preferences,
		}, input.RetainStacks)
		if err != nil {
			return err
		}
		if err := d.WaitStackSetOperation(ctx, input.StackSetName, opID, input.Delays, input.Timeout); err != nil {
			return err
		}
	}

	if err := d.ops.DeleteStackSet(ctx, input.StackSetName); err != nil {
		return err
	}
	log.Info().Str("stack_set", input.StackSetName).Msg("Stack set deleted")
	return nil
}

func instanceRegions(instances []*model.StackInstance) []string {
	var regions []string
	for _, instance := range instances {
		if !slices.Contains(regions, instance.Region) {
			regions = append(regions, instance.Region)
		}
	}
	slices.Sort(regions)
	return regions
}
