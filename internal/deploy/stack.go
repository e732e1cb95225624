/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orien/stackpilot/internal/aws"
	"github.com/orien/stackpilot/internal/console"
	"github.com/orien/stackpilot/internal/diff"
	"github.com/orien/stackpilot/internal/logging"
	"github.com/orien/stackpilot/internal/model"
	"github.com/orien/stackpilot/internal/opt"
	"github.com/orien/stackpilot/internal/status"
)

// Strategy selects how a stack deployment is applied
type Strategy int

const (
	// StrategyChangeSet previews changes through a change set before executing it
	StrategyChangeSet Strategy = iota
	// StrategyDirect calls create or update without a preview
	StrategyDirect
)

// StrategyFor maps a skip-plan flag to a strategy
func StrategyFor(skipPlan bool) Strategy {
	if skipPlan {
		return StrategyDirect
	}
	return StrategyChangeSet
}

func (s Strategy) String() string {
	if s == StrategyDirect {
		return "direct"
	}
	return "change-set"
}

// Outcome describes how a deployment ended without an error
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeNoChanges Outcome = "no-changes"
	OutcomeDeclined  Outcome = "declined"
)

// DefaultChangeSetNamePrefix names change sets when no prefix is configured
const DefaultChangeSetNamePrefix = "stackpilot"

// DeployStackInput describes one stack deployment
type DeployStackInput struct {
	StackName        string
	TemplateBody     string
	TemplateURL      opt.Value[string]
	Parameters       []model.Parameter
	Tags             map[string]string
	Capabilities     []string
	RoleARN          opt.Value[string]
	NotificationARNs []string
	StackPolicyBody  string

	EnableTerminationProtection opt.Value[bool]
	DisableRollback             opt.Value[bool]
	OnFailure                   opt.Value[string]
	TimeoutInMinutes            opt.Value[int32]

	IncludeNestedStacks bool
	ChangeSetNamePrefix string
	Strategy            Strategy

	Wait                          bool
	WaitUntilExecStoppedOnFailure bool
	SkipPrompt                    bool
	Delays                        time.Duration
	Timeout                       time.Duration
}

// Validate checks the input before any call is made
func (in DeployStackInput) Validate() error {
	if in.StackName == "" {
		return errors.New("stack name is required")
	}
	if in.TemplateBody == "" && !in.TemplateURL.IsSet() {
		return fmt.Errorf("stack %s: a template body or URL is required", in.StackName)
	}
	if in.TemplateBody != "" && in.TemplateURL.IsSet() {
		return fmt.Errorf("stack %s: template body and URL are mutually exclusive", in.StackName)
	}
	for _, p := range in.Parameters {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("stack %s: %w", in.StackName, err)
		}
	}
	return nil
}

// DeployStackResult reports what a deployment did
type DeployStackResult struct {
	IsCreate         bool
	IsDeployHappened bool
	Outcome          Outcome
	Stack            *model.Stack
	ChangeSet        *model.ChangeSet
	Plan             *diff.Plan
}

// ChangeSetName builds a change set name unique to the millisecond
func ChangeSetName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = DefaultChangeSetNamePrefix
	}
	t = t.UTC()
	return fmt.Sprintf("%s-%s-%03d", prefix, t.Format("2006-01-02-15-04-05"), t.Nanosecond()/int(time.Millisecond))
}

// DeployStack creates or updates a stack
func (d *StackDeployer) DeployStack(ctx context.Context, input DeployStackInput) (*DeployStackResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	log := logging.FromContext(ctx)

	existing, err := d.ops.DescribeStack(ctx, input.StackName)
	if err != nil {
		return nil, err
	}
	exists := existing != nil && existing.Status.IsLive()
	if exists && existing.Status == status.StackReviewInProgress {
		return nil, &ReviewInProgressError{StackName: input.StackName, URL: d.stackURL(existing.ID)}
	}

	request, policy, err := d.stackRequest(ctx, input)
	if err != nil {
		return nil, err
	}

	log.Info().Str("stack", input.StackName).Bool("create", !exists).Stringer("strategy", input.Strategy).Msg("Deploying stack")

	if input.Strategy == StrategyDirect {
		return d.deployDirect(ctx, input, request, policy, existing, exists)
	}
	return d.deployChangeSet(ctx, input, request, policy, existing, exists)
}

func (d *StackDeployer) stackRequest(ctx context.Context, input DeployStackInput) (aws.StackRequest, aws.TemplateSource, error) {
	template := aws.TemplateSource{URL: input.TemplateURL}
	if input.TemplateBody != "" {
		staged, err := aws.StageArtifact(ctx, d.uploader, aws.ArtifactTemplate, input.TemplateBody)
		if err != nil {
			return aws.StackRequest{}, aws.TemplateSource{}, fmt.Errorf("failed to stage template of %s: %w", input.StackName, err)
		}
		template = staged
	}

	policy, err := aws.StageArtifact(ctx, d.uploader, aws.ArtifactStackPolicy, input.StackPolicyBody)
	if err != nil {
		return aws.StackRequest{}, aws.TemplateSource{}, fmt.Errorf("failed to stage stack policy of %s: %w", input.StackName, err)
	}

	return aws.StackRequest{
		StackName:        input.StackName,
		Template:         template,
		Parameters:       input.Parameters,
		Tags:             input.Tags,
		Capabilities:     input.Capabilities,
		RoleARN:          input.RoleARN,
		NotificationARNs: input.NotificationARNs,
	}, policy, nil
}

func (d *StackDeployer) deployDirect(ctx context.Context, input DeployStackInput, request aws.StackRequest, policy aws.TemplateSource, existing *model.Stack, exists bool) (*DeployStackResult, error) {
	result := &DeployStackResult{IsCreate: !exists}

	verb := "update"
	if !exists {
		verb = "create"
	}
	ok, err := d.confirm(input.SkipPrompt, fmt.Sprintf("Do you want to %s stack %s?", verb, input.StackName))
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = OutcomeDeclined
		return result, nil
	}

	stackID := input.StackName
	if !exists {
		stackID, err = d.ops.CreateStack(ctx, aws.CreateStackInput{
			StackRequest:                request,
			StackPolicy:                 policy,
			EnableTerminationProtection: input.EnableTerminationProtection,
			DisableRollback:             input.DisableRollback,
			OnFailure:                   input.OnFailure,
			TimeoutInMinutes:            input.TimeoutInMinutes,
		})
		if err != nil {
			return nil, err
		}
		result.Outcome = OutcomeCreated
	} else {
		outcome, err := d.ops.UpdateStack(ctx, aws.UpdateStackInput{
			StackRequest:                request,
			StackPolicy:                 policy,
			EnableTerminationProtection: input.EnableTerminationProtection,
			DisableRollback:             input.DisableRollback,
		})
		if err != nil {
			return nil, err
		}
		if outcome == aws.UpdateNoChanges {
			logging.FromContext(ctx).Info().Str("stack", input.StackName).Msg("No updates to perform")
			result.Outcome = OutcomeNoChanges
			result.Stack = existing
			return result, nil
		}
		stackID = existing.ID
		result.Outcome = OutcomeUpdated
	}
	result.IsDeployHappened = true

	if !input.Wait {
		return result, nil
	}
	result.Stack, err = d.WaitStack(ctx, WaitStackInput{
		StackName:                     stackID,
		WaitUntilExecStoppedOnFailure: input.WaitUntilExecStoppedOnFailure,
		Delays:                        input.Delays,
		Timeout:                       input.Timeout,
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func (d *StackDeployer) deployChangeSet(ctx context.Context, input DeployStackInput, request aws.StackRequest, policy aws.TemplateSource, existing *model.Stack, exists bool) (*DeployStackResult, error) {
	log := logging.FromContext(ctx)
	result := &DeployStackResult{IsCreate: !exists}

	csType := aws.ChangeSetTypeUpdate
	if !exists {
		csType = aws.ChangeSetTypeCreate
	}
	name := ChangeSetName(input.ChangeSetNamePrefix, d.now())

	createInput := aws.CreateChangeSetInput{
		StackRequest:        request,
		ChangeSetName:       name,
		ChangeSetType:       csType,
		IncludeNestedStacks: input.IncludeNestedStacks,
	}
	execInput := aws.ExecuteChangeSetInput{DisableRollback: input.DisableRollback}
	if !exists && input.OnFailure.IsSet() {
		// DisableRollback and OnStackFailure are mutually exclusive
		createInput.OnStackFailure = input.OnFailure
		execInput.DisableRollback = opt.None[bool]()
	}

	created, err := d.ops.CreateChangeSet(ctx, createInput)
	if err != nil {
		return nil, err
	}
	log.Info().Str("stack", input.StackName).Str("change_set", name).Msg("Created change set")
	stackID := created.StackID
	if stackID == "" {
		stackID = input.StackName
	}

	cs, err := d.waitChangeSet(ctx, created.ChangeSetID, input)
	if err != nil {
		return nil, err
	}

	if cs.Status.IsFailed() {
		if !cs.IsNoChanges() {
			return nil, &ChangeSetFailedError{
				StackName:     input.StackName,
				ChangeSetName: name,
				Reason:        cs.StatusReason,
				URL:           console.ChangeSetURL(d.regionOf(stackID), stackID, created.ChangeSetID),
			}
		}
		log.Info().Str("stack", input.StackName).Msg("Change set contains no changes")
		if err := d.ops.DeleteChangeSet(ctx, created.ChangeSetID); err != nil {
			log.Warn().Err(err).Str("change_set", name).Msg("Failed to clean up empty change set")
		}
		result.Outcome = OutcomeNoChanges
		result.ChangeSet = cs
		result.Stack = existing
		return result, nil
	}

	cs, err = aws.CollectChangeSetPages(ctx, d.ops, cs)
	if err != nil {
		return nil, err
	}
	result.ChangeSet = cs

	plan, err := d.visualizer.Build(ctx, cs, input.IncludeNestedStacks)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	d.preview(input, plan, existing, exists)

	verb := "update"
	if !exists {
		verb = "create"
	}
	ok, err := d.confirm(input.SkipPrompt, fmt.Sprintf("Do you want to %s stack %s with change set %s?", verb, input.StackName, name))
	if err != nil {
		return nil, err
	}
	if !ok {
		result.Outcome = OutcomeDeclined
		if !exists {
			// the CREATE change set left an empty stack in REVIEW_IN_PROGRESS
			log.Info().Str("stack", input.StackName).Msg("Deleting stack created for declined change set")
			if err := d.ops.DeleteStack(ctx, aws.DeleteStackInput{StackName: stackID, RoleARN: input.RoleARN}); err != nil {
				return result, fmt.Errorf("failed to delete stack %s after declined change set: %w", input.StackName, err)
			}
			return result, nil
		}
		if err := d.ops.DeleteChangeSet(ctx, created.ChangeSetID); err != nil {
			log.Warn().Err(err).Str("change_set", name).Msg("Failed to delete declined change set")
		}
		return result, nil
	}

	execInput.ChangeSetID = created.ChangeSetID
	if err := d.ops.ExecuteChangeSet(ctx, execInput); err != nil {
		return nil, err
	}
	result.IsDeployHappened = true
	result.Outcome = OutcomeUpdated
	if !exists {
		result.Outcome = OutcomeCreated
	}

	// change sets carry neither setting
	if policy.IsSet() {
		if err := d.ops.SetStackPolicy(ctx, stackID, policy); err != nil {
			return result, err
		}
	}
	if enabled, ok := input.EnableTerminationProtection.Get(); ok {
		if err := d.ops.UpdateTerminationProtection(ctx, stackID, enabled); err != nil {
			return result, err
		}
	}

	if !input.Wait {
		return result, nil
	}
	result.Stack, err = d.WaitStack(ctx, WaitStackInput{
		StackName:                     stackID,
		WaitUntilExecStoppedOnFailure: input.WaitUntilExecStoppedOnFailure,
		Delays:                        input.Delays,
		Timeout:                       input.Timeout,
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// waitChangeSet polls until the change set is created or has failed. A change
// set deleted from under us is an error.
func (d *StackDeployer) waitChangeSet(ctx context.Context, changeSetID string, input DeployStackInput) (*model.ChangeSet, error) {
	var cs *model.ChangeSet
	w := d.newWaiter(input.Delays, input.Timeout)
	err := w.Wait(ctx, func(int) (bool, error) {
		page, err := d.ops.DescribeChangeSet(ctx, changeSetID, opt.None[string]())
		if err != nil {
			return false, err
		}
		cs = page
		if cs.Status.IsDeletion() {
			return false, &ChangeSetFailedError{
				StackName:     input.StackName,
				ChangeSetName: cs.Name,
				Reason:        fmt.Sprintf("change set was deleted (%s)", cs.Status),
			}
		}
		return cs.Status == status.ChangeSetCreateComplete || cs.Status == status.ChangeSetFailed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("waiting for change set of %s: %w", input.StackName, err)
	}
	return cs, nil
}

func (d *StackDeployer) preview(input DeployStackInput, plan *diff.Plan, existing *model.Stack, exists bool) {
	var sections []string
	if exists {
		if s := diff.RenderValueDiffs("Parameters", diff.CompareParameters(existing.Params, input.Parameters), d.styles); s != "" {
			sections = append(sections, s)
		}
		if s := diff.RenderValueDiffs("Tags", diff.CompareValues(existing.Tags, input.Tags), d.styles); s != "" {
			sections = append(sections, s)
		}
	}
	sections = append(sections, plan.Render(d.styles))
	d.printf("%s\n", strings.Join(sections, "\n"))
}

// WaitStackInput controls how WaitStack polls
type WaitStackInput struct {
	StackName                     string
	WaitUntilExecStoppedOnFailure bool
	Delays                        time.Duration
	Timeout                       time.Duration
}

// WaitStack polls a stack until it stops. A failed status is returned as a
// DeployStackFailedError, either as soon as it is seen or once the stack has
// stopped rolling back.
func (d *StackDeployer) WaitStack(ctx context.Context, input WaitStackInput) (*model.Stack, error) {
	log := logging.FromContext(ctx)
	var last *model.Stack

	w := d.newWaiter(input.Delays, input.Timeout)
	err := w.Wait(ctx, func(attempt int) (bool, error) {
		stack, err := d.ops.DescribeStack(ctx, input.StackName)
		if err != nil {
			return false, err
		}
		if stack == nil {
			return false, &StackNotExistError{StackName: input.StackName, URL: d.stackURL(input.StackName)}
		}
		last = stack
		log.Debug().Str("stack", stack.Name).Stringer("status", stack.Status).Int("attempt", attempt).Msg("Polled stack")

		failed := stack.Status.IsFailed() || !stack.Status.IsLive()
		if failed && (stack.Status.IsStopped() || !input.WaitUntilExecStoppedOnFailure) {
			return false, &DeployStackFailedError{
				StackName: stack.Name,
				Status:    stack.Status,
				Reason:    stack.StatusReason,
				URL:       console.StackEventsURL(d.regionOf(stack.ID), stack.ID),
			}
		}
		return stack.Status.IsStopped(), nil
	})
	if err != nil {
		return last, err
	}

	log.Info().Str("stack", last.Name).Stringer("status", last.Status).Msg("Stack reached terminal status")
	return last, nil
}
