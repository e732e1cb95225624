/*
Copyright © 2025 Stackpilot Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package model

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/orien/stackpilot/internal/opt"
)

// ErrParameterConflict is returned for a parameter that sets both an explicit
// value and UsePreviousValue, or neither of them
var ErrParameterConflict = errors.New("parameter must set exactly one of value or use previous value")

// Parameter is a stack parameter sent to or returned by CloudFormation
type Parameter struct {
	Key              string
	Value            opt.Value[string]
	UsePreviousValue bool
	ResolvedValue    string // only populated on describe, for SSM-backed parameters
}

// NewParameter builds a Parameter, enforcing that exactly one of value and
// usePrevious is provided
func NewParameter(key string, value opt.Value[string], usePrevious bool) (Parameter, error) {
	p := Parameter{Key: key, Value: value, UsePreviousValue: usePrevious}
	if err := p.Validate(); err != nil {
		return Parameter{}, err
	}
	return p, nil
}

// ValueParameter builds a Parameter with an explicit value
func ValueParameter(key, value string) Parameter {
	return Parameter{Key: key, Value: opt.Some(value)}
}

// PreviousValueParameter builds a Parameter that keeps the deployed value
func PreviousValueParameter(key string) Parameter {
	return Parameter{Key: key, UsePreviousValue: true}
}

// Validate checks the value/use-previous invariant
func (p Parameter) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("parameter key cannot be empty")
	}
	if p.Value.IsSet() == p.UsePreviousValue {
		return fmt.Errorf("parameter %s: %w", p.Key, ErrParameterConflict)
	}
	return nil
}

// ToSDK converts the parameter into its request form. Only the provided
// field is encoded.
func (p Parameter) ToSDK() types.Parameter {
	out := types.Parameter{
		ParameterKey:   aws.String(p.Key),
		ParameterValue: p.Value.Ptr(),
	}
	if p.UsePreviousValue {
		out.UsePreviousValue = aws.Bool(true)
	}
	return out
}

// ParametersToSDK validates and converts a list of parameters
func ParametersToSDK(params []Parameter) ([]types.Parameter, error) {
	if len(params) == 0 {
		return nil, nil
	}
	out := make([]types.Parameter, 0, len(params))
	for _, p := range params {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		out = append(out, p.ToSDK())
	}
	return out, nil
}

func parameterFromSDK(p types.Parameter) Parameter {
	return Parameter{
		Key:              aws.ToString(p.ParameterKey),
		Value:            opt.FromPtr(p.ParameterValue),
		UsePreviousValue: aws.ToBool(p.UsePreviousValue),
		ResolvedValue:    aws.ToString(p.ResolvedValue),
	}
}
