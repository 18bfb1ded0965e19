/*
 * Copyright 2026 Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License"). You
 * may not use this file except in compliance with the License. A copy of
 * the License is located at
 *
 * 	http://aws.amazon.com/apache2.0/
 *
 * or in the "license" file accompanying this file. This file is
 * distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF
 * ANY KIND, either express or implied. See the License for the specific
 * language governing permissions and limitations under the License.
 */

package ecr

import (
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/arn"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/containerd/errdefs"
	"github.com/distribution/reference"
	"github.com/pkg/errors"
)

const (
	minRepositoryNameLength = 2
	maxRepositoryNameLength = 256
)

var (
	regionRe     = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
	isoRegionRe  = regexp.MustCompile(`-iso[a-z]?-`)
	registryIDRe = regexp.MustCompile(`^[0-9]{12}$`)
)

// RepositoryIdentity names the repository to ensure.
type RepositoryIdentity struct {
	Name   string
	Region string
	// RegistryID is the AWS account owning the registry. Empty means the
	// account of the caller's credentials.
	RegistryID string
}

// Validate checks the identity locally so malformed input fails before any
// call to ECR is made. Failures match errdefs.ErrInvalidArgument.
func (id RepositoryIdentity) Validate() error {
	if err := validateRepositoryName(id.Name); err != nil {
		return err
	}
	if id.Region == "" {
		return errors.Wrap(errdefs.ErrInvalidArgument, "region is required")
	}
	if !regionRe.MatchString(id.Region) {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "region %q is not a valid AWS region", id.Region)
	}
	// ISO partitions serve registries outside amazonaws.com, see RepositoryURI
	if isoRegionRe.MatchString(id.Region) {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "region %q is in an isolated partition, which is not supported", id.Region)
	}
	if id.RegistryID != "" && !registryIDRe.MatchString(id.RegistryID) {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "registry id %q must be a 12 digit AWS account id", id.RegistryID)
	}
	return nil
}

func validateRepositoryName(name string) error {
	if name == "" {
		return errors.Wrap(errdefs.ErrInvalidArgument, "repository name is required")
	}
	if len(name) < minRepositoryNameLength || len(name) > maxRepositoryNameLength {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "repository name %q must be between %d and %d characters",
			name, minRepositoryNameLength, maxRepositoryNameLength)
	}
	// the reference grammar accepts a registry host with a port, ECR does not
	if strings.ContainsAny(name, ":@") {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "repository name %q must not contain a tag or digest", name)
	}
	if strings.ToLower(name) != name {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "repository name %q must be lowercase", name)
	}
	if _, err := reference.WithName(name); err != nil {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "repository name %q: %v", name, err)
	}
	return nil
}

// EnsureResult describes the repository after a successful Ensure.
type EnsureResult struct {
	// Existed is false when Ensure created the repository.
	Existed bool
	URI     string
	ARN     string
	// RegistryID is the AWS account owning the repository.
	RegistryID string
}

// ImageReference returns the reference an image tagged tag would be pushed
// to, e.g. 123456789012.dkr.ecr.us-east-1.amazonaws.com/my-app:v1.
func (r EnsureResult) ImageReference(tag string) (string, error) {
	named, err := reference.ParseNamed(r.URI)
	if err != nil {
		return "", errors.Wrapf(err, "repository uri %q", r.URI)
	}
	tagged, err := reference.WithTag(named, tag)
	if err != nil {
		return "", errors.Wrapf(errdefs.ErrInvalidArgument, "image tag %q: %v", tag, err)
	}
	return tagged.String(), nil
}

// resultFromRepository builds an EnsureResult from an ECR repository,
// filling in what the API response omitted and rejecting a malformed URI.
func resultFromRepository(id RepositoryIdentity, repo *ecr.Repository, existed bool) (EnsureResult, error) {
	result := EnsureResult{
		Existed:    existed,
		URI:        aws.StringValue(repo.RepositoryUri),
		ARN:        aws.StringValue(repo.RepositoryArn),
		RegistryID: aws.StringValue(repo.RegistryId),
	}
	if result.RegistryID == "" && result.ARN != "" {
		parsed, err := arn.Parse(result.ARN)
		if err != nil {
			return EnsureResult{}, errors.Wrapf(err, "repository arn %q", result.ARN)
		}
		result.RegistryID = parsed.AccountID
	}
	if result.RegistryID == "" {
		result.RegistryID = id.RegistryID
	}

	if result.URI == "" {
		if result.RegistryID == "" {
			return EnsureResult{}, errors.New("response has neither a repository uri nor a registry id")
		}
		result.URI = BuildRepositoryURI(result.RegistryID, id.Region, id.Name).String()
	}
	uri, err := ParseRepositoryURI(result.URI)
	if err != nil {
		return EnsureResult{}, err
	}
	if uri.Repository != id.Name {
		return EnsureResult{}, errors.Errorf("repository uri %q does not name repository %q", result.URI, id.Name)
	}
	return result, nil
}
