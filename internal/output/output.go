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

// Package output reports the outcome of ensuring a repository as GitHub
// Actions step outputs and annotations.
package output

import (
	"strconv"

	"github.com/containerd/errdefs"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-githubactions"

	"github.com/awslabs/amazon-ecr-repository-ensurer/ecr"
)

// Step output names.
const (
	RepositoryExists = "repository-exists"
	RepositoryURI    = "repository-uri"
	RepositoryARN    = "repository-arn"
	RegistryID       = "registry-id"
	ImageURI         = "image-uri"
)

// Writer writes step outputs and annotations through a GitHub Actions
// command writer.
type Writer struct {
	action *githubactions.Action
}

// New returns a Writer for action.
func New(action *githubactions.Action) *Writer {
	return &Writer{action: action}
}

// Result sets the outputs describing an ensured repository. The image-uri
// output is only set when imageTag is not empty.
func (w *Writer) Result(result ecr.EnsureResult, imageTag string) error {
	var imageURI string
	if imageTag != "" {
		ref, err := result.ImageReference(imageTag)
		if err != nil {
			return errors.Wrapf(err, "input image-tag")
		}
		imageURI = ref
	}

	w.action.SetOutput(RepositoryExists, strconv.FormatBool(result.Existed))
	w.action.SetOutput(RepositoryURI, result.URI)
	if result.ARN != "" {
		w.action.SetOutput(RepositoryARN, result.ARN)
	}
	if result.RegistryID != "" {
		w.action.SetOutput(RegistryID, result.RegistryID)
	}
	if imageURI != "" {
		w.action.SetOutput(ImageURI, imageURI)
	}

	if !result.Existed {
		w.action.Noticef("Created ECR repository %s", result.URI)
	}
	return nil
}

// Failure emits an error annotation with guidance matching the class of err.
func (w *Writer) Failure(err error) {
	switch {
	case errdefs.IsPermissionDenied(err):
		w.action.Errorf("Permission denied: %v. Check that the IAM policy of the configured credentials "+
			"allows ecr:DescribeRepositories and ecr:CreateRepository on the repository.", err)
	case errdefs.IsInvalidArgument(err):
		w.action.Errorf("Invalid input: %v", err)
	default:
		w.action.Errorf("Failed to ensure ECR repository: %v", err)
	}
}
