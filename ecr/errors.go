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
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/containerd/errdefs"
	"github.com/pkg/errors"

	httputil "github.com/awslabs/amazon-ecr-repository-ensurer/ecr/internal/util/http"
)

// Class partitions the failures an Ensure call can report. A missing
// repository is not a failure and has no Class; it leads to creation.
type Class int

const (
	// ClassTransientOrUnknown covers service faults, throttling, network
	// errors and anything that could not be classified otherwise.
	ClassTransientOrUnknown Class = iota
	// ClassPermissionDenied is reported when the caller's credentials are
	// missing or not allowed to perform the operation.
	ClassPermissionDenied
	// ClassValidation is reported for a malformed repository name, region or
	// create setting, whether rejected locally or by the service.
	ClassValidation
)

func (c Class) String() string {
	switch c {
	case ClassPermissionDenied:
		return "permission denied"
	case ClassValidation:
		return "validation error"
	default:
		return "transient or unknown error"
	}
}

const (
	opValidate = "validate"
	opDescribe = "describe"
	opCreate   = "create"
)

// Error codes returned by AWS services in general rather than by ECR.
const (
	errCodeAccessDenied          = "AccessDenied"
	errCodeAccessDeniedException = "AccessDeniedException"
	errCodeUnauthorizedOperation = "UnauthorizedOperation"
	errCodeUnrecognizedClient    = "UnrecognizedClientException"
	errCodeInvalidClientTokenID  = "InvalidClientTokenId"
	errCodeInvalidSignature      = "InvalidSignatureException"
	errCodeExpiredToken          = "ExpiredToken"
	errCodeExpiredTokenException = "ExpiredTokenException"
	errCodeMissingAuthToken      = "MissingAuthenticationTokenException"
	errCodeNoCredentialProviders = "NoCredentialProviders"
	errCodeValidationException   = "ValidationException"
	errCodeMissingRegion         = "MissingRegion"
	errCodeInvalidEndpointURL    = "InvalidEndpointURL"
)

// Error is returned by Ensure for every failure. It matches the errdefs
// sentinel for its class, so callers can use errdefs.IsPermissionDenied,
// errdefs.IsInvalidArgument, errdefs.IsUnavailable and errdefs.IsUnknown.
type Error struct {
	Op         string
	Repository string
	Region     string
	Class      Class
	Err        error

	kind error
}

func newError(op string, id RepositoryIdentity, err error) *Error {
	class, kind := classify(err)
	return &Error{
		Op:         op,
		Repository: id.Name,
		Region:     id.Region,
		Class:      class,
		Err:        httputil.RedactError(err),
		kind:       kind,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("ecr: %s repository %q in %s: %s: %v", e.Op, e.Repository, e.Region, e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the errdefs sentinel for this error's class.
func (e *Error) Is(target error) bool {
	return e.kind != nil && target == e.kind
}

// Code returns the AWS error code behind the failure, if there is one.
func (e *Error) Code() string {
	var awsErr awserr.Error
	if errors.As(e.Err, &awsErr) {
		return awsErr.Code()
	}
	return ""
}

// ClassOf returns the Class of an error returned by Ensure. Errors that did
// not come from Ensure are ClassTransientOrUnknown.
func ClassOf(err error) Class {
	var ensureErr *Error
	if errors.As(err, &ensureErr) {
		return ensureErr.Class
	}
	return ClassTransientOrUnknown
}

// classify maps an error to its class and the errdefs sentinel representing it.
func classify(err error) (Class, error) {
	switch {
	case errdefs.IsPermissionDenied(err):
		return ClassPermissionDenied, errdefs.ErrPermissionDenied
	case errdefs.IsInvalidArgument(err):
		return ClassValidation, errdefs.ErrInvalidArgument
	}

	var awsErr awserr.Error
	if !errors.As(err, &awsErr) {
		return ClassTransientOrUnknown, errdefs.ErrUnknown
	}

	switch awsErr.Code() {
	case
		errCodeAccessDenied,
		errCodeAccessDeniedException,
		errCodeUnauthorizedOperation,
		errCodeUnrecognizedClient,
		errCodeInvalidClientTokenID,
		errCodeInvalidSignature,
		errCodeExpiredToken,
		errCodeExpiredTokenException,
		errCodeMissingAuthToken,
		errCodeNoCredentialProviders:
		return ClassPermissionDenied, errdefs.ErrPermissionDenied
	case
		ecr.ErrCodeInvalidParameterException,
		ecr.ErrCodeInvalidTagParameterException,
		ecr.ErrCodeTooManyTagsException,
		errCodeValidationException,
		errCodeMissingRegion,
		errCodeInvalidEndpointURL:
		return ClassValidation, errdefs.ErrInvalidArgument
	}

	var reqErr awserr.RequestFailure
	if errors.As(err, &reqErr) {
		switch status := reqErr.StatusCode(); {
		case status == http.StatusUnauthorized, status == http.StatusForbidden:
			return ClassPermissionDenied, errdefs.ErrPermissionDenied
		case status >= http.StatusInternalServerError:
			return ClassTransientOrUnknown, errdefs.ErrUnavailable
		}
	}

	if request.IsErrorThrottle(awsErr) || request.IsErrorRetryable(awsErr) {
		return ClassTransientOrUnknown, errdefs.ErrUnavailable
	}
	return ClassTransientOrUnknown, errdefs.ErrUnknown
}

func isAWSErrorCode(err error, code string) bool {
	var awsErr awserr.Error
	return errors.As(err, &awsErr) && awsErr.Code() == code
}
