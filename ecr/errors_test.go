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
	"errors"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/containerd/errdefs"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		class Class
		kind  error
	}{
		{name: "access denied", err: awserr.New("AccessDeniedException", "", nil), class: ClassPermissionDenied, kind: errdefs.ErrPermissionDenied},
		{name: "expired token", err: awserr.New("ExpiredTokenException", "", nil), class: ClassPermissionDenied, kind: errdefs.ErrPermissionDenied},
		{name: "unrecognized client", err: awserr.New("UnrecognizedClientException", "", nil), class: ClassPermissionDenied, kind: errdefs.ErrPermissionDenied},
		{name: "unauthorized status", err: awserr.NewRequestFailure(awserr.New("Unauthorized", "", nil), 401, "id"), class: ClassPermissionDenied, kind: errdefs.ErrPermissionDenied},
		{name: "invalid parameter", err: awserr.New(ecr.ErrCodeInvalidParameterException, "", nil), class: ClassValidation, kind: errdefs.ErrInvalidArgument},
		{name: "invalid tag", err: awserr.New(ecr.ErrCodeInvalidTagParameterException, "", nil), class: ClassValidation, kind: errdefs.ErrInvalidArgument},
		{name: "validation", err: awserr.New("ValidationException", "", nil), class: ClassValidation, kind: errdefs.ErrInvalidArgument},
		{name: "missing region", err: awserr.New("MissingRegion", "could not find region configuration", nil), class: ClassValidation, kind: errdefs.ErrInvalidArgument},
		{name: "local validation", err: pkgerrors.Wrap(errdefs.ErrInvalidArgument, "bad name"), class: ClassValidation, kind: errdefs.ErrInvalidArgument},
		{name: "service unavailable", err: awserr.NewRequestFailure(awserr.New("ServiceUnavailable", "", nil), 503, "id"), class: ClassTransientOrUnknown, kind: errdefs.ErrUnavailable},
		{name: "throttling", err: awserr.New("ThrottlingException", "", nil), class: ClassTransientOrUnknown, kind: errdefs.ErrUnavailable},
		{name: "limit exceeded", err: awserr.NewRequestFailure(awserr.New(ecr.ErrCodeLimitExceededException, "", nil), 400, "id"), class: ClassTransientOrUnknown, kind: errdefs.ErrUnknown},
		{name: "kms", err: awserr.NewRequestFailure(awserr.New(ecr.ErrCodeKmsException, "", nil), 400, "id"), class: ClassTransientOrUnknown, kind: errdefs.ErrUnknown},
		{name: "plain", err: errors.New("boom"), class: ClassTransientOrUnknown, kind: errdefs.ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class, kind := classify(tc.err)
			assert.Equal(t, tc.class, class)
			assert.Equal(t, tc.kind, kind)
		})
	}
}

func TestErrorMatchesClassSentinel(t *testing.T) {
	id := RepositoryIdentity{Name: "my-app", Region: "us-east-1"}
	err := newError(opDescribe, id, awserr.New("AccessDeniedException", "not authorized", nil))

	assert.True(t, errdefs.IsPermissionDenied(err))
	assert.False(t, errdefs.IsInvalidArgument(err))
	assert.False(t, errdefs.IsUnknown(err))
	assert.Equal(t, "AccessDeniedException", err.Code())
	assert.Equal(t,
		`ecr: describe repository "my-app" in us-east-1: permission denied: AccessDeniedException: not authorized`,
		err.Error())
}

func TestErrorRedactsRequestURL(t *testing.T) {
	id := RepositoryIdentity{Name: "my-app", Region: "us-east-1"}
	cause := awserr.New("RequestError", "send request failed", &url.Error{
		Op:  "Post",
		URL: "https://api.ecr.us-east-1.amazonaws.com/?X-Amz-Signature=secret",
		Err: errors.New("dial tcp: i/o timeout"),
	})

	err := newError(opDescribe, id, cause)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), "X-Amz-Signature=redacted")
}

func TestClassOf(t *testing.T) {
	id := RepositoryIdentity{Name: "my-app", Region: "us-east-1"}
	wrapped := pkgerrors.Wrap(newError(opCreate, id, awserr.New("InvalidParameterException", "", nil)), "ensure")
	assert.Equal(t, ClassValidation, ClassOf(wrapped))
	assert.Equal(t, ClassTransientOrUnknown, ClassOf(errors.New("other")))
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "permission denied", ClassPermissionDenied.String())
	assert.Equal(t, "validation error", ClassValidation.String())
	assert.Equal(t, "transient or unknown error", ClassTransientOrUnknown.String())
}
