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
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/containerd/errdefs"
	"github.com/pkg/errors"
)

const (
	maxTags           = 50
	maxTagKeyLength   = 128
	maxTagValueLength = 256
)

// CreateSettings are applied when Ensure has to create a repository. They
// are never applied to a repository that already exists.
type CreateSettings struct {
	// ImageTagMutability is MUTABLE or IMMUTABLE. Empty leaves the ECR
	// default (MUTABLE).
	ImageTagMutability string
	ScanOnPush         bool
	// EncryptionType is AES256 or KMS. Empty leaves the ECR default (AES256).
	EncryptionType string
	// KMSKey is only valid with EncryptionType KMS. Empty with KMS means the
	// AWS managed key.
	KMSKey string
	Tags   map[string]string
}

// Validate checks the settings locally. Failures match
// errdefs.ErrInvalidArgument.
func (s CreateSettings) Validate() error {
	switch s.ImageTagMutability {
	case "", ecr.ImageTagMutabilityMutable, ecr.ImageTagMutabilityImmutable:
	default:
		return errors.Wrapf(errdefs.ErrInvalidArgument, "image tag mutability %q must be %s or %s",
			s.ImageTagMutability, ecr.ImageTagMutabilityMutable, ecr.ImageTagMutabilityImmutable)
	}
	switch s.EncryptionType {
	case "", ecr.EncryptionTypeAes256, ecr.EncryptionTypeKms:
	default:
		return errors.Wrapf(errdefs.ErrInvalidArgument, "encryption type %q must be %s or %s",
			s.EncryptionType, ecr.EncryptionTypeAes256, ecr.EncryptionTypeKms)
	}
	if s.KMSKey != "" && s.EncryptionType != ecr.EncryptionTypeKms {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "kms key requires encryption type %s", ecr.EncryptionTypeKms)
	}
	if len(s.Tags) > maxTags {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "%d tags given, at most %d are allowed", len(s.Tags), maxTags)
	}
	for k, v := range s.Tags {
		if k == "" || len(k) > maxTagKeyLength {
			return errors.Wrapf(errdefs.ErrInvalidArgument, "tag key %q must be between 1 and %d characters", k, maxTagKeyLength)
		}
		if len(v) > maxTagValueLength {
			return errors.Wrapf(errdefs.ErrInvalidArgument, "tag %q value exceeds %d characters", k, maxTagValueLength)
		}
	}
	return nil
}

func (s CreateSettings) apply(input *ecr.CreateRepositoryInput) {
	if s.ImageTagMutability != "" {
		input.ImageTagMutability = aws.String(s.ImageTagMutability)
	}
	if s.ScanOnPush {
		input.ImageScanningConfiguration = &ecr.ImageScanningConfiguration{ScanOnPush: aws.Bool(true)}
	}
	if s.EncryptionType != "" {
		input.EncryptionConfiguration = &ecr.EncryptionConfiguration{EncryptionType: aws.String(s.EncryptionType)}
		if s.KMSKey != "" {
			input.EncryptionConfiguration.KmsKey = aws.String(s.KMSKey)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(s.Tags)) {
		input.Tags = append(input.Tags, &ecr.Tag{Key: aws.String(k), Value: aws.String(s.Tags[k])})
	}
}

// EnsurerOptions can be used to modify the behavior of the Ensurer.
type EnsurerOptions struct {
	// Session is used to build the per-region ECR clients. When nil, a
	// session is created from the shared AWS configuration.
	Session *session.Session
	// MaxRetries overrides the SDK's default retry count when set.
	MaxRetries *int
	// CreateSettings are applied to repositories Ensure creates.
	CreateSettings CreateSettings
}

// EnsurerOption defines a functional option for NewEnsurer.
type EnsurerOption func(options *EnsurerOptions) error

// WithSession is an EnsurerOption to use a specific AWS session.
func WithSession(session *session.Session) EnsurerOption {
	return func(options *EnsurerOptions) error {
		options.Session = session
		return nil
	}
}

// WithMaxRetries is an EnsurerOption to change how many times the SDK
// retries a failed request. Ensure itself never retries.
func WithMaxRetries(maxRetries int) EnsurerOption {
	return func(options *EnsurerOptions) error {
		if maxRetries < 0 {
			return errors.Wrapf(errdefs.ErrInvalidArgument, "max retries %d must not be negative", maxRetries)
		}
		options.MaxRetries = aws.Int(maxRetries)
		return nil
	}
}

// WithCreateSettings is an EnsurerOption to configure repositories created
// by Ensure.
func WithCreateSettings(settings CreateSettings) EnsurerOption {
	return func(options *EnsurerOptions) error {
		if err := settings.Validate(); err != nil {
			return err
		}
		options.CreateSettings = settings
		return nil
	}
}
