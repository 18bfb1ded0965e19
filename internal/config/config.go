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

// Package config loads the inputs of the ensure-ecr-repository command from
// flags and from the environment GitHub Actions provides to a step.
package config

import (
	"strings"

	"github.com/containerd/errdefs"
	"github.com/distribution/reference"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/awslabs/amazon-ecr-repository-ensurer/ecr"
)

// keyRunnerDebug is set from RUNNER_DEBUG, which the runner exports when a
// workflow is re-run with debug logging.
const keyRunnerDebug = "runner-debug"

// placeholderName stands in for the repository when checking a tag, since
// the repository URI is only known after Ensure.
const placeholderName = "repository"

// EnvPrefix is the prefix GitHub Actions gives step inputs. An input named
// repository-name is read from INPUT_REPOSITORY-NAME.
const EnvPrefix = "INPUT"

// Input names, shared by flags and environment variables.
const (
	KeyRepositoryName     = "repository-name"
	KeyRegion             = "aws-region"
	KeyRegistryID         = "registry-id"
	KeyImageTagMutability = "image-tag-mutability"
	KeyScanOnPush         = "scan-on-push"
	KeyEncryptionType     = "encryption-type"
	KeyKMSKey             = "kms-key"
	KeyTags               = "tags"
	KeyImageTag           = "image-tag"
	KeyMaxRetries         = "max-retries"
	KeyDebug              = "debug"
)

// Config holds the loaded inputs.
type Config struct {
	Repository ecr.RepositoryIdentity
	Settings   ecr.CreateSettings
	// ImageTag, when set, adds an image-uri output for that tag.
	ImageTag string
	// MaxRetries is the SDK retry count; negative keeps the SDK default.
	MaxRetries int
	Debug      bool
}

// NewViper returns a viper instance reading inputs from the environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// explicit names replace the prefixed one, so it is listed again
	_ = v.BindEnv(KeyRegion, envName(KeyRegion), "AWS_REGION", "AWS_DEFAULT_REGION")
	_ = v.BindEnv(keyRunnerDebug, "RUNNER_DEBUG")
	v.SetDefault(KeyMaxRetries, -1)
	return v
}

// BindFlags registers a flag for every input and binds it to v. Flags take
// precedence over the environment.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	flags.String(KeyRepositoryName, "", "name of the ECR repository to ensure (required)")
	flags.String(KeyRegion, "", "AWS region of the registry (required, falls back to AWS_REGION)")
	flags.String(KeyRegistryID, "", "AWS account id of the registry, defaults to the caller's account")
	flags.String(KeyImageTagMutability, "", "tag mutability of a created repository: MUTABLE or IMMUTABLE")
	flags.Bool(KeyScanOnPush, false, "enable image scanning on push for a created repository")
	flags.String(KeyEncryptionType, "", "encryption of a created repository: AES256 or KMS")
	flags.String(KeyKMSKey, "", "KMS key for a created repository, requires encryption type KMS")
	flags.String(KeyTags, "", "tags for a created repository as key=value pairs separated by commas or newlines")
	flags.String(KeyImageTag, "", "image tag to report an image-uri output for")
	flags.Int(KeyMaxRetries, -1, "maximum retries of the AWS SDK client, negative keeps the SDK default")
	flags.Bool(KeyDebug, false, "enable debug logging")

	for _, key := range []string{
		KeyRepositoryName, KeyRegion, KeyRegistryID, KeyImageTagMutability, KeyScanOnPush,
		KeyEncryptionType, KeyKMSKey, KeyTags, KeyImageTag, KeyMaxRetries, KeyDebug,
	} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", key)
		}
	}
	return nil
}

// Load reads and validates the inputs. Failures match
// errdefs.ErrInvalidArgument.
func Load(v *viper.Viper) (Config, error) {
	tags, err := ParseTags(v.GetString(KeyTags))
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Repository: ecr.RepositoryIdentity{
			Name:       strings.TrimSpace(v.GetString(KeyRepositoryName)),
			Region:     strings.TrimSpace(v.GetString(KeyRegion)),
			RegistryID: strings.TrimSpace(v.GetString(KeyRegistryID)),
		},
		Settings: ecr.CreateSettings{
			ImageTagMutability: strings.ToUpper(strings.TrimSpace(v.GetString(KeyImageTagMutability))),
			ScanOnPush:         v.GetBool(KeyScanOnPush),
			EncryptionType:     strings.ToUpper(strings.TrimSpace(v.GetString(KeyEncryptionType))),
			KMSKey:             strings.TrimSpace(v.GetString(KeyKMSKey)),
			Tags:               tags,
		},
		ImageTag:   strings.TrimSpace(v.GetString(KeyImageTag)),
		MaxRetries: v.GetInt(KeyMaxRetries),
		// the action always exports INPUT_DEBUG, so RUNNER_DEBUG cannot be a fallback
		Debug: v.GetBool(KeyDebug) || v.GetBool(keyRunnerDebug),
	}

	if cfg.Repository.Name == "" {
		return Config{}, errors.Wrapf(errdefs.ErrInvalidArgument, "input %s is required", KeyRepositoryName)
	}
	if cfg.Repository.Region == "" {
		return Config{}, errors.Wrapf(errdefs.ErrInvalidArgument, "input %s is required", KeyRegion)
	}
	if err := cfg.Repository.Validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.Settings.Validate(); err != nil {
		return Config{}, err
	}
	if err := validateImageTag(cfg.ImageTag); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EnsurerOptions returns the ecr.EnsurerOptions the configuration asks for.
func (c Config) EnsurerOptions() []ecr.EnsurerOption {
	opts := []ecr.EnsurerOption{ecr.WithCreateSettings(c.Settings)}
	if c.MaxRetries >= 0 {
		opts = append(opts, ecr.WithMaxRetries(c.MaxRetries))
	}
	return opts
}

// ParseTags parses key=value pairs separated by commas or newlines. Blank
// entries are skipped; a later duplicate key wins.
func ParseTags(raw string) (map[string]string, error) {
	entries := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	if len(entries) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, errors.Wrapf(errdefs.ErrInvalidArgument, "tag %q is not a key=value pair", entry)
		}
		tags[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return tags, nil
}

// validateImageTag checks the tag grammar before any repository is created,
// so a bad tag cannot fail the step after the repository exists.
func validateImageTag(tag string) error {
	if tag == "" {
		return nil
	}
	named, err := reference.WithName(placeholderName)
	if err != nil {
		return errors.Wrap(err, "placeholder repository name")
	}
	if _, err := reference.WithTag(named, tag); err != nil {
		return errors.Wrapf(errdefs.ErrInvalidArgument, "input %s %q: %v", KeyImageTag, tag, err)
	}
	return nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
