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

package main

import (
	"context"

	"github.com/containerd/errdefs"
	"github.com/containerd/log"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/awslabs/amazon-ecr-repository-ensurer/ecr"
	"github.com/awslabs/amazon-ecr-repository-ensurer/internal/config"
	"github.com/awslabs/amazon-ecr-repository-ensurer/internal/output"
)

const rootCmdLong = `Ensure an Amazon ECR repository exists before pushing images to it.

The repository is described first and created only when ECR reports that it
does not exist. Permission, validation and other failures are never treated
as a missing repository.

Every flag can also be given as a GitHub Actions input, e.g.
INPUT_REPOSITORY-NAME. The region falls back to AWS_REGION and
AWS_DEFAULT_REGION.

Outputs:
  repository-exists  "true" if the repository existed, "false" if it was created
  repository-uri     <account>.dkr.ecr.<region>.amazonaws.com/<name>
  repository-arn     ARN of the repository
  registry-id        AWS account owning the registry
  image-uri          repository-uri:<image-tag>, only with --image-tag

Exit codes:
  0  the repository exists or was created
  1  transient or unknown failure
  2  permission denied
  3  invalid input`

const (
	exitOK               = 0
	exitFailure          = 1
	exitPermissionDenied = 2
	exitInvalidInput     = 3
)

type repositoryEnsurer interface {
	Ensure(ctx context.Context, id ecr.RepositoryIdentity) (ecr.EnsureResult, error)
}

type ensurerFactory func(opts ...ecr.EnsurerOption) (repositoryEnsurer, error)

func newEnsurer(opts ...ecr.EnsurerOption) (repositoryEnsurer, error) {
	ensurer, err := ecr.NewEnsurer(opts...)
	if err != nil {
		return nil, err
	}
	return ensurer, nil
}

func runWithArgs(ctx context.Context, args []string, action *githubactions.Action, factory ensurerFactory) int {
	rootCmd := newRootCmd(factory, action)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		output.New(action).Failure(err)
	}
	return exitCode(err)
}

func newRootCmd(factory ensurerFactory, action *githubactions.Action) *cobra.Command {
	viperInstance := config.NewViper()

	cmd := &cobra.Command{
		Use:           "ensure-ecr-repository",
		Short:         "Ensure an Amazon ECR repository exists, creating it if missing",
		Long:          rootCmdLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runEnsure(cmd.Context(), viperInstance, factory, output.New(action))
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errdefs.ErrInvalidArgument, err.Error())
	})

	if err := config.BindFlags(cmd.Flags(), viperInstance); err != nil {
		panic(errors.Wrap(err, "bind flags"))
	}

	return cmd
}

func runEnsure(ctx context.Context, viperInstance *viper.Viper, factory ensurerFactory, out *output.Writer) error {
	cfg, err := config.Load(viperInstance)
	if err != nil {
		return err
	}
	if cfg.Debug {
		if err := log.SetLevel("debug"); err != nil {
			log.G(ctx).WithError(err).Warn("ensure-ecr-repository.debug")
		}
	}

	ensurer, err := factory(cfg.EnsurerOptions()...)
	if err != nil {
		return err
	}

	log.G(ctx).
		WithField("repository", cfg.Repository.Name).
		WithField("region", cfg.Repository.Region).
		Info("Ensuring Amazon ECR repository")
	result, err := ensurer.Ensure(ctx, cfg.Repository)
	if err != nil {
		return err
	}
	log.G(ctx).
		WithField("uri", result.URI).
		WithField("existed", result.Existed).
		Info("Repository ready")

	return out.Result(result, cfg.ImageTag)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errdefs.IsPermissionDenied(err):
		return exitPermissionDenied
	case errdefs.IsInvalidArgument(err):
		return exitInvalidInput
	default:
		return exitFailure
	}
}
