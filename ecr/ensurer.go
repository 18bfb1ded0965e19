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
	"context"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ecr"
	"github.com/containerd/log"
	"github.com/pkg/errors"
)

// Ensurer makes sure ECR repositories exist, creating them when they are
// missing. It keeps one ECR client per region.
type Ensurer struct {
	session     *session.Session
	maxRetries  *int
	settings    CreateSettings
	clients     map[string]ecrAPI
	clientsLock sync.Mutex
}

// NewEnsurer returns an Ensurer using the shared AWS configuration and
// credential chain unless WithSession is given.
func NewEnsurer(opts ...EnsurerOption) (*Ensurer, error) {
	options := EnsurerOptions{}
	for _, o := range opts {
		if err := o(&options); err != nil {
			return nil, err
		}
	}
	if options.Session == nil {
		awsSession, err := session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create AWS session")
		}
		options.Session = awsSession
	}
	return &Ensurer{
		session:    options.Session,
		maxRetries: options.MaxRetries,
		settings:   options.CreateSettings,
		clients:    map[string]ecrAPI{},
	}, nil
}

// Ensure makes sure the repository exists. It describes the repository and
// creates it only when ECR reports RepositoryNotFoundException; every other
// describe failure is returned without attempting a create.
//
// Failures are returned as *Error. A create that races with another caller
// and fails with RepositoryAlreadyExistsException is not a failure: the
// repository is described again and reported with Existed set.
func (e *Ensurer) Ensure(ctx context.Context, id RepositoryIdentity) (EnsureResult, error) {
	ctx = log.WithLogger(ctx, log.G(ctx).
		WithField("repository", id.Name).
		WithField("region", id.Region))
	log.G(ctx).Debug("ecr.ensure")

	if err := id.Validate(); err != nil {
		return EnsureResult{}, newError(opValidate, id, err)
	}

	client := e.getClient(id.Region)
	repo, err := describeRepository(ctx, client, id)
	if err == nil {
		log.G(ctx).Debug("ecr.ensure: repository exists")
		return e.result(opDescribe, id, repo, true)
	}
	if !isAWSErrorCode(err, ecr.ErrCodeRepositoryNotFoundException) {
		ensureErr := newError(opDescribe, id, err)
		log.G(ctx).WithError(ensureErr.Err).
			WithField("class", ensureErr.Class).
			Error("ecr.ensure: failed to describe repository")
		return EnsureResult{}, ensureErr
	}

	log.G(ctx).Info("ecr.ensure: repository not found, creating")
	repo, err = createRepository(ctx, client, id, e.settings)
	if err == nil {
		log.G(ctx).WithField("uri", aws.StringValue(repo.RepositoryUri)).Info("ecr.ensure: repository created")
		return e.result(opCreate, id, repo, false)
	}
	if !isAWSErrorCode(err, ecr.ErrCodeRepositoryAlreadyExistsException) {
		ensureErr := newError(opCreate, id, err)
		log.G(ctx).WithError(ensureErr.Err).
			WithField("class", ensureErr.Class).
			Error("ecr.ensure: failed to create repository")
		return EnsureResult{}, ensureErr
	}

	log.G(ctx).Warn("ecr.ensure: repository created concurrently, describing again")
	repo, err = describeRepository(ctx, client, id)
	if err != nil {
		ensureErr := newError(opDescribe, id, err)
		log.G(ctx).WithError(ensureErr.Err).
			WithField("class", ensureErr.Class).
			Error("ecr.ensure: failed to describe concurrently created repository")
		return EnsureResult{}, ensureErr
	}
	return e.result(opDescribe, id, repo, true)
}

func (e *Ensurer) result(op string, id RepositoryIdentity, repo *ecr.Repository, existed bool) (EnsureResult, error) {
	result, err := resultFromRepository(id, repo, existed)
	if err != nil {
		return EnsureResult{}, newError(op, id, err)
	}
	return result, nil
}

func (e *Ensurer) getClient(region string) ecrAPI {
	e.clientsLock.Lock()
	defer e.clientsLock.Unlock()
	if _, ok := e.clients[region]; !ok {
		config := &aws.Config{Region: aws.String(region)}
		if e.maxRetries != nil {
			config.MaxRetries = e.maxRetries
		}
		e.clients[region] = ecr.New(e.session, config)
	}
	return e.clients[region]
}

func describeRepository(ctx context.Context, client ecrAPI, id RepositoryIdentity) (*ecr.Repository, error) {
	input := &ecr.DescribeRepositoriesInput{
		RepositoryNames: []*string{aws.String(id.Name)},
	}
	if id.RegistryID != "" {
		input.RegistryId = aws.String(id.RegistryID)
	}

	output, err := client.DescribeRepositoriesWithContext(ctx, input)
	if err != nil {
		return nil, err
	}
	log.G(ctx).WithField("describeRepositories", output).Debug("ecr.ensure.describe")

	for _, repo := range output.Repositories {
		if aws.StringValue(repo.RepositoryName) == id.Name {
			return repo, nil
		}
	}
	return nil, errors.Errorf("describe returned %d repositories, none named %q", len(output.Repositories), id.Name)
}

func createRepository(ctx context.Context, client ecrAPI, id RepositoryIdentity, settings CreateSettings) (*ecr.Repository, error) {
	input := &ecr.CreateRepositoryInput{
		RepositoryName: aws.String(id.Name),
	}
	if id.RegistryID != "" {
		input.RegistryId = aws.String(id.RegistryID)
	}
	settings.apply(input)

	output, err := client.CreateRepositoryWithContext(ctx, input)
	if err != nil {
		return nil, err
	}
	log.G(ctx).WithField("createRepository", output).Debug("ecr.ensure.create")

	if output.Repository == nil {
		return nil, errors.New("create returned no repository")
	}
	return output.Repository, nil
}
