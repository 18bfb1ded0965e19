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
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/ecr"
)

// fakeECRClient is a fake that can be used for testing the ecrAPI interface.
// Each method is backed by a function contained in the struct.  Nil functions
// will cause panics when invoked.
type fakeECRClient struct {
	DescribeRepositoriesFn func(aws.Context, *ecr.DescribeRepositoriesInput, ...request.Option) (*ecr.DescribeRepositoriesOutput, error)
	CreateRepositoryFn     func(aws.Context, *ecr.CreateRepositoryInput, ...request.Option) (*ecr.CreateRepositoryOutput, error)
}

var _ ecrAPI = (*fakeECRClient)(nil)

func (f *fakeECRClient) DescribeRepositoriesWithContext(ctx aws.Context, arg *ecr.DescribeRepositoriesInput, opts ...request.Option) (*ecr.DescribeRepositoriesOutput, error) {
	return f.DescribeRepositoriesFn(ctx, arg, opts...)
}

func (f *fakeECRClient) CreateRepositoryWithContext(ctx aws.Context, arg *ecr.CreateRepositoryInput, opts ...request.Option) (*ecr.CreateRepositoryOutput, error) {
	return f.CreateRepositoryFn(ctx, arg, opts...)
}

// fakeRegistry is an in-memory ECR registry for a single account and region.
// It answers describe and create the way ECR does, including the error codes
// for missing and duplicate repositories.
type fakeRegistry struct {
	registryID string
	region     string

	lock          sync.Mutex
	repositories  map[string]*ecr.Repository
	describeCalls int
	createCalls   int
	lastCreate    *ecr.CreateRepositoryInput
}

func newFakeRegistry(registryID, region string) *fakeRegistry {
	return &fakeRegistry{
		registryID:   registryID,
		region:       region,
		repositories: map[string]*ecr.Repository{},
	}
}

func (r *fakeRegistry) client() *fakeECRClient {
	return &fakeECRClient{
		DescribeRepositoriesFn: r.describe,
		CreateRepositoryFn:     r.create,
	}
}

func (r *fakeRegistry) add(name string) *ecr.Repository {
	repo := &ecr.Repository{
		RegistryId:     aws.String(r.registryID),
		RepositoryName: aws.String(name),
		RepositoryArn:  aws.String(fmt.Sprintf("arn:aws:ecr:%s:%s:repository/%s", r.region, r.registryID, name)),
		RepositoryUri:  aws.String(fmt.Sprintf("%s.dkr.ecr.%s.amazonaws.com/%s", r.registryID, r.region, name)),
	}
	r.repositories[name] = repo
	return repo
}

func (r *fakeRegistry) describe(_ aws.Context, input *ecr.DescribeRepositoriesInput, _ ...request.Option) (*ecr.DescribeRepositoriesOutput, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.describeCalls++

	output := &ecr.DescribeRepositoriesOutput{}
	for _, name := range input.RepositoryNames {
		repo, ok := r.repositories[aws.StringValue(name)]
		if !ok {
			return nil, awserr.NewRequestFailure(
				awserr.New(ecr.ErrCodeRepositoryNotFoundException,
					fmt.Sprintf("The repository with name '%s' does not exist in the registry with id '%s'", aws.StringValue(name), r.registryID),
					nil),
				400, "request-id")
		}
		output.Repositories = append(output.Repositories, repo)
	}
	return output, nil
}

func (r *fakeRegistry) create(_ aws.Context, input *ecr.CreateRepositoryInput, _ ...request.Option) (*ecr.CreateRepositoryOutput, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.createCalls++
	r.lastCreate = input

	name := aws.StringValue(input.RepositoryName)
	if _, ok := r.repositories[name]; ok {
		return nil, awserr.NewRequestFailure(
			awserr.New(ecr.ErrCodeRepositoryAlreadyExistsException,
				fmt.Sprintf("The repository with name '%s' already exists in the registry with id '%s'", name, r.registryID),
				nil),
			400, "request-id")
	}
	return &ecr.CreateRepositoryOutput{Repository: r.add(name)}, nil
}
