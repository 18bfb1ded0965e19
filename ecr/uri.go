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

	"github.com/pkg/errors"
)

const (
	dnsSuffix      = "amazonaws.com"
	dnsSuffixChina = "amazonaws.com.cn"
	chinaPrefix    = "cn-"
	hostInfix      = ".dkr.ecr."
	repoDelimiter  = "/"
)

var (
	errInvalidURI = errors.New("uri: invalid repository uri")
	hostRe        = regexp.MustCompile(`^([0-9]{12})\.dkr\.ecr\.([a-z]{2}(?:-[a-z]+)+-[0-9]+)\.(amazonaws\.com(?:\.cn)?)$`)
)

// RepositoryURI is the registry-qualified address images are tagged with
// before they are pushed to a repository. Only the commercial, GovCloud and
// China partitions are covered.
type RepositoryURI struct {
	RegistryID string
	Region     string
	DNSSuffix  string
	Repository string
}

// BuildRepositoryURI returns the URI ECR assigns to a repository.
func BuildRepositoryURI(registryID, region, repository string) RepositoryURI {
	suffix := dnsSuffix
	if strings.HasPrefix(region, chinaPrefix) {
		suffix = dnsSuffixChina
	}
	return RepositoryURI{
		RegistryID: registryID,
		Region:     region,
		DNSSuffix:  suffix,
		Repository: repository,
	}
}

// ParseRepositoryURI parses a URI of the form
// <account>.dkr.ecr.<region>.amazonaws.com/<repository>.
func ParseRepositoryURI(uri string) (RepositoryURI, error) {
	host, repository, ok := strings.Cut(uri, repoDelimiter)
	if !ok {
		return RepositoryURI{}, errors.Wrapf(errInvalidURI, "%q has no repository", uri)
	}
	matches := hostRe.FindStringSubmatch(host)
	if matches == nil {
		return RepositoryURI{}, errors.Wrapf(errInvalidURI, "%q is not an ECR registry host", host)
	}
	if err := validateRepositoryName(repository); err != nil {
		return RepositoryURI{}, errors.Wrapf(errInvalidURI, "%q: %v", uri, err)
	}
	return RepositoryURI{
		RegistryID: matches[1],
		Region:     matches[2],
		DNSSuffix:  matches[3],
		Repository: repository,
	}, nil
}

// Host returns the registry host name.
func (u RepositoryURI) Host() string {
	return u.RegistryID + hostInfix + u.Region + "." + u.DNSSuffix
}

// String returns the canonical representation
func (u RepositoryURI) String() string {
	return u.Host() + repoDelimiter + u.Repository
}
