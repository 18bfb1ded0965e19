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

// Package ecr ensures Amazon ECR repositories exist before images are pushed
// to them.
//
// Ensure
//
// An Ensurer describes the repository and creates it only when ECR answers
// with RepositoryNotFoundException. Every other failure is returned as an
// *Error carrying one of three classes, so callers can tell "needs creation"
// apart from "cannot determine state":
//
//	ClassPermissionDenied    credentials missing or not allowed
//	ClassValidation          malformed repository name, region or setting
//	ClassTransientOrUnknown  service faults, throttling, network errors
//
// Errors also match the github.com/containerd/errdefs sentinels, e.g.
// errdefs.IsPermissionDenied(err).
//
// Ensure does not retry; requests are retried only as configured on the AWS
// SDK client (see WithMaxRetries).
//
// URIs
//
// Repository URIs have the form
// "<account>.dkr.ecr.<region>.amazonaws.com/<name>", with amazonaws.com.cn
// for the China regions.
//
// License
//
// This package is licensed under the Apache 2.0 license.
package ecr
