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

package http

import (
	"errors"
	"net/url"

	"github.com/aws/aws-sdk-go/aws/awserr"
)

// RedactError walks an error chain, including the original errors wrapped by
// AWS SDK errors, and redacts HTTP query values from any URL error it finds.
// SDK request errors embed the request URL, which can carry presigned
// credentials in its query string.
//
// URL errors are redacted in place so the returned error (always err itself)
// formats without the sensitive values.
func RedactError(err error) error {
	for cur := err; cur != nil; {
		var urlErr *url.Error
		if errors.As(cur, &urlErr) {
			urlErr.URL = RedactHTTPQueryValuesFromURL(urlErr.URL)
			return err
		}
		var awsErr awserr.Error
		if !errors.As(cur, &awsErr) {
			return err
		}
		cur = awsErr.OrigErr()
	}
	return err
}

// RedactHTTPQueryValuesFromURL parses a raw URL and replaces every HTTP query
// value, as well as any user info password, with "redacted". Unparseable input
// is returned unchanged.
func RedactHTTPQueryValuesFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed == nil {
		return rawURL
	}
	if query := parsed.Query(); len(query) > 0 {
		for k := range query {
			query.Set(k, "redacted")
		}
		parsed.RawQuery = query.Encode()
	}
	return parsed.Redacted()
}
