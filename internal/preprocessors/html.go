// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import "regexp"

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// StripTags replaces every <...> run with a single space. Finding offsets
// and redaction both refer to the returned text, so callers that want to
// redact must strip first and pass the result to the redactor.
//
// The result contains no further tag runs, so stripping twice is the same
// as stripping once.
func StripTags(content string) string {
	return tagRegex.ReplaceAllLiteralString(content, " ")
}
