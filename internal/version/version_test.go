// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	assert.True(t, strings.HasPrefix(Info(), "phi-scan "+Version))
	assert.Equal(t, Version, Short())
	assert.Equal(t, GitCommit, Full()["commit"])
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "phi-scan/"+Version+" ("+Platform+")", UserAgent())
}
