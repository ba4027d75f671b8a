// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PHI_SCAN_CONFIG_DIR", dir)

	assert.Equal(t, dir, GetConfigDir())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), GetConfigFile())
	assert.Equal(t, filepath.Join(dir, "suppressions.yaml"), GetSuppressionsFile())
	assert.Equal(t, filepath.Join(dir, "drafts"), GetDraftsDir())
}

func TestConfigDirDefault(t *testing.T) {
	t.Setenv("PHI_SCAN_CONFIG_DIR", "")
	assert.NotEmpty(t, GetConfigDir())
	assert.Contains(t, GetConfigDir(), "phi-scan")
}
