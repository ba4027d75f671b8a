// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the phi-scan configuration directory.
// PHI_SCAN_CONFIG_DIR overrides the per-user default.
func GetConfigDir() string {
	if dir := os.Getenv("PHI_SCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "phi-scan")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".phi-scan")
	}
	return ".phi-scan"
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// GetSuppressionsFile returns the path to the suppressions file
func GetSuppressionsFile() string {
	return filepath.Join(GetConfigDir(), "suppressions.yaml")
}

// GetDraftsDir returns the directory used by the file draft store
func GetDraftsDir() string {
	return filepath.Join(GetConfigDir(), "drafts")
}
