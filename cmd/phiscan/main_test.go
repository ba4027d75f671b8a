// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phi-scan/internal/formatters/shared"
	"phi-scan/internal/redactors"
)

const scenario = "Patient John Smith, DOB 01/15/1980, SSN 123-45-6789, reports chest pain."

// isolate keeps tests away from the user's config and suppression files
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PHI_SCAN_CONFIG_DIR", dir)
	chdir(t, dir)
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestScan_JSONFromStdin(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, scenario, "scan", "--format", "json")
	require.Equal(t, exitOK, code)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "stdin", resp.Results[0].Source)
	assert.True(t, resp.Results[0].HasPHI)
	assert.Len(t, resp.Results[0].Findings, 3)
	assert.NotContains(t, out, "123-45-6789", "matched text is hidden by default")
}

func TestScan_FailOnPHI(t *testing.T) {
	dir := isolate(t)
	dirty := writeFile(t, dir, "dirty.html", "<p>"+scenario+"</p>")
	clean := writeFile(t, dir, "clean.txt", "The study enrolled forty adults.")

	code, _, _ := runCLI(t, "", "scan", "--fail-on-phi", clean)
	assert.Equal(t, exitOK, code)

	code, out, _ := runCLI(t, "", "scan", "--fail-on-phi", "--no-color", dirty, clean)
	assert.Equal(t, exitPHIFound, code)
	assert.Contains(t, out, "== "+dirty+" ==")
	assert.Contains(t, out, "No PHI found.")
}

func TestScan_ManyFilesKeepArgumentOrder(t *testing.T) {
	dir := isolate(t)
	var files []string
	for _, name := range []string{"d.txt", "a.txt", "c.html", "b.txt"} {
		files = append(files, writeFile(t, dir, name, "<p>"+scenario+"</p>"))
	}

	args := append([]string{"scan", "--format", "json", "--workers", "3"}, files...)
	code, out, _ := runCLI(t, "", args...)
	require.Equal(t, exitOK, code)

	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, len(files))
	for i, r := range resp.Results {
		assert.Equal(t, files[i], r.Source)
		assert.Len(t, r.Findings, 3)
	}
}

func TestScan_PublishProfile(t *testing.T) {
	dir := isolate(t)
	dirty := writeFile(t, dir, "dirty.txt", scenario)

	code, out, _ := runCLI(t, "", "scan", "--profile", "publish", dirty)
	assert.Equal(t, exitPHIFound, code)
	assert.Equal(t, dirty+": high confidence, 1 ssn, 1 date_of_birth, 1 name\n", out)

	// Flags override the profile
	code, _, _ = runCLI(t, "", "scan", "--profile", "publish", "--fail-on-phi=false", dirty)
	assert.Equal(t, exitOK, code)
}

func TestScan_Errors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"scan", "does-not-exist.txt"}, "does-not-exist.txt"},
		{"unknown format", []string{"scan", "--format", "sarif"}, "unknown format"},
		{"unknown profile", []string{"scan", "--profile", "nope"}, `profile "nope" not found`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, "", tt.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, stderr, tt.want)
		})
	}
}

func TestRedact(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, scenario, "redact")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "Patient [PATIENT NAME], DOB [DATE OF BIRTH], SSN XXX-XX-XXXX, reports chest pain.", out)

	code, out, _ = runCLI(t, scenario, "redact", "--strategy", "mask", "--map")
	require.Equal(t, exitOK, code)
	var result redactors.RedactionResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "mask", result.Strategy)
	assert.Len(t, result.RedactionMap, 3)
	assert.Contains(t, result.Text, "XX/XX/XXXX")

	code, _, stderr := runCLI(t, scenario, "redact", "--strategy", "shred")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown redaction strategy")
}

func TestSuggest(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, scenario, "suggest")
	require.Equal(t, exitOK, code)
	assert.Equal(t, strings.Join([]string{
		`- Replace patient names with "Patient" or initials.`,
		"- Replace dates of birth with an age or age range.",
		"- Remove direct identifiers such as SSNs, phone numbers and email addresses.",
		"- Review the full text for PHI the scanner may have missed.",
		"- Have a second reviewer check the content before publication.",
	}, "\n")+"\n", out)
}

func TestDraft_FileBackend(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "phi-scan.yaml", "autosave:\n  backend: file\n  dir: "+filepath.Join(dir, "drafts")+"\n")

	code, out, _ := runCLI(t, "<p>draft body</p>", "draft", "save", "pub-1")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Saved draft pub-1")

	code, out, _ = runCLI(t, "", "draft", "load", "pub-1")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "<p>draft body</p>", out)

	code, _, _ = runCLI(t, "", "draft", "delete", "pub-1")
	require.Equal(t, exitOK, code)

	code, _, stderr := runCLI(t, "", "draft", "load", "pub-1")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "draft not found")
}

func TestSuppress_AddSuppressesFinding(t *testing.T) {
	dir := isolate(t)
	doc := writeFile(t, dir, "note.txt", scenario)
	rules := filepath.Join(dir, "rules.yaml")

	code, out, _ := runCLI(t, "", "suppress", "add", "--suppression-file", rules, doc)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "1  ssn")

	code, out, _ = runCLI(t, "", "suppress", "add", "--suppression-file", rules, "--index", "1", "--reason", "test number", doc)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "for ssn finding")

	code, out, _ = runCLI(t, "", "suppress", "list", "--suppression-file", rules)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "test number")

	code, out, _ = runCLI(t, "", "scan", "--format", "json", "--suppression-file", rules, doc)
	require.Equal(t, exitOK, code)
	var resp shared.JSONResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Len(t, resp.Results[0].Findings, 2)
	assert.Len(t, resp.Results[0].Suppressed, 1)
}

func TestChecks(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "", "checks", "--no-color")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "PERSON_NAME")
	assert.Contains(t, out, "DATE_OF_BIRTH")

	code, out, _ = runCLI(t, "", "checks", "ssn")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "SSN Check")

	code, _, _ = runCLI(t, "", "checks", "passport")
	assert.Equal(t, exitError, code)
}

func TestProfilesAndVersion(t *testing.T) {
	isolate(t)
	code, out, _ := runCLI(t, "", "profiles")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "publish")

	code, out, _ = runCLI(t, "", "version")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "phi-scan "))
}

// chdir switches the working directory for the duration of the test,
// matching testing.T.Chdir which is unavailable before Go 1.24
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
