// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package suppressions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"phi-scan/internal/detector"
	"phi-scan/internal/paths"
)

var (
	// ErrRuleExists is returned when a finding already has a rule
	ErrRuleExists = errors.New("suppression rule already exists for this finding")

	// ErrRuleNotFound is returned when no rule has the requested ID or hash
	ErrRuleNotFound = errors.New("suppression rule not found")
)

// Width of the context window hashed into a finding's identity
const contextChars = 30

// Default lifetime of a new rule
const defaultExpiry = 7 * 24 * time.Hour

// SuppressionRule represents a single suppression rule
type SuppressionRule struct {
	ID         string            `yaml:"id" json:"id"`
	Hash       string            `yaml:"hash" json:"hash"`
	Reason     string            `yaml:"reason" json:"reason"`
	Enabled    bool              `yaml:"enabled" json:"enabled"`
	CreatedBy  string            `yaml:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt  time.Time         `yaml:"created_at" json:"created_at"`
	LastSeenAt *time.Time        `yaml:"last_seen_at,omitempty" json:"last_seen_at,omitempty"`
	ExpiresAt  *time.Time        `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
	Metadata   map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// SuppressionConfig represents the suppression configuration file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// SuppressionManager handles finding suppressions. It is safe for
// concurrent use; writes are persisted to the rule file immediately.
type SuppressionManager struct {
	mu         sync.RWMutex
	configPath string
	config     *SuppressionConfig
	enabled    bool
	now        func() time.Time
}

// NewSuppressionManager creates a new suppression manager. An empty path
// uses the per-user suppressions file.
func NewSuppressionManager(configPath string) *SuppressionManager {
	if configPath == "" {
		configPath = paths.GetSuppressionsFile()
	}

	manager := &SuppressionManager{
		configPath: configPath,
		enabled:    true,
		now:        time.Now,
	}

	manager.loadConfig()
	return manager
}

func emptyConfig() *SuppressionConfig {
	return &SuppressionConfig{
		Version: "1.0",
		Rules:   []SuppressionRule{},
	}
}

// loadConfig loads the suppression configuration. A missing or malformed
// file yields an empty rule set.
func (sm *SuppressionManager) loadConfig() {
	data, err := os.ReadFile(filepath.Clean(sm.configPath))
	if err != nil {
		sm.config = emptyConfig()
		return
	}

	var config SuppressionConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		sm.config = emptyConfig()
		return
	}

	sm.config = &config
}

// FindingHash identifies a finding by its type, its text and the text
// around it. Offsets are left out so that a rule survives edits elsewhere
// in the document. The finding text is only ever stored hashed.
func FindingHash(text string, f detector.Finding) string {
	ctx := detector.NewContextExtractor().WithContextChars(contextChars).Extract(text, f.StartOffset, f.EndOffset)

	components := []string{
		string(f.Type),
		hashSensitiveData(f.MatchedText),
		hashSensitiveData(strings.TrimSpace(ctx.BeforeText) + "|" + strings.TrimSpace(ctx.AfterText)),
	}

	hash := sha256.Sum256([]byte(strings.Join(components, "|")))
	return fmt.Sprintf("%x", hash)
}

// hashSensitiveData creates a short hash of sensitive data
func hashSensitiveData(data string) string {
	if data == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)[:16]
}

// IsSuppressed checks if a finding in text should be suppressed
func (sm *SuppressionManager) IsSuppressed(text string, f detector.Finding) (bool, *SuppressionRule) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.enabled || sm.config == nil {
		return false, nil
	}

	findingHash := FindingHash(text, f)
	now := sm.now()
	for _, rule := range sm.config.Rules {
		if rule.Hash != findingHash || !rule.Enabled {
			continue
		}
		if rule.ExpiresAt != nil && now.After(*rule.ExpiresAt) {
			continue
		}
		found := rule
		return true, &found
	}

	return false, nil
}

// Apply splits findings into kept and suppressed ones, preserving order
func (sm *SuppressionManager) Apply(text string, findings []detector.Finding) ([]detector.Finding, []detector.SuppressedFinding) {
	var kept []detector.Finding
	var suppressed []detector.SuppressedFinding
	for _, f := range findings {
		if ok, rule := sm.IsSuppressed(text, f); ok {
			suppressed = append(suppressed, detector.SuppressedFinding{
				Finding:      f,
				SuppressedBy: rule.ID,
				RuleReason:   rule.Reason,
				ExpiresAt:    rule.ExpiresAt,
			})
			continue
		}
		kept = append(kept, f)
	}
	return kept, suppressed
}

// nextID returns the next sequential rule ID. Caller holds the write lock.
func (sm *SuppressionManager) nextID(offset int) string {
	maxID := 0
	for _, rule := range sm.config.Rules {
		var num int
		if _, err := fmt.Sscanf(rule.ID, "SUP-%08d", &num); err == nil && num > maxID {
			maxID = num
		}
	}
	return fmt.Sprintf("SUP-%08d", maxID+offset+1)
}

func (sm *SuppressionManager) newRule(id, hash, reason, createdBy string, enabled bool, f detector.Finding, expiresAt *time.Time) SuppressionRule {
	now := sm.now()
	if expiresAt == nil {
		expiry := now.Add(defaultExpiry)
		expiresAt = &expiry
	}
	return SuppressionRule{
		ID:         id,
		Hash:       hash,
		Reason:     reason,
		Enabled:    enabled,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		LastSeenAt: &now,
		ExpiresAt:  expiresAt,
		Metadata: map[string]string{
			"finding_type":    string(f.Type),
			"confidence":      fmt.Sprintf("%.2f", f.Confidence),
			"match_text_hash": hashSensitiveData(f.MatchedText),
		},
	}
}

// AddSuppression adds a new enabled rule for a finding. A nil expiresAt
// means one week from now.
func (sm *SuppressionManager) AddSuppression(text string, f detector.Finding, reason, createdBy string, expiresAt *time.Time) (*SuppressionRule, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.config == nil {
		sm.config = emptyConfig()
	}

	findingHash := FindingHash(text, f)
	for _, rule := range sm.config.Rules {
		if rule.Hash == findingHash {
			return nil, ErrRuleExists
		}
	}

	rule := sm.newRule(sm.nextID(0), findingHash, reason, createdBy, true, f, expiresAt)
	sm.config.Rules = append(sm.config.Rules, rule)
	if err := sm.saveConfig(); err != nil {
		return nil, err
	}
	return &rule, nil
}

// GenerateSuppressionRules creates rules for every finding that has none
// yet and refreshes last_seen_at on those that do
func (sm *SuppressionManager) GenerateSuppressionRules(text string, findings []detector.Finding, reason string, enabled bool) (int, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.config == nil {
		sm.config = emptyConfig()
	}

	existing := make(map[string]int, len(sm.config.Rules))
	for i := range sm.config.Rules {
		existing[sm.config.Rules[i].Hash] = i
	}

	now := sm.now()
	added, updated := 0, 0
	var newRules []SuppressionRule
	for _, f := range findings {
		findingHash := FindingHash(text, f)
		if i, ok := existing[findingHash]; ok {
			// -1 marks a rule added earlier in this batch
			if i >= 0 {
				sm.config.Rules[i].LastSeenAt = &now
				updated++
			}
			continue
		}
		rule := sm.newRule(sm.nextID(added), findingHash, reason, "generated", enabled, f, nil)
		existing[findingHash] = -1
		newRules = append(newRules, rule)
		added++
	}
	sm.config.Rules = append(sm.config.Rules, newRules...)

	if added > 0 || updated > 0 {
		return added, sm.saveConfig()
	}
	return 0, nil
}

// RemoveSuppression removes a suppression rule by ID
func (sm *SuppressionManager) RemoveSuppression(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for i, rule := range sm.config.Rules {
		if rule.ID == id {
			sm.config.Rules = append(sm.config.Rules[:i], sm.config.Rules[i+1:]...)
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// SetRuleEnabled enables or disables a rule by ID
func (sm *SuppressionManager) SetRuleEnabled(id string, enabled bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for i := range sm.config.Rules {
		if sm.config.Rules[i].ID == id {
			sm.config.Rules[i].Enabled = enabled
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// ListSuppressions returns a copy of all suppression rules
func (sm *SuppressionManager) ListSuppressions() []SuppressionRule {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.config == nil {
		return []SuppressionRule{}
	}
	rules := make([]SuppressionRule, len(sm.config.Rules))
	copy(rules, sm.config.Rules)
	return rules
}

// CleanupExpired removes expired suppression rules
func (sm *SuppressionManager) CleanupExpired() (int, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	var active []SuppressionRule
	for _, rule := range sm.config.Rules {
		if rule.ExpiresAt == nil || now.Before(*rule.ExpiresAt) {
			active = append(active, rule)
		}
	}

	removed := len(sm.config.Rules) - len(active)
	sm.config.Rules = active
	if removed > 0 {
		return removed, sm.saveConfig()
	}
	return 0, nil
}

// saveConfig saves the suppression configuration. Caller holds the write lock.
func (sm *SuppressionManager) saveConfig() error {
	data, err := yaml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("failed to marshal suppression config: %w", err)
	}

	if dir := filepath.Dir(sm.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(sm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	return nil
}

// SetEnabled enables or disables the suppression manager
func (sm *SuppressionManager) SetEnabled(enabled bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.enabled = enabled
}

// IsEnabled returns whether the suppression manager is enabled
func (sm *SuppressionManager) IsEnabled() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.enabled
}

// GetConfigPath returns the path to the suppression config file
func (sm *SuppressionManager) GetConfigPath() string {
	return sm.configPath
}
