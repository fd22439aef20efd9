// Package plan is the single source of truth for subscription-tier
// entitlements. Both request-time feature checks and account-creation defaults
// read the same table, so quotas cannot drift between call sites.
package plan

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"github.com/affistack/affistack-api/internal/domain"
)

type Feature string

const (
	FeatureBasicTemplates   Feature = "basicTemplates"
	FeaturePremiumTemplates Feature = "premiumTemplates"
	FeatureCustomDomain     Feature = "customDomain"
	FeatureDiscordAccess    Feature = "discordAccess"
	FeaturePrioritySupport  Feature = "prioritySupport"
	FeatureAPIAccess        Feature = "apiAccess"
	FeatureWhiteLabel       Feature = "whiteLabel"
	FeatureDedicatedSupport Feature = "dedicatedSupport"
)

// UnlimitedWebsites marks a quota with no upper bound.
const UnlimitedWebsites = -1

type Entitlements struct {
	WebsiteQuota int       `json:"websiteQuota"`
	Features     []Feature `json:"features"`
}

type Table struct {
	entries map[domain.Plan]Entitlements
}

// Default returns the built-in entitlement table.
func Default() *Table {
	return &Table{entries: map[domain.Plan]Entitlements{
		domain.PlanBasic: {
			WebsiteQuota: 3,
			Features:     []Feature{FeatureBasicTemplates},
		},
		domain.PlanPro: {
			WebsiteQuota: 10,
			Features: []Feature{
				FeatureBasicTemplates,
				FeaturePremiumTemplates,
				FeatureCustomDomain,
				FeatureDiscordAccess,
				FeaturePrioritySupport,
			},
		},
		domain.PlanEnterprise: {
			WebsiteQuota: UnlimitedWebsites,
			Features: []Feature{
				FeatureBasicTemplates,
				FeaturePremiumTemplates,
				FeatureCustomDomain,
				FeatureDiscordAccess,
				FeaturePrioritySupport,
				FeatureAPIAccess,
				FeatureWhiteLabel,
				FeatureDedicatedSupport,
			},
		},
	}}
}

// LoadFile overlays entries from a YAML file onto the defaults. Plans absent
// from the file keep their built-in entitlements.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plan: read table file: %w", err)
	}
	var overrides map[domain.Plan]Entitlements
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("plan: parse table file: %w", err)
	}
	t := Default()
	for p, e := range overrides {
		if !p.Valid() {
			return nil, fmt.Errorf("plan: unknown plan %q in table file", p)
		}
		t.entries[p] = e
	}
	return t, nil
}

// Entitlements returns the quota and feature set for a plan.
func (t *Table) Entitlements(p domain.Plan) (Entitlements, bool) {
	e, ok := t.entries[p]
	return e, ok
}

// WebsiteQuota returns the website quota for a plan, zero for unknown plans.
func (t *Table) WebsiteQuota(p domain.Plan) int {
	return t.entries[p].WebsiteQuota
}

// HasAccess reports whether a plan includes a feature. Pure lookup, no side
// effects.
func (t *Table) HasAccess(p domain.Plan, f Feature) bool {
	e, ok := t.entries[p]
	if !ok {
		return false
	}
	for _, have := range e.Features {
		if have == f {
			return true
		}
	}
	return false
}
