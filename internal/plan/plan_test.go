package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/affistack/affistack-api/internal/domain"
)

func TestDefaultQuotas(t *testing.T) {
	table := Default()

	if got := table.WebsiteQuota(domain.PlanBasic); got != 3 {
		t.Fatalf("expected basic quota 3, got %d", got)
	}
	if got := table.WebsiteQuota(domain.PlanPro); got != 10 {
		t.Fatalf("expected pro quota 10, got %d", got)
	}
	if got := table.WebsiteQuota(domain.PlanEnterprise); got != UnlimitedWebsites {
		t.Fatalf("expected enterprise quota unlimited, got %d", got)
	}
}

func TestHasAccess(t *testing.T) {
	table := Default()

	if table.HasAccess(domain.PlanBasic, FeatureDiscordAccess) {
		t.Fatalf("basic plan should not include discord access")
	}
	if !table.HasAccess(domain.PlanPro, FeatureDiscordAccess) {
		t.Fatalf("pro plan should include discord access")
	}
	if !table.HasAccess(domain.PlanBasic, FeatureBasicTemplates) {
		t.Fatalf("basic plan should include basic templates")
	}
	if table.HasAccess(domain.Plan("unknown"), FeatureBasicTemplates) {
		t.Fatalf("unknown plan should have no access")
	}
}

func TestEntitlementsUnknownPlan(t *testing.T) {
	table := Default()
	if _, ok := table.Entitlements(domain.Plan("free")); ok {
		t.Fatalf("expected no entitlements for unknown plan")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	content := []byte("pro:\n  websiteQuota: 25\n  features:\n    - basicTemplates\n    - discordAccess\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write table file: %v", err)
	}

	table, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	if got := table.WebsiteQuota(domain.PlanPro); got != 25 {
		t.Fatalf("expected overridden pro quota 25, got %d", got)
	}
	if table.HasAccess(domain.PlanPro, FeatureCustomDomain) {
		t.Fatalf("override should have replaced the pro feature set")
	}
	// basic untouched by the override file
	if got := table.WebsiteQuota(domain.PlanBasic); got != 3 {
		t.Fatalf("expected basic quota 3 after partial override, got %d", got)
	}
}

func TestLoadFileRejectsUnknownPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans.yaml")
	if err := os.WriteFile(path, []byte("platinum:\n  websiteQuota: 99\n"), 0o600); err != nil {
		t.Fatalf("write table file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected error for unknown plan name")
	}
}
