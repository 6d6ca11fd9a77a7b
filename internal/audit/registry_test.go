package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
)

func TestEmbeddedRegistryCoversAllModules(t *testing.T) {
	reg, err := embeddedRegistry()
	if err != nil {
		t.Fatalf("embedded registry: %v", err)
	}
	mods := reg.Modules()
	if len(mods) != len(activity.AllModules) {
		t.Fatalf("modules: want=%d got=%d (%v)", len(activity.AllModules), len(mods), mods)
	}
	for i, m := range activity.AllModules {
		if mods[i] != m {
			t.Fatalf("module order: want=%s got=%s at %d", m, mods[i], i)
		}
	}
	items, ok := reg.Profile("loading_items")
	if !ok {
		t.Fatalf("loading_items profile missing")
	}
	if items.Module != activity.ModuleLoadingSheets || items.Table() != "loading_sheets_activity" {
		t.Fatalf("loading_items routes to %s/%s", items.Module, items.Table())
	}
	if items.kindOf("cbm") != KindDecimal || items.kindOf("ctn") != KindInt {
		t.Fatalf("loading_items kinds: cbm=%s ctn=%s", items.kindOf("cbm"), items.kindOf("ctn"))
	}
	c, _ := reg.Profile("containers")
	if c.kindOf("loading_date") != KindDate || c.IdentifyingField != "code" {
		t.Fatalf("containers profile: %+v", c)
	}
}

func TestParseRegistryRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"empty":          "version: 1\nprofiles: []\n",
		"unknown module": "profiles:\n  - {name: x, module: nope, identifying_field: a, fields: [{name: a}]}\n",
		"no identifying": "profiles:\n  - {name: x, module: invoices, fields: [{name: a}]}\n",
		"bad kind":       "profiles:\n  - {name: x, module: invoices, identifying_field: a, fields: [{name: a, kind: blob}]}\n",
		"duplicate": "profiles:\n" +
			"  - {name: x, module: invoices, identifying_field: a, fields: [{name: a}]}\n" +
			"  - {name: x, module: invoices, identifying_field: a, fields: [{name: a}]}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRegistry([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseRegistryDefaultsKind(t *testing.T) {
	reg, err := ParseRegistry([]byte("profiles:\n  - {name: x, module: invoices, identifying_field: a, fields: [{name: a}]}\n"))
	if err != nil {
		t.Fatalf("ParseRegistry: %v", err)
	}
	p, _ := reg.Profile("x")
	if p.Fields[0].Kind != KindString {
		t.Fatalf("default kind: got=%s", p.Fields[0].Kind)
	}
}

func TestLoadRegistryFromOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.yaml")
	doc := "profiles:\n  - {name: only_invoices, module: invoices, identifying_field: invoice_no, fields: [{name: invoice_no}]}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(modulesYAMLEnv, path)
	reg, err := loadRegistry()
	if err != nil {
		t.Fatalf("loadRegistry: %v", err)
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "only_invoices" {
		t.Fatalf("override names: %v", names)
	}
}
