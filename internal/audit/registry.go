package audit

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/cargoledger-backend/internal/domain/activity"
	"github.com/yungbote/cargoledger-backend/internal/platform/logger"
)

const modulesYAMLEnv = "AUDIT_MODULES_YAML"

//go:embed modules.yaml
var modulesFS embed.FS

type Kind string

const (
	KindString  Kind = "string"
	KindDate    Kind = "date"
	KindDecimal Kind = "decimal"
	KindInt     Kind = "int"
)

func (k Kind) valid() bool {
	switch k {
	case KindString, KindDate, KindDecimal, KindInt:
		return true
	}
	return false
}

type FieldSpec struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`
}

// Profile configures auditing for one entity type.
type Profile struct {
	Name             string          `yaml:"name"`
	Module           activity.Module `yaml:"module"`
	IdentifyingField string          `yaml:"identifying_field"`
	Fields           []FieldSpec     `yaml:"fields"`
}

// Table is the audit table the profile writes to.
func (p *Profile) Table() string { return activity.TableFor(p.Module) }

func (p *Profile) kindOf(field string) Kind {
	for _, f := range p.Fields {
		if f.Name == field {
			return f.Kind
		}
	}
	return KindString
}

type yamlRegistry struct {
	Version  int        `yaml:"version"`
	Profiles []*Profile `yaml:"profiles"`
}

// Registry holds the audit profiles by name.
type Registry struct {
	profiles map[string]*Profile
	order    []string
}

// ParseRegistry decodes and validates a registry document.
func ParseRegistry(raw []byte) (*Registry, error) {
	var doc yamlRegistry
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode audit registry: %w", err)
	}
	if len(doc.Profiles) == 0 {
		return nil, errors.New("audit registry has no profiles")
	}
	known := map[activity.Module]bool{}
	for _, m := range activity.AllModules {
		known[m] = true
	}
	reg := &Registry{profiles: map[string]*Profile{}}
	for _, p := range doc.Profiles {
		if p == nil {
			continue
		}
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return nil, errors.New("audit profile without name")
		}
		if _, dup := reg.profiles[p.Name]; dup {
			return nil, fmt.Errorf("audit profile %q declared twice", p.Name)
		}
		if !known[p.Module] {
			return nil, fmt.Errorf("audit profile %q: unknown module %q", p.Name, p.Module)
		}
		if strings.TrimSpace(p.IdentifyingField) == "" {
			return nil, fmt.Errorf("audit profile %q: identifying_field is required", p.Name)
		}
		if len(p.Fields) == 0 {
			return nil, fmt.Errorf("audit profile %q: no tracked fields", p.Name)
		}
		for i := range p.Fields {
			if p.Fields[i].Kind == "" {
				p.Fields[i].Kind = KindString
			}
			if !p.Fields[i].Kind.valid() {
				return nil, fmt.Errorf("audit profile %q: field %q has unknown kind %q", p.Name, p.Fields[i].Name, p.Fields[i].Kind)
			}
		}
		reg.profiles[p.Name] = p
		reg.order = append(reg.order, p.Name)
	}
	return reg, nil
}

// Profile looks up a profile by name.
func (r *Registry) Profile(name string) (*Profile, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.profiles[name]
	return p, ok
}

// Names lists profile names in declaration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Modules lists the distinct audited modules in activity.AllModules order.
func (r *Registry) Modules() []activity.Module {
	if r == nil {
		return nil
	}
	seen := map[activity.Module]bool{}
	for _, p := range r.profiles {
		seen[p.Module] = true
	}
	out := make([]activity.Module, 0, len(seen))
	for _, m := range activity.AllModules {
		if seen[m] {
			out = append(out, m)
		}
	}
	return out
}

func embeddedRegistry() (*Registry, error) {
	raw, err := modulesFS.ReadFile("modules.yaml")
	if err != nil {
		return nil, err
	}
	return ParseRegistry(raw)
}

func loadRegistry() (*Registry, error) {
	path := strings.TrimSpace(os.Getenv(modulesYAMLEnv))
	if path == "" {
		return embeddedRegistry()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseRegistry(raw)
}

var (
	registryOnce  sync.Once
	registryCache *Registry
	registryErr   error
)

// DefaultRegistry loads the registry once. An unreadable or invalid override falls back
// to the embedded document.
func DefaultRegistry(log *logger.Logger) *Registry {
	registryOnce.Do(func() {
		registryCache, registryErr = loadRegistry()
	})
	if registryErr == nil {
		return registryCache
	}
	if log != nil {
		log.Warn("audit: module registry load failed; using embedded", "error", registryErr)
	}
	reg, err := embeddedRegistry()
	if err != nil {
		panic(err)
	}
	return reg
}
