// Package yaml loads human-authored manual plans from YAML.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"
	"sort"

	"github.com/fwojciec/docplan"
	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var defaultPlans []byte

// Plans maps plan names to manual plans.
type Plans map[string]*docplan.Plan

// Names returns the plan names in sorted order.
func (p Plans) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the named plan or ENOTFOUND.
func (p Plans) Find(name string) (*docplan.Plan, error) {
	plan, ok := p[name]
	if !ok {
		return nil, docplan.Errorf(docplan.ENOTFOUND, "manual plan %q not found", name)
	}
	return plan, nil
}

// Merge returns a new set holding p overridden by other.
func (p Plans) Merge(other Plans) Plans {
	out := make(Plans, len(p)+len(other))
	for name, plan := range p {
		out[name] = plan
	}
	for name, plan := range other {
		out[name] = plan
	}
	return out
}

type file struct {
	Plans map[string]entry `yaml:"plans"`
}

type entry struct {
	ProjectName     string   `yaml:"project_name"`
	StartURL        string   `yaml:"start_url"`
	BaseURL         string   `yaml:"base_url"`
	FetchStrategy   string   `yaml:"fetch_strategy"`
	NavSelector     string   `yaml:"nav_selector"`
	ContentSelector string   `yaml:"content_selector"`
	RemoveSelectors []string `yaml:"remove_selectors"`
}

// LoadPlans decodes and validates a plan file. Unknown keys are rejected.
func LoadPlans(r io.Reader) (Plans, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, docplan.Errorf(docplan.EINVALID, "invalid plan file: %v", err)
	}

	plans := make(Plans, len(f.Plans))
	for name, e := range f.Plans {
		plan, err := e.plan(name)
		if err != nil {
			return nil, docplan.Errorf(docplan.EINVALID, "plan %q: %s", name, docplan.ErrorMessage(err))
		}
		plans[name] = plan
	}
	return plans, nil
}

// LoadPlansFile reads plans from a YAML file.
func LoadPlansFile(path string) (Plans, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadPlans(f)
}

// DefaultPlans returns the built-in manual plans.
func DefaultPlans() Plans {
	plans, err := LoadPlans(bytes.NewReader(defaultPlans))
	if err != nil {
		panic("yaml: built-in plans invalid: " + err.Error())
	}
	return plans
}

func (e entry) plan(name string) (*docplan.Plan, error) {
	plan := &docplan.Plan{
		ProjectName:     e.ProjectName,
		StartURL:        e.StartURL,
		BaseURL:         e.BaseURL,
		FetchStrategy:   docplan.FetchStrategy(e.FetchStrategy),
		NavSelector:     e.NavSelector,
		ContentSelector: e.ContentSelector,
		RemoveSelectors: e.RemoveSelectors,
	}
	if plan.ProjectName == "" {
		plan.ProjectName = name
	}
	if plan.FetchStrategy == "" {
		plan.FetchStrategy = docplan.StrategyStatic
	}
	if plan.BaseURL == "" && plan.StartURL != "" {
		base, err := docplan.BaseURLFor(plan.StartURL)
		if err != nil {
			return nil, err
		}
		plan.BaseURL = base
	}
	if plan.RemoveSelectors == nil {
		plan.RemoveSelectors = []string{}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}
