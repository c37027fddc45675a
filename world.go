package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const MaxCases = 99

type actionSpec struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
	Label       string `yaml:"label"`
	Response    string `yaml:"response"`
	Kind        Kind   `yaml:"kind"`
}

type caseSpec struct {
	Name        string            `yaml:"name"`
	Bio         Bio               `yaml:"bio"`
	History     []string          `yaml:"history"`
	Tests       []TestEntry       `yaml:"tests"`
	Resolutions []ResolutionEntry `yaml:"resolutions"`
	Actions     []actionSpec      `yaml:"actions"`
}

// catalogFile is the on-disk shape shared by the ini and yaml loaders.
type catalogFile struct {
	Tests []TestEntry `yaml:"tests"`
	Cases []caseSpec  `yaml:"cases"`
}

// LoadCatalog reads the case list from casesPath and the default tests from
// testsPath. With an empty testsPath the defaults come from the cases file.
func LoadCatalog(casesPath, testsPath string) (*Catalog, error) {
	cases, err := readCatalogFile(casesPath)
	if err != nil {
		return nil, err
	}
	tests := cases.Tests
	if testsPath != "" {
		f, err := readCatalogFile(testsPath)
		if err != nil {
			return nil, err
		}
		tests = f.Tests
	}
	return buildCatalog(cases.Cases, tests)
}

func readCatalogFile(path string) (*catalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var f *catalogFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = parseCatalogYAML(data)
	default:
		f, err = parseCatalogINI(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return f, nil
}

func parseCatalogYAML(data []byte) (*catalogFile, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// iniOptions keeps ';' and '#' inside values: patient lines and test
// results use them as ordinary punctuation. Comments must start a line.
var iniOptions = ini.LoadOptions{IgnoreInlineComment: true}

// parseCatalogINI reads numbered sections:
//
//	[Tests]               key = result
//	[Case1]               Name, Age, Gender, Weight, Height, History1..n
//	[Case1 Tests]         key = result
//	[Case1 Resolution1]   Key, Value, Feedback
//	[Case1 Action1]       Command, Description, Label, Response, Kind
func parseCatalogINI(data []byte) (*catalogFile, error) {
	cfg, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	if cfg.HasSection("Tests") {
		f.Tests = iniTests(cfg.Section("Tests"))
	}

	for i := 1; i <= MaxCases; i++ {
		name := fmt.Sprintf("Case%d", i)
		if !cfg.HasSection(name) {
			break
		}
		sec := cfg.Section(name)
		c := caseSpec{
			Name: sec.Key("Name").String(),
			Bio: Bio{
				Age:    sec.Key("Age").String(),
				Gender: sec.Key("Gender").String(),
				Weight: sec.Key("Weight").String(),
				Height: sec.Key("Height").String(),
			},
		}
		for h := 1; sec.HasKey(fmt.Sprintf("History%d", h)); h++ {
			c.History = append(c.History, sec.Key(fmt.Sprintf("History%d", h)).String())
		}
		if cfg.HasSection(name + " Tests") {
			c.Tests = iniTests(cfg.Section(name + " Tests"))
		}
		for r := 1; cfg.HasSection(fmt.Sprintf("%s Resolution%d", name, r)); r++ {
			rs := cfg.Section(fmt.Sprintf("%s Resolution%d", name, r))
			c.Resolutions = append(c.Resolutions, ResolutionEntry{
				Key:      rs.Key("Key").String(),
				Value:    rs.Key("Value").String(),
				Feedback: rs.Key("Feedback").String(),
			})
		}
		for a := 1; cfg.HasSection(fmt.Sprintf("%s Action%d", name, a)); a++ {
			as := cfg.Section(fmt.Sprintf("%s Action%d", name, a))
			c.Actions = append(c.Actions, actionSpec{
				Command:     as.Key("Command").String(),
				Description: as.Key("Description").String(),
				Label:       as.Key("Label").String(),
				Response:    as.Key("Response").String(),
				Kind:        Kind(as.Key("Kind").String()),
			})
		}
		f.Cases = append(f.Cases, c)
	}
	return &f, nil
}

func iniTests(sec *ini.Section) []TestEntry {
	var tests []TestEntry
	for _, k := range sec.Keys() {
		tests = append(tests, TestEntry{Key: k.Name(), Value: k.String()})
	}
	return tests
}

func buildCatalog(specs []caseSpec, tests []TestEntry) (*Catalog, error) {
	catalog := &Catalog{Tests: tests}
	var errs []error
	for i, spec := range specs {
		if strings.TrimSpace(spec.Name) == "" {
			errs = append(errs, fmt.Errorf("case %d: missing name", i+1))
			continue
		}
		c := &Case{
			Name:        spec.Name,
			Bio:         spec.Bio,
			History:     spec.History,
			Tests:       spec.Tests,
			Resolutions: spec.Resolutions,
		}
		for j, a := range spec.Actions {
			a.Command = strings.TrimSpace(a.Command)
			if a.Command == "" {
				errs = append(errs, fmt.Errorf("case %q action %d: missing command", spec.Name, j+1))
				continue
			}
			// Input is split on whitespace before matching, so a command
			// containing a space could never be typed.
			if strings.ContainsFunc(a.Command, unicode.IsSpace) {
				errs = append(errs, fmt.Errorf("case %q action %q: command must be a single word", spec.Name, a.Command))
				continue
			}
			switch a.Kind {
			case "", KindSay, KindTell, KindCommand:
			default:
				errs = append(errs, fmt.Errorf("case %q action %q: unknown kind %q", spec.Name, a.Command, a.Kind))
				continue
			}
			label := a.Label
			if label == "" {
				label = a.Command
			}
			c.ExtraActions = append(c.ExtraActions, replyAction(a.Command, a.Description, label, a.Kind, a.Response))
		}
		catalog.Cases = append(catalog.Cases, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return catalog, nil
}
