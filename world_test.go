package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iniCatalog = `[Tests]
CRP = under 5
Hb = 140

[Case1]
Name = Anna Berg
Age = 34
Gender = kvinna
Weight = 64 kg
Height = 168 cm
History1 = Första.
History2 = Andra.
History4 = Hoppas över.

[Case1 Tests]
CRP = 187

[Case1 Resolution1]
Key = diagnos
Value = Pneumoni
Feedback = Bra.

[Case1 Action1]
Command = Lyssna
Description = Lyssna på lungorna.
Response = Det knastrar.

[Case2]
Name = Bengt Ek

[Case4]
Name = Hoppas över
`

const yamlCatalog = `tests:
  - key: CRP
    value: under 5
cases:
  - name: Anna Berg
    bio: {age: "34", gender: kvinna, weight: 64 kg, height: 168 cm}
    history:
      - Första.
    tests:
      - {key: CRP, value: "187"}
    resolutions:
      - {key: diagnos, value: Pneumoni, feedback: Bra.}
      - {key: vila, value: delvis, feedback: Nja.}
    actions:
      - command: lyssna
        label: Auskultation
        response: Det knastrar.
        kind: tell
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCatalogINI(t *testing.T) {
	f, err := parseCatalogINI([]byte(iniCatalog))
	require.NoError(t, err)

	assert.Equal(t, []TestEntry{{Key: "CRP", Value: "under 5"}, {Key: "Hb", Value: "140"}}, f.Tests)
	require.Len(t, f.Cases, 2, "numbering stops at the first gap")

	anna := f.Cases[0]
	assert.Equal(t, "Anna Berg", anna.Name)
	assert.Equal(t, Bio{Age: "34", Gender: "kvinna", Weight: "64 kg", Height: "168 cm"}, anna.Bio)
	assert.Equal(t, []string{"Första.", "Andra."}, anna.History)
	assert.Equal(t, []TestEntry{{Key: "CRP", Value: "187"}}, anna.Tests)
	assert.Equal(t, []ResolutionEntry{{Key: "diagnos", Value: "Pneumoni", Feedback: "Bra."}}, anna.Resolutions)
	require.Len(t, anna.Actions, 1)
	assert.Equal(t, "Lyssna", anna.Actions[0].Command)

	assert.Empty(t, f.Cases[1].History)
}

func TestLoadCatalogINIWithInlineTests(t *testing.T) {
	path := writeFile(t, "cases.ini", iniCatalog)
	catalog, err := LoadCatalog(path, "")
	require.NoError(t, err)

	assert.Equal(t, 2, catalog.Len())
	assert.Len(t, catalog.Tests, 2)

	action := catalog.Cases[0].ExtraActions[0]
	assert.Equal(t, "lyssna", action.Command)
	assert.Equal(t, "Lyssna", action.Label, "label falls back to the command")

	rec := &Recorder{}
	s := NewSession(catalog, rec)
	s.Dispatch("nästa")
	rec.Drain()
	s.Dispatch("lys")
	assert.Equal(t, []Fragment{{Kind: KindCommand, Text: "Lyssna ()"}, {Kind: KindSay, Text: "Det knastrar."}}, rec.Fragments)
}

func TestLoadCatalogYAML(t *testing.T) {
	cases := writeFile(t, "cases.yaml", yamlCatalog)
	tests := writeFile(t, "tests.ini", "[Tests]\nEKG = sinusrytm\n")

	catalog, err := LoadCatalog(cases, tests)
	require.NoError(t, err)
	assert.Equal(t, []TestEntry{{Key: "EKG", Value: "sinusrytm"}}, catalog.Tests)
	require.Equal(t, 1, catalog.Len())

	c := catalog.Cases[0]
	assert.Equal(t, "34", c.Bio.Age)
	assert.Len(t, c.Resolutions, 2)
	require.Len(t, c.ExtraActions, 1)
	assert.Equal(t, "Auskultation", c.ExtraActions[0].Label)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.ini"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read catalog")

	bad := writeFile(t, "bad.yaml", "cases: [\n")
	_, err = LoadCatalog(bad, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse catalog")

	invalid := writeFile(t, "invalid.yaml", `cases:
  - name: ""
  - name: Ok
    actions:
      - {command: "", response: x}
      - {command: hosta, kind: shout}
      - {command: "lyssna lungor", response: x}
`)
	_, err = LoadCatalog(invalid, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case 1: missing name")
	assert.Contains(t, err.Error(), "action 1: missing command")
	assert.Contains(t, err.Error(), `unknown kind "shout"`)
	assert.Contains(t, err.Error(), `action "lyssna lungor": command must be a single word`)
}

func TestLoadCatalogKeepsCommentCharactersInValues(t *testing.T) {
	cases := writeFile(t, "cases.ini", `; kommentarer börjar raden
[Case1]
Name = Anna Berg
History1 = Nej, jag röker inte. #aldrig
History2 = Det gör ont; mest på natten.

[Case1 Resolution1]
Key = diagnos
Value = Pneumoni; höger underlob
Feedback = Se #2 i journalen.
`)
	tests := writeFile(t, "tests.ini", "# standardvärden\n[Tests]\nHb = 140 g/L ; lågt normalvärde\n")

	catalog, err := LoadCatalog(cases, tests)
	require.NoError(t, err)
	assert.Equal(t, []TestEntry{{Key: "Hb", Value: "140 g/L ; lågt normalvärde"}}, catalog.Tests)

	anna := catalog.Cases[0]
	assert.Equal(t, []string{"Nej, jag röker inte. #aldrig", "Det gör ont; mest på natten."}, anna.History)
	assert.Equal(t, []ResolutionEntry{{Key: "diagnos", Value: "Pneumoni; höger underlob", Feedback: "Se #2 i journalen."}}, anna.Resolutions)
}

func TestShippedCatalogLoads(t *testing.T) {
	catalog, err := LoadCatalog("data/cases.ini", "data/tests.ini")
	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())
	assert.NotEmpty(t, catalog.Tests)
	for _, c := range catalog.Cases {
		assert.NotEmpty(t, c.History, c.Name)
		_, ok := findResolution(c.Resolutions, DiagnosisKey)
		assert.True(t, ok, c.Name)
	}
}
