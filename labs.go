package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func (s *Session) listTests() string {
	var b strings.Builder
	b.WriteString("Tillgängliga tester:")
	for i, t := range s.catalog.Tests {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, t.Key)
	}
	return b.String()
}

// mergeTests returns the current case's tests followed by every default test
// whose key is not already present. Keys are compared exactly.
func mergeTests(caseTests, defaults []TestEntry) []TestEntry {
	merged := make([]TestEntry, 0, len(caseTests)+len(defaults))
	merged = append(merged, caseTests...)
	seen := make(map[string]bool, len(caseTests))
	for _, t := range caseTests {
		seen[t.Key] = true
	}
	for _, t := range defaults {
		if !seen[t.Key] {
			merged = append(merged, t)
		}
	}
	return merged
}

// findTest returns the first entry whose lower-cased key starts with token.
func findTest(tests []TestEntry, token string) (TestEntry, bool) {
	for _, t := range tests {
		if strings.HasPrefix(strings.ToLower(t.Key), token) {
			return t, true
		}
	}
	return TestEntry{}, false
}

func (s *Session) issueTests(args []string) {
	if len(args) == 0 {
		s.tell("Du måste ange ett test. Skriv 'test lista' för att se vilka tester som finns.")
		return
	}
	if strings.HasPrefix(args[0], ListPrefix) {
		s.insert(KindTell, s.listTests())
		return
	}

	var caseTests []TestEntry
	if s.current != nil {
		caseTests = s.current.Tests
	}
	tests := mergeTests(caseTests, s.catalog.Tests)

	var b strings.Builder
	b.WriteString("Resultat från provtagning:")
	for _, token := range args {
		if t, ok := findTest(tests, token); ok {
			fmt.Fprintf(&b, "\n  - Test: %s värde: %s", t.Key, t.Value)
		} else {
			s.log().Debug("no test matched", zap.String("token", token))
			fmt.Fprintf(&b, "\n  - kan inte genomföra test %s", token)
		}
	}
	s.insert(KindTell, b.String())
}
