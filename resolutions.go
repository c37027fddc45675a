package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func findResolution(resolutions []ResolutionEntry, key string) (ResolutionEntry, bool) {
	for _, r := range resolutions {
		if r.Key == key {
			return r, true
		}
	}
	return ResolutionEntry{}, false
}

// matchTreatments collects every entry whose lower-cased key starts with a
// token, in token order. A token may match several entries.
func matchTreatments(resolutions []ResolutionEntry, tokens []string) []ResolutionEntry {
	var matched []ResolutionEntry
	for _, token := range tokens {
		for _, r := range resolutions {
			if strings.HasPrefix(strings.ToLower(r.Key), token) {
				matched = append(matched, r)
			}
		}
	}
	return matched
}

// diagnosis records a diagnosis for the current case. Any text is accepted;
// it unlocks treatment and the next case.
func (s *Session) diagnosis(args []string) {
	if len(args) == 0 {
		s.tell("Vilken diagnos vill du ställa?")
		return
	}
	if s.current == nil {
		s.tell("Du bör ha en patient hos dig innan du ställer en diagnos.")
		return
	}

	typed := strings.Join(args, " ")
	if d, ok := findResolution(s.current.Resolutions, DiagnosisKey); ok {
		s.say(fmt.Sprintf("Din diagnos är: %s\nPatientens verkliga diagnos är: %s\nKommentar: %s\n\nVad föreslår du för behandling?",
			typed, d.Value, d.Feedback))
	} else {
		s.log().Warn("case has no diagnosis entry", zap.String("case", s.current.Name))
		s.say(fmt.Sprintf("Din diagnos är: %s\nDet finns inget facit för den här patienten.\n\nVad föreslår du för behandling?", typed))
	}
	s.diagnosed = true
}

func (s *Session) listTreatments() string {
	var b strings.Builder
	b.WriteString("Tillgängliga behandlingar:")
	for _, r := range s.current.Resolutions {
		fmt.Fprintf(&b, "\n  - %s", r.Key)
	}
	return b.String()
}

func (s *Session) suggestTreatment(args []string) {
	if s.current == nil {
		s.tell("Du bör ha en patient hos dig innan du föreslår en behandling.")
		return
	}
	if len(args) == 0 {
		s.tell("Du måste ange en behandling. Skriv 'behandling lista' för att se vilka behandlingar som är möjliga.")
		return
	}
	if strings.HasPrefix(args[0], ListPrefix) {
		s.insert(KindTell, s.listTreatments())
		return
	}

	treatments := matchTreatments(s.current.Resolutions, args)
	if len(treatments) == 0 {
		s.tell("Hittar inga behandlingar med det namnet. Skriv 'behandling lista' för att se vilka behandlingar som är möjliga.")
		return
	}
	var b strings.Builder
	b.WriteString("Kommentarer till dina behandlingar:")
	for _, r := range treatments {
		fmt.Fprintf(&b, "\n  - Behandling %s: %s", r.Key, r.Feedback)
	}
	s.insert(KindTell, b.String())
}
