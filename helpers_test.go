package main

import "testing"

func testCatalog() *Catalog {
	return &Catalog{
		Tests: []TestEntry{
			{Key: "CBC", Value: "standard"},
			{Key: "CRP", Value: "under 5"},
			{Key: "EKG", Value: "sinusrytm"},
		},
		Cases: []*Case{
			{
				Name:    "Anna Berg",
				Bio:     Bio{Age: "34", Gender: "kvinna", Weight: "64 kg", Height: "168 cm"},
				History: []string{"Jag har feber.", "Det gör ont när jag andas."},
				Tests:   []TestEntry{{Key: "CBC", Value: "LPK 15"}},
				Resolutions: []ResolutionEntry{
					{Key: "diagnos", Value: "Pneumoni", Feedback: "Feber och högt CRP."},
					{Key: "Vila", Value: "delvis", Feedback: "Räcker inte ensamt."},
					{Key: "vaccin", Value: "fel", Feedback: "Förebygger bara."},
					{Key: "penicillin", Value: "rätt", Feedback: "Förstahandsval."},
				},
				ExtraActions: []Action{
					replyAction("lyssna", "Lyssna på lungorna.", "Auskultation", KindTell, "Det knastrar."),
				},
			},
			{
				Name:    "Bengt Ek",
				Bio:     Bio{Age: "67", Gender: "man", Weight: "92 kg", Height: "178 cm"},
				History: []string{"Jag är så törstig."},
				Resolutions: []ResolutionEntry{
					{Key: "diagnos", Value: "Typ 2-diabetes", Feedback: "Törst och polyuri."},
				},
			},
		},
	}
}

func newTestSession(t *testing.T) (*Session, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	return NewSession(testCatalog(), rec), rec
}

func texts(fragments []Fragment) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = f.Text
	}
	return out
}

type sessionState struct {
	current     *Case
	cursor      int
	diagnosed   bool
	nextHistory int
}

func stateOf(s *Session) sessionState {
	return sessionState{s.Current(), s.Cursor(), s.IsDiagnosed(), s.NextHistory()}
}
