package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosisAlwaysUnlocks(t *testing.T) {
	for _, args := range [][]string{{"pneumoni"}, {"helt", "fel"}, {"?"}} {
		s, rec := newTestSession(t)
		s.advance()
		rec.Drain()

		s.diagnosis(args)
		assert.True(t, s.IsDiagnosed(), args)
		require.Len(t, rec.Fragments, 1)
		assert.Equal(t, KindSay, rec.Fragments[0].Kind)
	}
}

func TestDiagnosisReport(t *testing.T) {
	s, rec := newTestSession(t)
	s.advance()
	rec.Drain()

	s.Dispatch("Diagnos Lunginflammation höger")
	require.Len(t, rec.Fragments, 2)
	assert.Equal(t, "Diagnos (Lunginflammation,höger)", rec.Fragments[0].Text)
	assert.Equal(t, "Din diagnos är: lunginflammation höger\n"+
		"Patientens verkliga diagnos är: Pneumoni\n"+
		"Kommentar: Feber och högt CRP.\n\n"+
		"Vad föreslår du för behandling?", rec.Fragments[1].Text)
}

func TestDiagnosisPromptsAndRefuses(t *testing.T) {
	s, rec := newTestSession(t)
	s.diagnosis(nil)
	s.diagnosis([]string{"x"})
	assert.Equal(t, []string{
		"Vilken diagnos vill du ställa?",
		"Du bör ha en patient hos dig innan du ställer en diagnos.",
	}, texts(rec.Fragments))
	assert.False(t, s.IsDiagnosed())

	s.advance()
	s.diagnosis(nil)
	assert.False(t, s.IsDiagnosed())
}

func TestDiagnosisWithoutAnswerKey(t *testing.T) {
	rec := &Recorder{}
	s := NewSession(&Catalog{Cases: []*Case{{Name: "Okänd"}}}, rec)
	s.advance()
	rec.Drain()

	s.diagnosis([]string{"migrän"})
	assert.True(t, s.IsDiagnosed())
	assert.Contains(t, rec.Fragments[0].Text, "Det finns inget facit")
}

func TestTreatmentMultiMatch(t *testing.T) {
	s, rec := newTestSession(t)
	s.advance()
	rec.Drain()

	s.suggestTreatment([]string{"v"})
	require.Len(t, rec.Fragments, 1)
	assert.Equal(t, "Kommentarer till dina behandlingar:\n"+
		"  - Behandling Vila: Räcker inte ensamt.\n"+
		"  - Behandling vaccin: Förebygger bara.", rec.Fragments[0].Text)
}

func TestTreatmentMatchesFlattenInTokenOrder(t *testing.T) {
	resolutions := testCatalog().Cases[0].Resolutions
	got := matchTreatments(resolutions, []string{"pen", "v", "vila"})
	keys := make([]string, len(got))
	for i, r := range got {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"penicillin", "Vila", "vaccin", "Vila"}, keys)
}

func TestTreatmentNoMatch(t *testing.T) {
	s, rec := newTestSession(t)
	s.advance()
	rec.Drain()

	s.suggestTreatment([]string{"kirurgi"})
	assert.Equal(t, []string{"Hittar inga behandlingar med det namnet. Skriv 'behandling lista' för att se vilka behandlingar som är möjliga."},
		texts(rec.Fragments))
}

func TestTreatmentPromptsAndRefuses(t *testing.T) {
	s, rec := newTestSession(t)
	s.suggestTreatment([]string{"vila"})
	assert.Equal(t, []string{"Du bör ha en patient hos dig innan du föreslår en behandling."}, texts(rec.Drain()))

	s.advance()
	rec.Drain()
	s.suggestTreatment(nil)
	assert.Equal(t, []string{"Du måste ange en behandling. Skriv 'behandling lista' för att se vilka behandlingar som är möjliga."},
		texts(rec.Drain()))
}

func TestTreatmentList(t *testing.T) {
	s, rec := newTestSession(t)
	s.advance()
	rec.Drain()

	s.suggestTreatment([]string{"lista"})
	assert.Equal(t, []string{"Tillgängliga behandlingar:\n  - diagnos\n  - Vila\n  - vaccin\n  - penicillin"}, texts(rec.Fragments))
}

func TestTreatmentDoesNotUnlock(t *testing.T) {
	s, _ := newTestSession(t)
	s.advance()
	s.suggestTreatment([]string{"penicillin"})
	assert.False(t, s.IsDiagnosed())
}
