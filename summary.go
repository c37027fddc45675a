package main

type SessionSummary struct {
	CaseIndex    int      `json:"case_index" jsonschema:"Catalog index of the current case, -1 when none"`
	CaseName     string   `json:"case_name" jsonschema:"Current case name"`
	Cursor       int      `json:"cursor" jsonschema:"Index of the next case to call in"`
	CaseCount    int      `json:"case_count" jsonschema:"Number of cases in the catalog"`
	Diagnosed    bool     `json:"diagnosed" jsonschema:"Whether the current case has been given a diagnosis"`
	NextHistory  int      `json:"next_history" jsonschema:"Narrative beats already told for the current case"`
	HistoryCount int      `json:"history_count" jsonschema:"Narrative beats available for the current case"`
	Commands     []string `json:"commands" jsonschema:"Commands in the active dispatch table"`
}

func SummarizeSession(s *Session) SessionSummary {
	summary := SessionSummary{
		CaseIndex:   s.currentIndex,
		Cursor:      s.cursor,
		CaseCount:   s.catalog.Len(),
		Diagnosed:   s.diagnosed,
		NextHistory: s.nextHistory,
	}
	if s.current != nil {
		summary.CaseName = s.current.Name
		summary.HistoryCount = len(s.current.History)
	}
	for _, a := range s.Actions() {
		summary.Commands = append(summary.Commands, a.Command)
	}
	return summary
}
