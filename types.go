package main

const (
	DiagnosisKey   = "diagnos"
	ListPrefix     = "list"
	NoPatientTitle = "-- Ingen Patient Vald --"
	MaxWidth       = 79
	MaxHistory     = 10
)

type Kind string

const (
	KindSay     Kind = "say"
	KindCommand Kind = "command"
	KindTell    Kind = "tell"
)

type Bio struct {
	Age    string `yaml:"age"`
	Gender string `yaml:"gender"`
	Weight string `yaml:"weight"`
	Height string `yaml:"height"`
}

type TestEntry struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type ResolutionEntry struct {
	Key      string `yaml:"key"`
	Value    string `yaml:"value"`
	Feedback string `yaml:"feedback"`
}

// ActionHandler runs a matched action. args are the lower-cased argument tokens.
type ActionHandler func(s *Session, args []string)

type Action struct {
	Command     string
	Description string
	Label       string
	Handler     ActionHandler
}

type Case struct {
	Name         string
	Bio          Bio
	History      []string
	Tests        []TestEntry
	Resolutions  []ResolutionEntry
	ExtraActions []Action
}

// Catalog is the read-only case list and default test catalog a session plays through.
type Catalog struct {
	Cases []*Case
	Tests []TestEntry
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Cases)
}
