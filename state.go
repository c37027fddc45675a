package main

import (
	"fmt"

	"go.uber.org/zap"
)

// RewindMode selects how "backa" treats the catalog boundary.
type RewindMode string

const (
	// RewindRestart always starts over from the first case, leaving the cursor at 0.
	RewindRestart RewindMode = "restart"
	// RewindPrevious steps back to the case before the current one.
	RewindPrevious RewindMode = "previous"
)

func ParseRewindMode(v string) (RewindMode, error) {
	switch RewindMode(v) {
	case "", RewindRestart:
		return RewindRestart, nil
	case RewindPrevious:
		return RewindPrevious, nil
	}
	return "", fmt.Errorf("unknown rewind mode %q (want %q or %q)", v, RewindRestart, RewindPrevious)
}

// Session is one user's walk through a catalog. It is not safe for concurrent use.
type Session struct {
	Logger *zap.Logger
	Rewind RewindMode

	catalog *Catalog
	out     Sink
	header  Header

	current      *Case
	currentIndex int
	cursor       int

	// Transient state of the current case, reset on every activation.
	diagnosed   bool
	nextHistory int
}

// NewSession starts a session with no current case. If out also implements
// Header it receives the case titles.
func NewSession(catalog *Catalog, out Sink) *Session {
	if catalog == nil {
		catalog = &Catalog{}
	}
	s := &Session{
		Logger:       zap.NewNop(),
		Rewind:       RewindRestart,
		catalog:      catalog,
		out:          out,
		currentIndex: -1,
	}
	if h, ok := out.(Header); ok {
		s.header = h
	}
	s.setHeader(NoPatientTitle)
	return s
}

func (s *Session) Current() *Case    { return s.current }
func (s *Session) CurrentIndex() int { return s.currentIndex }
func (s *Session) Cursor() int       { return s.cursor }
func (s *Session) IsDiagnosed() bool { return s.diagnosed }
func (s *Session) NextHistory() int  { return s.nextHistory }
func (s *Session) Catalog() *Catalog { return s.catalog }

// log returns the session logger, or a no-op logger when none is set.
func (s *Session) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Session) insert(kind Kind, text string) {
	if s.out != nil {
		s.out.Insert(kind, text)
	}
}

func (s *Session) tell(format string, a ...any) {
	s.insert(KindTell, fmt.Sprintf(format, a...))
}

func (s *Session) say(text string) {
	s.insert(KindSay, text)
}

func (s *Session) setHeader(title string) {
	if s.header != nil {
		s.header.SetHeader(title)
	}
}

// advance calls in the next case from the catalog.
func (s *Session) advance() {
	if s.current != nil && !s.diagnosed {
		s.log().Debug("advance refused: current case not diagnosed", zap.String("case", s.current.Name))
		s.tell("Du kan väl åtminstone ge en diagnos till %s innan du ropar in nästa patient.", s.current.Name)
		return
	}
	if s.cursor >= s.catalog.Len() {
		s.log().Debug("advance refused: catalog exhausted", zap.Int("cursor", s.cursor))
		s.tell("Du har inga fler patienter")
		return
	}
	index := s.cursor
	s.cursor++
	s.activate(index)
}

// rewind calls a previous case back in. It is allowed whether or not the
// current case has been diagnosed.
func (s *Session) rewind() {
	if s.catalog.Len() == 0 {
		s.tell("Du har inga fler patienter")
		return
	}
	switch s.Rewind {
	case RewindPrevious:
		target := s.currentIndex - 1
		if target < 0 {
			s.tell("Det här var din första patient, men vi kan börja om.")
			target = 0
		}
		s.activate(target)
		s.cursor = target + 1
	default:
		s.tell("Det här var din första patient, men vi kan börja om.")
		// The cursor is left at 0, so the next advance calls in the first case again.
		s.cursor = 0
		s.activate(s.cursor)
	}
}

func (s *Session) activate(index int) {
	c := s.catalog.Cases[index]
	s.current = c
	s.currentIndex = index
	s.diagnosed = false
	s.nextHistory = 0
	s.log().Debug("case activated", zap.Int("index", index), zap.String("case", c.Name))

	s.setHeader(c.Name)
	s.tell("%s\nÅlder: %s\nKön: %s\nVikt: %s\nLängd: %s",
		c.Name, c.Bio.Age, c.Bio.Gender, c.Bio.Weight, c.Bio.Height)
	s.more()
}

// more surfaces the next narrative beat of the current case.
func (s *Session) more() {
	if s.current == nil {
		s.tell("Du måste först ropa in en patient.")
		return
	}
	if s.nextHistory >= len(s.current.History) {
		s.say("Jag har inget mer att säga")
		return
	}
	s.say(s.current.History[s.nextHistory])
	s.nextHistory++
}
