package main

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Checkpoint is the part of a session that survives a restart. The catalog
// itself is not saved; CaseName guards against resuming on a different one.
type Checkpoint struct {
	CaseIndex   int
	CaseName    string
	Cursor      int
	Diagnosed   bool
	NextHistory int
}

func (s *Session) Checkpoint() Checkpoint {
	cp := Checkpoint{
		CaseIndex:   s.currentIndex,
		Cursor:      s.cursor,
		Diagnosed:   s.diagnosed,
		NextHistory: s.nextHistory,
	}
	if s.current != nil {
		cp.CaseName = s.current.Name
	}
	return cp
}

func SaveCheckpoint(cp Checkpoint, path string) error {
	cfg := ini.Empty(iniOptions)
	sec, err := cfg.NewSection("Session")
	if err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}
	sec.Key("CaseIndex").SetValue(strconv.Itoa(cp.CaseIndex))
	sec.Key("CaseName").SetValue(cp.CaseName)
	sec.Key("Cursor").SetValue(strconv.Itoa(cp.Cursor))
	sec.Key("Diagnosed").SetValue(strconv.FormatBool(cp.Diagnosed))
	sec.Key("NextHistory").SetValue(strconv.Itoa(cp.NextHistory))
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", path, err)
	}
	return nil
}

func LoadCheckpoint(path string) (Checkpoint, error) {
	cfg, err := ini.LoadSources(iniOptions, path)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("load checkpoint %s: %w", path, err)
	}
	sec := cfg.Section("Session")
	return Checkpoint{
		CaseIndex:   sec.Key("CaseIndex").MustInt(-1),
		CaseName:    sec.Key("CaseName").String(),
		Cursor:      sec.Key("Cursor").MustInt(0),
		Diagnosed:   parseBool(sec.Key("Diagnosed").String()),
		NextHistory: sec.Key("NextHistory").MustInt(0),
	}, nil
}

// Restore puts the session back into a checkpointed state. The case is not
// re-activated: its narrative cursor and diagnosis survive.
func (s *Session) Restore(cp Checkpoint) error {
	if cp.Cursor < 0 || cp.Cursor > s.catalog.Len() {
		return fmt.Errorf("restore: cursor %d outside catalog of %d cases", cp.Cursor, s.catalog.Len())
	}
	if cp.CaseIndex < 0 {
		s.current, s.currentIndex = nil, -1
		s.cursor, s.diagnosed, s.nextHistory = cp.Cursor, false, 0
		s.setHeader(NoPatientTitle)
		return nil
	}
	if cp.CaseIndex >= s.catalog.Len() {
		return fmt.Errorf("restore: case index %d outside catalog of %d cases", cp.CaseIndex, s.catalog.Len())
	}
	c := s.catalog.Cases[cp.CaseIndex]
	if cp.CaseName != "" && cp.CaseName != c.Name {
		return fmt.Errorf("restore: case %d is %q, checkpoint expects %q", cp.CaseIndex, c.Name, cp.CaseName)
	}
	next := cp.NextHistory
	if next < 0 || next > len(c.History) {
		next = len(c.History)
	}
	s.current, s.currentIndex = c, cp.CaseIndex
	s.cursor, s.diagnosed, s.nextHistory = cp.Cursor, cp.Diagnosed, next
	s.setHeader(c.Name)
	s.tell("📂 Sessionen återupptagen hos %s.", c.Name)
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "-1", "yes":
		return true
	}
	return false
}
