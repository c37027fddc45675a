package main

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// defaultActions returns a fresh copy of the built-in table on every call.
func defaultActions() []Action {
	return []Action{
		{Command: "hjälp", Description: "Visa hjälptext.", Label: "Hjälp", Handler: cmdHelp},
		{Command: "nästa", Description: "Be nästa patient att komma in.", Label: "Nästa patient!", Handler: cmdNext},
		{Command: "backa", Description: "Be den förra patienten att komma in igen.", Label: "Kom tillbaka!", Handler: cmdPrevious},
		{Command: "mer", Description: "Få patienten att berätta mer.", Label: "Berätta mer...", Handler: cmdMore},
		{Command: "test", Description: "Tag prover på patienten.", Label: "Provtagning", Handler: cmdTests},
		{Command: "diagnos", Description: "Ställ en diagnos.", Label: "Diagnos", Handler: cmdDiagnosis},
		{Command: "behandling", Description: "Föreslå en behandling.", Label: "Behandling", Handler: cmdTreatment},
	}
}

// Actions is the active dispatch table: the defaults followed by the
// current case's extra actions.
func (s *Session) Actions() []Action {
	actions := defaultActions()
	if s.current != nil {
		actions = append(actions, s.current.ExtraActions...)
	}
	return actions
}

// splitCommand returns the lower-cased command token, the lower-cased
// arguments and the arguments as typed.
func splitCommand(input string) (command string, args, raw []string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", nil, nil
	}
	command = strings.ToLower(fields[0])
	raw = fields[1:]
	args = make([]string, len(raw))
	for i, a := range raw {
		args[i] = strings.ToLower(a)
	}
	return command, args, raw
}

// findAction returns the first action whose command starts with typed.
func findAction(actions []Action, typed string) (Action, bool) {
	for _, a := range actions {
		if strings.HasPrefix(a.Command, typed) {
			return a, true
		}
	}
	return Action{}, false
}

// Dispatch resolves one line of input and runs the matching action. Exactly
// one command echo is emitted before anything the handler produces.
func (s *Session) Dispatch(input string) {
	command, args, raw := splitCommand(input)
	action, ok := findAction(s.Actions(), command)
	if !ok {
		s.log().Debug("unrecognized command", zap.String("input", input))
		s.insert(KindCommand, "Jag bara säger det: "+strings.TrimSpace(input))
		return
	}
	s.log().Debug("dispatch", zap.String("command", action.Command), zap.Strings("args", args))
	s.insert(KindCommand, fmt.Sprintf("%s (%s)", action.Label, strings.Join(raw, ",")))
	if action.Handler != nil {
		action.Handler(s, args)
	}
}

func cmdHelp(s *Session, _ []string) {
	var b strings.Builder
	b.WriteString("Hjälp:\n")
	fmt.Fprintf(&b, "  %-12s %s", "Du skriver...", "För att...")
	for _, a := range s.Actions() {
		fmt.Fprintf(&b, "\n  %-12s %s", a.Command, a.Description)
	}
	s.insert(KindTell, b.String())
}

func cmdNext(s *Session, _ []string) {
	s.advance()
}

func cmdPrevious(s *Session, _ []string) {
	s.rewind()
}

func cmdMore(s *Session, _ []string) {
	s.more()
}

func cmdTests(s *Session, args []string) {
	s.issueTests(args)
}

func cmdDiagnosis(s *Session, args []string) {
	s.diagnosis(args)
}

func cmdTreatment(s *Session, args []string) {
	s.suggestTreatment(args)
}

// replyAction builds a case extra action that answers with a fixed text.
func replyAction(command, description, label string, kind Kind, response string) Action {
	if kind == "" {
		kind = KindSay
	}
	return Action{
		Command:     strings.ToLower(command),
		Description: description,
		Label:       label,
		Handler: func(s *Session, _ []string) {
			s.insert(kind, response)
		},
	}
}
