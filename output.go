package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

type Fragment struct {
	Kind Kind   `json:"kind" jsonschema:"Message kind: say, command or tell"`
	Text string `json:"text" jsonschema:"Fragment text"`
}

// Sink receives output fragments in the order the session produces them.
type Sink interface {
	Insert(kind Kind, text string)
}

// Header receives the display name of each activated case.
type Header interface {
	SetHeader(title string)
}

// Recorder keeps fragments in memory. It implements both Sink and Header.
type Recorder struct {
	Fragments []Fragment
	Title     string
}

func (r *Recorder) Insert(kind Kind, text string) {
	r.Fragments = append(r.Fragments, Fragment{Kind: kind, Text: text})
}

func (r *Recorder) SetHeader(title string) {
	r.Title = title
}

// Drain returns the recorded fragments and empties the recorder.
func (r *Recorder) Drain() []Fragment {
	out := r.Fragments
	r.Fragments = nil
	return out
}

func (r *Recorder) String() string {
	var b strings.Builder
	for _, f := range r.Fragments {
		b.WriteString(f.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// Terminal renders fragments as styled, word-wrapped lines.
type Terminal struct {
	out    io.Writer
	styles map[Kind]lipgloss.Style
	title  lipgloss.Style
}

func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	r := lipgloss.NewRenderer(out)
	return &Terminal{
		out: out,
		styles: map[Kind]lipgloss.Style{
			KindSay:     r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
			KindCommand: r.NewStyle().Foreground(lipgloss.Color("#2196F3")).Italic(true),
			KindTell:    r.NewStyle(),
		},
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107")),
	}
}

func (t *Terminal) Insert(kind Kind, text string) {
	style, ok := t.styles[kind]
	if !ok {
		style = t.styles[KindTell]
	}
	prefix := ""
	switch kind {
	case KindSay:
		prefix = "💬 "
	case KindCommand:
		prefix = "» "
	}
	for i, line := range strings.Split(text, "\n") {
		if i == 0 {
			line = prefix + line
		}
		for _, wrapped := range wrapLine(line, MaxWidth) {
			outPrintln(t.out, style.Render(wrapped))
		}
	}
}

func (t *Terminal) SetHeader(title string) {
	outPrintln(t.out)
	outPrintln(t.out, t.title.Render(fmt.Sprintf("📋 === %s ===", title)))
}

// wrapLine breaks text at the last space at or before maxWidth runes.
func wrapLine(text string, maxWidth int) []string {
	var lines []string
	for utf8.RuneCountInString(text) > maxWidth {
		runes := []rune(text)
		spacePos := maxWidth
		for spacePos > 0 && runes[spacePos] != ' ' {
			spacePos--
		}
		if spacePos == 0 {
			spacePos = maxWidth
		}
		lines = append(lines, string(runes[:spacePos]))
		text = strings.TrimLeft(string(runes[spacePos:]), " ")
	}
	return append(lines, text)
}

func outPrint(w io.Writer, a ...any) {
	_, _ = fmt.Fprint(w, a...)
}

func outPrintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func outPrintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
