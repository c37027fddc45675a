package main

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// lineReader reads one command per call, either from a raw terminal with
// arrow-key history or, when headless, from buffered input.
type lineReader struct {
	in       *os.File
	out      io.Writer
	headless bool
	buffered *bufio.Reader

	history      [MaxHistory]string
	historyCount int

	// Raw-mode editing state. pending holds bytes read past the end of the
	// previous line, e.g. the rest of a multi-line paste.
	line    []rune
	histIdx int
	esc     escState
	partial []byte
	pending []byte
}

type escState int

const (
	escNone escState = iota
	escStart
	escCSI
)

type keyResult int

const (
	keyContinue keyResult = iota
	keyLine
	keyEOF
)

func newLineReader(in *os.File, out io.Writer, headless bool) *lineReader {
	return &lineReader{
		in:       in,
		out:      out,
		headless: headless,
		buffered: bufio.NewReader(in),
	}
}

// ReadLine returns io.EOF when input ends or the user presses Ctrl-D or Ctrl-C.
func (r *lineReader) ReadLine(prompt string) (string, error) {
	outPrint(r.out, prompt)
	if r.headless {
		return r.readBuffered()
	}

	fd := int(r.in.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return r.readBuffered()
	}
	defer func() { _ = term.Restore(fd, oldState) }()
	return r.readRaw(r.in)
}

// readRaw edits one line from unbuffered key input. Every byte of each read
// is consumed, so pasted text and escape sequences delivered in one chunk
// are handled the same as typed keys.
func (r *lineReader) readRaw(in io.Reader) (string, error) {
	r.line, r.histIdx, r.esc, r.partial = nil, r.historyCount, escNone, nil
	buf := make([]byte, 64)
	for {
		for len(r.pending) > 0 {
			b := r.pending[0]
			r.pending = r.pending[1:]
			switch r.key(b) {
			case keyLine:
				if b == '\r' && len(r.pending) > 0 && r.pending[0] == '\n' {
					r.pending = r.pending[1:]
				}
				line := string(r.line)
				r.remember(line)
				return line, nil
			case keyEOF:
				return "", io.EOF
			}
		}

		n, err := in.Read(buf)
		if n > 0 {
			r.pending = append(r.pending, buf[:n]...)
			continue
		}
		if err != nil {
			outPrint(r.out, "\r\n")
			if len(r.line) > 0 {
				line := string(r.line)
				r.remember(line)
				return line, nil
			}
			return "", io.EOF
		}
	}
}

// key applies one input byte to the line being edited.
func (r *lineReader) key(b byte) keyResult {
	switch r.esc {
	case escStart:
		if b == '[' {
			r.esc = escCSI
		} else {
			r.esc = escNone
		}
		return keyContinue
	case escCSI:
		// Parameter bytes are skipped until the final byte.
		if b >= 0x40 && b <= 0x7e {
			r.esc = escNone
			switch b {
			case 'A':
				r.historyUp()
			case 'B':
				r.historyDown()
			}
		}
		return keyContinue
	}

	if len(r.partial) > 0 || b >= utf8.RuneSelf {
		r.partial = append(r.partial, b)
		if utf8.FullRune(r.partial) {
			rn, _ := utf8.DecodeRune(r.partial)
			r.partial = nil
			if rn != utf8.RuneError {
				r.line = append(r.line, rn)
				outPrint(r.out, string(rn))
			}
		}
		return keyContinue
	}

	switch {
	case b == '\r' || b == '\n':
		outPrint(r.out, "\r\n")
		return keyLine

	case b == '\x04' || b == '\x03': // Ctrl-D, Ctrl-C
		outPrint(r.out, "\r\n")
		return keyEOF

	case b == '\x7f' || b == '\x08':
		if len(r.line) > 0 {
			r.line = r.line[:len(r.line)-1]
			outPrint(r.out, "\b \b")
		}

	case b == '\x1b':
		r.esc = escStart

	case b >= ' ':
		r.line = append(r.line, rune(b))
		outPrint(r.out, string(rune(b)))
	}
	return keyContinue
}

func (r *lineReader) historyUp() {
	if r.histIdx > 0 && r.histIdx > r.historyCount-MaxHistory {
		r.erase(r.line)
		r.histIdx--
		r.line = []rune(r.history[r.histIdx%MaxHistory])
		outPrint(r.out, string(r.line))
	}
}

func (r *lineReader) historyDown() {
	if r.histIdx < r.historyCount {
		r.erase(r.line)
		r.histIdx++
		if r.histIdx < r.historyCount {
			r.line = []rune(r.history[r.histIdx%MaxHistory])
		} else {
			r.line = nil
		}
		outPrint(r.out, string(r.line))
	}
}

func (r *lineReader) readBuffered() (string, error) {
	line, err := r.buffered.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err == io.EOF && line != "" {
		return line, nil
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (r *lineReader) erase(lineRunes []rune) {
	for range lineRunes {
		outPrint(r.out, "\b \b")
	}
}

// remember appends a non-empty line to the history unless it repeats the last one.
func (r *lineReader) remember(line string) {
	if line == "" {
		return
	}
	if r.historyCount > 0 && r.history[(r.historyCount-1)%MaxHistory] == line {
		return
	}
	r.history[r.historyCount%MaxHistory] = line
	r.historyCount++
}
