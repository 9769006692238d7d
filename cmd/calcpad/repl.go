package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Alt+key mappings: Alt+key sends ESC (0x1b) followed by the key byte.
// Each applies a scientific function to the current line.
var altKeyMappings = map[byte]string{
	's': "sin",
	'c': "cos",
	't': "tan",
	'r': "sqrt",
	'l': "ln",
	'g': "log",
	'f': "!",
	'p': "x^y",
}

func printBanner(w io.Writer, nl string) {
	lines := []string{
		"calcpad (Ctrl+D to exit, :help for commands)",
		"",
		"Functions (use Alt+key on the current line):",
		"  Alt+s sin    Alt+c cos    Alt+t tan    Alt+r sqrt",
		"  Alt+l ln     Alt+g log    Alt+f n!     Alt+p x^y (x,y)",
		"",
	}
	for _, l := range lines {
		fmt.Fprint(w, l, nl)
	}
}

func runREPL(s *session) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Not a TTY, fall back to basic mode
		printBanner(s.out, "\n")
		runBasicREPL(s, os.Stdin, true)
		return
	}
	runRawREPL(s)
}

// runBasicREPL handles line-buffered input. Prompts are written only when
// interactive.
func runBasicREPL(s *session, in io.Reader, interactive bool) {
	reader := bufio.NewReader(in)
	for {
		if interactive {
			fmt.Fprint(s.out, s.prompt())
		}

		line, err := reader.ReadString('\n')
		if line == "" && err != nil {
			if interactive {
				fmt.Fprintln(s.out)
			}
			return
		}

		if s.exec(strings.TrimRight(line, "\r\n")) {
			return
		}
		if err != nil {
			return
		}
	}
}

// runRawREPL handles TTY input with Alt+key and history recall support.
func runRawREPL(s *session) {
	fd := int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode: %v\n", err)
		printBanner(s.out, "\n")
		runBasicREPL(s, os.Stdin, true)
		return
	}
	defer term.Restore(fd, oldState)

	s.nl = "\r\n"
	s.color = true
	printBanner(s.out, s.nl)

	for {
		prompt := s.prompt()
		fmt.Print(prompt)

		line, eof := readLineRaw(os.Stdin, prompt, s.recall())
		if eof {
			fmt.Print("\r\n")
			return
		}
		if s.exec(line) {
			return
		}
	}
}

// readLineRaw reads a line in raw mode. Up and Down walk recall, newest
// first. An Alt+key function turns the line into a ":fn" command.
// Returns the line and whether EOF was encountered.
func readLineRaw(in io.Reader, prompt string, recall []string) (string, bool) {
	var line []rune
	cursor := 0 // Position in line (for arrow key navigation)
	pos := len(recall)
	var pending []rune // line being edited before recall started
	buf := make([]byte, 1)

	read := func() (byte, bool) {
		n, err := in.Read(buf)
		if err != nil || n == 0 {
			return 0, false
		}
		return buf[0], true
	}

	// Helper to redraw line from cursor position
	redrawFromCursor := func() {
		fmt.Print("\x1b[K")
		for i := cursor; i < len(line); i++ {
			fmt.Print(string(line[i]))
		}
		if cursor < len(line) {
			fmt.Printf("\x1b[%dD", len(line)-cursor)
		}
	}

	replace := func(text []rune) {
		line = append([]rune(nil), text...)
		cursor = len(line)
		fmt.Print("\r\x1b[K", prompt, string(line))
	}

	insert := func(runes []rune) {
		newLine := make([]rune, 0, len(line)+len(runes))
		newLine = append(newLine, line[:cursor]...)
		newLine = append(newLine, runes...)
		newLine = append(newLine, line[cursor:]...)
		line = newLine
		cursor += len(runes)
		fmt.Print(string(runes))
		if cursor < len(line) {
			redrawFromCursor()
		}
	}

	for {
		b, ok := read()
		if !ok {
			return string(line), true
		}

		switch b {
		case 0x04: // Ctrl+D
			if len(line) == 0 {
				return "", true
			}
			if cursor < len(line) {
				line = append(line[:cursor], line[cursor+1:]...)
				redrawFromCursor()
			}

		case 0x03: // Ctrl+C
			fmt.Print("^C\r\n")
			return "", false

		case 0x0c: // Ctrl+L
			fmt.Print("\x1b[H\x1b[2J")
			replace(line)

		case 0x0d, 0x0a: // Enter (CR or LF)
			fmt.Print("\r\n")
			return string(line), false

		case 0x7f, 0x08: // Backspace (DEL or BS)
			if cursor > 0 {
				cursor--
				line = append(line[:cursor], line[cursor+1:]...)
				fmt.Print("\b")
				redrawFromCursor()
			}

		case 0x1b: // ESC - Alt+key or arrow key sequence
			next, ok := read()
			if !ok {
				continue
			}

			if next != '[' {
				fn, ok := altKeyMappings[next]
				if !ok || strings.TrimSpace(string(line)) == "" {
					continue
				}
				fmt.Print("\r\n")
				return ":fn " + fn + " " + string(line), false
			}

			arrow, ok := read()
			if !ok {
				continue
			}
			switch arrow {
			case 'A': // Up arrow
				if pos > 0 {
					if pos == len(recall) {
						pending = append([]rune(nil), line...)
					}
					pos--
					replace([]rune(recall[pos]))
				}
			case 'B': // Down arrow
				if pos < len(recall) {
					pos++
					if pos == len(recall) {
						replace(pending)
					} else {
						replace([]rune(recall[pos]))
					}
				}
			case 'C': // Right arrow
				if cursor < len(line) {
					cursor++
					fmt.Print("\x1b[C")
				}
			case 'D': // Left arrow
				if cursor > 0 {
					cursor--
					fmt.Print("\x1b[D")
				}
			case '3': // Delete key: ESC [ 3 ~
				if t, ok := read(); ok && t == '~' && cursor < len(line) {
					line = append(line[:cursor], line[cursor+1:]...)
					redrawFromCursor()
				}
			}

		case 0x01: // Ctrl+A - beginning of line
			if cursor > 0 {
				fmt.Printf("\x1b[%dD", cursor)
				cursor = 0
			}

		case 0x05: // Ctrl+E - end of line
			if cursor < len(line) {
				fmt.Printf("\x1b[%dC", len(line)-cursor)
				cursor = len(line)
			}

		case 0x0b: // Ctrl+K - kill to end of line
			if cursor < len(line) {
				line = line[:cursor]
				fmt.Print("\x1b[K")
			}

		case 0x15: // Ctrl+U - kill to beginning of line
			if cursor > 0 {
				fmt.Printf("\x1b[%dD", cursor)
				line = line[cursor:]
				cursor = 0
				redrawFromCursor()
			}

		default:
			if b >= 0x20 && b < 0x7f {
				insert([]rune{rune(b)})
			} else if b >= 0x80 {
				// UTF-8 multi-byte sequence - read remaining bytes
				utfBuf := []byte{b}
				numBytes := 0
				if b&0xE0 == 0xC0 {
					numBytes = 1
				} else if b&0xF0 == 0xE0 {
					numBytes = 2
				} else if b&0xF8 == 0xF0 {
					numBytes = 3
				}
				for i := 0; i < numBytes; i++ {
					c, ok := read()
					if !ok {
						break
					}
					utfBuf = append(utfBuf, c)
				}
				insert([]rune(string(utfBuf))[:1])
			}
		}
	}
}
