package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"nickandperla.net/calcpad/internal/format"
	"nickandperla.net/calcpad/internal/help"
	"nickandperla.net/calcpad/internal/panel"
	"nickandperla.net/calcpad/internal/settings"
	"nickandperla.net/calcpad/pkg/calcpad"
)

// session is one interactive run: the current panel plus the command
// dispatcher shared by the basic and raw REPLs.
type session struct {
	app   *calcpad.App
	out   io.Writer
	panel calcpad.PanelName
	nl    string // "\r\n" in raw mode
	color bool
}

func newSession(app *calcpad.App, out io.Writer, p calcpad.PanelName) *session {
	return &session{app: app, out: out, panel: p, nl: "\n"}
}

// println writes text followed by a newline, translating embedded
// newlines for raw mode.
func (s *session) println(text string) {
	if s.nl != "\n" {
		text = strings.ReplaceAll(text, "\n", s.nl)
	}
	fmt.Fprint(s.out, text, s.nl)
}

func (s *session) prompt() string {
	p := string(s.panel) + "> "
	if !s.color {
		return p
	}
	return ansiColor(s.app.Settings().Current().Theme.Palette().Accent) + p + "\x1b[0m"
}

// ansiColor converts a "#rrggbb" color to a 24-bit foreground escape.
func ansiColor(hex string) string {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", v>>16&0xff, v>>8&0xff, v&0xff)
}

// exec runs one input line and reports whether the session should end.
func (s *session) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		return s.command(cmd)
	}

	out, err := s.app.Eval(s.panel, line)
	if err != nil {
		s.println(format.ErrorPrefix + err.Error())
		return false
	}
	if out != "" {
		s.println(out)
	}
	return false
}

func (s *session) command(cmd string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "q", "quit", "exit":
		return true

	case "h", "help":
		if arg == "" {
			s.println(strings.TrimSpace(help.Usage))
			return false
		}
		text, ok := help.Section(arg)
		if !ok {
			s.println(fmt.Sprintf("No help for %q. Topics: %s", arg, strings.Join(help.Topics(), ", ")))
			return false
		}
		s.println(text)

	case "history":
		entries := s.app.History().Entries()
		if len(entries) == 0 {
			s.println("(no history)")
			return false
		}
		for i, e := range entries {
			s.println(fmt.Sprintf("%3d  %s", i+1, e))
		}

	case "clear":
		s.app.History().Clear()
		s.println("History cleared")

	case "copy":
		if arg == "last" {
			if last, ok := s.app.History().Last(); ok {
				s.println(last)
			}
			return false
		}
		if text := s.app.History().String(); text != "" {
			s.println(text)
		}

	case "vars":
		names := s.app.Programmable().Bindings()
		if len(names) == 0 {
			s.println("(no definitions)")
			return false
		}
		s.println(strings.Join(names, " "))

	case "undef":
		if arg == "" {
			s.println("usage: :undef NAME")
			return false
		}
		if !s.app.Programmable().Undefine(arg) {
			s.println(fmt.Sprintf("%s is not defined", arg))
			return false
		}
		s.println("removed " + arg)

	case "transcript":
		if arg == "clear" {
			s.app.Programmable().Clear()
			return false
		}
		for _, line := range s.app.Programmable().Transcript() {
			s.println(line)
		}

	case "precision":
		p, err := strconv.Atoi(arg)
		if err != nil || p < 0 {
			s.println("usage: :precision N")
			return false
		}
		cur := s.app.Settings().SetPrecision(p)
		s.println(fmt.Sprintf("decimal_precision = %d", cur.DecimalPrecision))

	case "theme":
		s.theme(arg)

	case "settings":
		cur := s.app.Settings().Current()
		s.println(fmt.Sprintf("theme = %s\ndecimal_precision = %d\nclear_history_on_exit = %t",
			cur.Theme, cur.DecimalPrecision, cur.ClearHistoryOnExit))

	case "panel":
		if arg == "" {
			s.println("panel: " + string(s.panel))
			return false
		}
		p, err := calcpad.ParsePanel(arg)
		if err != nil {
			s.println(format.ErrorPrefix + err.Error())
			return false
		}
		s.panel = p
		s.println("panel: " + string(p))

	case "area":
		if arg == "" {
			shape := s.app.Area().Shape()
			s.println(fmt.Sprintf("%s (%s): %s", shape, strings.Join(shape.Dimensions(), ", "), s.app.Area().Display()))
			return false
		}
		out, err := s.app.Eval(calcpad.PanelArea, arg)
		if err != nil {
			s.println(format.ErrorPrefix + err.Error())
			return false
		}
		s.println(out)

	case "fn":
		fn, input, _ := strings.Cut(arg, " ")
		if fn == "" || strings.TrimSpace(input) == "" {
			s.println("usage: :fn NAME INPUT (" + strings.Join(panel.Functions, " ") + ")")
			return false
		}
		s.println(s.app.Scientific().Apply(fn, strings.TrimSpace(input)))

	case "save":
		s.save(arg)

	default:
		s.println(fmt.Sprintf("Unknown command :%s (try :help commands)", name))
	}
	return false
}

func (s *session) theme(arg string) {
	if arg == "" {
		t, err := s.app.ToggleTheme()
		if err != nil {
			s.println(format.ErrorPrefix + err.Error())
		}
		s.println("theme: " + string(t))
		return
	}
	t, ok := settings.ParseTheme(arg)
	if !ok {
		s.println(fmt.Sprintf("unknown theme %q (dark or light)", arg))
		return
	}
	cur, err := s.app.UpdateSettings(func(st *settings.Settings) { st.Theme = t })
	if err != nil {
		s.println(format.ErrorPrefix + err.Error())
	}
	s.println("theme: " + string(cur.Theme))
}

func (s *session) save(arg string) {
	switch strings.ToLower(arg) {
	case "":
		if err := s.app.Settings().Save(); err != nil {
			s.println(format.ErrorPrefix + err.Error())
			return
		}
		if s.app.Settings().Path() == "" {
			s.println("settings kept in memory")
			return
		}
		s.println("settings saved to " + s.app.Settings().Path())
	case "area":
		if s.app.Area().Display() == "Area: -" {
			s.println("nothing to save; use :area first")
			return
		}
		s.println(s.app.Area().Save())
	default:
		s.println("usage: :save [area]")
	}
}

// recall returns the inputs of the history entries, oldest first, for
// Up/Down navigation. The result follows the last " = ", since the input
// may itself be a definition.
func (s *session) recall() []string {
	var inputs []string
	for _, e := range s.app.History().Entries() {
		if i := strings.LastIndex(e, " = "); i >= 0 {
			inputs = append(inputs, e[:i])
		}
	}
	return inputs
}
