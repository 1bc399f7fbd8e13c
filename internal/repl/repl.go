package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"pangea/internal/evaluator"
	"pangea/internal/object"
	"pangea/internal/transcript"

	"github.com/peterh/liner"
)

const PROMPT = "pangea> "

const helpText = `Pangea REPL - one phrase per line, prefix notation.
  plus 2 3              => 5
  plus times 2 3 4      => 10
Commands:
  help                  show this text
  :funcs                list registered functions
  :history [n]          show the last n transcript entries
  exit, quit            leave the REPL
`

// LineReader yields one line of input per call. io.EOF ends the session
// and liner.ErrPromptAborted discards the current line.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historyAppender interface {
	AppendHistory(line string)
}

type Config struct {
	Prompt  string
	Store   *transcript.Store // optional
	Session string
	Logger  *slog.Logger
}

type Repl struct {
	it      *evaluator.Interpreter
	in      LineReader
	out     io.Writer
	prompt  string
	store   *transcript.Store
	session string
	log     *slog.Logger
}

func New(it *evaluator.Interpreter, in LineReader, out io.Writer, cfg Config) *Repl {
	r := &Repl{
		it:      it,
		in:      in,
		out:     out,
		prompt:  cfg.Prompt,
		store:   cfg.Store,
		session: cfg.Session,
		log:     cfg.Logger,
	}
	if r.prompt == "" {
		r.prompt = PROMPT
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// Run reads and evaluates lines until EOF, exit or a cancelled context.
func (r *Repl) Run(ctx context.Context) error {
	r.log.Info("repl session started", slog.String("session", r.session))
	defer r.log.Info("repl session ended", slog.String("session", r.session))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := r.in.Prompt(r.prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}

		switch {
		case code == "exit" || code == "quit":
			return nil
		case code == "help":
			io.WriteString(r.out, helpText)
			continue
		case strings.HasPrefix(code, ":"):
			r.command(ctx, code)
			continue
		}

		if h, ok := r.in.(historyAppender); ok {
			h.AppendHistory(line)
		}
		r.eval(ctx, line)
	}
}

func (r *Repl) eval(ctx context.Context, line string) {
	result, err := r.it.Execute(line)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	} else if result.Type() != object.NULL_OBJ {
		fmt.Fprintf(r.out, "=> %s\n", result.Inspect())
	}

	if r.store == nil {
		return
	}
	entry, encErr := transcript.NewEntry(r.session, line, result, err)
	if encErr != nil {
		r.log.Warn("cannot encode result", slog.Any("error", encErr))
	}
	if _, recErr := r.store.Record(ctx, entry); recErr != nil {
		r.log.Error("transcript record failed", slog.Any("error", recErr))
	}
}

func (r *Repl) command(ctx context.Context, code string) {
	fields := strings.Fields(code)
	switch fields[0] {
	case ":funcs":
		for _, e := range r.it.Registry().Entries() {
			fmt.Fprintf(r.out, "%-12s %d  %s, %s", e.Name, e.EffectiveArity(), e.OperatorTypeString(), e.FunctionTypeString())
			if len(e.Aliases) > 0 {
				fmt.Fprintf(r.out, "  (%s)", strings.Join(e.Aliases, ", "))
			}
			fmt.Fprintln(r.out)
		}
	case ":history":
		r.history(ctx, fields[1:])
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type help for a list.\n", fields[0])
	}
}

func (r *Repl) history(ctx context.Context, args []string) {
	if r.store == nil {
		fmt.Fprintln(r.out, "no transcript store configured")
		return
	}
	n := 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			fmt.Fprintf(r.out, "invalid count %q\n", args[0])
			return
		}
		n = v
	}

	entries, err := r.store.Recent(ctx, r.session, n)
	if err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	// oldest first reads naturally
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Error != "" {
			fmt.Fprintf(r.out, "%4d  %s  !! %s\n", e.ID, e.Source, e.Error)
		} else {
			fmt.Fprintf(r.out, "%4d  %s  => %s\n", e.ID, e.Source, e.Result)
		}
	}
}

// ScannerReader reads lines from any reader, echoing the prompt to out.
type ScannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func NewScannerReader(in io.Reader, out io.Writer) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in), out: out}
}

func (s *ScannerReader) Prompt(prompt string) (string, error) {
	if s.out != nil {
		io.WriteString(s.out, prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// LinerReader is a terminal line editor with persistent history.
type LinerReader struct {
	state       *liner.State
	historyFile string
}

func NewLinerReader(historyFile string) *LinerReader {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	return &LinerReader{state: ln, historyFile: historyFile}
}

func (l *LinerReader) Prompt(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

func (l *LinerReader) AppendHistory(line string) {
	l.state.AppendHistory(line)
}

// Close writes the history file and restores the terminal.
func (l *LinerReader) Close() error {
	var err error
	if l.historyFile != "" {
		var f *os.File
		if f, err = os.Create(l.historyFile); err == nil {
			_, err = l.state.WriteHistory(f)
			_ = f.Close()
		}
	}
	if cerr := l.state.Close(); err == nil {
		err = cerr
	}
	return err
}
