package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"pangea/internal/lexer"
	plog "pangea/internal/log"
	"pangea/internal/object"
	"pangea/internal/parser"
	"pangea/internal/token"
)

type Options struct {
	Out    io.Writer // print, println; defaults to os.Stdout
	In     io.Reader // input; defaults to os.Stdin
	Logger *slog.Logger

	// StrictArity rejects calls that collect fewer arguments than their arity.
	StrictArity bool
}

// Interpreter owns a registry and evaluates source one Execute call at a
// time. It is not safe for concurrent use; separate instances share nothing.
type Interpreter struct {
	registry *Registry
	out      io.Writer
	in       *bufio.Reader
	log      *slog.Logger
	strict   bool
}

// EvalError locates a failure raised by a callable.
type EvalError struct {
	Name string
	Line int
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Name, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

func New(opts Options) *Interpreter {
	it := &Interpreter{
		registry: NewRegistry(),
		out:      opts.Out,
		log:      opts.Logger,
		strict:   opts.StrictArity,
	}
	if it.out == nil {
		it.out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	it.in = bufio.NewReader(opts.In)
	if it.log == nil {
		it.log = slog.Default()
	}

	for _, entry := range it.builtins() {
		// builtin arities are constant and non-negative
		_ = it.registry.Register(entry)
	}
	return it
}

func (it *Interpreter) Registry() *Registry {
	return it.registry
}

// RegisterBuiltin adds or replaces a native prefix function.
func (it *Interpreter) RegisterBuiltin(name string, arity int, fn object.BuiltinFunction) error {
	return it.registry.Register(object.NewBuiltin(name, arity, fn))
}

func (it *Interpreter) Register(entry *object.FunctionEntry) error {
	return it.registry.Register(entry)
}

// Execute tokenizes, segments and evaluates code, returning the value of the
// phrase rooted at the first token. Input without tokens yields null.
func (it *Interpreter) Execute(code string) (object.Object, error) {
	l := lexer.New(code)
	tokens := l.Tokenize()
	for _, w := range l.Warnings() {
		it.log.Warn("tokenizer warning", slog.Any("error", w))
	}

	if len(tokens) == 0 {
		return object.NULL, nil
	}

	// one snapshot feeds both passes
	snapshot := it.registry.Snapshot()
	p := &pass{
		tokens:   tokens,
		lengths:  parser.PhraseLengths(tokens, snapshot),
		registry: snapshot,
		strict:   it.strict,
		log:      it.log,
	}

	it.log.Debug("execute",
		slog.Int("tokens", len(tokens)),
		slog.Any("phrases", p.lengths))
	if p.lengths[0] < len(tokens) {
		it.log.Debug("ignoring tokens after the first phrase",
			slog.Int("phrase", p.lengths[0]),
			slog.Any("ignored", token.Literals(tokens[p.lengths[0]:])))
	}

	return p.exec(0, len(tokens)-1)
}

// pass holds the state of one Execute call.
type pass struct {
	tokens   []token.Token
	lengths  []int
	registry *Registry
	strict   bool
	log      *slog.Logger
}

func (p *pass) exec(start, end int) (object.Object, error) {
	if start > end || start < 0 || start >= len(p.tokens) {
		return object.NULL, nil
	}

	tok := p.tokens[start]
	entry, ok := p.registry.Lookup(tok.Literal)
	if !ok {
		if lit, ok := parser.ParseLiteral(tok.Literal); ok {
			return lit, nil
		}
		return object.NewString(tok.Literal), nil
	}

	arity := entry.EffectiveArity()
	args := make([]object.Object, 0, arity)
	pos := start + 1
	for i := 0; i < arity && pos <= end; i++ {
		last := pos + p.lengths[pos] - 1
		if last > end {
			break
		}
		arg, err := p.exec(pos, last)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		pos = last + 1
	}

	if p.strict && len(args) < arity {
		return nil, &EvalError{
			Name: tok.Literal,
			Line: tok.Line,
			Err:  fmt.Errorf("%w: expected %d arguments, got %d", object.ErrArityMismatch, arity, len(args)),
		}
	}

	plog.Trace(p.log, "call",
		slog.String("name", tok.Literal),
		slog.Int("line", tok.Line),
		slog.Int("args", len(args)))

	result, err := entry.Invoke(args...)
	if err != nil {
		return nil, &EvalError{Name: tok.Literal, Line: tok.Line, Err: err}
	}
	if result == nil {
		return object.NULL, nil
	}
	return result, nil
}
