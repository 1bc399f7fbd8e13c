package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pangea/internal/evaluator"
	plog "pangea/internal/log"
	"pangea/internal/object"
	"pangea/internal/repl"
	"pangea/internal/transcript"
	"pangea/internal/util"
)

var (
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

type options struct {
	help        bool
	version     bool
	eval        string
	interactive bool
	configPath  string
	logLevel    string
	logFile     string
	strictArity bool
	driver      string
	dsn         string
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("pangea", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.help, "help", false, "Display help information and exit")
	fs.BoolVar(&opts.help, "h", false, "Display help information and exit")
	fs.BoolVar(&opts.version, "version", false, "Display version information and exit")
	fs.BoolVar(&opts.version, "v", false, "Display version information and exit")
	fs.StringVar(&opts.eval, "eval", "", "Evaluate the given code and exit")
	fs.StringVar(&opts.eval, "e", "", "Evaluate the given code and exit")
	fs.BoolVar(&opts.interactive, "interactive", false, "Start the REPL after running a file or -e code")
	fs.BoolVar(&opts.interactive, "i", false, "Start the REPL after running a file or -e code")
	fs.StringVar(&opts.configPath, "config", "", "Configuration file (default ./pangea.toml if present)")
	// log config
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, none")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
	// evaluator config
	fs.BoolVar(&opts.strictArity, "strict-arity", false, "Fail calls that receive fewer arguments than their arity")
	// transcript config
	fs.StringVar(&opts.driver, "transcript-driver", "", "Transcript database driver: sqlite3, mysql, postgres")
	fs.StringVar(&opts.dsn, "transcript-dsn", "", "Transcript database connection string")
	fs.Usage = func() { printHelp(stderr) }
	return fs
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		printVersion(stdout)
		return 0
	}
	if opts.help {
		printHelp(stdout)
		return 0
	}

	config, err := util.LoadConfiguration(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	config.Version, config.BuildDate, config.Commit = Version, BuildDate, Commit
	applyFlags(fs, &opts, &config)

	logger, closer, err := plog.New(config.Log.Level, config.Log.File)
	if err != nil {
		fmt.Fprintf(stderr, "%v; falling back to stderr\n", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	var store *transcript.Store
	if config.Transcript.Driver != "" {
		store, err = transcript.Open(config.Transcript.Driver, config.Transcript.DSN)
		if err == nil {
			err = store.Migrate(ctx)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer store.Close()
	}

	it := evaluator.New(evaluator.Options{
		Out:         stdout,
		In:          stdin,
		Logger:      logger,
		StrictArity: config.Eval.StrictArity,
	})
	session := strconv.FormatInt(time.Now().UnixNano(), 36)

	batch := opts.eval != "" || fs.NArg() > 0
	if opts.eval != "" {
		if code := runSource(ctx, it, store, session, opts.eval, stdout, stderr); code != 0 {
			return code
		}
	}
	if fs.NArg() > 0 {
		path := fs.Arg(0)
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: cannot read %s: %v\n", path, err)
			return 1
		}
		logger.Info("running file", slog.String("file", path))
		if code := runSource(ctx, it, store, session, string(src), stdout, stderr); code != 0 {
			return code
		}
	}
	if batch && !opts.interactive {
		return 0
	}

	var in repl.LineReader
	if f, ok := stdin.(*os.File); ok && isTerminal(f) {
		lr := repl.NewLinerReader(config.Repl.HistoryFile)
		defer lr.Close()
		in = lr
	} else {
		in = repl.NewScannerReader(stdin, nil)
	}

	r := repl.New(it, in, stdout, repl.Config{
		Prompt:  config.Repl.Prompt,
		Store:   store,
		Session: session,
		Logger:  logger,
	})
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// applyFlags lets explicitly set flags override the configuration file.
func applyFlags(fs *flag.FlagSet, opts *options, config *util.Configuration) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.Log.Level = opts.logLevel
		case "log-file":
			config.Log.File = util.ExpandHome(opts.logFile)
		case "strict-arity":
			config.Eval.StrictArity = opts.strictArity
		case "transcript-driver":
			config.Transcript.Driver = opts.driver
		case "transcript-dsn":
			config.Transcript.DSN = opts.dsn
		}
	})
}

func runSource(ctx context.Context, it *evaluator.Interpreter, store *transcript.Store, session, src string, stdout, stderr io.Writer) int {
	result, err := it.Execute(src)
	if store != nil {
		entry, encErr := transcript.NewEntry(session, src, result, err)
		if encErr != nil {
			slog.Warn("cannot encode result", slog.Any("error", encErr))
		}
		if _, recErr := store.Record(ctx, entry); recErr != nil {
			slog.Error("transcript record failed", slog.Any("error", recErr))
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var evalErr *evaluator.EvalError
		if errors.As(err, &evalErr) {
			io.WriteString(stderr, util.SourceContext(src, evalErr.Line))
		}
		return 1
	}
	if result.Type() != object.NULL_OBJ {
		fmt.Fprintln(stdout, result.Inspect())
	}
	return 0
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "pangea version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp(out io.Writer) {
	fmt.Fprintf(out, `Usage: pangea [options] [filename]

Options:
  -e, -eval <code>           Evaluate the code and exit.
  -i, -interactive           Start the REPL after running a file or -e code.
  -config <path>             Configuration file. Default is ./pangea.toml if present.
  -strict-arity              Fail calls that receive fewer arguments than their arity.
  -log-level <level>         Set the log level: trace, debug, info, warn, error, none. Default is 'warn'.
  -log-file <path>           Specify a log file to write logs. Default is stderr.
  -transcript-driver <name>  Record evaluations with sqlite3, mysql or postgres.
  -transcript-dsn <dsn>      Connection string for the transcript database.
  -h, -help                  Display this help information and exit.
  -v, -version               Display version information and exit.

Details:
Pangea evaluates phrases in prefix notation. Each function consumes as many
following phrases as its arity, so "plus times 2 3 4" is plus(times(2, 3), 4).

Examples:
  pangea                          Start the REPL
  pangea -e 'plus 2 3'            Evaluate a single phrase
  pangea script.pg                Execute the provided file
  pangea -log-level=debug -i x.pg Run x.pg with debug logging, then the REPL

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
