package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// slog has no trace level; it sits one step below debug.
const (
	LevelTrace = slog.LevelDebug - 4
	LevelNone  = slog.LevelError + 4
)

// ParseLevel maps trace, debug, info, warn, error and none onto slog levels.
// Unknown names fall back to error.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "none", "off":
		return LevelNone
	default:
		return slog.LevelError
	}
}

// Trace logs below debug.
func Trace(l *slog.Logger, msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// FileWriter appends to a log file and can reopen it after rotation.
type FileWriter struct {
	path string
	mu   sync.Mutex
	fh   *os.File
	stop chan struct{}
}

// OpenFile creates parent directories as needed and opens path for append.
func OpenFile(path string) (*FileWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	w := &FileWriter{path: path}
	if err := w.Reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fh == nil {
		return 0, os.ErrClosed
	}
	return w.fh.Write(p)
}

func (w *FileWriter) Reopen() error {
	fh, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file '%s': %w", w.path, err)
	}
	w.mu.Lock()
	old := w.fh
	w.fh = fh
	w.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// ReopenOnHangup reopens the file on every SIGHUP until Close.
//
//	mv pangea.log pangea.bak && kill -HUP <pid>
func (w *FileWriter) ReopenOnHangup() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	stop := make(chan struct{})
	w.stop = stop
	go func() {
		defer signal.Stop(sigs)
		for {
			select {
			case <-sigs:
				if err := w.Reopen(); err != nil {
					fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
				}
			case <-stop:
				return
			}
		}
	}()
}

func (w *FileWriter) Close() error {
	if w.stop != nil {
		close(w.stop)
		w.stop = nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fh == nil {
		return nil
	}
	err := w.fh.Close()
	w.fh = nil
	return err
}

// New builds a JSON logger. With a file path the output goes there and
// follows SIGHUP rotation; otherwise it goes to stderr. The returned closer
// is never nil.
func New(level, file string) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if file == "" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nopCloser{}, nil
	}

	w, err := OpenFile(file)
	if err != nil {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nopCloser{}, err
	}
	w.ReopenOnHangup()
	return slog.New(slog.NewJSONHandler(w, opts)), w, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
