package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	base *logrus.Logger
	file *dailyFile
}

func New(level string) *Logger {
	return newLogger(level, os.Stdout, nil)
}

// NewWithDir logs to stdout and to dir/log_YYYY-MM-DD.log. An empty dir
// behaves like New.
func NewWithDir(level, dir string) (*Logger, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return New(level), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f := &dailyFile{dir: dir, now: time.Now}
	return newLogger(level, os.Stdout, f), nil
}

func newLogger(level string, out io.Writer, f *dailyFile) *Logger {
	base := logrus.New()
	base.SetFormatter(lineFormatter{})
	base.SetLevel(parseLevel(level))
	if f != nil {
		base.SetOutput(io.MultiWriter(out, f))
	} else {
		base.SetOutput(out)
	}
	return &Logger{base: base, file: f}
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *Logger) Debugf(format string, args ...any) { l.base.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.base.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.base.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.base.Errorf(format, args...) }

func (l *Logger) WithFields(fields map[string]any) *logrus.Entry {
	return l.base.WithFields(logrus.Fields(fields))
}

// SetOutput redirects console output; the daily file sink is kept.
func (l *Logger) SetOutput(w io.Writer) {
	if l.file != nil {
		l.base.SetOutput(io.MultiWriter(w, l.file))
		return
	}
	l.base.SetOutput(w)
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// lineFormatter renders "2006-01-02 15:04:05 | INFO | message k=v".
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(e.Time.Format("2006-01-02 15:04:05"))
	b.WriteString(" | ")
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteString(" | ")
	b.WriteString(e.Message)
	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

type dailyFile struct {
	mu   sync.Mutex
	dir  string
	now  func() time.Time
	day  string
	file *os.File
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	day := d.now().Format("2006-01-02")
	if d.file == nil || day != d.day {
		if d.file != nil {
			_ = d.file.Close()
		}
		f, err := os.OpenFile(filepath.Join(d.dir, "log_"+day+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			d.file = nil
			return 0, err
		}
		d.file = f
		d.day = day
	}
	return d.file.Write(p)
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
