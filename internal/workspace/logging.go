package workspace

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var levels = map[string]int{
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// Log lines follow "[component] LEVEL: message". Lines without a marker are
// treated as errors and always written.
var markers = []struct {
	prefix []byte
	level  int
}{
	{[]byte("DEBUG:"), levelDebug},
	{[]byte("INFO:"), levelInfo},
	{[]byte("WARNING:"), levelWarn},
	{[]byte("ERROR:"), levelError},
}

// levelWriter drops log lines below threshold.
type levelWriter struct {
	w         io.Writer
	threshold int
}

func (lw *levelWriter) Write(p []byte) (int, error) {
	if lineLevel(p) < lw.threshold {
		return len(p), nil
	}
	return lw.w.Write(p)
}

func lineLevel(p []byte) int {
	rest := p
	if i := bytes.Index(p, []byte("] ")); i >= 0 {
		rest = p[i+2:]
	}
	for _, m := range markers {
		if bytes.HasPrefix(rest, m.prefix) {
			return m.level
		}
	}
	return levelError
}

// setupLogging points the standard logger at cfg.File (or stderr) behind a
// level gate. The returned closer restores stderr.
func setupLogging(cfg LoggingConfig) (io.Closer, error) {
	threshold, ok := levels[cfg.Level]
	if !ok {
		threshold = levelWarn
	}

	if cfg.File == "" {
		log.SetFlags(0)
		log.SetOutput(&levelWriter{w: os.Stderr, threshold: threshold})
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}
	log.SetFlags(log.LstdFlags)
	log.SetOutput(&levelWriter{w: f, threshold: threshold})
	return restoreCloser{f}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type restoreCloser struct{ f *os.File }

func (c restoreCloser) Close() error {
	log.SetOutput(os.Stderr)
	return c.f.Close()
}
