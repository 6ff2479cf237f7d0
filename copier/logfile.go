package copier

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

// readResume returns the whitespace-stripped lines of an existing log
// file. A missing file yields no lines and no error.
func readResume(path string) ([]string, error) {
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	lines := make([]string, 0)
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// resumeSet picks the bare url markers out of the log lines. Status
// lines carry the [LOG] prefix and are ignored.
func resumeSet(lines []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, l := range lines {
		if l == "" || strings.HasPrefix(l, "[LOG]") {
			continue
		}
		set[l] = struct{}{}
	}
	return set
}

type logWriter struct {
	w   io.WriteCloser
	now func() time.Time
	err error
}

func openAppend(path string, now func() time.Time) (*logWriter, error) {
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &logWriter{w: fh, now: now}, nil
}

// logf writes a timestamped status line.
func (lw *logWriter) logf(format string, args ...any) {
	lw.line("[LOG] " + lw.now().Format(timeLayout) + " " + fmt.Sprintf(format, args...))
}

func (lw *logWriter) marker(url string) {
	lw.line(url)
}

func (lw *logWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, s+"\n")
}

func (lw *logWriter) Close() error {
	cerr := lw.w.Close()
	if lw.err != nil {
		return lw.err
	}
	return cerr
}
