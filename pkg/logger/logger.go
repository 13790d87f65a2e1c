package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu     sync.RWMutex
	level  = LevelInfo
	output = log.New(os.Stdout, "", log.LstdFlags)

	debugTag = color.New(color.FgCyan).SprintFunc()
	infoTag  = color.New(color.FgGreen).SprintFunc()
	warnTag  = color.New(color.FgYellow).SprintFunc()
	errorTag = color.New(color.FgRed, color.Bold).SprintFunc()
)

// SetLevel sets the minimum level that gets written.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// SetOutput redirects log lines, mostly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = log.New(w, "", log.LstdFlags)
}

func logf(l Level, tag string, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < level {
		return
	}
	output.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) {
	logf(LevelDebug, debugTag("[DEBUG]"), format, args...)
}

func Info(format string, args ...any) {
	logf(LevelInfo, infoTag("[INFO]"), format, args...)
}

func Warn(format string, args ...any) {
	logf(LevelWarn, warnTag("[WARN]"), format, args...)
}

func Error(format string, args ...any) {
	logf(LevelError, errorTag("[ERROR]"), format, args...)
}
