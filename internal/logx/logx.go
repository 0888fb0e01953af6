package logx

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

const (
	Reset = "\033[0m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
)

// colors per level
var levelColor = map[string]string{
	"DEBUG": Cyan,
	"INFO":  Blue,
	"WARN":  Yellow,
	"ERROR": Red,
}

// colors per component
var componentColor = map[string]string{
	"Api":       Cyan,
	"Validator": Magenta,
	"Prompt":    Yellow,
	"LLM":       Green,
	"Analyzer":  Blue,
	"HTTP":      Blue,
	"Config":    Magenta,
	"App":       Green,
	"CLI":       Cyan,
	"Mock":      Cyan,
}

var levelRank = map[string]int32{
	"DEBUG": 0,
	"INFO":  1,
	"WARN":  2,
	"ERROR": 3,
}

// minLevel holds the lowest level that gets logged. Defaults to INFO.
var minLevel atomic.Int32

func init() {
	minLevel.Store(levelRank["INFO"])
}

// SetLevel adjusts the minimum log level (debug, info, warn, error).
// Unknown values fall back to info.
func SetLevel(level string) {
	rank, ok := levelRank[strings.ToUpper(strings.TrimSpace(level))]
	if !ok {
		rank = levelRank["INFO"]
	}
	minLevel.Store(rank)
}

// detect color mode
func useColor() bool {
	return os.Getenv("ENV") == "local" || os.Getenv("ENV") == "dev"
}

// --- Public API ---

func Debug(component, msg string, args ...any) {
	logGeneric("DEBUG", component, msg, args...)
}

func Info(component, msg string, args ...any) {
	logGeneric("INFO", component, msg, args...)
}

func Warn(component, msg string, args ...any) {
	logGeneric("WARN", component, msg, args...)
}

func Error(component, msg string, args ...any) {
	logGeneric("ERROR", component, msg, args...)
}

// --- Core ---

func logGeneric(level, component, msg string, args ...any) {
	if levelRank[level] < minLevel.Load() {
		return
	}
	full := fmt.Sprintf(msg, args...)

	if useColor() {
		lc := levelColor[level]
		cc := componentColor[component]
		log.Printf("%s[%s]%s %s[%s]%s %s",
			lc, level, Reset,
			cc, component, Reset,
			full,
		)
	} else {
		log.Printf("[%s] [%s] %s", level, component, full)
	}
}
