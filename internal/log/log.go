package log

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelNone:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

func LevelFromString(s string) Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN":
		return LevelWarn
	case "ERROR":
		return LevelError
	case "NONE":
		return LevelNone
	default:
		return LevelInfo
	}
}

const (
	lineLifetime = 5 * time.Second
	maxLines     = 30
)

// Line is one entry of the on-screen debug overlay.
type Line struct {
	Badge      string
	Content    string
	Persistent bool
	Hidden     bool
	Created    time.Duration
}

func (l *Line) String() string {
	return "[" + l.Badge + "] " + l.Content
}

// Logger writes leveled messages and keeps them as overlay lines.
// Overlay time comes from the clock set with SetClock, so lines age with
// the frame pump rather than the wall clock.
type Logger struct {
	mu     sync.Mutex
	logger *log.Logger
	level  Level
	lines  []*Line
	now    func() time.Duration
}

func New(out io.Writer, level Level) *Logger {
	return &Logger{
		logger: log.New(out, "", 0),
		level:  level,
		now:    func() time.Duration { return 0 },
	}
}

// Discard returns a logger that only keeps overlay lines.
func Discard() *Logger {
	return New(io.Discard, LevelNone)
}

func (l *Logger) SetClock(now func() time.Duration) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

func (l *Logger) SetLevel(level Level) {
	l.level = level
}

func (l *Logger) Level() Level {
	return l.level
}

func (l *Logger) emit(level Level, badge, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	if l.level <= level {
		l.logger.Printf("%s: %s", level, msg)
	}
	if level == LevelDebug && l.level > LevelDebug {
		return
	}
	l.mu.Lock()
	l.lines = append(l.lines, &Line{Badge: badge, Content: msg, Created: l.now()})
	l.mu.Unlock()
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.emit(LevelDebug, "Debug", format, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.emit(LevelInfo, "Info", format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.emit(LevelWarn, "Warn", format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.emit(LevelError, "Error", format, v...)
}

// Tagf adds an overlay line under a custom badge and logs it at info level.
func (l *Logger) Tagf(badge, format string, v ...interface{}) {
	l.emit(LevelInfo, badge, format, v...)
}

// Pin adds a persistent overlay line that the caller updates in place.
func (l *Logger) Pin(badge, content string) *Line {
	line := &Line{Badge: badge, Content: content, Persistent: true}
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
	return line
}

// Lines returns the visible overlay lines, oldest first, and drops expired
// ones.
func (l *Logger) Lines() []*Line {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	kept := l.lines[:0]
	transient := 0
	for i := len(l.lines) - 1; i >= 0; i-- {
		line := l.lines[i]
		if !line.Persistent {
			if now-line.Created > lineLifetime || transient >= maxLines {
				l.lines[i] = nil
				continue
			}
			transient++
		}
	}
	for _, line := range l.lines {
		if nil != line {
			kept = append(kept, line)
		}
	}
	l.lines = kept

	visible := make([]*Line, 0, len(kept))
	for _, line := range kept {
		if !line.Hidden {
			visible = append(visible, line)
		}
	}
	return visible
}
