package types

import (
	"strings"
	"time"
)

// Severity values follow the conventional numeric scale of the clients
// sending records, so thresholds compare across the wire without mapping.
const (
	LevelDebug    = 10
	LevelInfo     = 20
	LevelWarning  = 30
	LevelError    = 40
	LevelCritical = 50
)

// Record is one reconstructed log record.
// It is immutable once built, workers hand it over to sinks and drop it.
type Record struct {
	Name        string            `json:"name"`
	Level       int               `json:"levelno"`
	LevelName   string            `json:"levelname"`
	Msg         string            `json:"msg"`
	Created     float64           `json:"created"`
	Process     int               `json:"process"`
	ProcessName string            `json:"processName"`
	Thread      int64             `json:"thread"`
	ThreadName  string            `json:"threadName"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Time converts the Created seconds-since-epoch stamp
func (r *Record) Time() time.Time {
	sec := int64(r.Created)
	nsec := int64((r.Created - float64(sec)) * float64(time.Second))
	return time.Unix(sec, nsec)
}

// LevelString gives a printable level name even for off-scale values
func (r *Record) LevelString() string {
	if r.LevelName != "" {
		return r.LevelName
	}
	return LevelName(r.Level)
}

// LevelName maps a numeric severity to its conventional name
func LevelName(level int) string {
	switch {
	case level >= LevelCritical:
		return "CRITICAL"
	case level >= LevelError:
		return "ERROR"
	case level >= LevelWarning:
		return "WARNING"
	case level >= LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// ParseLevel parses a level name to its numeric severity,
// unknown names mean "let everything through"
func ParseLevel(name string) int {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "CRITICAL", "FATAL":
		return LevelCritical
	case "ERROR":
		return LevelError
	case "WARNING", "WARN":
		return LevelWarning
	case "INFO":
		return LevelInfo
	default:
		return LevelDebug
	}
}
