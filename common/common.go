package common

import "time"

const (
	// FramePrefixLength is the size of the length prefix before every payload
	FramePrefixLength = 4

	// DefaultPollTimeout bounds how long accept and read calls may block
	// before shutdown flags are checked again
	DefaultPollTimeout = time.Second

	// DefaultMaxFrameSize is the frame size guard when config leaves it unset
	DefaultMaxFrameSize = 16 * 1024 * 1024

	// JSONFormat payload format
	JSONFormat = "json"
	// GzipCompression payload compression
	GzipCompression = "gzip"
	// NoCompression payload compression
	NoCompression = ""

	// ConsoleSink sink type
	ConsoleSink = "console"
	// FileSink sink type
	FileSink = "file"
	// JournalSink sink type
	JournalSink = "journal"
	// DiscardSink sink type
	DiscardSink = "discard"

	// DateTimeFormat for console output
	DateTimeFormat = "2006-01-02 15:04:05"
)
