package sink

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/logtide/collector/types"

	"github.com/coreos/go-systemd/journal"
)

var errJournalDisabled = fmt.Errorf("journal disabled")

// JournalSink sends records to the local systemd journal.
type JournalSink struct {
	sync.Mutex
}

func newJournalSink() (*JournalSink, error) {
	if !journal.Enabled() {
		return nil, errJournalDisabled
	}
	return &JournalSink{}, nil
}

func journalPriority(level int) journal.Priority {
	switch {
	case level >= types.LevelCritical:
		return journal.PriCrit
	case level >= types.LevelError:
		return journal.PriErr
	case level >= types.LevelWarning:
		return journal.PriWarning
	case level >= types.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// Handle .
func (j *JournalSink) Handle(record *types.Record) error {
	vars := map[string]string{
		"SYSLOG_IDENTIFIER": record.Name,
		"LEVEL_NAME":        record.LevelString(),
		"PROCESS":           strconv.Itoa(record.Process),
		"PROCESS_NAME":      record.ProcessName,
		"THREAD":            strconv.FormatInt(record.Thread, 10),
		"THREAD_NAME":       record.ThreadName,
		"CREATED":           strconv.FormatFloat(record.Created, 'f', -1, 64),
	}
	for k, v := range record.Extra {
		// journald only accepts upper case field names
		vars["EXTRA_"+strings.ToUpper(k)] = v
	}

	j.Lock()
	defer j.Unlock()

	return journal.Send(record.Msg, journalPriority(record.Level), vars)
}

// Close .
func (j *JournalSink) Close() (err error) {
	return
}
