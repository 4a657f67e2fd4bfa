package sink

import "github.com/logtide/collector/types"

// Discard drops every record, the null destination.
type Discard struct{}

// Handle .
func (d Discard) Handle(record *types.Record) error {
	return nil
}

// Close .
func (d Discard) Close() error {
	return nil
}
