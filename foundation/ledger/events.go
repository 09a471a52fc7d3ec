package ledger

// Level identifies the severity of an event emitted by the ledger.
type Level string

// Set of event levels the ledger emits.
const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventHandler defines a function that is called when events occur in the
// processing of blocks. The ledger only depends on this capability, never on
// a concrete logging implementation.
type EventHandler func(level Level, v string, args ...any)
