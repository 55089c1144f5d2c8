package dispatch

// Level classifies a notification for presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
)

// Notifier receives transient, user-visible notices about dispatched
// effects. Implementations must not block.
type Notifier interface {
	Notify(level Level, title, detail string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, title, detail string)

func (f NotifierFunc) Notify(level Level, title, detail string) {
	f(level, title, detail)
}

type noopNotifier struct{}

func (noopNotifier) Notify(Level, string, string) {}
