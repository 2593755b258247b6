package contracts

// NotificationKind identifies a state transition reported by the router.
type NotificationKind uint8

const (
	// NotificationEnded signals that the event stream has completed.
	NotificationEnded NotificationKind = iota
	// NotificationLoadFailed signals that an instrument could not be loaded.
	NotificationLoadFailed
	// NotificationTriggerFailed signals that the sample engine rejected a
	// playback call for a loaded instrument.
	NotificationTriggerFailed
)

// Notification is a state transition reported by the router to the
// playback session. The session decides UI and transport consequences.
type Notification struct {
	Kind     NotificationKind
	Identity string // Instrument identity involved, if any.
	Err      error  // Underlying error, if any.
}
