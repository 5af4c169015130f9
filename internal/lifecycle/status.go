package lifecycle

// StatusKind classifies a status readout update.
type StatusKind int

const (
	// StatusInfo is a plain lifecycle transition message.
	StatusInfo StatusKind = iota
	// StatusNotice is a recoverable user notice: the operation substituted a
	// fallback or simply was not performed, and may be retried.
	StatusNotice
	// StatusError is a startup or collaborator failure worth highlighting.
	StatusError
)

// Status is one status readout update. Every lifecycle transition and every
// surfaced error publishes one.
type Status struct {
	Kind    StatusKind
	Message string
}
