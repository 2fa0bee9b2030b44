package lint

// Exit statuses reported for steps that don't exit on their own, these
// follow the conventions of POSIX shells.
const (
	// ExitOK indicates every step passed.
	ExitOK = 0

	// ExitFailure is used when a failed step reported no status.
	ExitFailure = 1

	// ExitNotFound indicates the step's tool couldn't be found.
	ExitNotFound = 127

	// ExitSignalBase is added to the signal number of a killed step.
	ExitSignalBase = 128
)
