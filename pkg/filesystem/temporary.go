package filesystem

const (
	// TemporaryNamePrefix is the file name prefix used for all temporary files
	// and directories this module creates. It may be suffixed with additional
	// elements if desired.
	TemporaryNamePrefix = ".sizew-temporary-"
)
