package logging

const emptyString = ""

const (
	// DefaultMaxBytes is the size at which the active log file is rotated.
	DefaultMaxBytes = 10 * 1024 * 1024
	// DefaultBackupCount is the number of rotated archives kept on disk.
	DefaultBackupCount = 5
)

const (
	threadFieldName = "thread"
	pidFieldName    = "pid"
	timeLayout      = "2006-01-02 15:04:05.000"
	maxTimedArgs    = 5
)

const (
	errMsgNilService    = "Logger service is nil."
	errMsgConfigInvalid = "File sink configuration is invalid."
	errMsgMakeDir       = "Unable to make log directory."
	errMsgOpenFile      = "Unable to open log file."
	errMsgCloseFile     = "Unable to close log file."
	errMsgNilFileConfig = "File sink config is nil."
)
