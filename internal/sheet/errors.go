package sheet

import "errors"

// Sentinel CLI errors.
var (
	ErrUsage        = errors.New("usage error")
	ErrUnsupported  = errors.New("unsupported file type")
	ErrVerification = errors.New("verification failed")
	ErrServer       = errors.New("server error")
)
