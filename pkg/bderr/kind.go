package bderr

import "errors"

// Error kinds recorded on failed results so the class of failure survives
// serialization.
const (
	KindValidation      = "validation"
	KindUnsupportedMode = "unsupported_mode"
	KindTransport       = "transport"
	KindUpstream        = "upstream"
	KindPollTimeout     = "poll_timeout"
)

// Kind classifies err into one of the taxonomy kinds, or "" when err is nil or
// outside the taxonomy.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var (
		validation  *ValidationError
		unsupported *UnsupportedModeError
		transport   *TransportError
		upstream    *UpstreamError
		pollTimeout *PollTimeoutError
	)
	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &unsupported):
		return KindUnsupportedMode
	case errors.As(err, &pollTimeout):
		return KindPollTimeout
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &upstream):
		return KindUpstream
	}
	return ""
}
