package capture

import "errors"

// ErrCameraUnavailable is reported when the live feed cannot be acquired.
var ErrCameraUnavailable = errors.New("capture: live feed unavailable")

// PermissionError is returned by Start when the probe grab fails (no display,
// capture permission denied, region off screen). It is not retried.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	if e.Err == nil {
		return ErrCameraUnavailable.Error()
	}
	return "capture: unable to access live feed: " + e.Err.Error()
}

func (e *PermissionError) Unwrap() error { return e.Err }

// Is matches ErrCameraUnavailable.
func (e *PermissionError) Is(target error) bool { return target == ErrCameraUnavailable }
