package metric

import "errors"

// ErrDeviceUnavailable is returned when the wearable API cannot be reached
// after retries. The message is fixed and carries no internal endpoint
// details.
var ErrDeviceUnavailable = errors.New("wearable device service unavailable")
