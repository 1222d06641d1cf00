package geocoding

import (
	"errors"
	"fmt"
)

type PermissionState string

const (
	PermissionPrompt      PermissionState = "prompt"
	PermissionGranted     PermissionState = "granted"
	PermissionDenied      PermissionState = "denied"
	PermissionUnsupported PermissionState = "unsupported"
)

// PermissionEvent is reported by the browser: the outcome of an explicit
// location request, a permission-change notification, or the absence of a
// geolocation API.
type PermissionEvent string

const (
	EventRequestGranted PermissionEvent = "request_granted"
	EventRequestDenied  PermissionEvent = "request_denied"
	EventChangedPrompt  PermissionEvent = "changed_prompt"
	EventChangedGranted PermissionEvent = "changed_granted"
	EventChangedDenied  PermissionEvent = "changed_denied"
	EventUnsupported    PermissionEvent = "unsupported"
)

var ErrInvalidTransition = errors.New("invalid permission transition")

func ParsePermissionState(s string) (PermissionState, bool) {
	switch st := PermissionState(s); st {
	case PermissionPrompt, PermissionGranted, PermissionDenied, PermissionUnsupported:
		return st, true
	case "":
		return PermissionPrompt, true
	}
	return "", false
}

// NextPermission applies ev to current. Unsupported is terminal; a denied
// permission only changes through a browser permission-change event.
func NextPermission(current PermissionState, ev PermissionEvent) (PermissionState, error) {
	if current == PermissionUnsupported {
		if ev == EventUnsupported {
			return current, nil
		}
		return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, current)
	}

	switch ev {
	case EventUnsupported:
		return PermissionUnsupported, nil
	case EventChangedPrompt:
		return PermissionPrompt, nil
	case EventChangedGranted:
		return PermissionGranted, nil
	case EventChangedDenied:
		return PermissionDenied, nil
	case EventRequestDenied:
		return PermissionDenied, nil
	case EventRequestGranted:
		if current == PermissionDenied {
			return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, current)
		}
		return PermissionGranted, nil
	}
	return current, fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, ev)
}
