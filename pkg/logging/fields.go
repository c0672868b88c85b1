package logging

import "log/slog"

// Common field names for consistent logging across the collector.
const (
	FieldService     = "service"
	FieldProjectID   = "project_id"
	FieldCatcherType = "catcher_type"
	FieldRelease     = "release"
	FieldEventID     = "event_id"
	FieldIP          = "ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatus      = "status"
	FieldDuration    = "duration_ms"
	FieldError       = "error"
	FieldBytes       = "bytes"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// ProjectID returns a slog attribute for the project identifier.
func ProjectID(id string) slog.Attr {
	return slog.String(FieldProjectID, id)
}

// CatcherType returns a slog attribute for the declared catcher type.
func CatcherType(ct string) slog.Attr {
	return slog.String(FieldCatcherType, ct)
}

// Release returns a slog attribute for a sourcemap release identifier.
func Release(release string) slog.Attr {
	return slog.String(FieldRelease, release)
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// IP returns a slog attribute for the IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// Bytes returns a slog attribute for a byte count.
func Bytes(n int64) slog.Attr {
	return slog.Int64(FieldBytes, n)
}
