package models

// Messages returned to callers. These strings are part of the collector's
// public contract; SDK clients match on them verbatim.
const (
	MsgInvalidJSON      = "Invalid JSON format"
	MsgEmptyPayload     = "Payload is empty"
	MsgEmptyToken       = "Token is empty"
	MsgEmptyCatcherType = "CatcherType is empty"
	MsgInvalidSignature = "invalid JWT signature"
	MsgTooLarge         = "Request is too large"
	MsgEmptyRelease     = "Release is empty"
	MsgEmptySourcemap   = "Sourcemap is empty"
	MsgInvalidMultipart = "Invalid multipart format"
	MsgDispatchFailed   = "Unable to process event"
	MsgStorageFailed    = "Unable to store release files"
)

// IngestResult is the only shape ever serialized back to a caller, for both
// accepted and rejected submissions. Message is present iff Error is true.
type IngestResult struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
}

// Accepted returns the success result.
func Accepted() IngestResult {
	return IngestResult{Error: false}
}

// Rejected returns a failure result carrying the first failing check's message.
func Rejected(message string) IngestResult {
	return IngestResult{Error: true, Message: message}
}

// Rejection is an error that maps directly to a user-facing IngestResult.
// Pipeline stages return it to short-circuit with an exact contract message.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// Reject builds a Rejection with the given contract message.
func Reject(message string) *Rejection {
	return &Rejection{Reason: message}
}

// ResultOf converts an error into an IngestResult. Rejections keep their
// contract message; any other error is collapsed to fallback so internals
// never leak to callers.
func ResultOf(err error, fallback string) IngestResult {
	if err == nil {
		return Accepted()
	}
	if rej, ok := err.(*Rejection); ok {
		return Rejected(rej.Reason)
	}
	return Rejected(fallback)
}
