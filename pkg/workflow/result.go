package workflow

// State names one phase of the publish state machine.
type State string

const (
	StateIdle           State = "idle"
	StateAuthenticating State = "authenticating"
	StateUploading      State = "uploading"
	StateProcessing     State = "waiting_for_processing"
	StateFillingMeta    State = "filling_metadata"
	StateSubmitting     State = "submitting"
	StateVerifying      State = "verifying_result"
	StateDone           State = "done"
)

// ErrorKind classifies a workflow failure.
type ErrorKind string

const (
	// KindSession: the browser handle could not be obtained or was lost.
	KindSession ErrorKind = "session_error"

	// KindAuthTimeout: the human did not complete login in time.
	KindAuthTimeout ErrorKind = "authentication_timeout"

	// KindElementNotFound: all locator strategies exhausted for a
	// required role.
	KindElementNotFound ErrorKind = "element_not_found"

	// KindUploadTimeout: processing never signalled completion.
	KindUploadTimeout ErrorKind = "upload_timeout"

	// KindPreflight: the video failed validation before any browser work.
	KindPreflight ErrorKind = "preflight_failed"
)

// Request carries the metadata for one platform publish. Immutable once
// dispatched.
type Request struct {
	VideoPath   string
	Title       string
	Description string
	Tags        []string
	CoverPath   string
}

// Result is produced exactly once per platform per publish request.
//
// Qualified marks the three-way outcome the verify step cannot always
// collapse: the publish action was invoked but server-side confirmation
// was not observed in time. Qualified results count as successes; most
// platforms process submissions asynchronously.
type Result struct {
	Platform      string
	Success       bool
	Qualified     bool
	RemoteVideoID string
	RemoteURL     string
	ErrorKind     ErrorKind
	Message       string

	// NoSession marks a failure to obtain any browser handle at all,
	// as opposed to a session lost mid-workflow. Only the coordinator's
	// hard-error check cares about the distinction.
	NoSession bool
}

func failure(platform string, kind ErrorKind, message string) Result {
	return Result{
		Platform:  platform,
		Success:   false,
		ErrorKind: kind,
		Message:   message,
	}
}
