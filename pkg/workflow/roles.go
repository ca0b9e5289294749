package workflow

// SemanticRole is an abstract label for a UI element a workflow needs,
// mapped per platform to an ordered locator spec.
type SemanticRole string

const (
	// RoleFileInput receives the local video path.
	RoleFileInput SemanticRole = "file_input"

	// RoleTitle is the video title field.
	RoleTitle SemanticRole = "title"

	// RoleDescription is the description field, which on several
	// platforms is a contenteditable region rather than a form input.
	RoleDescription SemanticRole = "description"

	// RoleSubmit is the publish/submit control.
	RoleSubmit SemanticRole = "submit"

	// RoleCoverInput receives an optional cover image path.
	RoleCoverInput SemanticRole = "cover_input"

	// RoleUploadPreview appears once server-side processing finished.
	RoleUploadPreview SemanticRole = "upload_preview"

	// RoleUploadProgress is visible while the upload is processed;
	// its disappearance also signals completion.
	RoleUploadProgress SemanticRole = "upload_progress"

	// RoleLoginMarker is present only on unauthenticated pages.
	RoleLoginMarker SemanticRole = "login_marker"

	// RoleSuccessMarker confirms a completed publish.
	RoleSuccessMarker SemanticRole = "success_marker"

	// RoleErrorBanner is an explicit failure message after submit.
	RoleErrorBanner SemanticRole = "error_banner"
)
