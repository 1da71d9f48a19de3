package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError  = "error"
	FieldPath   = "path"
	FieldInput  = "input"
	FieldOutput = "output"

	// Document fields.
	FieldContentLen  = "content_len"
	FieldElements    = "elements"
	FieldActiveIndex = "active_index"
	FieldCursor      = "cursor"
	FieldWindow      = "window"
	FieldChange      = "change"

	// Position mapping fields.
	FieldRawPosition      = "raw_position"
	FieldRenderedPosition = "rendered_position"
	FieldMappings         = "mappings"
	FieldMode             = "mode"

	// Trigger fields.
	FieldEvent   = "event"
	FieldPending = "pending"

	// Session fields.
	FieldSession = "session"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
