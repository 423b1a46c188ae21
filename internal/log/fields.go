package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldDraftKey   = "key"
	FieldRevision   = "revision"
	FieldItemID     = "item_id"
	FieldItemCount  = "item_count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentDraft    = "draft"
	ComponentStorage  = "storage"
	ComponentAMQP     = "amqp"
	ComponentArchiver = "archiver"
	ComponentPDF      = "pdf"
	ComponentCache    = "cache"
)
