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
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldKind       = "kind"
	FieldCategory   = "category"
	FieldMonth      = "month"
	FieldAmount     = "amount"
	FieldCollection = "collection"
	FieldBackend    = "backend"
	FieldIndexHint  = "index_hint"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentLedger   = "ledger"
	ComponentCategory = "category"
	ComponentBudget   = "budget"
	ComponentUser     = "user"
	ComponentReport   = "report"
	ComponentBackend  = "backend"
)
