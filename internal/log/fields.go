package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldErrorType    = "error_type"
	FieldOperation    = "operation"
	FieldDuration     = "duration_ms"
	FieldPeriod       = "period"
	FieldRangeStart   = "range_start"
	FieldRangeEnd     = "range_end"
	FieldTransaction  = "transaction_id"
	FieldKind         = "kind"
	FieldAmountMinor  = "amount_minor"
	FieldCategory     = "category"
	FieldPlannedItem  = "planned_item_id"
	FieldTitle        = "title"
	FieldStatus       = "status"
	FieldNextDue      = "next_occurrence"
	FieldInsightCount = "insights"
	FieldCacheHit     = "cache_hit"
	FieldSheetsRange  = "sheets_range"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentAnalytics = "analytics"
	ComponentPlanned   = "planned"
	ComponentLedger    = "ledger"
	ComponentReminder  = "reminder"
	ComponentNotifier  = "notifier"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentCache     = "cache"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSnapshot = "snapshot"
	OpMarkPaid = "mark_paid"
	OpRemind   = "remind"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeSchedule      = "schedule_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds the error text; a nil error adds nothing.
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithErrorType(t string) LogFields {
	f[FieldErrorType] = t
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds transaction fields.
func (f LogFields) WithTransaction(id, kind string, amountMinor int64, category string) LogFields {
	f[FieldTransaction] = id
	f[FieldKind] = kind
	f[FieldAmountMinor] = amountMinor
	f[FieldCategory] = category
	return f
}

// WithPlannedItem adds planned item fields.
func (f LogFields) WithPlannedItem(id, title, status string) LogFields {
	f[FieldPlannedItem] = id
	f[FieldTitle] = title
	f[FieldStatus] = status
	return f
}

// WithWindow adds period window fields.
func (f LogFields) WithWindow(period, start, end string) LogFields {
	f[FieldPeriod] = period
	f[FieldRangeStart] = start
	f[FieldRangeEnd] = end
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
