package logging

// Standardized attribute keys. Keeping these in one place makes log
// queries stable across packages.
const (
	FieldComponent = "component"
	FieldEventType = "event_type"
	FieldRunID     = "run_id"
	FieldPath      = "path"
	FieldSelector  = "selector"
	FieldRole      = "role"
)
