// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldActor     = "actor"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Config fields
	FieldKey      = "key"
	FieldProfile  = "profile"
	FieldRevision = "revision"

	// Path fields
	FieldPath = "path"
)
