// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the daemon.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Config attributes
	ConfigKeyKey     = "config.key"
	ConfigChangedKey = "config.changed_keys"
	ConfigActorKey   = "config.actor"
	ConfigTriggerKey = "config.trigger"

	// Profile attributes
	ProfileNameKey = "profile.name"

	// Revision attributes
	RevisionIDKey = "revision.id"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// SaveAttributes creates span attributes for a config save.
func SaveAttributes(actor string, changed []string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ConfigActorKey, actor),
		attribute.Int(ConfigChangedKey, len(changed)),
	}
}

// ProfileAttributes creates profile-related span attributes.
func ProfileAttributes(name string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ProfileNameKey, name),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
