package core

import "strings"

const RedactedValue = "[REDACTED]"

// RedactSensitiveMap masks secret-bearing keys (token, credential, extra info,
// associated values) before fields reach a log line.
func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	target := make(map[string]any, len(metadata))
	for key, value := range metadata {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			target[key] = RedactSensitiveMap(nested)
			continue
		}
		target[key] = value
	}
	return target
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	for _, token := range []string{"token", "credential", "secret", "password", "extra_info", "value"} {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "owner",
		"account",
		"caller",
		"bundle_name",
		"auth_type",
		"credential_type",
		"subscription_id",
		"subscriber":
		return true
	default:
		return false
	}
}
