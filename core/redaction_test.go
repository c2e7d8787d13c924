package core

import "testing"

func TestRedactSensitiveMapPreservesTraceabilityMetadata(t *testing.T) {
	redacted := RedactSensitiveMap(map[string]any{
		"owner":           ownerApp,
		"account":         "acct1",
		"auth_type":       "oauth",
		"credential_type": "password",
		"token":           "secret-token",
		"credential":      "hunter2",
		"extra_info":      "private",
		"nested":          map[string]any{"value": "v", "caller": granteeApp},
	})

	if redacted["owner"] != ownerApp || redacted["auth_type"] != "oauth" || redacted["credential_type"] != "password" {
		t.Fatalf("expected traceability fields to remain visible, got %#v", redacted)
	}
	for _, key := range []string{"token", "credential", "extra_info"} {
		if redacted[key] != RedactedValue {
			t.Fatalf("expected %s to be redacted, got %#v", key, redacted[key])
		}
	}
	nested, ok := redacted["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested redacted map")
	}
	if nested["value"] != RedactedValue {
		t.Fatalf("expected nested value to be redacted, got %#v", nested["value"])
	}
	if nested["caller"] != granteeApp {
		t.Fatalf("expected nested caller to remain visible, got %#v", nested["caller"])
	}
}
