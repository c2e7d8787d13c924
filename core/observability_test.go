package core

import (
	"context"
	"testing"
)

func TestServiceObservability_AddAccountSuccess(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	env := newTestEnv(t,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
	)

	if err := env.svc.AddAccount(context.Background(), AddAccountRequest{Owner: ownerApp, Name: "acct1"}); err != nil {
		t.Fatalf("add account: %v", err)
	}

	if !hasCounter(metrics.counters, "appaccount.add_account.total", "success") {
		t.Fatalf("expected appaccount.add_account.total success counter")
	}
	if !hasHistogram(metrics.histograms, "appaccount.add_account.duration_ms", "success") {
		t.Fatalf("expected appaccount.add_account.duration_ms histogram")
	}
	if !hasLog(logger.snapshot(), "debug", "add_account succeeded", "add_account") {
		t.Fatalf("expected add_account succeeded structured log")
	}
}

func TestServiceObservability_FailureCarriesErrorFieldsAndRedacts(t *testing.T) {
	metrics := &captureMetricsRecorder{}
	logger := newCaptureLogger()
	env := newTestEnv(t,
		WithMetricsRecorder(metrics),
		WithLoggerProvider(stubLoggerProvider{logger: logger}),
		WithLogger(logger),
	)
	ctx := context.Background()
	env.addAccount(t, ownerApp, "acct1")

	_, err := env.svc.GetOAuthToken(ctx, GetOAuthTokenRequest{
		Account:  AccountRef{Owner: ownerApp, Name: "acct1"},
		Caller:   granteeApp,
		AuthType: "t1",
	})
	if !IsPermissionDenied(err) {
		t.Fatalf("expected permission denied, got %v", err)
	}
	if !hasCounter(metrics.counters, "appaccount.get_oauth_token.total", "failure") {
		t.Fatalf("expected failure counter")
	}

	var found *capturedLog
	for _, record := range logger.snapshot() {
		if record.level == "warn" && record.fields["event_type"] == "get_oauth_token" {
			found = &record
		}
	}
	if found == nil {
		t.Fatalf("expected warn log for failed get_oauth_token")
	}
	if found.fields["error_text_code"] != AppAccountErrorPermissionDenied {
		t.Fatalf("expected error_text_code, got %#v", found.fields["error_text_code"])
	}
	if found.fields["caller"] != granteeApp || found.fields["auth_type"] != "t1" {
		t.Fatalf("expected traceability fields, got %#v", found.fields)
	}

	if err := env.svc.SetOAuthToken(ctx, SetOAuthTokenRequest{
		Account:  AccountRef{Owner: ownerApp, Name: "acct1"},
		AuthType: "t1",
		Token:    "super-secret",
	}); err != nil {
		t.Fatalf("set token: %v", err)
	}
	for _, record := range logger.snapshot() {
		for key, value := range record.fields {
			if value == "super-secret" {
				t.Fatalf("expected token value to stay out of logs, found under %q", key)
			}
		}
	}
}

func hasCounter(items []capturedCounter, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasHistogram(items []capturedHistogram, name string, status string) bool {
	for _, item := range items {
		if item.name == name && item.tags["status"] == status {
			return true
		}
	}
	return false
}

func hasLog(items []capturedLog, level string, message string, eventType string) bool {
	for _, item := range items {
		if item.level == level && item.msg == message && item.fields["event_type"] == eventType {
			return true
		}
	}
	return false
}
