package core

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

const (
	ownerApp   = "com.example.owner"
	granteeApp = "com.example.grantee"
	otherApp   = "com.example.other"
)

type testEnv struct {
	svc         *Service
	directory   *MemoryAppDirectory
	permissions *StaticPermissionChecker
}

func newTestEnv(t *testing.T, opts ...Option) testEnv {
	t.Helper()
	directory := NewMemoryAppDirectory(ownerApp, granteeApp, otherApp)
	permissions := NewStaticPermissionChecker()
	options := append([]Option{
		WithAppDirectory(directory),
		WithPermissionChecker(permissions),
	}, opts...)
	svc, err := NewService(Config{}, options...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	t.Cleanup(func() {
		_ = svc.Close()
	})
	return testEnv{svc: svc, directory: directory, permissions: permissions}
}

func (e testEnv) manager(t *testing.T, appID string) *Manager {
	t.Helper()
	manager, err := e.svc.Manager(appID)
	if err != nil {
		t.Fatalf("manager %q: %v", appID, err)
	}
	return manager
}

func (e testEnv) addAccount(t *testing.T, owner string, name string) {
	t.Helper()
	if err := e.svc.AddAccount(context.Background(), AddAccountRequest{Owner: owner, Name: name}); err != nil {
		t.Fatalf("add account %q/%q: %v", owner, name, err)
	}
}

type batchRecorder struct {
	batches chan []AppAccountInfo
}

func newBatchRecorder() *batchRecorder {
	return &batchRecorder{batches: make(chan []AppAccountInfo, 64)}
}

func (r *batchRecorder) listener(_ context.Context, batch []AppAccountInfo) {
	r.batches <- append([]AppAccountInfo(nil), batch...)
}

func (r *batchRecorder) next(t *testing.T) []AppAccountInfo {
	t.Helper()
	select {
	case batch := <-r.batches:
		return batch
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change batch")
		return nil
	}
}

func (r *batchRecorder) expectNone(t *testing.T, wait time.Duration) {
	t.Helper()
	select {
	case batch := <-r.batches:
		t.Fatalf("expected no change batch, got %#v", batch)
	case <-time.After(wait):
	}
}

func repeat(char string, n int) string {
	return strings.Repeat(char, n)
}

type stubLogger struct{}

func (stubLogger) Trace(string, ...any) {}
func (stubLogger) Debug(string, ...any) {}
func (stubLogger) Info(string, ...any)  {}
func (stubLogger) Warn(string, ...any)  {}
func (stubLogger) Error(string, ...any) {}
func (stubLogger) Fatal(string, ...any) {}
func (s stubLogger) WithContext(context.Context) Logger {
	return s
}

type stubLoggerProvider struct {
	logger Logger
}

func (s stubLoggerProvider) GetLogger(string) Logger {
	return s.logger
}

type mapRawLoader struct {
	values map[string]any
}

func (l mapRawLoader) LoadRaw(context.Context) (map[string]any, error) {
	return l.values, nil
}

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}
