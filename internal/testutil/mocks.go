package testutil

import (
	"context"
	"fmt"
	"sync"
	"talentpay/internal/models"
	"talentpay/internal/providers"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu      sync.Mutex
	Data    map[string][]byte
	Deleted []string
	Cleared int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	m.Deleted = append(m.Deleted, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Cleared++
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {
	m.Closed = true
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                 sync.Mutex
	PersistCalls       int
	Records            map[string]int
	PayoutComputations map[string]int
	LedgerFailures     map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
}

func (m *MockMetrics) SetRecordsTotal(entity string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Records == nil {
		m.Records = make(map[string]int)
	}
	m.Records[entity] = count
}

func (m *MockMetrics) IncPayoutComputations(surface string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PayoutComputations == nil {
		m.PayoutComputations = make(map[string]int)
	}
	m.PayoutComputations[surface]++
}

func (m *MockMetrics) IncLedgerFailures(operation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LedgerFailures == nil {
		m.LedgerFailures = make(map[string]int)
	}
	m.LedgerFailures[operation]++
}

// MockLedger implements ledger.ClientInterface with canned results.
type MockLedger struct {
	mu      sync.Mutex
	Amount  float64
	Items   []models.GroceryItem
	Err     error
	Calls   []LedgerCall
	Enabled bool
}

type LedgerCall struct {
	Customer string
	From     string
	To       string
}

func (m *MockLedger) record(customer, from, to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, LedgerCall{Customer: customer, From: from, To: to})
}

func (m *MockLedger) Total(_ context.Context, customer, from, to string) (float64, error) {
	m.record(customer, from, to)
	return m.Amount, m.Err
}

func (m *MockLedger) Detail(_ context.Context, customer, from, to string) ([]models.GroceryItem, error) {
	m.record(customer, from, to)
	return m.Items, m.Err
}

func (m *MockLedger) Fetch(ctx context.Context, customer, from, to string) models.LedgerResult {
	if m.Err != nil {
		m.record(customer, from, to)
		return models.LedgerResult{Items: []models.GroceryItem{}}
	}
	total, _ := m.Total(ctx, customer, from, to)
	items := m.Items
	if items == nil {
		items = []models.GroceryItem{}
	}
	return models.LedgerResult{Total: total, Items: items}
}

func (m *MockLedger) FetchTotal(ctx context.Context, customer, from, to string) float64 {
	total, err := m.Total(ctx, customer, from, to)
	if err != nil {
		return 0
	}
	return total
}

func (m *MockLedger) IsEnabled() bool {
	return m.Enabled
}

func (m *MockLedger) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Date parses a YYYY-MM-DD date and panics on malformed input.
func Date(s string) *time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(fmt.Sprintf("bad test date %q: %v", s, err))
	}
	return &t
}
