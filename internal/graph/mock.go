package graph

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/scholarnet-ai/lattice/internal/types"
)

// MockCall represents a recorded method call on the mock client.
type MockCall struct {
	Method    string
	Cypher    string
	Params    map[string]any
	Timestamp time.Time
}

// mockResponse scripts the result for queries whose text contains match.
type mockResponse struct {
	match  string
	result QueryResult
	err    error
}

// MockClient is a mock implementation of Client for testing.
// Responses are scripted by query-substring match and all calls are recorded
// for verification.
type MockClient struct {
	mu sync.RWMutex

	connected bool
	calls     []MockCall
	responses []mockResponse

	connectError error
	closeError   error
	defaultErr   error
}

// NewMockClient creates a new mock client for testing.
func NewMockClient() *MockClient {
	return &MockClient{
		calls:     make([]MockCall, 0),
		responses: make([]mockResponse, 0),
	}
}

// StubResult scripts a result for any query whose text contains match.
// Stubs are checked in registration order; the first match wins.
func (m *MockClient) StubResult(match string, result QueryResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{match: match, result: result})
}

// StubError scripts an error for any query whose text contains match.
func (m *MockClient) StubError(match string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResponse{match: match, err: err})
}

// SetConnectError makes Connect fail with the given error.
func (m *MockClient) SetConnectError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectError = err
}

// SetDefaultError makes unmatched queries fail with the given error.
func (m *MockClient) SetDefaultError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
}

// Calls returns a copy of all recorded calls.
func (m *MockClient) Calls() []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsFor returns recorded calls whose query text contains match.
func (m *MockClient) CallsFor(match string) []MockCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []MockCall
	for _, c := range m.calls {
		if strings.Contains(c.Cypher, match) {
			out = append(out, c)
		}
	}
	return out
}

// Connect records the call and simulates connection.
func (m *MockClient) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Connect", "", nil)
	if m.connectError != nil {
		return m.connectError
	}
	m.connected = true
	return nil
}

// Close records the call and simulates disconnection.
func (m *MockClient) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Close", "", nil)
	if m.closeError != nil {
		return m.closeError
	}
	m.connected = false
	return nil
}

// Health records the call and reports the connection state.
func (m *MockClient) Health(ctx context.Context) types.HealthStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("Health", "", nil)
	if !m.connected {
		return types.Unhealthy("not connected")
	}
	return types.Healthy("mock client connected")
}

// Query records the call and returns the scripted response.
func (m *MockClient) Query(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.respond(ctx, "Query", cypher, params)
}

// Run records the call and returns the scripted response.
func (m *MockClient) Run(ctx context.Context, cypher string, params map[string]any) (QueryResult, error) {
	return m.respond(ctx, "Run", cypher, params)
}

func (m *MockClient) respond(ctx context.Context, method, cypher string, params map[string]any) (QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return QueryResult{}, types.WrapError(ErrCodeGraphQueryTimeout, "query aborted", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.record(method, cypher, params)

	for _, resp := range m.responses {
		if strings.Contains(cypher, resp.match) {
			if resp.err != nil {
				return QueryResult{}, resp.err
			}
			return resp.result, nil
		}
	}

	if m.defaultErr != nil {
		return QueryResult{}, m.defaultErr
	}
	return QueryResult{Records: []map[string]any{}}, nil
}

// record appends a call entry; callers must hold the lock.
func (m *MockClient) record(method, cypher string, params map[string]any) {
	m.calls = append(m.calls, MockCall{
		Method:    method,
		Cypher:    cypher,
		Params:    params,
		Timestamp: time.Now(),
	})
}
