package state

var _ Interface = (*Mock)(nil)

// Mock is an in-memory Interface for tests. Unlike Manager it records
// every save synchronously, so tests can assert on the sequence.
type Mock struct {
	current *NavigationState
	saved   []NavigationState
	closed  bool
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) SaveNavigation(state NavigationState) {
	m.saved = append(m.saved, state)
	m.current = &state
}

func (m *Mock) GetNavigation() (*NavigationState, error) {
	return m.current, nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// SetNavigation seeds the state returned by GetNavigation.
func (m *Mock) SetNavigation(state *NavigationState) { m.current = state }

// Saved returns every state passed to SaveNavigation, in order.
func (m *Mock) Saved() []NavigationState { return m.saved }

func (m *Mock) IsClosed() bool { return m.closed }
