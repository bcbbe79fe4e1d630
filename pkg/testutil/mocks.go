package testutil

// MockUI records every prompt the engine makes and answers from a script.
type MockUI struct {
	// ConfirmAnswers are returned in order; when exhausted, DefaultAnswer
	// is used.
	ConfirmAnswers []bool

	// DefaultAnswer is the reply once ConfirmAnswers runs out.
	DefaultAnswer bool

	// Confirms and Notifications record the messages received.
	Confirms      []string
	Notifications []string
}

// NewMockUI creates a MockUI that answers yes to everything.
func NewMockUI() *MockUI {
	return &MockUI{DefaultAnswer: true}
}

func (m *MockUI) Confirm(message string, def bool) bool {
	m.Confirms = append(m.Confirms, message)
	if len(m.ConfirmAnswers) > 0 {
		answer := m.ConfirmAnswers[0]
		m.ConfirmAnswers = m.ConfirmAnswers[1:]
		return answer
	}
	return m.DefaultAnswer
}

func (m *MockUI) Notify(message string) {
	m.Notifications = append(m.Notifications, message)
}
