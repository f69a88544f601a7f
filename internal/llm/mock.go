package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response   string
	Err        error
	Calls      int
	LastSystem string
	LastPrompt string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	return m.GenerateWithSystem(ctx, "", prompt)
}

func (m *MockClient) GenerateWithSystem(_ context.Context, system, prompt string) (string, error) {
	m.Calls++
	m.LastSystem = system
	m.LastPrompt = prompt
	return m.Response, m.Err
}
