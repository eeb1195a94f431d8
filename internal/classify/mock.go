package classify

import "context"

// MockClassifier permite tests con etiquetas predefinidas por texto.
type MockClassifier struct {
	Labels  map[string]string
	Default string
	Err     error
}

func (m *MockClassifier) Classify(_ context.Context, text string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if label, ok := m.Labels[text]; ok {
		return label, nil
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return LabelNeutral, nil
}
