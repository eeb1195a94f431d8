package news

import (
	"context"
	"time"
)

// MockClient permite tests sin llamar a la API de noticias real.
type MockClient struct {
	Headlines    []Article
	SearchResult []Article
	Err          error
	LastKeywords []string
}

func (m *MockClient) TopBusinessHeadlines(_ context.Context) ([]Article, error) {
	return m.Headlines, m.Err
}

func (m *MockClient) Search(_ context.Context, keywords []string, _ time.Time) ([]Article, error) {
	m.LastKeywords = keywords
	return m.SearchResult, m.Err
}
