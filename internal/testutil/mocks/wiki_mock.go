package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockArticleFetcher is a mock implementation of worker.ArticleFetcher
type MockArticleFetcher struct {
	mock.Mock
}

func (m *MockArticleFetcher) FetchArticle(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

// MockTranslator is a mock implementation of wiki.Translator
type MockTranslator struct {
	mock.Mock
}

func (m *MockTranslator) Translate(ctx context.Context, words []string) ([]string, error) {
	args := m.Called(ctx, words)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
