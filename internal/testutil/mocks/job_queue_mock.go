package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueDeckImport(deckID int64, title string) error {
	args := m.Called(deckID, title)
	return args.Error(0)
}
