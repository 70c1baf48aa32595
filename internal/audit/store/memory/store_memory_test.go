package memory

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"

	"betelgeuse-console/internal/audit"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore().WithCapacity(5)
}

func (s *MemoryStoreSuite) append(n int) {
	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := s.store.Append(ctx, audit.Event{
			Action:   audit.ActionConfigUpdated,
			Actor:    "admin",
			EntityID: strconv.Itoa(i),
		})
		s.Require().NoError(err)
	}
}

func (s *MemoryStoreSuite) TestListRecentNewestFirst() {
	s.append(3)

	events, err := s.store.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal("2", events[0].EntityID)
	s.Equal("0", events[2].EntityID)
}

func (s *MemoryStoreSuite) TestLimitApplied() {
	s.append(4)

	events, err := s.store.ListRecent(context.Background(), 2)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("3", events[0].EntityID)
	s.Equal("2", events[1].EntityID)
}

func (s *MemoryStoreSuite) TestRingDropsOldest() {
	s.append(8)

	events, err := s.store.ListRecent(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(events, 5)
	s.Equal("7", events[0].EntityID)
	s.Equal("3", events[4].EntityID, "events beyond capacity are discarded oldest-first")
}
