//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"dialbook/internal/directory/store"
	"dialbook/internal/domain"
	"dialbook/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureInitialized(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "records")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestPutGetDeleteCycle() {
	ctx := context.Background()
	record := domain.Record{
		Name:    "Asha",
		Father:  "Ravi",
		Village: "Kothur",
		State:   "Telangana",
		Country: "India",
	}

	_, err := s.store.Get(ctx, "+919876543210")
	s.ErrorIs(err, store.ErrNotFound)

	s.Require().NoError(s.store.Put(ctx, "+919876543210", record))
	got, err := s.store.Get(ctx, "+919876543210")
	s.Require().NoError(err)
	s.Equal(record, got)

	s.Require().NoError(s.store.Delete(ctx, "+919876543210"))
	s.ErrorIs(s.store.Delete(ctx, "+919876543210"), store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPutUpsertsOnConflict() {
	ctx := context.Background()
	first := domain.Record{Name: "Asha", Father: "Ravi", Village: "Kothur", State: "Telangana", Country: "India"}
	second := domain.Record{Name: "Meera", Father: "Suresh", Village: "Alwal", State: "Telangana", Country: "India"}

	s.Require().NoError(s.store.Put(ctx, "+919876543210", first))
	s.Require().NoError(s.store.Put(ctx, "+919876543210", second))

	got, err := s.store.Get(ctx, "+919876543210")
	s.Require().NoError(err)
	s.Equal(second, got)
}

func (s *PostgresStoreSuite) TestSnapshotMatchesFileLayout() {
	ctx := context.Background()
	record := domain.Record{Name: "Asha", Father: "Ravi", Village: "Kothur", State: "Telangana", Country: "India"}
	s.Require().NoError(s.store.Put(ctx, "+919876543210", record))

	snapshot, err := s.store.Snapshot(ctx)
	s.Require().NoError(err)

	var mapping map[string]domain.Record
	s.Require().NoError(json.Unmarshal(snapshot, &mapping))
	s.Equal(record, mapping["+919876543210"])
}

// TestConcurrentUpserts verifies the database serializes conflicting writes
// without losing any of them.
func (s *PostgresStoreSuite) TestConcurrentUpserts() {
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record := domain.Record{Name: "Asha", Father: "Ravi", Village: "Kothur", State: "Telangana", Country: "India"}
			s.NoError(s.store.Put(ctx, "+919876543210", record))
		}()
	}
	wg.Wait()

	_, err := s.store.Get(ctx, "+919876543210")
	s.NoError(err)
}
