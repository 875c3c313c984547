package encounters_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/squad-tactics/internal/domain/game/encounter"
	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
	"github.com/KirkDiggler/squad-tactics/internal/repositories/encounters"
	"github.com/KirkDiggler/squad-tactics/internal/testutils"
)

const testTTL = time.Hour

type RedisRepoTestSuite struct {
	suite.Suite
	ctx  context.Context
	mock redismock.ClientMock
	repo encounters.Repository
	enc  *encounter.Encounter
	data []byte
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.ctx = context.Background()
	client, mock := redismock.NewClientMock()
	s.mock = mock
	s.repo = encounters.NewRedisRepository(&encounters.RedisRepoConfig{
		Client:    client,
		KeyPrefix: "skirmish",
		TTL:       testTTL,
	})

	s.enc = testutils.CreateTestEncounter("enc-1", "region-1")
	data, err := json.Marshal(s.enc)
	s.Require().NoError(err)
	s.data = data
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) TestCreate() {
	s.mock.ExpectSetNX("skirmish:encounter:enc-1", s.data, testTTL).SetVal(true)
	s.mock.ExpectRPush("skirmish:region:region-1:encounters", "enc-1").SetVal(1)

	s.NoError(s.repo.Create(s.ctx, s.enc))
}

func (s *RedisRepoTestSuite) TestCreate_AlreadyExists() {
	s.mock.ExpectSetNX("skirmish:encounter:enc-1", s.data, testTTL).SetVal(false)

	err := s.repo.Create(s.ctx, s.enc)
	s.True(apperrors.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreate_DependencyError() {
	s.mock.ExpectSetNX("skirmish:encounter:enc-1", s.data, testTTL).SetErr(errors.New("redis error"))

	s.Error(s.repo.Create(s.ctx, s.enc))
}

func (s *RedisRepoTestSuite) TestGet_RestoresRuntimeState() {
	s.mock.ExpectGet("skirmish:encounter:enc-1").SetVal(string(s.data))

	got, err := s.repo.Get(s.ctx, "enc-1")
	s.Require().NoError(err)
	s.Equal("enc-1", got.ID)
	s.Len(got.Combatants, 2)
	s.True(got.CanRetreat(), "state machine rebuilt")
	s.NotNil(got.Combatants[0].Conditions)
}

func (s *RedisRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectGet("skirmish:encounter:enc-9").RedisNil()

	_, err := s.repo.Get(s.ctx, "enc-9")
	s.True(apperrors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestGet_CorruptData() {
	s.mock.ExpectGet("skirmish:encounter:enc-1").SetVal("{not json")

	_, err := s.repo.Get(s.ctx, "enc-1")
	s.Error(err)
	s.False(apperrors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestUpdate() {
	s.mock.ExpectSetXX("skirmish:encounter:enc-1", s.data, testTTL).SetVal(true)
	s.NoError(s.repo.Update(s.ctx, s.enc))

	s.mock.ExpectSetXX("skirmish:encounter:enc-1", s.data, testTTL).SetVal(false)
	s.True(apperrors.IsNotFound(s.repo.Update(s.ctx, s.enc)))
}

func (s *RedisRepoTestSuite) TestNewRedisRepository_RequiresClient() {
	s.Panics(func() {
		encounters.NewRedisRepository(&encounters.RedisRepoConfig{})
	})
}
