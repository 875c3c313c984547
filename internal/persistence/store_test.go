package persistence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/KirkDiggler/squad-tactics/internal/errors"
	"github.com/KirkDiggler/squad-tactics/internal/persistence"
)

func TestRedisStore_Save(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	store := persistence.NewRedisStore(&persistence.RedisStoreConfig{Client: client, KeyPrefix: "skirmish"})

	mock.ExpectSet("skirmish:game", []byte(`{}`), 0).SetVal("OK")
	require.NoError(t, store.Save(ctx, "game", []byte(`{}`)))

	mock.ExpectSet("skirmish:options", []byte(`{}`), 0).SetErr(errors.New("redis error"))
	assert.Error(t, store.Save(ctx, "options", []byte(`{}`)))

	assert.True(t, apperrors.IsInvalidArgument(store.Save(ctx, "", nil)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
