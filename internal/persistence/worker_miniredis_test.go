package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/squad-tactics/internal/persistence"
	"github.com/KirkDiggler/squad-tactics/internal/testutils"
)

func TestWorker_PersistsEncounterSnapshots(t *testing.T) {
	client, mr := testutils.CreateMiniRedisClient(t)
	worker := persistence.NewWorker(&persistence.WorkerConfig{
		Store: persistence.NewRedisStore(&persistence.RedisStoreConfig{Client: client, KeyPrefix: "skirmish"}),
		OnError: func(err error) {
			t.Errorf("unexpected persistence error: %v", err)
		},
	})

	enc := testutils.CreateTestEncounter("enc-1", "region-1")
	require.NoError(t, worker.Submit(persistence.Message{Type: persistence.MessageGame, Payload: enc}))
	enc.Round = 2
	require.NoError(t, worker.Submit(persistence.Message{Type: persistence.MessageGame, Payload: enc}))
	require.NoError(t, worker.Submit(persistence.Message{
		Type:    persistence.MessageOptions,
		Payload: map[string]any{"seed": 7},
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, worker.Run(ctx))

	game, err := mr.Get("skirmish:game")
	require.NoError(t, err)
	assert.Contains(t, game, `"id":"enc-1"`)
	assert.Contains(t, game, `"round":2`, "later snapshot wins")

	options, err := mr.Get("skirmish:options")
	require.NoError(t, err)
	assert.JSONEq(t, `{"seed":7}`, options)
}
