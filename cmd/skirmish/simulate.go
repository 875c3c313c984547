package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/squad-tactics/internal/autopilot"
	"github.com/KirkDiggler/squad-tactics/internal/catalog"
	"github.com/KirkDiggler/squad-tactics/internal/config"
	"github.com/KirkDiggler/squad-tactics/internal/dice"
	"github.com/KirkDiggler/squad-tactics/internal/domain/campaign"
	"github.com/KirkDiggler/squad-tactics/internal/domain/grid"
	"github.com/KirkDiggler/squad-tactics/internal/persistence"
	"github.com/KirkDiggler/squad-tactics/internal/repositories/encounters"
	"github.com/KirkDiggler/squad-tactics/internal/services/encounter"
	"github.com/KirkDiggler/squad-tactics/internal/uuid"
)

var (
	scenarioID string
	maxRounds  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Autopilot both sides of a catalog scenario",
	Long: `Simulate builds the scenario's squads, lets the autopilot fight it out and
applies the result to a fresh campaign. Without REDIS_ADDR an embedded
Redis is used and discarded on exit.`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&scenarioID, "scenario", "goblin-ambush", "scenario to play")
	simulateCmd.Flags().IntVar(&maxRounds, "max-rounds", autopilot.DefaultMaxRounds, "rounds before the squad retreats")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeRedis, err := connectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRedis()

	worker := persistence.NewWorker(&persistence.WorkerConfig{
		Store:     persistence.NewRedisStore(&persistence.RedisStoreConfig{Client: client, KeyPrefix: cfg.Redis.KeyPrefix}),
		QueueSize: cfg.Persistence.QueueSize,
	})

	roller := dice.NewRandomRoller()
	if cfg.Engine.Seed != 0 {
		log.Printf("[SIMULATE] Using seed %d", cfg.Engine.Seed)
		roller = dice.NewSeededRoller(cfg.Engine.Seed)
	}

	svc := encounter.NewService(&encounter.ServiceConfig{
		Repository:        encounters.NewRedisRepository(&encounters.RedisRepoConfig{Client: client, KeyPrefix: cfg.Redis.KeyPrefix}),
		Content:           cat,
		Roller:            roller,
		Persister:         worker,
		MaxChainedActions: cfg.Engine.MaxChainedActions,
	})

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()

	g, gctx := errgroup.WithContext(workerCtx)
	g.Go(func() error {
		return worker.Run(gctx)
	})
	g.Go(func() error {
		defer stopWorker()
		return play(gctx, cmd.OutOrStdout(), svc, cat)
	})

	return g.Wait()
}

func play(ctx context.Context, out io.Writer, svc encounter.Service, cat *catalog.Catalog) error {
	scenario, err := cat.Scenario(scenarioID)
	if err != nil {
		return err
	}
	party, err := cat.Party(scenario)
	if err != nil {
		return err
	}
	enemies, err := cat.Enemies(scenario)
	if err != nil {
		return err
	}
	loot, err := cat.Loot(scenario)
	if err != nil {
		return err
	}

	camp := campaign.New(uuid.NewGoogleUUIDGenerator().New(), scenario.Name, party...)

	enc, err := svc.CreateEncounter(ctx, &encounter.CreateEncounterInput{
		Name:       scenario.Name,
		RegionID:   scenario.ID,
		Map:        grid.NewMap(scenario.Map.Width, scenario.Map.Height, scenario.Map.Walls...),
		Combatants: append(party, enemies...),
		Loot:       loot,
		XP:         scenario.XP,
	})
	if err != nil {
		return err
	}

	pilot := autopilot.New(&autopilot.Config{Service: svc, MaxRounds: maxRounds})
	enc, err = pilot.Run(ctx, enc.ID)
	if err != nil {
		return err
	}

	summary, err := svc.Finalize(ctx, enc.ID, camp)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, strings.Join(enc.Log, "\n"))
	fmt.Fprintf(out, "\n%s: %s after %d round(s)\n", scenario.Name, summary.Outcome, enc.Round)
	fmt.Fprintf(out, "  survivors: %s\n", strings.Join(summary.Survivors, ", "))
	if len(summary.Fallen) > 0 {
		fmt.Fprintf(out, "  fallen:    %s\n", strings.Join(summary.Fallen, ", "))
	}
	if summary.XPAwarded > 0 {
		fmt.Fprintf(out, "  xp:        %d each\n", summary.XPAwarded)
	}
	for _, item := range summary.Loot {
		fmt.Fprintf(out, "  loot:      %s\n", item.Name)
	}
	return nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Dir != "" {
		log.Printf("[CATALOG] Loading content from %s", cfg.Catalog.Dir)
		return catalog.LoadDir(cfg.Catalog.Dir)
	}
	return catalog.Default()
}

// connectRedis dials the configured Redis, or starts an embedded one when no
// address is set
func connectRedis(ctx context.Context, cfg *config.Config) (redis.UniversalClient, func(), error) {
	if !cfg.UseRedis() {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start embedded redis: %w", err)
		}
		log.Printf("[SIMULATE] No REDIS_ADDR set, using embedded redis at %s", mr.Addr())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		return client, func() {
			if err := client.Close(); err != nil {
				log.Printf("Failed to close redis client: %v", err)
			}
			mr.Close()
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	log.Printf("[SIMULATE] Connected to redis at %s", cfg.Redis.Addr)
	return client, func() {
		if err := client.Close(); err != nil {
			log.Printf("Failed to close redis client: %v", err)
		}
	}, nil
}
