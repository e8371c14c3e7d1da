package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/l1jgo/ecsgraph/internal/component"
	"github.com/l1jgo/ecsgraph/internal/config"
	"github.com/l1jgo/ecsgraph/internal/core/ecs"
	"github.com/l1jgo/ecsgraph/internal/core/graph"
	"github.com/l1jgo/ecsgraph/internal/data"
	"github.com/l1jgo/ecsgraph/internal/persist"
	"github.com/l1jgo/ecsgraph/internal/scripting"
	"github.com/l1jgo/ecsgraph/internal/snapshot"
	"github.com/l1jgo/ecsgraph/internal/system"
)

// graphsType holds the graphs loaded from data files, by name.
var graphsType = ecs.NewResourceType[map[string]*graph.Graph[string]]("Graphs",
	func() map[string]*graph.Graph[string] { return map[string]*graph.Graph[string]{} })

// snapshotStore is satisfied by persist.SnapshotRepo and persist.FileStore.
type snapshotStore interface {
	Save(ctx context.Context, name string, s *snapshot.Snapshot) error
	Latest(ctx context.Context, name string) (*snapshot.Snapshot, error)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(world string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m              ecsgraph demo                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mworld:\033[0m %s\n\n", world)
}

func printSection(title string) {
	lineLen := max(46-utf8.RuneCountInString(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-utf8.RuneCountInString(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ─────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Snapshot.Name)

	// 3. Registries
	components := snapshot.NewComponentRegistry()
	resources := snapshot.NewResourceRegistry()
	component.Register(components, resources)

	// 4. Snapshot store
	printSection("storage")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var store snapshotStore
	if cfg.Database.Enabled {
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printOK("migrations applied")
		store = persist.NewSnapshotRepo(db, cfg.Snapshot.Keep)
	} else {
		store = persist.NewFileStore(cfg.Snapshot.File)
		printOK(fmt.Sprintf("file store %s", cfg.Snapshot.File))
	}
	fmt.Println()

	// 5. Restore the last snapshot or build the world from prefabs
	printSection("world")
	w, err := loadWorld(ctx, cfg, store, components, resources, log)
	if err != nil {
		return err
	}
	discovered, live := snapshot.Coverage(w, components)
	printStat("entities", live)
	printStat("saveable entities", discovered)

	// 6. Graphs over labelled entities
	n, err := loadGraphs(cfg.Data.Graphs, w, log)
	if err != nil {
		return err
	}
	printStat("graphs", n)

	// 7. Lua systems
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, components, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	fmt.Println()

	// 8. Systems, in execution order
	w.AddSystem(system.NewMovementSystem())
	for _, fn := range cfg.Scripting.Systems {
		if !engine.HasFunction(fn) {
			log.Warn("lua system not defined, skipped", zap.String("func", fn))
			continue
		}
		w.AddSystem(scripting.NewScriptSystem(engine, fn, 0))
	}
	viewport := system.NewViewportSyncSystem(w)
	defer viewport.Close()
	w.AddSystem(viewport)

	autosave := system.NewAutosaveSystem(store, cfg.Snapshot.Name, cfg.Snapshot.AutosaveHz, components,
		snapshot.SaveOptions{
			Resources: resources,
			Include:   cfg.Snapshot.IncludeResources,
			Exclude:   cfg.Snapshot.ExcludeResources,
		}, log)
	if cfg.Snapshot.AutosaveHz > 0 {
		w.AddSystem(autosave)
	}
	w.AddSystem(system.NewCleanupSystem())
	w.AddSystem(system.NewInputClearSystem())

	// 9. Start loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("systems: %s", strings.Join(w.Systems(), ", ")))
	printReady(fmt.Sprintf("tick: %s", cfg.Loop.TickRate))
	fmt.Println()

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			w.Tick(now.Sub(last))
			last = now
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if err := autosave.SaveNow(w); err != nil {
				log.Error("final save failed", zap.Error(err))
			}
			log.Info("stopped")
			return nil
		}
	}
}

func loadWorld(ctx context.Context, cfg *config.Config, store snapshotStore, components *snapshot.ComponentRegistry, resources *snapshot.ResourceRegistry, log *zap.Logger) (*ecs.World, error) {
	snap, err := store.Latest(ctx, cfg.Snapshot.Name)
	switch {
	case err == nil:
		w, err := snapshot.DeserializeWorld(snap, snapshot.LoadOptions{
			Components: components,
			Resources:  resources,
			Log:        log,
		})
		if err != nil {
			return nil, fmt.Errorf("restore snapshot: %w", err)
		}
		printOK("restored from snapshot")
		return w, nil
	case errors.Is(err, persist.ErrNotFound):
		// first run
	default:
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	w := ecs.NewWorld()
	prefabs, err := data.LoadPrefabTable(cfg.Data.Prefabs)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %w", err)
	}
	if _, err := prefabs.SpawnInstances(w, components); err != nil {
		return nil, fmt.Errorf("spawn prefabs: %w", err)
	}
	printOK(fmt.Sprintf("spawned %d prefab instances", len(prefabs.Instances())))
	return w, nil
}

func loadGraphs(path string, w *ecs.World, log *zap.Logger) (int, error) {
	if path == "" {
		return 0, nil
	}
	defs, err := data.LoadGraphDefs(path)
	if err != nil {
		return 0, fmt.Errorf("graphs: %w", err)
	}
	labels := data.Labels(w)
	graphs := ecs.GetResource(w, graphsType)
	for _, def := range defs {
		g, err := def.Build(labels)
		if err != nil {
			return 0, fmt.Errorf("graphs: %w", err)
		}
		graphs[g.Name()] = g
		if _, err := g.Topological(); errors.Is(err, graph.ErrCycle) {
			log.Debug("graph is cyclic", zap.String("graph", g.Name()), zap.Int("nodes", g.NodeCount()))
		}
	}
	return len(defs), nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
