package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/annel0/wilds-game/internal/api"
	"github.com/annel0/wilds-game/internal/config"
	"github.com/annel0/wilds-game/internal/eventbus"
	"github.com/annel0/wilds-game/internal/game"
	"github.com/annel0/wilds-game/internal/logging"
	"github.com/annel0/wilds-game/internal/observability"
	"github.com/annel0/wilds-game/internal/storage"
)

// autosaveInterval — период автосохранения позиции аватара
const autosaveInterval = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигурации")
	snapshotPath := flag.String("snapshot", "", "путь для экспорта снимка мира (gzip JSON)")
	flag.Parse()

	if err := run(*configPath, *snapshotPath); err != nil {
		fmt.Fprintf(os.Stderr, "фатальная ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, snapshotPath string) error {
	// Инициализация системы логирования
	if err := logging.InitDefaultLogger("game"); err != nil {
		return fmt.Errorf("инициализация логирования: %w", err)
	}
	defer logging.CloseDefaultLogger()

	logging.Info("🎮 Запуск wilds-game...")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("загрузка конфигурации: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry: некритично, продолжаем без трассировки при ошибке
	shutdownTelemetry, err := observability.InitTelemetry(ctx, "wilds-game")
	if err != nil {
		logging.Warn("OpenTelemetry недоступен: %v", err)
	} else {
		defer func() {
			sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer scancel()
			_ = shutdownTelemetry(sctx)
		}()
	}

	// Шина событий: JetStream при наличии URL, иначе in-memory
	var bus eventbus.EventBus
	if cfg.EventBus.URL != "" {
		retention := time.Duration(cfg.EventBus.Retention) * time.Hour
		jsBus, err := eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, retention)
		if err != nil {
			logging.Warn("JetStream недоступен (%v), используем in-memory шину", err)
			bus = eventbus.NewMemoryBus(1024)
		} else {
			bus = jsBus
			logging.Info("🚌 Подключена шина событий JetStream: %s", cfg.EventBus.URL)
		}
	} else {
		bus = eventbus.NewMemoryBus(1024)
		logging.Info("🚌 Используется in-memory шина событий")
	}
	defer bus.Close()
	eventbus.Init(bus)

	if err := eventbus.StartLoggingListener(bus); err != nil {
		logging.Warn("Слушатель событий не запущен: %v", err)
	}

	busMetrics := eventbus.NewMetricsExporter(bus)
	busMetrics.StartHTTP(fmt.Sprintf(":%d", cfg.Server.GetMetricsPort()))
	defer busMetrics.Stop()

	// Хранилище сессии
	if err := os.MkdirAll(cfg.Storage.Path, 0o755); err != nil {
		return fmt.Errorf("создание каталога данных: %w", err)
	}
	sessions, err := storage.NewBadgerSessionRepo(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("открытие хранилища сессий: %w", err)
	}
	defer sessions.Close()

	// Симуляция
	g, err := game.NewGame(cfg)
	if err != nil {
		return fmt.Errorf("создание симуляции: %w", err)
	}

	// Восстановление позиции из прошлой сессии (только при совпадении сида)
	if state, found, err := sessions.Load(ctx); err != nil {
		logging.Warn("Не удалось загрузить сессию: %v", err)
	} else if found {
		if state.Seed != cfg.World.Seed {
			logging.Info("Сид мира изменился (%q → %q), сессия сброшена", state.Seed, cfg.World.Seed)
			_ = sessions.Delete(ctx)
		} else if err := g.RestorePosition(state.Position); err != nil {
			logging.Warn("Позиция из сессии отклонена: %v", err)
		} else {
			logging.Info("💾 Позиция восстановлена из сессии: %+v", state.Position)
		}
	}

	// Экспорт снимка мира по запросу
	if snapshotPath != "" {
		if err := storage.ExportSnapshot(g.World(), snapshotPath); err != nil {
			logging.Warn("Экспорт снимка мира не удался: %v", err)
		} else {
			logging.Info("🗺️ Снимок мира сохранён: %s", filepath.Clean(snapshotPath))
		}
	}

	// Отладочный REST API
	rest := api.NewRESTServer(g, cfg)
	go func() {
		if err := rest.Start(); err != nil {
			logging.Error("REST API: %v", err)
		}
	}()

	// Цикл симуляции
	gameErr := make(chan error, 1)
	go func() {
		gameErr <- g.Run(ctx)
	}()

	// Автосохранение позиции
	go func() {
		ticker := time.NewTicker(autosaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				saveSession(ctx, sessions, cfg, g)
			}
		}
	}()

	logging.Info("✅ Симуляция запущена (тик 60 Гц), REST порт %d", cfg.Server.GetRESTPort())

	// Ожидание сигнала остановки или падения цикла
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info("🛑 Получен сигнал %v, останавливаемся...", sig)
	case err := <-gameErr:
		if err != nil && err != context.Canceled {
			logging.Error("Цикл симуляции завершился с ошибкой: %v", err)
		}
	}

	cancel()

	// Финальное сохранение и остановка HTTP
	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	saveSession(saveCtx, sessions, cfg, g)

	if err := rest.Shutdown(saveCtx); err != nil {
		logging.Warn("Остановка REST API: %v", err)
	}

	logging.Info("👋 Завершение работы")
	return nil
}

// saveSession сохраняет позицию аватара, если он в экстерьере.
// Позиция внутри интерьера не сохраняется: после рестарта интерьер
// не существует, восстановление шло бы в несуществующую сцену.
func saveSession(ctx context.Context, repo storage.SessionRepo, cfg *config.Config, g *game.Game) {
	snap := g.Snapshot()
	if snap.Mode != "exterior" {
		return
	}
	state := storage.SessionState{
		Seed:     cfg.World.Seed,
		Position: snap.Position,
		SavedAt:  time.Now().UTC(),
	}
	if err := repo.Save(ctx, state); err != nil {
		logging.Warn("Автосохранение не удалось: %v", err)
	}
}
