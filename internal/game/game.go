package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/wilds-game/internal/config"
	"github.com/annel0/wilds-game/internal/eventbus"
	"github.com/annel0/wilds-game/internal/logging"
	"github.com/annel0/wilds-game/internal/physics"
	"github.com/annel0/wilds-game/internal/player"
	"github.com/annel0/wilds-game/internal/scene"
	"github.com/annel0/wilds-game/internal/vec"
	"github.com/annel0/wilds-game/internal/world"
)

// tickRate — частота симуляции при запуске через Run
const tickRate = 60

// Game связывает мир, физику и переходы сцены в один цикл симуляции.
// Тик однопоточный: состояние аватара и активный набор коллайдеров
// мутируются только из Tick/Interact, блокировок внутри тика нет.
type Game struct {
	cfg    *config.Config
	world  *world.World
	index  *physics.CollisionIndex
	avatar *player.AvatarState
	loco   *player.Locomotion
	trans  *scene.SceneTransition

	intentMu sync.Mutex
	intent   player.InputIntent
	jumpEdge bool

	metrics *TickMetrics
}

// AvatarSnapshot — срез состояния аватара для отладочной телеметрии.
type AvatarSnapshot struct {
	Position vec.Vec3 `json:"position"`
	Velocity vec.Vec3 `json:"velocity"`
	Mode     string   `json:"mode"`
	CanJump  bool     `json:"can_jump"`
}

// NewGame генерирует мир по конфигурации и собирает симуляцию.
func NewGame(cfg *config.Config) (*Game, error) {
	index := physics.NewCollisionIndex()

	gen := world.NewWorldGenerator(world.WorldParams{
		Seed:           cfg.World.Seed,
		Size:           cfg.World.Size,
		VillageRadius:  cfg.World.VillageRadius,
		VillageBand:    cfg.World.VillageBand,
		Buildings:      cfg.World.Buildings,
		TreeDensity:    cfg.World.TreeDensity,
		NoiseAmplitude: cfg.World.NoiseAmplitude,
		NoiseFrequency: cfg.World.NoiseFrequency,
	})

	w, err := gen.Generate(index)
	if err != nil {
		return nil, fmt.Errorf("game: генерация мира: %w", err)
	}
	index.SetActive(w.ExteriorColliders)

	// Появление в центре поселения: плоская зона, высота 0
	spawn := vec.Vec3{Y: cfg.Physics.EyeHeight}
	avatar := player.NewAvatarState(spawn, cfg.Physics.AvatarHeight, cfg.Physics.AvatarRadius)

	loco := player.NewLocomotion(index, player.LocomotionParams{
		Gravity:     cfg.Physics.Gravity,
		Speed:       cfg.Physics.Speed,
		JumpImpulse: cfg.Physics.JumpImpulse,
		EyeHeight:   cfg.Physics.EyeHeight,
		SlopeLimit:  cfg.Physics.SlopeLimit,
		MaxDelta:    cfg.Physics.MaxDelta,
	})

	trans := scene.NewSceneTransition(w.Structures, index, w.ExteriorColliders, cfg.Physics.EyeHeight)

	logging.Info("🌍 Мир сгенерирован: сид=%q, сетка %dx%d, зданий=%d, деревьев=%d",
		cfg.World.Seed, cfg.World.Size, cfg.World.Size, w.Structures.Count(), len(w.Trees))

	return &Game{
		cfg:     cfg,
		world:   w,
		index:   index,
		avatar:  avatar,
		loco:    loco,
		trans:   trans,
		metrics: NewTickMetrics(),
	}, nil
}

// World возвращает сгенерированный мир
func (g *Game) World() *world.World { return g.world }

// Avatar возвращает состояние аватара.
// Вне тика обращаться только на чтение.
func (g *Game) Avatar() *player.AvatarState { return g.avatar }

// Transition возвращает машину переходов сцены
func (g *Game) Transition() *scene.SceneTransition { return g.trans }

// SetIntent задаёт намерение движения на следующие тики.
// Jump накапливается как фронт: сработает ровно один раз.
func (g *Game) SetIntent(in player.InputIntent) {
	g.intentMu.Lock()
	defer g.intentMu.Unlock()
	if in.Jump {
		g.jumpEdge = true
	}
	in.Jump = false
	g.intent = in
}

// Interact выполняет действие взаимодействия из текущей позиции
// аватара вдоль направления взгляда.
func (g *Game) Interact(ctx context.Context, viewDir vec.Vec3) bool {
	return g.trans.Interact(ctx, g.avatar, g.avatar.Position, viewDir)
}

// Tick выполняет один шаг симуляции. Дельта ограничивается сверху
// внутри интегратора (MaxDelta), поэтому медленный кадр не ломает шаг.
func (g *Game) Tick(ctx context.Context, dt float64) error {
	start := time.Now()

	g.intentMu.Lock()
	in := g.intent
	in.Jump = g.jumpEdge
	g.jumpEdge = false
	g.intentMu.Unlock()

	ground := g.groundFunc()

	couldJump := g.avatar.CanJump
	if err := g.loco.Step(g.avatar, in, ground, dt); err != nil {
		return err
	}

	if in.Jump && couldJump {
		g.publishJump(ctx)
	}

	// Инвариант границы тика: сессия интерьера существует тогда и
	// только тогда, когда режим — интерьер. Нарушение — баг переходов;
	// играем дальше в деградированном, но согласованном состоянии.
	if !g.trans.Consistent(g.avatar) {
		logging.Error("Нарушен инвариант сцены: mode=%s, session=%v",
			g.avatar.Mode, g.trans.Session() != nil)
	}

	g.metrics.ticksTotal.Inc()
	g.metrics.tickDuration.Observe(time.Since(start).Seconds())
	g.metrics.modeGauge.Set(float64(g.avatar.Mode))
	g.metrics.collidersNum.Set(float64(g.index.ActiveCount()))

	return nil
}

// groundFunc выбирает функцию опоры по текущему режиму.
func (g *Game) groundFunc() player.GroundFunc {
	if g.avatar.Mode == player.ModeInterior {
		if s := g.trans.Session(); s != nil {
			return s.Layout.FloorHeight
		}
	}
	return g.world.GroundHeight
}

// Run крутит цикл симуляции с частотой tickRate до отмены контекста.
func (g *Game) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := g.Tick(ctx, dt); err != nil {
				return fmt.Errorf("game: тик симуляции: %w", err)
			}
		}
	}
}

// Snapshot возвращает срез состояния аватара для телеметрии.
func (g *Game) Snapshot() AvatarSnapshot {
	return AvatarSnapshot{
		Position: g.avatar.Position,
		Velocity: g.avatar.Velocity,
		Mode:     g.avatar.Mode.String(),
		CanJump:  g.avatar.CanJump,
	}
}

// RestorePosition восстанавливает позицию аватара из сохранённой
// сессии. Допустимо только в экстерьере до запуска цикла.
func (g *Game) RestorePosition(pos vec.Vec3) error {
	if g.avatar.Mode != player.ModeExterior {
		return fmt.Errorf("game: восстановление позиции возможно только в экстерьере")
	}
	if !pos.IsValid() {
		return fmt.Errorf("game: невалидная сохранённая позиция %+v", pos)
	}
	g.avatar.Position = pos
	return nil
}

func (g *Game) publishJump(ctx context.Context) {
	ev, err := eventbus.NewEnvelope(eventbus.EventPlayerJump, "game", g.Snapshot())
	if err != nil {
		return
	}
	_ = eventbus.Publish(ctx, ev)
}
