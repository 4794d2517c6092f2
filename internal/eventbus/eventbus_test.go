package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	ev, err := NewEnvelope(EventPlayerJump, "game", HintPayload{Message: "тест"})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID, "событие должно получить UUID")
	assert.Equal(t, EventPlayerJump, ev.EventType)
	assert.Equal(t, "game", ev.Source)
	assert.Equal(t, 1, ev.Version)
	assert.NotEmpty(t, ev.Payload)
	assert.WithinDuration(t, time.Now().UTC(), ev.Timestamp, time.Second)

	ev2, err := NewEnvelope(EventPlayerJump, "game", nil)
	require.NoError(t, err)
	assert.NotEqual(t, ev.ID, ev2.ID, "каждый конверт получает собственный UUID")
}

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var received int64
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		atomic.AddInt64(&received, 1)
	})
	require.NoError(t, err)

	ev, err := NewEnvelope(EventEnterBuilding, "scene", BuildingEventPayload{BuildingID: 1})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), ev))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&received) == 1
	}, time.Second, 5*time.Millisecond, "подписчик должен получить событие")

	stats := bus.Metrics()
	assert.Equal(t, uint64(1), stats.Published)
}

func TestMemoryBusFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var jumps, hints int64
	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{EventPlayerJump}},
		func(ctx context.Context, ev *Envelope) { atomic.AddInt64(&jumps, 1) })
	require.NoError(t, err)
	_, err = bus.Subscribe(context.Background(), Filter{Types: []string{EventUIHint}},
		func(ctx context.Context, ev *Envelope) { atomic.AddInt64(&hints, 1) })
	require.NoError(t, err)

	jump, _ := NewEnvelope(EventPlayerJump, "game", nil)
	hint, _ := NewEnvelope(EventUIHint, "scene", HintPayload{Message: "привет"})

	require.NoError(t, bus.Publish(context.Background(), jump))
	require.NoError(t, bus.Publish(context.Background(), jump))
	require.NoError(t, bus.Publish(context.Background(), hint))

	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&jumps) == 2 && atomic.LoadInt64(&hints) == 1
	}, time.Second, 5*time.Millisecond, "фильтр должен разводить события по подписчикам")
}

func TestMemoryBusUnsubscribe(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var received int64
	sub, err := bus.Subscribe(context.Background(), Filter{},
		func(ctx context.Context, ev *Envelope) { atomic.AddInt64(&received, 1) })
	require.NoError(t, err)

	sub.Unsubscribe()

	ev, _ := NewEnvelope(EventPlayerJump, "game", nil)
	require.NoError(t, bus.Publish(context.Background(), ev))

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt64(&received), "после отписки события не доставляются")
}

func TestMemoryBusBackpressure(t *testing.T) {
	// Шина без цикла рассылки: буфер заполняется детерминированно
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, 1),
	}

	ctx := context.Background()
	low, _ := NewEnvelope(EventUIHint, "scene", nil)
	low.Priority = 0

	require.NoError(t, mb.Publish(ctx, low), "первое событие помещается в буфер")
	require.NoError(t, mb.Publish(ctx, low), "низкоприоритетное событие дропается без ошибки")

	stats := mb.Metrics()
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(1), stats.Dropped, "переполнение должно отражаться в Dropped")
	assert.Equal(t, 1, stats.InFlight)

	// Высокоприоритетное событие ждёт места; отмена контекста прерывает ожидание
	high, _ := NewEnvelope(EventEnterBuilding, "scene", nil)
	high.Priority = 9

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, mb.Publish(cctx, high),
		"высокоприоритетное событие не дропается, а ждёт до отмены контекста")
}

func TestGlobalBusNilSafe(t *testing.T) {
	Init(nil)
	ev, _ := NewEnvelope(EventPlayerJump, "game", nil)
	assert.NoError(t, Publish(context.Background(), ev),
		"публикация без инициализированной шины — no-op")
}
