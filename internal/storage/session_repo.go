package storage

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/wilds-game/internal/vec"
)

// SessionState — сохраняемое между запусками состояние сессии:
// сид мира и последняя позиция аватара в экстерьере. Позиция внутри
// здания не сохраняется — при загрузке игрок всегда в экстерьере.
type SessionState struct {
	Seed     string    `json:"seed"`
	Position vec.Vec3  `json:"position"`
	SavedAt  time.Time `json:"saved_at"`
}

// SessionRepo определяет интерфейс для сохранения и загрузки сессии.
type SessionRepo interface {
	// Save сохраняет состояние сессии в хранилище.
	Save(ctx context.Context, state SessionState) error

	// Load загружает состояние сессии.
	// Возвращает false вторым значением при первом запуске.
	Load(ctx context.Context) (SessionState, bool, error)

	// Delete удаляет сохранённую сессию (для тестов или сброса).
	Delete(ctx context.Context) error
}

// MemorySessionRepo — реализация в памяти для тестов и headless-запусков.
type MemorySessionRepo struct {
	mu    sync.RWMutex
	state *SessionState
}

// NewMemorySessionRepo создаёт пустой репозиторий в памяти
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{}
}

// Save сохраняет состояние сессии в память.
func (r *MemorySessionRepo) Save(ctx context.Context, state SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := state
	r.state = &s
	return nil
}

// Load загружает состояние сессии из памяти.
func (r *MemorySessionRepo) Load(ctx context.Context) (SessionState, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == nil {
		return SessionState{}, false, nil
	}
	return *r.state, true, nil
}

// Delete удаляет сохранённую сессию.
func (r *MemorySessionRepo) Delete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = nil
	return nil
}
