package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
)

// Ключ записи сессии в BadgerDB
var sessionKey = []byte("session")

// BadgerSessionRepo хранит сессию в BadgerDB на диске.
type BadgerSessionRepo struct {
	db     *badger.DB
	dbPath string
}

// NewBadgerSessionRepo открывает (или создаёт) хранилище сессии.
func NewBadgerSessionRepo(dataPath string) (*BadgerSessionRepo, error) {
	dbPath := filepath.Join(dataPath, "session")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerSessionRepo{db: db, dbPath: dbPath}, nil
}

// Close закрывает хранилище.
func (r *BadgerSessionRepo) Close() error {
	return r.db.Close()
}

// Save сохраняет состояние сессии.
func (r *BadgerSessionRepo) Save(ctx context.Context, state SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey, data)
	})
}

// Load загружает состояние сессии; false — если сессии ещё нет.
func (r *BadgerSessionRepo) Load(ctx context.Context) (SessionState, bool, error) {
	var state SessionState
	found := false

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &state); err != nil {
				return fmt.Errorf("десериализация сессии: %w", err)
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return SessionState{}, false, err
	}
	return state, found, nil
}

// Delete удаляет сохранённую сессию.
func (r *BadgerSessionRepo) Delete(ctx context.Context) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey)
	})
}
