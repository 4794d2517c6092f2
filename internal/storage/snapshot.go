package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/annel0/wilds-game/internal/vec"
	"github.com/annel0/wilds-game/internal/world"
	"github.com/klauspost/compress/gzip"
)

// WorldSnapshot — экспортируемое описание сгенерированного мира:
// сид и результаты размещения. Достаточно для воспроизведения мира
// внешними инструментами без повторной генерации.
type WorldSnapshot struct {
	Seed      string                    `json:"seed"`
	Size      int                       `json:"size"`
	Buildings []world.BuildingFootprint `json:"buildings"`
	Trees     []vec.Vec3                `json:"trees"`
}

// ExportSnapshot пишет gzip-сжатый JSON-снимок мира в файл.
func ExportSnapshot(w *world.World, path string) error {
	snapshot := WorldSnapshot{
		Seed:      w.Heights.Seed(),
		Size:      w.Heights.Size(),
		Buildings: w.Structures.All(),
		Trees:     w.Trees,
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("создание файла снимка: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := json.NewEncoder(gz).Encode(snapshot); err != nil {
		gz.Close()
		return fmt.Errorf("кодирование снимка: %w", err)
	}
	return gz.Close()
}

// ImportSnapshot читает снимок мира из gzip-сжатого JSON-файла.
func ImportSnapshot(path string) (*WorldSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("чтение gzip: %w", err)
	}
	defer gz.Close()

	var snapshot WorldSnapshot
	if err := json.NewDecoder(gz).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("декодирование снимка: %w", err)
	}
	return &snapshot, nil
}
