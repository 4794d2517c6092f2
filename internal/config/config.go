package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.
// Нулевые значения полей заменяются дефолтами при чтении.

type Config struct {
	World    WorldConfig    `yaml:"world"`
	Physics  PhysicsConfig  `yaml:"physics"`
	Server   ServerConfig   `yaml:"server"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Storage  StorageConfig  `yaml:"storage"`
}

// WorldConfig задаёт параметры генерации мира.
type WorldConfig struct {
	Seed          string  `yaml:"seed"`            // Строковый сид мира
	Size          int     `yaml:"size"`            // Размер сетки высот N (N×N)
	VillageRadius float64 `yaml:"village_radius"`  // Радиус плоской зоны поселения
	VillageBand   float64 `yaml:"village_band"`    // Ширина переходной полосы шума
	Buildings     int     `yaml:"buildings"`       // Количество зданий в поселении
	TreeDensity   float64 `yaml:"tree_density"`    // Плотность деревьев за пределами поселения (0..1)
	NoiseAmplitude float64 `yaml:"noise_amplitude"` // Базовая амплитуда первой октавы
	NoiseFrequency float64 `yaml:"noise_frequency"` // Базовая частота первой октавы
}

// PhysicsConfig задаёт константы интегратора движения.
type PhysicsConfig struct {
	Gravity      float64 `yaml:"gravity"`       // Ускорение свободного падения, ед/с²
	Speed        float64 `yaml:"speed"`         // Горизонтальная скорость, ед/с
	JumpImpulse  float64 `yaml:"jump_impulse"`  // Вертикальный импульс прыжка, ед/с
	EyeHeight    float64 `yaml:"eye_height"`    // Высота глаз над опорой
	AvatarHeight float64 `yaml:"avatar_height"` // Полная высота аватара
	AvatarRadius float64 `yaml:"avatar_radius"` // Радиус столкновений
	SlopeLimit   float64 `yaml:"slope_limit"`   // Максимальный подъём за тик
	MaxDelta     float64 `yaml:"max_delta"`     // Верхняя граница дельты тика, с
}

// ServerConfig задаёт порты отладочного REST API и метрик.
type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// EventBusConfig задаёт параметры шины событий.
// Пустой URL означает локальную in-memory шину.
type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

// StorageConfig задаёт каталог хранилища сессий.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// GetRESTPort возвращает REST порт с приоритетом: config -> env -> default
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "WILDS_REST_PORT", 8088)
}

// GetMetricsPort возвращает порт Prometheus метрик с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "WILDS_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Default возвращает конфигурацию по умолчанию.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Seed:           "wilds-v1",
			Size:           256,
			VillageRadius:  24,
			VillageBand:    12,
			Buildings:      6,
			TreeDensity:    0.04,
			NoiseAmplitude: 6.0,
			NoiseFrequency: 0.03,
		},
		Physics: PhysicsConfig{
			Gravity:      22.0,
			Speed:        5.0,
			JumpImpulse:  8.0,
			EyeHeight:    1.7,
			AvatarHeight: 1.8,
			AvatarRadius: 0.4,
			SlopeLimit:   1.0,
			MaxDelta:     0.1,
		},
		Storage: StorageConfig{Path: "data"},
	}
}

// Load читает YAML файл конфигурации и накладывает его на дефолты.
// Если path == "", пытается прочитать из ENV WILDS_CONFIG;
// при отсутствии файла возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("WILDS_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
