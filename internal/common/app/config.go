// Panel Applets
// Copyright (C) 2025 Дмитрий Удалов dmitry@udalov.online
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package app

import (
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/ilyakaznacheev/cleanenv"
)

// Manager управляет конфигурацией приложения
type Manager interface {
	GetConfig() *Configuration
	GetColors() Colors
	IsDevMode() bool
	SetFormat(format string)
	SetVerbose(verbose bool)
}

// BuildInfo информация интегрированная через сборку
type BuildInfo struct {
	Environment string
	PathLocales string
	Version     string
}

// Colors конфигурация цветовой схемы
type Colors struct {
	Enumerator string `yaml:"enumerator"`
	Accent     string `yaml:"accent"`
	ItemLight  string `yaml:"itemLight"`
	ItemDark   string `yaml:"itemDark"`
	Success    string `yaml:"success"`
	Error      string `yaml:"error"`
}

// Константы форматов вывода
const (
	FormatText = "text" // CLI текстовый вывод
	FormatJSON = "json" // CLI JSON вывод
	FormatDBus = "dbus" // D-Bus сервис
)

// Шины, на которых живут сервисы устройств
const (
	BusSystem  = "system"
	BusSession = "session"
)

// DefaultBatteryDevice составное устройство UPower, которое показывает панель
const DefaultBatteryDevice = "/org/freedesktop/UPower/devices/DisplayDevice"

// Configuration основная конфигурация приложения
type Configuration struct {
	Environment   string `yaml:"environment" env:"APPLETS_ENVIRONMENT"`
	PathLocales   string `yaml:"pathLocales" env:"APPLETS_PATH_LOCALES"`
	Bus           string `yaml:"bus" env:"APPLETS_BUS"`
	BatteryDevice string `yaml:"batteryDevice" env:"APPLETS_BATTERY_DEVICE"`
	Colors        Colors `yaml:"colors"`

	Version string `yaml:"-"`

	// Runtime flags
	Format  string `yaml:"-"`
	DevMode bool   `yaml:"-"`
	Verbose bool   `yaml:"-"`
}

// configSearchPaths места поиска файла конфигурации по порядку
var configSearchPaths = []string{"config.yml", "/etc/applets/config.yml"}

// configManagerImpl реализация Manager
type configManagerImpl struct {
	config *Configuration
}

// NewConfigManager создает новый менеджер конфигурации
func NewConfigManager(buildInfo BuildInfo) (Manager, error) {
	cfg := &Configuration{
		Bus:           BusSystem,
		BatteryDevice: DefaultBatteryDevice,
		Format:        FormatText,
		Colors:        getDefaultColors(),
	}

	cm := &configManagerImpl{
		config: cfg,
	}

	if err := cm.loadConfiguration(buildInfo); err != nil {
		return nil, err
	}

	return cm, nil
}

// loadConfiguration загружает конфигурацию из файлов, окружения и build-time переменных
func (cm *configManagerImpl) loadConfiguration(buildInfo BuildInfo) error {
	cm.applyBuildInfo(buildInfo)
	cm.loadConfigFile()

	// Определяем режим разработки
	cm.config.DevMode = cm.config.Environment != "prod"

	return cm.validate()
}

// applyBuildInfo применяет параметры времени сборки
func (cm *configManagerImpl) applyBuildInfo(buildInfo BuildInfo) {
	if buildInfo.Environment != "" {
		cm.config.Environment = buildInfo.Environment
	}
	if buildInfo.PathLocales != "" {
		cm.config.PathLocales = buildInfo.PathLocales
	}
	if buildInfo.Version != "" {
		cm.config.Version = buildInfo.Version
	}
}

// loadConfigFile загружает конфигурацию из YAML файла, при его отсутствии только из окружения
func (cm *configManagerImpl) loadConfigFile() {
	var configPath string
	for _, path := range configSearchPaths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	if configPath != "" {
		if err := cleanenv.ReadConfig(configPath, cm.config); err != nil {
			Log.Warning("Failed to read config file: ", err)
		}
		return
	}

	if err := cleanenv.ReadEnv(cm.config); err != nil {
		Log.Warning("Failed to read environment: ", err)
	}
}

// validate проверяет значения, пришедшие из файла и окружения
func (cm *configManagerImpl) validate() error {
	switch cm.config.Bus {
	case BusSystem, BusSession:
	default:
		return fmt.Errorf(T_("unknown bus %q, expected %q or %q"), cm.config.Bus, BusSystem, BusSession)
	}

	if !dbus.ObjectPath(cm.config.BatteryDevice).IsValid() {
		return fmt.Errorf(T_("invalid battery device object path %q"), cm.config.BatteryDevice)
	}

	return nil
}

// GetConfig возвращает конфигурацию
func (cm *configManagerImpl) GetConfig() *Configuration {
	return cm.config
}

// GetColors возвращает цветовую схему
func (cm *configManagerImpl) GetColors() Colors {
	return cm.config.Colors
}

// IsDevMode возвращает флаг режима разработки
func (cm *configManagerImpl) IsDevMode() bool {
	return cm.config.DevMode
}

// SetFormat устанавливает формат вывода
func (cm *configManagerImpl) SetFormat(format string) {
	cm.config.Format = format
}

// SetVerbose включает вывод журнала в терминал
func (cm *configManagerImpl) SetVerbose(verbose bool) {
	cm.config.Verbose = verbose
	if l, ok := Log.(*loggerImpl); ok && verbose {
		l.EnableStdoutLogging()
	}
}

// getDefaultColors возвращает цветовую схему по умолчанию
func getDefaultColors() Colors {
	return Colors{
		Enumerator: "#c4c8c6",
		Accent:     "#a2734c",
		ItemLight:  "#171717",
		ItemDark:   "#c4c8c6",
		Success:    "2",
		Error:      "9",
	}
}
