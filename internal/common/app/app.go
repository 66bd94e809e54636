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
	"context"
	"fmt"
)

// Журнал и переводы доступны всем пакетам. До InitializeApp журнал молчит,
// а строки возвращаются без перевода, поэтому тесты пакетов обходятся без инициализации.
var (
	Log Logger = silentLogger{}
	T_         = func(msg string) string { return msg }
	TN_        = func(single, plural string, n int) string {
		if n == 1 {
			return single
		}
		return plural
	}
)

// Logger журнал приложения
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Warning(args ...interface{})
	Error(args ...interface{})
}

type silentLogger struct{}

func (silentLogger) Debug(...interface{})          {}
func (silentLogger) Debugf(string, ...interface{}) {}
func (silentLogger) Info(...interface{})           {}
func (silentLogger) Warning(...interface{})        {}
func (silentLogger) Error(...interface{})          {}

type contextKey string

const AppConfigKey contextKey = "appConfig"

// GetAppConfig достаёт Config из контекста команды
func GetAppConfig(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(AppConfigKey).(*Config); ok {
		return cfg
	}
	panic("AppConfig not found in context")
}

// Config настройки и соединения, которые команды получают через контекст
type Config struct {
	ConfigManager Manager
	DBusManager   DBusManager
}

func NewAppConfig(configManager Manager, dbusManager DBusManager) *Config {
	return &Config{
		ConfigManager: configManager,
		DBusManager:   dbusManager,
	}
}

// InitializeApp поднимает журнал, читает конфигурацию, загружает переводы
// и готовит менеджер соединений. Шина подключается позже, по требованию.
func InitializeApp() (*Config, error) {
	info := GetBuildInfo()
	Log = NewLogger(info.Environment != "prod")

	configManager, err := NewConfigManager(info)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := configManager.GetConfig()

	locale := NewLocale(cfg.PathLocales, GetSystemLocale())
	T_ = func(msg string) string { return locale.Get(msg) }
	TN_ = func(single, plural string, n int) string { return locale.GetN(single, plural, n) }

	return NewAppConfig(configManager, NewDBusManager(cfg.Bus)), nil
}
