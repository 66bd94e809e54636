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
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// ServiceName имя, под которым апплеты публикуют события на сессионной шине
const ServiceName = "org.altlinux.Applets"

// DBusManager управляет соединениями с DBus
type DBusManager interface {
	// GetConnection соединение с шиной, где живут NetworkManager и UPower
	GetConnection() *dbus.Conn
	// GetSessionConnection соединение с сессионной шиной для публикации событий
	GetSessionConnection() *dbus.Conn
	ConnectDeviceBus() error
	ConnectSessionBus() error
	Close() error
	IsConnected() bool
}

// dbusManagerImpl реализация DBusManager
type dbusManagerImpl struct {
	busType string
	device  *dbus.Conn
	session *dbus.Conn
	mu      sync.Mutex
}

// NewDBusManager создает новый менеджер DBus
func NewDBusManager(busType string) DBusManager {
	return &dbusManagerImpl{busType: busType}
}

// GetConnection возвращает соединение с шиной устройств
func (dm *dbusManagerImpl) GetConnection() *dbus.Conn {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.device
}

// GetSessionConnection возвращает соединение с сессионной шиной
func (dm *dbusManagerImpl) GetSessionConnection() *dbus.Conn {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.session
}

// ConnectDeviceBus подключается к шине устройств. Сигналы доставляются
// последовательно, чтобы порядок уведомлений сохранялся.
func (dm *dbusManagerImpl) ConnectDeviceBus() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.device != nil {
		return nil
	}

	var (
		conn *dbus.Conn
		err  error
	)
	handler := dbus.WithSignalHandler(dbus.NewSequentialSignalHandler())
	if dm.busType == BusSession {
		conn, err = dbus.ConnectSessionBus(handler)
	} else {
		conn, err = dbus.ConnectSystemBus(handler)
	}
	if err != nil {
		return fmt.Errorf(T_("failed to connect to DBus: %w"), err)
	}

	dm.device = conn
	Log.Debug("DBus device bus connection established: ", dm.busType)

	return nil
}

// ConnectSessionBus подключается к сессионной шине и занимает имя сервиса
func (dm *dbusManagerImpl) ConnectSessionBus() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.session != nil {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf(T_("failed to connect to DBus: %w"), err)
	}

	// Регистрируем имя сервиса
	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf(T_("failed to request DBus name: %w"), err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Close()
		return fmt.Errorf(T_("Interface %s is already in use"), ServiceName)
	}

	dm.session = conn
	Log.Debug("DBus session connection established")

	return nil
}

// Close закрывает соединения с DBus
func (dm *dbusManagerImpl) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	var errs []error
	if dm.session != nil {
		if _, err := dm.session.ReleaseName(ServiceName); err != nil {
			Log.Debug("Failed to release DBus name: ", err)
		}
		errs = append(errs, dm.session.Close())
		dm.session = nil
	}
	if dm.device != nil {
		errs = append(errs, dm.device.Close())
		dm.device = nil
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf(T_("failed to close DBus connection: %w"), err)
	}
	Log.Debug("DBus connection closed")

	return nil
}

// IsConnected проверяет, установлено ли соединение с шиной устройств
func (dm *dbusManagerImpl) IsConnected() bool {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.device != nil && dm.device.Connected()
}
