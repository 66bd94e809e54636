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

package battery

import (
	"applets/internal/common/app"
	"applets/internal/common/bridge"
	"applets/internal/common/busproxy"
	"applets/internal/common/helper"
	"applets/internal/common/reply"
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Actions объединяет действия апплета питания.
type Actions struct {
	appConfig  *app.Config
	devicePath dbus.ObjectPath
	conn       func() (busproxy.Conn, error)
}

// NewActions создаёт Actions поверх шины устройств приложения.
func NewActions(appConfig *app.Config) *Actions {
	return &Actions{
		appConfig:  appConfig,
		devicePath: dbus.ObjectPath(appConfig.ConfigManager.GetConfig().BatteryDevice),
		conn: func() (busproxy.Conn, error) {
			return busproxy.DeviceBus(appConfig.DBusManager)
		},
	}
}

// NewActionsWithConn создаёт Actions с готовым соединением и путём устройства
func NewActionsWithConn(appConfig *app.Config, conn busproxy.Conn, devicePath dbus.ObjectPath) *Actions {
	return &Actions{
		appConfig:  appConfig,
		devicePath: devicePath,
		conn: func() (busproxy.Conn, error) {
			return conn, nil
		},
	}
}

// Status возвращает снимок батареи и, если есть, подсветки клавиатуры
func (a *Actions) Status(ctx context.Context) (*reply.APIResponse, error) {
	conn, err := a.conn()
	if err != nil {
		return nil, err
	}

	device, err := NewDeviceState(ctx, conn, a.devicePath)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"message": app.T_("Battery state"),
		"battery": device,
	}

	kbd, err := NewKbdBacklightState(ctx, conn)
	if err != nil {
		app.Log.Debugf("keyboard backlight is not available: %v", err)
	} else {
		data["kbdBacklight"] = kbd
	}

	return &reply.APIResponse{
		Data:  data,
		Error: false,
	}, nil
}

// Watch запускает все подписки апплета и передаёт события handle, пока не отменён ctx.
func (a *Actions) Watch(ctx context.Context, handle func(bridge.Item[string, Event]) error) error {
	conn, err := a.conn()
	if err != nil {
		return err
	}

	return bridge.Dispatch(ctx, handle, Subscriptions(conn, a.devicePath)...)
}

// SetKbdBrightness задаёт яркость подсветки, ограничивая её отрезком [0, max]
func (a *Actions) SetKbdBrightness(ctx context.Context, value int) (*reply.APIResponse, error) {
	conn, err := a.conn()
	if err != nil {
		return nil, err
	}

	current, err := NewKbdBacklightState(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf(app.T_("keyboard backlight is not available: %w"), err)
	}

	value = helper.Clamp(value, 0, int(current.MaxBrightness))
	if err = SetKbdBrightness(ctx, conn, int32(value)); err != nil {
		return nil, err
	}

	state, err := NewKbdBacklightState(ctx, conn)
	if err != nil {
		return nil, err
	}

	return &reply.APIResponse{
		Data: map[string]interface{}{
			"message":      fmt.Sprintf(app.T_("Keyboard brightness set to %d of %d"), value, current.MaxBrightness),
			"kbdBacklight": state,
		},
		Error: false,
	}, nil
}
