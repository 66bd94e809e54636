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

package network

import (
	"applets/internal/common/app"
	"applets/internal/common/bridge"
	"applets/internal/common/busproxy"
	"applets/internal/common/reply"
	"context"
)

// Actions объединяет действия сетевого апплета.
type Actions struct {
	appConfig *app.Config
	conn      func() (busproxy.Conn, error)
}

// NewActions создаёт Actions поверх шины устройств приложения.
func NewActions(appConfig *app.Config) *Actions {
	return &Actions{
		appConfig: appConfig,
		conn: func() (busproxy.Conn, error) {
			return busproxy.DeviceBus(appConfig.DBusManager)
		},
	}
}

// NewActionsWithConn создаёт Actions с готовым соединением
func NewActionsWithConn(appConfig *app.Config, conn busproxy.Conn) *Actions {
	return &Actions{
		appConfig: appConfig,
		conn: func() (busproxy.Conn, error) {
			return conn, nil
		},
	}
}

// Status возвращает текущий снимок состояния сети
func (a *Actions) Status(ctx context.Context) (*reply.APIResponse, error) {
	conn, err := a.conn()
	if err != nil {
		return nil, err
	}

	state, err := NewState(ctx, conn)
	if err != nil {
		return nil, err
	}

	return &reply.APIResponse{
		Data: map[string]interface{}{
			"message": app.T_("Network state"),
			"network": state,
		},
		Error: false,
	}, nil
}

// Watch запускает все подписки апплета и передаёт события handle, пока не отменён ctx.
func (a *Actions) Watch(ctx context.Context, handle func(bridge.Item[string, Event]) error) error {
	conn, err := a.conn()
	if err != nil {
		return err
	}

	return bridge.Dispatch(ctx, handle, Subscriptions(conn)...)
}

// SetWirelessEnabled включает или выключает Wi-Fi и возвращает новый снимок
func (a *Actions) SetWirelessEnabled(ctx context.Context, enabled bool) (*reply.APIResponse, error) {
	conn, err := a.conn()
	if err != nil {
		return nil, err
	}

	if err = SetWirelessEnabled(ctx, conn, enabled); err != nil {
		return nil, err
	}

	state, err := NewState(ctx, conn)
	if err != nil {
		return nil, err
	}

	message := app.T_("Wi-Fi disabled")
	if enabled {
		message = app.T_("Wi-Fi enabled")
	}

	return &reply.APIResponse{
		Data: map[string]interface{}{
			"message": message,
			"network": state,
		},
		Error: false,
	}, nil
}
