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
	"applets/internal/common/bridge"
	"applets/internal/common/busproxy"
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Идентификаторы подписок, которые запускает Watch
const (
	SubscriptionDevice       = "device"
	SubscriptionKbdBacklight = "kbd-backlight"
)

// deviceSource следит за любым свойством устройства UPower.
type deviceSource struct {
	path     dbus.ObjectPath
	listener *busproxy.Listener
}

func (deviceSource) Name() string {
	return Destination
}

func (s deviceSource) Proxy(conn busproxy.Conn) (bridge.Proxy, error) {
	match := busproxy.Match{
		Destination: Destination,
		Path:        s.path,
		Interface:   DeviceInterface,
	}

	watcher, err := s.listener.PropertyWatcher(conn, match, busproxy.ProbeProperty(DeviceInterface, "IsPresent"))
	if err != nil {
		return nil, err
	}
	return watcher, nil
}

func (s deviceSource) Close() error {
	return s.listener.Close()
}

func (s deviceSource) Snapshot(ctx context.Context, conn busproxy.Conn) (DeviceState, error) {
	return NewDeviceState(ctx, conn, s.path)
}

// kbdSource следит за сигналом BrightnessChanged подсветки клавиатуры.
// Подсветки нет у многих машин, это не ошибка.
type kbdSource struct {
	listener *busproxy.Listener
}

func (kbdSource) Name() string {
	return Destination
}

func (s kbdSource) Proxy(conn busproxy.Conn) (bridge.Proxy, error) {
	match := busproxy.Match{
		Destination: Destination,
		Path:        KbdBacklightPath,
		Interface:   KbdBacklightInterface,
		Member:      "BrightnessChanged",
	}

	watcher, err := s.listener.SignalWatcher(conn, match, busproxy.ProbeMethod(KbdBacklightInterface+".GetMaxBrightness"))
	if errors.Is(err, busproxy.ErrUnavailable) {
		return nil, fmt.Errorf("%w: %w", bridge.ErrAbsent, err)
	}
	if err != nil {
		return nil, err
	}
	return watcher, nil
}

func (s kbdSource) Close() error {
	return s.listener.Close()
}

func (kbdSource) Snapshot(ctx context.Context, conn busproxy.Conn) (KbdBacklightState, error) {
	return NewKbdBacklightState(ctx, conn)
}

// DeviceSubscription отдаёт DeviceUpdate на каждое изменение устройства по пути path.
func DeviceSubscription[I comparable](id I, conn busproxy.Conn, path dbus.ObjectPath) *bridge.Subscription[I, busproxy.Conn, Event] {
	return bridge.New[I, busproxy.Conn, DeviceState, Event](id, conn, deviceSource{path: path, listener: busproxy.NewListener()}, func(s DeviceState) Event {
		return DeviceUpdate{State: s}
	})
}

// KbdBacklightSubscription отдаёт KbdBrightness на каждый сигнал BrightnessChanged.
func KbdBacklightSubscription[I comparable](id I, conn busproxy.Conn) *bridge.Subscription[I, busproxy.Conn, Event] {
	return bridge.New[I, busproxy.Conn, KbdBacklightState, Event](id, conn, kbdSource{listener: busproxy.NewListener()}, func(s KbdBacklightState) Event {
		return KbdBrightness{State: s}
	})
}

// Subscriptions все подписки апплета питания.
func Subscriptions(conn busproxy.Conn, devicePath dbus.ObjectPath) []bridge.Runner[string, Event] {
	return []bridge.Runner[string, Event]{
		DeviceSubscription(SubscriptionDevice, conn, devicePath),
		KbdBacklightSubscription(SubscriptionKbdBacklight, conn),
	}
}
