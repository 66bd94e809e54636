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
	"applets/internal/common/bridge"
	"applets/internal/common/busproxy"
	"context"
)

// Идентификаторы подписок, которые запускает Watch
const (
	SubscriptionWiFiEnabled  = "wifi-enabled"
	SubscriptionActiveConns  = "active-connections"
	SubscriptionConnectivity = "connectivity"
)

// propertySource следит за одним свойством NetworkManager и читает полный снимок.
type propertySource struct {
	property string
	listener *busproxy.Listener
}

func newPropertySource(property string) propertySource {
	return propertySource{property: property, listener: busproxy.NewListener()}
}

func (propertySource) Name() string {
	return Destination
}

func (s propertySource) Proxy(conn busproxy.Conn) (bridge.Proxy, error) {
	match := busproxy.Match{
		Destination: Destination,
		Path:        Path,
		Interface:   Interface,
		Property:    s.property,
	}

	watcher, err := s.listener.PropertyWatcher(conn, match, busproxy.ProbeProperty(Interface, s.property))
	if err != nil {
		return nil, err
	}
	return watcher, nil
}

func (s propertySource) Close() error {
	return s.listener.Close()
}

func (propertySource) Snapshot(ctx context.Context, conn busproxy.Conn) (State, error) {
	return NewState(ctx, conn)
}

// WirelessEnabledSubscription отдаёт WiFiEnabled на каждое изменение WirelessEnabled.
func WirelessEnabledSubscription[I comparable](id I, conn busproxy.Conn) *bridge.Subscription[I, busproxy.Conn, Event] {
	return bridge.New[I, busproxy.Conn, State, Event](id, conn, newPropertySource("WirelessEnabled"), func(s State) Event {
		return WiFiEnabled{State: s}
	})
}

// ActiveConnsSubscription отдаёт ActiveConns на каждое изменение списка активных соединений.
func ActiveConnsSubscription[I comparable](id I, conn busproxy.Conn) *bridge.Subscription[I, busproxy.Conn, Event] {
	return bridge.New[I, busproxy.Conn, State, Event](id, conn, newPropertySource("ActiveConnections"), func(s State) Event {
		return ActiveConns{State: s}
	})
}

// ConnectivitySubscription отдаёт ConnectivityChanged на каждое изменение Connectivity.
func ConnectivitySubscription[I comparable](id I, conn busproxy.Conn) *bridge.Subscription[I, busproxy.Conn, Event] {
	return bridge.New[I, busproxy.Conn, State, Event](id, conn, newPropertySource("Connectivity"), func(s State) Event {
		return ConnectivityChanged{State: s}
	})
}

// Subscriptions все подписки сетевого апплета.
func Subscriptions(conn busproxy.Conn) []bridge.Runner[string, Event] {
	return []bridge.Runner[string, Event]{
		WirelessEnabledSubscription(SubscriptionWiFiEnabled, conn),
		ActiveConnsSubscription(SubscriptionActiveConns, conn),
		ConnectivitySubscription(SubscriptionConnectivity, conn),
	}
}
