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
	"applets/internal/common/busproxy"
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	Destination = "org.freedesktop.NetworkManager"
	Path        = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	Interface   = "org.freedesktop.NetworkManager"

	activeInterface = Interface + ".Connection.Active"
)

// Connectivity состояние доступа в сеть по оценке NetworkManager
type Connectivity uint32

const (
	ConnectivityUnknown Connectivity = iota
	ConnectivityNone
	ConnectivityPortal
	ConnectivityLimited
	ConnectivityFull
)

func (c Connectivity) String() string {
	switch c {
	case ConnectivityNone:
		return "none"
	case ConnectivityPortal:
		return "portal"
	case ConnectivityLimited:
		return "limited"
	case ConnectivityFull:
		return "full"
	default:
		return "unknown"
	}
}

func (c Connectivity) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ActiveState состояние активного соединения
type ActiveState uint32

const (
	ActiveUnknown ActiveState = iota
	ActiveActivating
	ActiveActivated
	ActiveDeactivating
	ActiveDeactivated
)

func (s ActiveState) String() string {
	switch s {
	case ActiveActivating:
		return "activating"
	case ActiveActivated:
		return "activated"
	case ActiveDeactivating:
		return "deactivating"
	case ActiveDeactivated:
		return "deactivated"
	default:
		return "unknown"
	}
}

func (s ActiveState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ActiveConnection активное соединение NetworkManager
type ActiveConnection struct {
	ID    string      `json:"id"`
	Type  string      `json:"type"`
	State ActiveState `json:"state"`
}

// State полный снимок состояния сети. Нулевое значение означает состояние по умолчанию.
type State struct {
	WiFiEnabled             bool               `json:"wifiEnabled"`
	WirelessHardwareEnabled bool               `json:"wirelessHardwareEnabled"`
	NetworkingEnabled       bool               `json:"networkingEnabled"`
	Connectivity            Connectivity       `json:"connectivity"`
	ActiveConns             []ActiveConnection `json:"activeConnections"`
}

// NewState читает снимок состояния NetworkManager.
func NewState(ctx context.Context, conn busproxy.Conn) (State, error) {
	var (
		state State
		err   error
	)

	nm := conn.Object(Destination, Path)

	if state.WiFiEnabled, err = busproxy.Property[bool](ctx, nm, Interface, "WirelessEnabled"); err != nil {
		return State{}, err
	}
	if state.WirelessHardwareEnabled, err = busproxy.Property[bool](ctx, nm, Interface, "WirelessHardwareEnabled"); err != nil {
		return State{}, err
	}
	if state.NetworkingEnabled, err = busproxy.Property[bool](ctx, nm, Interface, "NetworkingEnabled"); err != nil {
		return State{}, err
	}

	connectivity, err := busproxy.Property[uint32](ctx, nm, Interface, "Connectivity")
	if err != nil {
		return State{}, err
	}
	state.Connectivity = Connectivity(connectivity)

	paths, err := busproxy.Property[[]dbus.ObjectPath](ctx, nm, Interface, "ActiveConnections")
	if err != nil {
		return State{}, err
	}

	state.ActiveConns = make([]ActiveConnection, 0, len(paths))
	for _, path := range paths {
		active, err := readActiveConnection(ctx, conn.Object(Destination, path))
		if err != nil {
			// соединение могло исчезнуть между чтениями
			app.Log.Debugf("skip active connection %s: %v", path, err)
			continue
		}
		state.ActiveConns = append(state.ActiveConns, active)
	}

	return state, nil
}

func readActiveConnection(ctx context.Context, obj dbus.BusObject) (ActiveConnection, error) {
	id, err := busproxy.Property[string](ctx, obj, activeInterface, "Id")
	if err != nil {
		return ActiveConnection{}, err
	}

	kind, err := busproxy.Property[string](ctx, obj, activeInterface, "Type")
	if err != nil {
		return ActiveConnection{}, err
	}

	state, err := busproxy.Property[uint32](ctx, obj, activeInterface, "State")
	if err != nil {
		return ActiveConnection{}, err
	}

	return ActiveConnection{ID: id, Type: kind, State: ActiveState(state)}, nil
}

// SetWirelessEnabled включает или выключает радио Wi-Fi.
func SetWirelessEnabled(ctx context.Context, conn busproxy.Conn, enabled bool) error {
	nm := conn.Object(Destination, Path)
	if err := busproxy.SetProperty(ctx, nm, Interface, "WirelessEnabled", enabled); err != nil {
		return fmt.Errorf(app.T_("failed to switch Wi-Fi: %w"), err)
	}
	return nil
}
