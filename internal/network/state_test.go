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
	"applets/internal/common/busproxy/bustest"
	"context"
	"encoding/json"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wiredPath = dbus.ObjectPath("/org/freedesktop/NetworkManager/ActiveConnection/1")
	// vanishedPath активное соединение, которое исчезло до чтения
	vanishedPath = dbus.ObjectPath("/org/freedesktop/NetworkManager/ActiveConnection/2")
)

// newNetworkManager поднимает поддельный NetworkManager с одним живым активным соединением.
func newNetworkManager() (*bustest.Conn, *bustest.Object) {
	conn := bustest.NewConn()
	nm := conn.AddObject(Destination, Path).
		Set(Interface, "WirelessEnabled", true).
		Set(Interface, "WirelessHardwareEnabled", true).
		Set(Interface, "NetworkingEnabled", true).
		Set(Interface, "Connectivity", uint32(ConnectivityFull)).
		Set(Interface, "ActiveConnections", []dbus.ObjectPath{wiredPath, vanishedPath})

	conn.AddObject(Destination, wiredPath).
		Set(activeInterface, "Id", "Wired connection 1").
		Set(activeInterface, "Type", "802-3-ethernet").
		Set(activeInterface, "State", uint32(ActiveActivated))

	return conn, nm
}

func TestNewState(t *testing.T) {
	conn, _ := newNetworkManager()

	state, err := NewState(context.Background(), conn)
	require.NoError(t, err)

	assert.True(t, state.WiFiEnabled)
	assert.True(t, state.WirelessHardwareEnabled)
	assert.True(t, state.NetworkingEnabled)
	assert.Equal(t, ConnectivityFull, state.Connectivity)
	assert.Equal(t, []ActiveConnection{
		{ID: "Wired connection 1", Type: "802-3-ethernet", State: ActiveActivated},
	}, state.ActiveConns)
}

func TestNewState_ServiceMissing(t *testing.T) {
	_, err := NewState(context.Background(), bustest.NewConn())
	assert.Error(t, err)
}

func TestNewState_BrokenProperty(t *testing.T) {
	conn, nm := newNetworkManager()
	nm.Set(Interface, "Connectivity", "full")

	_, err := NewState(context.Background(), conn)
	assert.Error(t, err)
}

func TestState_JSON(t *testing.T) {
	state := State{
		WiFiEnabled:  true,
		Connectivity: ConnectivityPortal,
		ActiveConns:  []ActiveConnection{{ID: "home", Type: "802-11-wireless", State: ActiveActivating}},
	}

	b, err := json.Marshal(state)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"wifiEnabled": true,
		"wirelessHardwareEnabled": false,
		"networkingEnabled": false,
		"connectivity": "portal",
		"activeConnections": [{"id": "home", "type": "802-11-wireless", "state": "activating"}]
	}`, string(b))
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{ String() string }
		expected string
	}{
		{"connectivity unknown", ConnectivityUnknown, "unknown"},
		{"connectivity none", ConnectivityNone, "none"},
		{"connectivity limited", ConnectivityLimited, "limited"},
		{"connectivity out of range", Connectivity(42), "unknown"},
		{"active deactivating", ActiveDeactivating, "deactivating"},
		{"active deactivated", ActiveDeactivated, "deactivated"},
		{"active out of range", ActiveState(9), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.value.String())
		})
	}
}

func TestSetWirelessEnabled(t *testing.T) {
	conn, nm := newNetworkManager()

	require.NoError(t, SetWirelessEnabled(context.Background(), conn, false))

	value, ok := nm.Get(Interface, "WirelessEnabled")
	require.True(t, ok)
	assert.Equal(t, false, value)
}
