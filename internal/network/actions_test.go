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
	"applets/internal/common/busproxy/bustest"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestActions_Status(t *testing.T) {
	conn, _ := newNetworkManager()
	actions := NewActionsWithConn(nil, conn)

	resp, err := actions.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Error)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Network state", data["message"])

	state, ok := data["network"].(State)
	require.True(t, ok)
	assert.True(t, state.WiFiEnabled)
	assert.Len(t, state.ActiveConns, 1)
}

func TestActions_StatusServiceMissing(t *testing.T) {
	actions := NewActionsWithConn(nil, bustest.NewConn())

	resp, err := actions.Status(context.Background())
	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestActions_SetWirelessEnabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		message string
	}{
		{"выключение", false, "Wi-Fi disabled"},
		{"включение", true, "Wi-Fi enabled"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn, nm := newNetworkManager()
			nm.Set(Interface, "WirelessEnabled", !tc.enabled)
			actions := NewActionsWithConn(nil, conn)

			resp, err := actions.SetWirelessEnabled(context.Background(), tc.enabled)
			require.NoError(t, err)

			data := resp.Data.(map[string]interface{})
			assert.Equal(t, tc.message, data["message"])
			assert.Equal(t, tc.enabled, data["network"].(State).WiFiEnabled)
			assert.Len(t, nm.Calls("org.freedesktop.DBus.Properties.Set"), 1)
		})
	}
}

func TestActions_SetWirelessEnabledFailure(t *testing.T) {
	actions := NewActionsWithConn(nil, bustest.NewConn())

	_, err := actions.SetWirelessEnabled(context.Background(), true)
	assert.Error(t, err)
}

func TestActions_Watch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	conn, nm := newNetworkManager()
	actions := NewActionsWithConn(nil, conn)
	stop := errors.New("enough")

	var items []bridge.Item[string, Event]
	done := make(chan error, 1)
	go func() {
		done <- actions.Watch(context.Background(), func(item bridge.Item[string, Event]) error {
			items = append(items, item)
			return stop
		})
	}()

	require.Eventually(t, func() bool { return conn.Matches() == 3 }, time.Second, time.Millisecond)

	nm.Set(Interface, "WirelessEnabled", false)
	conn.EmitPropertiesChanged(Path, Interface, map[string]interface{}{"WirelessEnabled": false})

	select {
	case err := <-done:
		assert.ErrorIs(t, err, stop)
	case <-time.After(time.Second):
		t.Fatal("Watch не завершился")
	}

	require.Len(t, items, 1)
	assert.Equal(t, SubscriptionWiFiEnabled, items[0].ID)
	assert.Equal(t, WiFiEnabled{State: items[0].Event.Snapshot()}, items[0].Event)
	assert.False(t, items[0].Event.Snapshot().WiFiEnabled)
}

func TestActions_WatchStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	conn, _ := newNetworkManager()
	actions := NewActionsWithConn(nil, conn)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := actions.Watch(ctx, func(bridge.Item[string, Event]) error { return nil })
	assert.NoError(t, err)
	assert.Equal(t, 0, conn.Subscribers())
}
