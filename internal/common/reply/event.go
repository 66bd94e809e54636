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

package reply

import (
	"applets/internal/common/app"
	"applets/internal/common/helper"
	"context"
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// NotificationPath объект, от имени которого рассылаются события
	NotificationPath = dbus.ObjectPath("/org/altlinux/Applets")
	// NotificationSignal сигнал с телом события в JSON
	NotificationSignal = app.ServiceName + ".Notification"
)

// EventData событие подписки апплета.
type EventData struct {
	Name        string      `json:"name"`
	View        string      `json:"message"`
	Applet      string      `json:"applet"`
	ID          string      `json:"id"`
	Data        interface{} `json:"data"`
	Transaction string      `json:"transaction,omitempty"`
}

// Emitter часть *dbus.Conn для рассылки сигналов.
type Emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// NewEventData создаёт событие. Текст для пользователя подбирается по имени.
func NewEventData(applet string, id interface{}, name string, data interface{}) *EventData {
	ed := &EventData{
		Name:   name,
		Applet: applet,
		ID:     fmt.Sprint(id),
		Data:   data,
	}
	ed.View = getEventText(applet + "." + name)

	return ed
}

// SendEvent выводит событие в терминал или рассылает его на сессионной шине в режиме dbus.
func SendEvent(ctx context.Context, eventData *EventData) error {
	appConfig := app.GetAppConfig(ctx)
	if txStr, ok := ctx.Value(helper.TransactionKey).(string); ok {
		eventData.Transaction = txStr
	}

	if appConfig.ConfigManager.GetConfig().Format == app.FormatDBus {
		var emitter Emitter
		if conn := appConfig.DBusManager.GetSessionConnection(); conn != nil {
			emitter = conn
		}
		SendNotificationResponse(eventData, emitter)
		return nil
	}

	return CliResponse(ctx, APIResponse{
		Data: map[string]interface{}{
			"message": eventData.View,
			"event":   eventData,
		},
	})
}

// SendNotificationResponse отправляет событие через DBus.
func SendNotificationResponse(eventData *EventData, emitter Emitter) {
	if emitter == nil {
		app.Log.Error(app.T_("DBus connection is not initialized"))
		return
	}

	message, err := json.Marshal(eventData)
	if err != nil {
		app.Log.Debug(err.Error())
		return
	}

	if err = emitter.Emit(NotificationPath, NotificationSignal, string(message)); err != nil {
		app.Log.Error(fmt.Sprintf(app.T_("Error sending notification: %v"), err))
	}
}

func getEventText(event string) string {
	switch event {
	case "network.WiFiEnabled":
		return app.T_("Wi-Fi state changed")
	case "network.ActiveConns":
		return app.T_("Active connections changed")
	case "network.Connectivity":
		return app.T_("Connectivity changed")
	case "battery.DeviceUpdate":
		return app.T_("Battery state changed")
	case "battery.KbdBrightness":
		return app.T_("Keyboard brightness changed")
	default:
		return app.T_("State changed")
	}
}
