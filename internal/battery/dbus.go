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
	"applets/internal/common/helper"
	"context"
	"encoding/json"

	"github.com/godbus/dbus/v5"
)

// DBusWrapper – обёртка для действий апплета питания, предназначенная для экспорта через DBus.
type DBusWrapper struct {
	actions *Actions
	ctx     context.Context
}

// NewDBusWrapper создаёт новую обёртку над actions
func NewDBusWrapper(a *Actions, ctx context.Context) *DBusWrapper {
	return &DBusWrapper{actions: a, ctx: ctx}
}

// Status – Получить состояние батареи и подсветки клавиатуры
func (w *DBusWrapper) Status(transaction string) (string, *dbus.Error) {
	ctx := context.WithValue(w.ctx, helper.TransactionKey, transaction)
	resp, err := w.actions.Status(ctx)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	resp.Transaction = transaction
	data, jerr := json.Marshal(resp)
	if jerr != nil {
		return "", dbus.MakeFailedError(jerr)
	}
	return string(data), nil
}

// SetKbdBrightness – Задать яркость подсветки клавиатуры
func (w *DBusWrapper) SetKbdBrightness(value int32, transaction string) (string, *dbus.Error) {
	ctx := context.WithValue(w.ctx, helper.TransactionKey, transaction)
	resp, err := w.actions.SetKbdBrightness(ctx, int(value))
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	resp.Transaction = transaction
	data, jerr := json.Marshal(resp)
	if jerr != nil {
		return "", dbus.MakeFailedError(jerr)
	}
	return string(data), nil
}
