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

package busproxy

import (
	"applets/internal/common/app"
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Property читает свойство удалённого объекта и приводит его к типу T.
func Property[T any](ctx context.Context, obj dbus.BusObject, iface, name string) (T, error) {
	var (
		zero  T
		value dbus.Variant
	)

	if err := obj.CallWithContext(ctx, propertiesGet, 0, iface, name).Store(&value); err != nil {
		return zero, fmt.Errorf(app.T_("failed to read property %s.%s: %w"), iface, name, err)
	}

	typed, ok := value.Value().(T)
	if !ok {
		return zero, fmt.Errorf(app.T_("unexpected type %s of property %s.%s"), value.Signature(), iface, name)
	}

	return typed, nil
}

// SetProperty записывает свойство удалённого объекта.
func SetProperty(ctx context.Context, obj dbus.BusObject, iface, name string, value interface{}) error {
	if err := obj.CallWithContext(ctx, propertiesSet, 0, iface, name, dbus.MakeVariant(value)).Err; err != nil {
		return fmt.Errorf(app.T_("failed to set property %s.%s: %w"), iface, name, err)
	}
	return nil
}

// Call вызывает метод и сохраняет результат в T.
func Call[T any](ctx context.Context, obj dbus.BusObject, method string, args ...interface{}) (T, error) {
	var result T
	if err := obj.CallWithContext(ctx, method, 0, args...).Store(&result); err != nil {
		return result, fmt.Errorf(app.T_("failed to call %s: %w"), method, err)
	}
	return result, nil
}
