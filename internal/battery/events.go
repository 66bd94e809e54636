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

// Event событие апплета питания.
type Event interface {
	Kind() string
	// Payload снимок, прочитанный после уведомления
	Payload() interface{}
}

// DeviceUpdate изменилось одно из свойств устройства питания
type DeviceUpdate struct {
	State DeviceState `json:"state"`
}

func (DeviceUpdate) Kind() string           { return "DeviceUpdate" }
func (e DeviceUpdate) Payload() interface{} { return e.State }

// KbdBrightness изменилась яркость подсветки клавиатуры
type KbdBrightness struct {
	State KbdBacklightState `json:"state"`
}

func (KbdBrightness) Kind() string           { return "KbdBrightness" }
func (e KbdBrightness) Payload() interface{} { return e.State }
