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

// Event событие сетевого апплета. Каждое событие несёт полный снимок.
type Event interface {
	// Kind имя события
	Kind() string
	// Snapshot снимок, прочитанный после уведомления
	Snapshot() State
}

// WiFiEnabled изменилось свойство WirelessEnabled
type WiFiEnabled struct {
	State State `json:"state"`
}

func (WiFiEnabled) Kind() string      { return "WiFiEnabled" }
func (e WiFiEnabled) Snapshot() State { return e.State }

// ActiveConns изменился список активных соединений
type ActiveConns struct {
	State State `json:"state"`
}

func (ActiveConns) Kind() string      { return "ActiveConns" }
func (e ActiveConns) Snapshot() State { return e.State }

// ConnectivityChanged изменилась оценка доступа в сеть
type ConnectivityChanged struct {
	State State `json:"state"`
}

func (ConnectivityChanged) Kind() string      { return "Connectivity" }
func (e ConnectivityChanged) Snapshot() State { return e.State }
