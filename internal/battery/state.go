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
	"applets/internal/common/app"
	"applets/internal/common/busproxy"
	"applets/internal/common/helper"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	Destination     = "org.freedesktop.UPower"
	DeviceInterface = "org.freedesktop.UPower.Device"

	KbdBacklightPath      = dbus.ObjectPath("/org/freedesktop/UPower/KbdBacklight")
	KbdBacklightInterface = "org.freedesktop.UPower.KbdBacklight"
)

// Status состояние устройства питания по классификации UPower
type Status uint32

const (
	StatusUnknown Status = iota
	StatusCharging
	StatusDischarging
	StatusEmpty
	StatusFullyCharged
	StatusPendingCharge
	StatusPendingDischarge
)

func (s Status) String() string {
	switch s {
	case StatusCharging:
		return "charging"
	case StatusDischarging:
		return "discharging"
	case StatusEmpty:
		return "empty"
	case StatusFullyCharged:
		return "fully-charged"
	case StatusPendingCharge:
		return "pending-charge"
	case StatusPendingDischarge:
		return "pending-discharge"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DeviceState снимок устройства питания. Нулевое значение означает состояние по умолчанию.
type DeviceState struct {
	IsPresent   bool          `json:"isPresent"`
	Percentage  float64       `json:"percentage"`
	State       Status        `json:"state"`
	TimeToEmpty time.Duration `json:"-"`
	TimeToFull  time.Duration `json:"-"`
	IconName    string        `json:"iconName"`
}

// Charging батарея заряжается или ждёт зарядки
func (s DeviceState) Charging() bool {
	return s.State == StatusCharging || s.State == StatusPendingCharge
}

// RemainingText оставшееся время до полного заряда или разряда для пользователя.
func (s DeviceState) RemainingText() string {
	if s.Charging() {
		if left := helper.HumanDuration(s.TimeToFull); left != "" {
			return fmt.Sprintf(app.T_("%s until full"), left)
		}
		return ""
	}

	if left := helper.HumanDuration(s.TimeToEmpty); left != "" {
		return fmt.Sprintf(app.T_("%s remaining"), left)
	}
	return ""
}

// MarshalJSON отдаёт длительности в секундах вместе с вычисляемыми полями.
func (s DeviceState) MarshalJSON() ([]byte, error) {
	type plain DeviceState
	return json.Marshal(struct {
		plain
		TimeToEmpty int64  `json:"timeToEmpty"`
		TimeToFull  int64  `json:"timeToFull"`
		Charging    bool   `json:"charging"`
		Remaining   string `json:"remaining"`
	}{
		plain:       plain(s),
		TimeToEmpty: int64(s.TimeToEmpty / time.Second),
		TimeToFull:  int64(s.TimeToFull / time.Second),
		Charging:    s.Charging(),
		Remaining:   s.RemainingText(),
	})
}

// NewDeviceState читает снимок устройства UPower по пути path.
func NewDeviceState(ctx context.Context, conn busproxy.Conn, path dbus.ObjectPath) (DeviceState, error) {
	var (
		state DeviceState
		err   error
	)

	device := conn.Object(Destination, path)

	if state.IsPresent, err = busproxy.Property[bool](ctx, device, DeviceInterface, "IsPresent"); err != nil {
		return DeviceState{}, err
	}
	if state.Percentage, err = busproxy.Property[float64](ctx, device, DeviceInterface, "Percentage"); err != nil {
		return DeviceState{}, err
	}

	status, err := busproxy.Property[uint32](ctx, device, DeviceInterface, "State")
	if err != nil {
		return DeviceState{}, err
	}
	state.State = Status(status)

	toEmpty, err := busproxy.Property[int64](ctx, device, DeviceInterface, "TimeToEmpty")
	if err != nil {
		return DeviceState{}, err
	}
	state.TimeToEmpty = time.Duration(toEmpty) * time.Second

	toFull, err := busproxy.Property[int64](ctx, device, DeviceInterface, "TimeToFull")
	if err != nil {
		return DeviceState{}, err
	}
	state.TimeToFull = time.Duration(toFull) * time.Second

	if state.IconName, err = busproxy.Property[string](ctx, device, DeviceInterface, "IconName"); err != nil {
		return DeviceState{}, err
	}

	return state, nil
}

// KbdBacklightState снимок подсветки клавиатуры
type KbdBacklightState struct {
	Brightness    int32 `json:"brightness"`
	MaxBrightness int32 `json:"maxBrightness"`
}

// Fraction яркость в долях от максимума, от 0 до 1
func (s KbdBacklightState) Fraction() float64 {
	if s.MaxBrightness <= 0 {
		return 0
	}
	return float64(s.Brightness) / float64(s.MaxBrightness)
}

func (s KbdBacklightState) MarshalJSON() ([]byte, error) {
	type plain KbdBacklightState
	return json.Marshal(struct {
		plain
		Fraction float64 `json:"fraction"`
	}{
		plain:    plain(s),
		Fraction: s.Fraction(),
	})
}

// NewKbdBacklightState читает текущую и максимальную яркость подсветки.
func NewKbdBacklightState(ctx context.Context, conn busproxy.Conn) (KbdBacklightState, error) {
	kbd := conn.Object(Destination, KbdBacklightPath)

	brightness, err := busproxy.Call[int32](ctx, kbd, KbdBacklightInterface+".GetBrightness")
	if err != nil {
		return KbdBacklightState{}, err
	}

	maxBrightness, err := busproxy.Call[int32](ctx, kbd, KbdBacklightInterface+".GetMaxBrightness")
	if err != nil {
		return KbdBacklightState{}, err
	}

	return KbdBacklightState{Brightness: brightness, MaxBrightness: maxBrightness}, nil
}

// SetKbdBrightness задаёт яркость подсветки. Значение не проверяется.
func SetKbdBrightness(ctx context.Context, conn busproxy.Conn, value int32) error {
	kbd := conn.Object(Destination, KbdBacklightPath)
	if err := kbd.CallWithContext(ctx, KbdBacklightInterface+".SetBrightness", 0, value).Err; err != nil {
		return fmt.Errorf(app.T_("failed to set keyboard brightness: %w"), err)
	}
	return nil
}
