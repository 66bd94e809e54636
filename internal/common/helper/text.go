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

package helper

import (
	"applets/internal/common/app"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseSwitch разбирает значение переключателя: on/off, yes/no, true/false, 1/0.
func ParseSwitch(val string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "on", "yes", "true", "enable", "enabled":
		return true, true
	case "off", "no", "false", "disable", "disabled":
		return false, true
	}

	if iv, err := strconv.Atoi(val); err == nil {
		return iv != 0, true
	}
	return false, false
}

// Clamp ограничивает value отрезком [low, high].
func Clamp(value, low, high int) int {
	if high < low {
		return low
	}
	return max(low, min(value, high))
}

// HumanDuration возвращает длительность в часах и минутах для пользователя.
func HumanDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}

	d = d.Round(time.Minute)
	if d == 0 {
		return app.T_("less than a minute")
	}

	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)

	switch {
	case hours == 0:
		return fmt.Sprintf(app.TN_("%d minute", "%d minutes", minutes), minutes)
	case minutes == 0:
		return fmt.Sprintf(app.TN_("%d hour", "%d hours", hours), hours)
	default:
		return fmt.Sprintf(app.TN_("%d hour", "%d hours", hours), hours) + " " +
			fmt.Sprintf(app.TN_("%d minute", "%d minutes", minutes), minutes)
	}
}
