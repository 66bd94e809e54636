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

package app

// Переменные переопределяются при сборке через -ldflags "-X applets/internal/common/app.BuildVersion=..."
var (
	BuildEnvironment string
	BuildPathLocales string
	BuildVersion     string
)

// GetBuildInfo собирает параметры, интегрированные при сборке
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Environment: BuildEnvironment,
		PathLocales: BuildPathLocales,
		Version:     BuildVersion,
	}

	if info.Environment == "" {
		info.Environment = "dev"
	}
	if info.PathLocales == "" {
		info.PathLocales = "/usr/share/locale"
	}
	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	return info
}
