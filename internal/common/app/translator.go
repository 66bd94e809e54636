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

import (
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// textDomain имя каталога переводов: <path>/<lang>/LC_MESSAGES/applets.po
const textDomain = "applets"

// NewLocale загружает переводы для языка lang. Если каталога нет, строки
// остаются непереведёнными.
func NewLocale(path string, lang language.Tag) *gotext.Locale {
	if _, err := os.Stat(path); err != nil {
		Log.Warning("Translations folder not found at path: " + path)
	}

	locale := gotext.NewLocale(path, lang.String())
	locale.AddDomain(textDomain)
	return locale
}

// GetSystemLocale базовый язык из LC_ALL, LC_MESSAGES или LANG, по первой
// заданной переменной. Без неё или при нераспознанном значении английский.
func GetSystemLocale() language.Tag {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(name)
		if value == "" {
			continue
		}

		tag, err := language.Parse(strings.Replace(stripAfterDot(value), "_", "-", 1))
		if err != nil {
			break
		}
		base, _ := tag.Base()
		return language.Make(base.String())
	}

	return language.English
}

// stripAfterDot отрезает кодировку: ru_RU.UTF-8 -> ru_RU
func stripAfterDot(locale string) string {
	before, _, _ := strings.Cut(locale, ".")
	return before
}
