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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGetSystemLocale(t *testing.T) {
	tests := []struct {
		name     string
		lcAll    string
		lcMsg    string
		lang     string
		expected language.Tag
	}{
		{"LANG", "", "", "ru_RU.UTF-8", language.Russian},
		{"LC_MESSAGES важнее LANG", "", "de_DE.UTF-8", "ru_RU.UTF-8", language.German},
		{"LC_ALL важнее всех", "fr_FR.UTF-8", "de_DE.UTF-8", "ru_RU.UTF-8", language.French},
		{"пусто", "", "", "", language.English},
		{"C", "", "", "C", language.English},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LC_ALL", tc.lcAll)
			t.Setenv("LC_MESSAGES", tc.lcMsg)
			t.Setenv("LANG", tc.lang)

			assert.Equal(t, tc.expected.String(), GetSystemLocale().String())
		})
	}
}

func TestNewLocale(t *testing.T) {
	dir := t.TempDir()
	messages := filepath.Join(dir, "ru", "LC_MESSAGES")
	require.NoError(t, os.MkdirAll(messages, 0o755))

	po := `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Language: ru\n"

msgid "less than a minute"
msgstr "меньше минуты"
`
	require.NoError(t, os.WriteFile(filepath.Join(messages, "applets.po"), []byte(po), 0o644))

	locale := NewLocale(dir, language.Russian)
	assert.Equal(t, "меньше минуты", locale.Get("less than a minute"))
	untranslated := "Failed to connect to %s: %v"
	assert.Equal(t, "Failed to connect to %s: %v", locale.Get(untranslated), "без перевода строка не меняется")

	missing := NewLocale(filepath.Join(dir, "nowhere"), language.Russian)
	assert.Equal(t, "less than a minute", missing.Get("less than a minute"))
}

func TestStripAfterDot(t *testing.T) {
	assert.Equal(t, "ru_RU", stripAfterDot("ru_RU.UTF-8"))
	assert.Equal(t, "en_US", stripAfterDot("en_US"))
	assert.Equal(t, "", stripAfterDot(""))
}

func TestGetBuildInfo_Defaults(t *testing.T) {
	info := GetBuildInfo()

	assert.NotEmpty(t, info.Environment)
	assert.NotEmpty(t, info.PathLocales)
	assert.NotEmpty(t, info.Version)
}
