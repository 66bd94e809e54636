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
	"bytes"
	"testing"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestJournalField(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"subscription", "APPLET_SUBSCRIPTION"},
		{"busName", "APPLET_BUSNAME"},
		{"object-path", "APPLET_OBJECT_PATH"},
		{"id2", "APPLET_ID2"},
		{"", "APPLET_"},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.expected, journalField(tc.key))
		})
	}
}

func TestJournalPriority(t *testing.T) {
	assert.Equal(t, journal.PriErr, journalPriority(logrus.ErrorLevel))
	assert.Equal(t, journal.PriWarning, journalPriority(logrus.WarnLevel))
	assert.Equal(t, journal.PriDebug, journalPriority(logrus.TraceLevel))
	assert.Equal(t, journal.PriCrit, journalPriority(logrus.FatalLevel))
}

func TestStderrHook(t *testing.T) {
	buf := &bytes.Buffer{}
	hook := &StderrHook{out: buf}

	log := logrus.New()
	entry := logrus.NewEntry(log)
	entry.Level = logrus.ErrorLevel
	entry.Message = "Failed to connect to org.freedesktop.NetworkManager"

	assert.NoError(t, hook.Fire(entry))
	assert.Empty(t, buf.String(), "без verbose ошибки в терминал не пишутся")

	hook.enableAll = true
	assert.NoError(t, hook.Fire(entry))
	assert.Contains(t, buf.String(), "Failed to connect to org.freedesktop.NetworkManager")
}

func TestNewLogger_Level(t *testing.T) {
	dev := NewLogger(true).(*loggerImpl)
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())

	prod := NewLogger(false).(*loggerImpl)
	assert.Equal(t, logrus.InfoLevel, prod.GetLevel())

	prod.EnableStdoutLogging()
	assert.True(t, prod.stderrHook.enableAll)
}
