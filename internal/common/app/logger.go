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
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"
)

// loggerImpl журнал на logrus
type loggerImpl struct {
	*logrus.Logger
	stderrHook *StderrHook
}

// NewLogger создает новый logger
func NewLogger(devMode bool) Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   false,
		DisableQuote:  true,
	})

	// Основной вывод отключён, строки уходят только через хуки
	log.SetOutput(io.Discard)

	// Добавляем hook для systemd journal
	if journal.Enabled() {
		hook := &JournalHook{}
		log.AddHook(hook)
	}

	// stdout занят событиями апплетов, журнал в терминале пишем в stderr
	stderrHook := &StderrHook{out: os.Stderr}
	log.AddHook(stderrHook)

	if devMode {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return &loggerImpl{
		Logger:     log,
		stderrHook: stderrHook,
	}
}

// EnableStdoutLogging включает вывод всех логов в терминал
func (l *loggerImpl) EnableStdoutLogging() {
	l.stderrHook.enableAll = true
}

// JournalHook для записи в systemd journal
type JournalHook struct{}

func (hook *JournalHook) Fire(entry *logrus.Entry) error {
	priority := journalPriority(entry.Level)

	vars := map[string]string{
		"PRIORITY":          strconv.Itoa(int(priority)),
		"SYSLOG_IDENTIFIER": "applets",
	}
	for key, value := range entry.Data {
		vars[journalField(key)] = fmt.Sprint(value)
	}

	return journal.Send(entry.Message, priority, vars)
}

func (hook *JournalHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// journalPriority сопоставляет уровень logrus приоритету syslog
func journalPriority(level logrus.Level) journal.Priority {
	switch level {
	case logrus.PanicLevel:
		return journal.PriEmerg
	case logrus.FatalLevel:
		return journal.PriCrit
	case logrus.ErrorLevel:
		return journal.PriErr
	case logrus.WarnLevel:
		return journal.PriWarning
	case logrus.InfoLevel:
		return journal.PriInfo
	case logrus.DebugLevel, logrus.TraceLevel:
		return journal.PriDebug
	default:
		return journal.PriInfo
	}
}

// journalField приводит ключ logrus к имени поля journal (A-Z, 0-9, _)
func journalField(key string) string {
	out := make([]byte, 0, len(key)+7)
	out = append(out, "APPLET_"...)
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// StderrHook для вывода логов в терминал
type StderrHook struct {
	out       io.Writer
	enableAll bool
}

func (hook *StderrHook) Fire(entry *logrus.Entry) error {
	// Если не включен режим всех уровней, выводим только Fatal/Panic
	if !hook.enableAll && entry.Level != logrus.FatalLevel && entry.Level != logrus.PanicLevel {
		return nil
	}

	line, err := entry.String()
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(hook.out, line)
	return err
}

func (hook *StderrHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
