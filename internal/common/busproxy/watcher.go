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
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	PropertiesInterface     = "org.freedesktop.DBus.Properties"
	PropertiesChangedSignal = PropertiesInterface + ".PropertiesChanged"

	propertiesGet = PropertiesInterface + ".Get"
	propertiesSet = PropertiesInterface + ".Set"

	// signalBuffer запас канала, чтобы доставка сигналов не ждала потребителя
	signalBuffer = 16
)

// ErrConnectionClosed соединение с шиной закрыто, уведомлений больше не будет.
var ErrConnectionClosed = errors.New("bus connection closed")

// Conn часть *dbus.Conn, нужная прокси.
type Conn interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

// Match описывает удалённый объект и уведомление, которое ждёт прокси.
type Match struct {
	Destination string
	Path        dbus.ObjectPath
	Interface   string
	// Member имя сигнала. Для наблюдения за свойствами не задаётся.
	Member string
	// Property имя свойства. Пустое значение означает любое свойство интерфейса.
	Property string
}

// Probe проверяет, что удалённый объект доступен.
type Probe func(obj dbus.BusObject) error

// ProbeProperty проверяет доступность объекта чтением свойства.
func ProbeProperty(iface, name string) Probe {
	return func(obj dbus.BusObject) error {
		var value dbus.Variant
		return obj.Call(propertiesGet, 0, iface, name).Store(&value)
	}
}

// ProbeMethod проверяет доступность объекта вызовом метода без аргументов.
func ProbeMethod(method string) Probe {
	return func(obj dbus.BusObject) error {
		return obj.Call(method, 0).Err
	}
}

// ErrUnavailable удалённый объект не ответил на проверку доступности.
var ErrUnavailable = errors.New("remote object is not available")

// Listener канал сигналов одной подписки. Канал регистрируется на соединении
// один раз и переживает циклы подписки, поэтому уведомление, пришедшее между
// двумя ожиданиями, дождётся следующего Watcher. Правила совпадения при этом
// добавляются и снимаются каждым Watcher отдельно.
type Listener struct {
	mu      sync.Mutex
	conn    Conn
	signals chan *dbus.Signal
}

func NewListener() *Listener {
	return &Listener{}
}

// attach подписывает канал на conn, если он ещё не подписан.
func (l *Listener) attach(conn Conn) chan *dbus.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.signals != nil && l.conn == conn {
		return l.signals
	}
	if l.signals != nil {
		l.conn.RemoveSignal(l.signals)
	}

	l.conn = conn
	l.signals = make(chan *dbus.Signal, signalBuffer)
	conn.Signal(l.signals)
	return l.signals
}

// Close отписывает канал. После Close слушатель можно использовать снова,
// накопленные сигналы при этом теряются.
func (l *Listener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.signals != nil {
		l.conn.RemoveSignal(l.signals)
		l.conn, l.signals = nil, nil
	}
	return nil
}

// PropertyWatcher подписывается на PropertiesChanged интерфейса match.Interface
// через канал слушателя.
func (l *Listener) PropertyWatcher(conn Conn, match Match, probe Probe) (*Watcher, error) {
	match.Member = ""
	options := []dbus.MatchOption{
		dbus.WithMatchObjectPath(match.Path),
		dbus.WithMatchInterface(PropertiesInterface),
		dbus.WithMatchMember("PropertiesChanged"),
		dbus.WithMatchArg(0, match.Interface),
	}

	return l.watch(conn, match, probe, options)
}

// SignalWatcher подписывается на сигнал match.Interface.match.Member через канал слушателя.
func (l *Listener) SignalWatcher(conn Conn, match Match, probe Probe) (*Watcher, error) {
	if match.Member == "" {
		return nil, fmt.Errorf(app.T_("signal name is required for %s"), match.Interface)
	}

	options := []dbus.MatchOption{
		dbus.WithMatchObjectPath(match.Path),
		dbus.WithMatchInterface(match.Interface),
		dbus.WithMatchMember(match.Member),
	}

	return l.watch(conn, match, probe, options)
}

func (l *Listener) watch(conn Conn, match Match, probe Probe, options []dbus.MatchOption) (*Watcher, error) {
	if probe != nil {
		if err := probe(conn.Object(match.Destination, match.Path)); err != nil {
			return nil, fmt.Errorf("%w: %s at %s: %w", ErrUnavailable, match.Destination, match.Path, err)
		}
	}

	// канал подписывается раньше правила, чтобы не пропустить первый сигнал
	signals := l.attach(conn)
	if err := conn.AddMatchSignal(options...); err != nil {
		return nil, fmt.Errorf(app.T_("failed to add match rule for %s: %w"), match.Interface, err)
	}

	return &Watcher{
		conn:    conn,
		match:   match,
		options: options,
		signals: signals,
	}, nil
}

// Watcher ждёт уведомления об изменении одного удалённого объекта.
// Один Watcher соответствует одному правилу совпадения на шине.
type Watcher struct {
	conn    Conn
	match   Match
	options []dbus.MatchOption
	signals chan *dbus.Signal
	// owned канал принадлежит самому Watcher и снимается в Close
	owned *Listener
	once  sync.Once
}

// NewPropertyWatcher как Listener.PropertyWatcher, но со своим каналом на время жизни Watcher.
func NewPropertyWatcher(conn Conn, match Match, probe Probe) (*Watcher, error) {
	l := NewListener()
	w, err := l.PropertyWatcher(conn, match, probe)
	return own(w, l, err)
}

// NewSignalWatcher как Listener.SignalWatcher, но со своим каналом на время жизни Watcher.
func NewSignalWatcher(conn Conn, match Match, probe Probe) (*Watcher, error) {
	l := NewListener()
	w, err := l.SignalWatcher(conn, match, probe)
	return own(w, l, err)
}

func own(w *Watcher, l *Listener, err error) (*Watcher, error) {
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	w.owned = l
	return w, nil
}

// WaitChanged ждёт первое подходящее уведомление. Остальные сигналы соединения пропускаются.
func (w *Watcher) WaitChanged(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case signal, ok := <-w.signals:
			if !ok {
				return ErrConnectionClosed
			}
			if w.match.Accepts(signal) {
				return nil
			}
		}
	}
}

// Close снимает правило, а собственный канал ещё и отписывает. Повторный вызов ничего не делает.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.conn.RemoveMatchSignal(w.options...)
		if w.owned != nil {
			_ = w.owned.Close()
		}
	})
	return err
}

// Accepts сообщает, подходит ли сигнал под описание.
func (m Match) Accepts(signal *dbus.Signal) bool {
	if signal == nil || signal.Path != m.Path {
		return false
	}

	if m.Member != "" {
		return signal.Name == m.Interface+"."+m.Member
	}

	if signal.Name != PropertiesChangedSignal || len(signal.Body) < 2 {
		return false
	}

	iface, ok := signal.Body[0].(string)
	if !ok || iface != m.Interface {
		return false
	}

	if m.Property == "" {
		return true
	}

	if changed, ok := signal.Body[1].(map[string]dbus.Variant); ok {
		if _, exists := changed[m.Property]; exists {
			return true
		}
	}

	if len(signal.Body) > 2 {
		if invalidated, ok := signal.Body[2].([]string); ok {
			return slices.Contains(invalidated, m.Property)
		}
	}

	return false
}
