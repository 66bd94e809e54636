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

// Package bridge превращает поток уведомлений шины «что-то изменилось» в поток
// полных снимков состояния устройства, помеченных идентификатором подписки.
//
// Каждый цикл подписки строит прокси к удалённому объекту, ждёт ровно одно
// уведомление, заново читает полный снимок и отдаёт одно событие. Ошибка
// построения прокси переводит подписку в состояние Failed, из которого она
// больше никогда не выходит: вызывающий перестаёт получать события, но сама
// подписка не завершается.
package bridge

import (
	"applets/internal/common/app"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
)

// ErrAbsent устройство отсутствует на этой машине. Source оборачивает им ошибку
// Proxy, когда это обычная ситуация, а не сбой: подписка так же переходит в
// Failed, но журнал не получает ошибку.
var ErrAbsent = errors.New("device is absent")

// Proxy локальный представитель удалённого объекта шины.
type Proxy interface {
	// WaitChanged блокируется до следующего уведомления об изменении.
	// Содержимое уведомления не используется.
	WaitChanged(ctx context.Context) error
	// Close снимает регистрацию слушателя.
	Close() error
}

// Source описывает устройство, за которым следит подписка.
type Source[C any, S any] interface {
	// Name имя удалённого сервиса для журнала.
	Name() string
	// Proxy строит прокси поверх соединения. Ошибка считается постоянной.
	// Если Source реализует io.Closer, Close вызывается, когда подписка
	// останавливается: после перехода в Failed или из Subscription.Close.
	Proxy(conn C) (Proxy, error)
	// Snapshot читает полное текущее состояние устройства.
	Snapshot(ctx context.Context, conn C) (S, error)
}

// State состояние подписки: Continue или Failed.
type State[C any] interface {
	state()
}

// Continue подписка готова слушать дальше на этом соединении.
type Continue[C any] struct {
	Conn C
}

func (Continue[C]) state() {}

// Failed подписка окончательно остановлена.
type Failed[C any] struct{}

func (Failed[C]) state() {}

// Item событие, отдаваемое потребителю.
type Item[I comparable, E any] struct {
	ID    I
	Event E
}

// Subscription перезапускаемая подписка на изменения одного свойства.
// Методы Cycle, Next, All и Run не предназначены для одновременного вызова.
type Subscription[I comparable, C any, E any] struct {
	id      I
	name    string
	state   State[C]
	proxy   func(C) (Proxy, error)
	event   func(context.Context, C) E
	release func() error
}

// New создаёт подписку в состоянии Continue(conn). wrap оборачивает снимок в
// событие нужного вида.
func New[I comparable, C any, S any, E any](id I, conn C, src Source[C, S], wrap func(S) E) *Subscription[I, C, E] {
	name := src.Name()

	release := func() error { return nil }
	if closer, ok := any(src).(io.Closer); ok {
		release = closer.Close
	}

	return &Subscription[I, C, E]{
		id:      id,
		name:    name,
		state:   Continue[C]{Conn: conn},
		proxy:   src.Proxy,
		release: release,
		event: func(ctx context.Context, conn C) E {
			snapshot, err := src.Snapshot(ctx, conn)
			if err != nil {
				app.Log.Debugf("%s: failed to read state, using defaults: %v", name, err)
				var empty S
				snapshot = empty
			}
			return wrap(snapshot)
		},
	}
}

// ID возвращает идентификатор подписки.
func (s *Subscription[I, C, E]) ID() I {
	return s.id
}

// State возвращает текущее состояние подписки.
func (s *Subscription[I, C, E]) State() State[C] {
	return s.state
}

// Cycle выполняет один цикл прослушивания и возвращает не более одного события.
//
// В состоянии Failed цикл блокируется до отмены ctx. Отмена ctx во время
// ожидания не меняет состояние подписки.
func (s *Subscription[I, C, E]) Cycle(ctx context.Context) (Item[I, E], bool) {
	var conn C
	switch st := s.state.(type) {
	case Continue[C]:
		conn = st.Conn
	default:
		<-ctx.Done()
		return Item[I, E]{}, false
	}

	proxy, err := s.proxy(conn)
	if errors.Is(err, ErrAbsent) {
		app.Log.Debugf("%s: not present, subscription stopped: %v", s.name, err)
		s.fail()
		return Item[I, E]{}, false
	}
	if err != nil {
		app.Log.Error(fmt.Sprintf(app.T_("Failed to connect to %s: %v"), s.name, err))
		s.fail()
		return Item[I, E]{}, false
	}
	defer func() {
		if err := proxy.Close(); err != nil {
			app.Log.Debugf("%s: failed to release listener: %v", s.name, err)
		}
	}()

	if err = proxy.WaitChanged(ctx); err != nil {
		if ctx.Err() != nil {
			return Item[I, E]{}, false
		}
		app.Log.Error(fmt.Sprintf(app.T_("Lost connection to %s: %v"), s.name, err))
		s.fail()
		return Item[I, E]{}, false
	}

	event := s.event(ctx, conn)
	if ctx.Err() != nil {
		return Item[I, E]{}, false
	}

	s.state = Continue[C]{Conn: conn}
	return Item[I, E]{ID: s.id, Event: event}, true
}

func (s *Subscription[I, C, E]) fail() {
	s.state = Failed[C]{}
	if err := s.Close(); err != nil {
		app.Log.Debugf("%s: failed to release source: %v", s.name, err)
	}
}

// Close освобождает ресурсы источника, общие для всех циклов. Состояние
// подписки не меняется, следующий цикл захватит ресурсы заново.
func (s *Subscription[I, C, E]) Close() error {
	return s.release()
}

// Next повторяет циклы до первого события. После перехода в Failed
// блокируется до отмены ctx и возвращает ctx.Err().
func (s *Subscription[I, C, E]) Next(ctx context.Context) (Item[I, E], error) {
	for {
		if item, ok := s.Cycle(ctx); ok {
			return item, nil
		}
		if err := ctx.Err(); err != nil {
			return Item[I, E]{}, err
		}
	}
}

// All ленивая последовательность событий подписки. Заканчивается только с отменой ctx.
func (s *Subscription[I, C, E]) All(ctx context.Context) iter.Seq[Item[I, E]] {
	return func(yield func(Item[I, E]) bool) {
		for {
			item, err := s.Next(ctx)
			if err != nil || !yield(item) {
				return
			}
		}
	}
}

// Run отправляет события подписки в out, пока не отменён ctx, и закрывает подписку на выходе.
func (s *Subscription[I, C, E]) Run(ctx context.Context, out chan<- Item[I, E]) error {
	defer func() {
		if err := s.Close(); err != nil {
			app.Log.Debugf("%s: failed to release source: %v", s.name, err)
		}
	}()

	for item := range s.All(ctx) {
		select {
		case out <- item:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ctx.Err()
}
