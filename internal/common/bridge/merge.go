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

package bridge

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Runner то, что умеет гнать свои события в канал. Подписки с разными
// соединениями, но общими типами идентификатора и события, объединяются через Merge.
type Runner[I comparable, E any] interface {
	Run(ctx context.Context, out chan<- Item[I, E]) error
}

// Merge запускает каждую подписку в своей горутине и сводит события в out.
// Порядок событий внутри одной подписки сохраняется. Возвращает nil после
// отмены ctx; канал out не закрывается.
func Merge[I comparable, E any](ctx context.Context, out chan<- Item[I, E], runners ...Runner[I, E]) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, runner := range runners {
		g.Go(func() error {
			return runner.Run(gctx, out)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Dispatch сводит события подписок и передаёт их handle по одному в вызывающей
// горутине. Ошибка handle останавливает все подписки и возвращается.
func Dispatch[I comparable, E any](ctx context.Context, handle func(Item[I, E]) error, runners ...Runner[I, E]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan Item[I, E])
	done := make(chan error, 1)
	go func() {
		done <- Merge(ctx, out, runners...)
	}()

	for {
		select {
		case item := <-out:
			if err := handle(item); err != nil {
				cancel()
				<-done
				return err
			}
		case err := <-done:
			return err
		}
	}
}
