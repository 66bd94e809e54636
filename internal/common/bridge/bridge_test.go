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
	"applets/internal/common/app"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errBusGone = errors.New("bus gone")

type testConn struct {
	name string
}

type testSnapshot struct {
	Enabled bool
	Seq     int
}

type testEvent interface {
	kind() string
}

type wifiEnabled struct {
	State testSnapshot
}

func (wifiEnabled) kind() string { return "wifi" }

type testProxy struct {
	notes  <-chan struct{}
	closed *atomic.Int32
}

func (p *testProxy) WaitChanged(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case _, ok := <-p.notes:
		if !ok {
			return errBusGone
		}
		return nil
	}
}

func (p *testProxy) Close() error {
	p.closed.Add(1)
	return nil
}

type testSource struct {
	mu         sync.Mutex
	notes      chan struct{}
	proxyErr   error
	proxyCalls int
	snapErr    error
	seq        int
	closed     atomic.Int32
	released   atomic.Int32
	conns      []testConn
}

func newTestSource(buffer int) *testSource {
	return &testSource{notes: make(chan struct{}, buffer)}
}

func (s *testSource) Name() string { return "test.Device" }

func (s *testSource) Proxy(conn testConn) (Proxy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proxyCalls++
	s.conns = append(s.conns, conn)
	if s.proxyErr != nil {
		return nil, s.proxyErr
	}
	return &testProxy{notes: s.notes, closed: &s.closed}, nil
}

func (s *testSource) Snapshot(_ context.Context, _ testConn) (testSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapErr != nil {
		return testSnapshot{Enabled: true, Seq: -1}, s.snapErr
	}
	s.seq++
	return testSnapshot{Enabled: s.seq%2 == 1, Seq: s.seq}, nil
}

func (s *testSource) Close() error {
	s.released.Add(1)
	return nil
}

func (s *testSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proxyCalls
}

func (s *testSource) notify(n int) {
	for i := 0; i < n; i++ {
		s.notes <- struct{}{}
	}
}

func wrapWiFi(s testSnapshot) testEvent { return wifiEnabled{State: s} }

func newTestSubscription[I comparable](id I, src *testSource) *Subscription[I, testConn, testEvent] {
	return New(id, testConn{name: "system"}, Source[testConn, testSnapshot](src), wrapWiFi)
}

func shortContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	t.Cleanup(cancel)
	return ctx
}

func TestSubscription_OneNotificationOneEvent(t *testing.T) {
	src := newTestSource(1)
	sub := newTestSubscription("wifi", src)
	src.notify(1)

	item, err := sub.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "wifi", item.ID)
	assert.Equal(t, wifiEnabled{State: testSnapshot{Enabled: true, Seq: 1}}, item.Event)
	assert.Equal(t, Continue[testConn]{Conn: testConn{name: "system"}}, sub.State())
}

func TestSubscription_EventsFollowNotificationOrder(t *testing.T) {
	const notifications = 5

	src := newTestSource(notifications)
	sub := newTestSubscription(7, src)
	src.notify(notifications)

	for want := 1; want <= notifications; want++ {
		item, err := sub.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, item.ID)
		assert.Equal(t, want, item.Event.(wifiEnabled).State.Seq)
	}

	// Уведомлений больше нет: следующий цикл ждёт до отмены и ничего не отдаёт
	_, ok := sub.Cycle(shortContext(t))
	assert.False(t, ok)
	assert.IsType(t, Continue[testConn]{}, sub.State())
}

func TestSubscription_BackToBackNotificationsAreNotBatched(t *testing.T) {
	src := newTestSource(2)
	sub := newTestSubscription("wifi", src)
	src.notify(2)

	first, ok := sub.Cycle(context.Background())
	require.True(t, ok)
	second, ok := sub.Cycle(context.Background())
	require.True(t, ok)

	assert.Equal(t, 1, first.Event.(wifiEnabled).State.Seq)
	assert.Equal(t, 2, second.Event.(wifiEnabled).State.Seq)
}

func TestSubscription_ProxyFailureIsPermanent(t *testing.T) {
	src := newTestSource(10)
	src.proxyErr = errors.New("service unknown")
	sub := newTestSubscription("wifi", src)

	_, ok := sub.Cycle(context.Background())
	assert.False(t, ok)
	assert.Equal(t, Failed[testConn]{}, sub.State())

	// Даже при наличии уведомлений подписка больше ничего не отдаёт и не переподключается
	src.notify(3)
	for i := 0; i < 3; i++ {
		_, err := sub.Next(shortContext(t))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, Failed[testConn]{}, sub.State())
	}
	assert.Equal(t, 1, src.calls())
}

// recordLogger считает строки журнала по уровням
type recordLogger struct {
	mu     sync.Mutex
	debug  int
	errors []string
}

func (l *recordLogger) Debug(...interface{})          { l.addDebug() }
func (l *recordLogger) Debugf(string, ...interface{}) { l.addDebug() }
func (l *recordLogger) Info(...interface{})           {}
func (l *recordLogger) Warning(...interface{})        {}

func (l *recordLogger) Error(args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprint(args...))
}

func (l *recordLogger) addDebug() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug++
}

func withRecordLogger(t *testing.T) *recordLogger {
	log := &recordLogger{}
	previous := app.Log
	app.Log = log
	t.Cleanup(func() { app.Log = previous })
	return log
}

func TestSubscription_ProxyFailureLogging(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		errors int
	}{
		{"сбой подключения пишется как ошибка", errors.New("service unknown"), 1},
		{"отсутствующее устройство пишется в debug", fmt.Errorf("%w: no keyboard backlight", ErrAbsent), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := withRecordLogger(t)
			src := newTestSource(1)
			src.proxyErr = tc.err
			sub := newTestSubscription("kbd", src)

			_, ok := sub.Cycle(context.Background())
			assert.False(t, ok)
			assert.Equal(t, Failed[testConn]{}, sub.State(), "в обоих случаях подписка остановлена")
			assert.Len(t, log.errors, tc.errors)
			if tc.errors == 0 {
				assert.Positive(t, log.debug)
			}
			assert.Equal(t, int32(1), src.released.Load(), "ресурсы источника освобождены")
		})
	}
}

func TestSubscription_RunReleasesSource(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newTestSource(1)
	sub := newTestSubscription("wifi", src)

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Item[string, testEvent], 1)
	done := make(chan error, 1)
	go func() { done <- sub.Run(ctx, out) }()

	src.notify(1)
	<-out
	assert.Zero(t, src.released.Load(), "между циклами источник не освобождается")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(1), src.released.Load())
}

func TestSubscription_NextBlocksAfterProxyFailure(t *testing.T) {
	src := newTestSource(0)
	src.proxyErr = errors.New("service unknown")
	sub := newTestSubscription("wifi", src)

	started := time.Now()
	_, err := sub.Next(shortContext(t))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(started), 40*time.Millisecond)
	assert.Equal(t, 1, src.calls())
}

func TestSubscription_SnapshotFailureEmitsDefault(t *testing.T) {
	src := newTestSource(1)
	src.snapErr = errors.New("property read failed")
	sub := newTestSubscription("wifi", src)
	src.notify(1)

	item, err := sub.Next(context.Background())
	require.NoError(t, err)

	assert.Equal(t, wifiEnabled{State: testSnapshot{}}, item.Event)
	assert.IsType(t, Continue[testConn]{}, sub.State())
}

func TestSubscription_IdentifierIsPreserved(t *testing.T) {
	type panelID struct {
		Output string
		Index  int
	}

	ids := []panelID{{Output: "eDP-1", Index: 0}, {Output: "HDMI-A-1", Index: 3}}
	for _, id := range ids {
		src := newTestSource(2)
		sub := newTestSubscription(id, src)
		src.notify(2)

		for i := 0; i < 2; i++ {
			item, err := sub.Next(context.Background())
			require.NoError(t, err)
			assert.Equal(t, id, item.ID)
		}
		assert.Equal(t, id, sub.ID())
	}
}

func TestSubscription_CancelDuringWaitKeepsState(t *testing.T) {
	src := newTestSource(0)
	sub := newTestSubscription("wifi", src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := sub.Cycle(ctx)
	assert.False(t, ok)
	assert.IsType(t, Continue[testConn]{}, sub.State())
	assert.Equal(t, int32(1), src.closed.Load())
}

func TestSubscription_LostBusFails(t *testing.T) {
	src := newTestSource(0)
	sub := newTestSubscription("wifi", src)
	close(src.notes)

	_, ok := sub.Cycle(context.Background())
	assert.False(t, ok)
	assert.Equal(t, Failed[testConn]{}, sub.State())

	_, err := sub.Next(shortContext(t))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, src.calls())
}

func TestSubscription_ReleasesListenerEveryCycle(t *testing.T) {
	src := newTestSource(3)
	sub := newTestSubscription("wifi", src)
	src.notify(3)

	for i := 0; i < 3; i++ {
		_, err := sub.Next(context.Background())
		require.NoError(t, err)
	}

	assert.Equal(t, int32(3), src.closed.Load())
	assert.Equal(t, 3, src.calls())
	for _, conn := range src.conns {
		assert.Equal(t, "system", conn.name)
	}
}

func TestSubscription_All(t *testing.T) {
	src := newTestSource(4)
	sub := newTestSubscription("wifi", src)
	src.notify(4)

	var seqs []int
	for item := range sub.All(context.Background()) {
		seqs = append(seqs, item.Event.(wifiEnabled).State.Seq)
		if len(seqs) == 3 {
			break
		}
	}

	assert.Equal(t, []int{1, 2, 3}, seqs)
}

func TestSubscription_AllStopsOnCancel(t *testing.T) {
	src := newTestSource(0)
	sub := newTestSubscription("wifi", src)

	count := 0
	for range sub.All(shortContext(t)) {
		count++
	}
	assert.Zero(t, count)
}

func TestSubscription_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	src := newTestSource(1)
	sub := newTestSubscription("wifi", src)
	src.notify(1)

	out := make(chan Item[string, testEvent], 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- sub.Run(ctx, out)
	}()

	item := <-out
	assert.Equal(t, "wifi", item.ID)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
