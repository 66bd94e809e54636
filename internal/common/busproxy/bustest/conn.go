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

// Package bustest содержит поддельное соединение с шиной для тестов апплетов.
package bustest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	propertiesGet = "org.freedesktop.DBus.Properties.Get"
	propertiesSet = "org.freedesktop.DBus.Properties.Set"
)

// Conn поддельное соединение: объекты в памяти и ручная рассылка сигналов.
type Conn struct {
	mu       sync.Mutex
	objects  map[dbus.ObjectPath]*Object
	channels []chan<- *dbus.Signal
	matches  int

	// AddMatchErr возвращается из AddMatchSignal, если задана
	AddMatchErr error
}

// NewConn создаёт пустое соединение.
func NewConn() *Conn {
	return &Conn{objects: make(map[dbus.ObjectPath]*Object)}
}

// AddObject регистрирует объект по пути и возвращает его для настройки.
func (c *Conn) AddObject(dest string, path dbus.ObjectPath) *Object {
	c.mu.Lock()
	defer c.mu.Unlock()

	obj := &Object{
		dest:    dest,
		path:    path,
		props:   make(map[string]dbus.Variant),
		methods: make(map[string][]interface{}),
	}
	c.objects[path] = obj
	return obj
}

// Object возвращает зарегистрированный объект или объект, на любой вызов отвечающий ServiceUnknown.
func (c *Conn) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	c.mu.Lock()
	defer c.mu.Unlock()

	if obj, ok := c.objects[path]; ok {
		return obj
	}

	return &Object{
		dest: dest,
		path: path,
		Err: &dbus.Error{
			Name: "org.freedesktop.DBus.Error.ServiceUnknown",
			Body: []interface{}{fmt.Sprintf("The name %s was not provided by any .service files", dest)},
		},
	}
}

func (c *Conn) AddMatchSignal(...dbus.MatchOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.AddMatchErr != nil {
		return c.AddMatchErr
	}
	c.matches++
	return nil
}

func (c *Conn) RemoveMatchSignal(...dbus.MatchOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matches--
	return nil
}

func (c *Conn) Signal(ch chan<- *dbus.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = append(c.channels, ch)
}

func (c *Conn) RemoveSignal(ch chan<- *dbus.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels = slices.DeleteFunc(c.channels, func(existing chan<- *dbus.Signal) bool {
		return existing == ch
	})
}

// Matches количество активных правил.
func (c *Conn) Matches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.matches
}

// Subscribers количество подписанных каналов.
func (c *Conn) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.channels)
}

// Emit рассылает сигнал всем подписанным каналам.
func (c *Conn) Emit(signal *dbus.Signal) {
	c.mu.Lock()
	channels := slices.Clone(c.channels)
	c.mu.Unlock()

	for _, ch := range channels {
		ch <- signal
	}
}

// EmitPropertiesChanged рассылает org.freedesktop.DBus.Properties.PropertiesChanged.
func (c *Conn) EmitPropertiesChanged(path dbus.ObjectPath, iface string, changed map[string]interface{}, invalidated ...string) {
	variants := make(map[string]dbus.Variant, len(changed))
	for name, value := range changed {
		variants[name] = dbus.MakeVariant(value)
	}
	if invalidated == nil {
		invalidated = []string{}
	}

	c.Emit(&dbus.Signal{
		Sender: ":1.1",
		Path:   path,
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Body:   []interface{}{iface, variants, invalidated},
	})
}

// Disconnect закрывает все каналы, как это делает *dbus.Conn при разрыве.
func (c *Conn) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ch := range c.channels {
		close(ch)
	}
	c.channels = nil
}

// Object поддельный удалённый объект. Методы BusObject, которые не
// переопределены, вызывать нельзя.
type Object struct {
	dbus.BusObject

	mu      sync.Mutex
	dest    string
	path    dbus.ObjectPath
	props   map[string]dbus.Variant
	methods map[string][]interface{}
	calls   []*dbus.Call

	// Err возвращается из любого вызова, если задана
	Err error
}

// Set задаёт значение свойства.
func (o *Object) Set(iface, name string, value interface{}) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.props[iface+"."+name] = dbus.MakeVariant(value)
	return o
}

// Get возвращает текущее значение свойства.
func (o *Object) Get(iface, name string) (interface{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.props[iface+"."+name]
	return v.Value(), ok
}

// OnCall задаёт ответ метода.
func (o *Object) OnCall(method string, ret ...interface{}) *Object {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.methods[method] = ret
	return o
}

// Calls возвращает аргументы всех вызовов метода.
func (o *Object) Calls(method string) [][]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()

	var args [][]interface{}
	for _, call := range o.calls {
		if call.Method == method {
			args = append(args, call.Args)
		}
	}
	return args
}

func (o *Object) Call(method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return o.CallWithContext(context.Background(), method, flags, args...)
}

func (o *Object) CallWithContext(ctx context.Context, method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	call := &dbus.Call{
		Destination: o.dest,
		Path:        o.path,
		Method:      method,
		Args:        args,
	}

	if err := ctx.Err(); err != nil {
		call.Err = err
		return call
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls = append(o.calls, call)
	if o.Err != nil {
		call.Err = o.Err
		return call
	}

	switch method {
	case propertiesGet:
		key := fmt.Sprintf("%v.%v", args[0], args[1])
		value, ok := o.props[key]
		if !ok {
			call.Err = &dbus.Error{
				Name: "org.freedesktop.DBus.Error.UnknownProperty",
				Body: []interface{}{"No such property " + key},
			}
			return call
		}
		call.Body = []interface{}{value}
	case propertiesSet:
		key := fmt.Sprintf("%v.%v", args[0], args[1])
		value, ok := args[2].(dbus.Variant)
		if !ok {
			value = dbus.MakeVariant(args[2])
		}
		o.props[key] = value
	default:
		ret, ok := o.methods[method]
		if !ok {
			call.Err = &dbus.Error{
				Name: "org.freedesktop.DBus.Error.UnknownMethod",
				Body: []interface{}{"No such method " + method},
			}
			return call
		}
		call.Body = ret
	}

	return call
}

func (o *Object) GetProperty(p string) (dbus.Variant, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.Err != nil {
		return dbus.Variant{}, o.Err
	}
	value, ok := o.props[p]
	if !ok {
		return dbus.Variant{}, fmt.Errorf("no such property %s", p)
	}
	return value, nil
}

func (o *Object) Destination() string {
	return o.dest
}

func (o *Object) Path() dbus.ObjectPath {
	return o.path
}
