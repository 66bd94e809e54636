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

package helper

import (
	"github.com/godbus/dbus/v5/introspect"
)

const SessionIntrospectXML = `
<node>
  <interface name="org.altlinux.Applets">
    <signal name="Notification">
      <arg type="s" name="message" direction="out"/>
    </signal>
  </interface>

  <interface name="org.altlinux.Applets.network">
    <method name="Status">
      <arg direction="in" type="s" name="transaction"/>
      <arg direction="out" type="s" name="result"/>
    </method>

    <method name="SetWirelessEnabled">
      <arg direction="in" type="b" name="enabled"/>
      <arg direction="in" type="s" name="transaction"/>
      <arg direction="out" type="s" name="result"/>
    </method>
  </interface>

  <interface name="org.altlinux.Applets.battery">
    <method name="Status">
      <arg direction="in" type="s" name="transaction"/>
      <arg direction="out" type="s" name="result"/>
    </method>

    <method name="SetKbdBrightness">
      <arg direction="in" type="i" name="value"/>
      <arg direction="in" type="s" name="transaction"/>
      <arg direction="out" type="s" name="result"/>
    </method>
  </interface>
` + introspect.IntrospectDataString + `</node>`
