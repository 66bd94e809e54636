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

package network

import (
	"testing"
)

func TestNewErrorResponse(t *testing.T) {
	message := "NetworkManager is not running"
	response := newErrorResponse(message)

	if !response.Error {
		t.Error("Error response should have Error=true")
	}

	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Expected Data to be map[string]interface{}")
	}

	if data["message"] != message {
		t.Errorf("Expected message '%s', got '%v'", message, data["message"])
	}
}

func TestCommandList_Structure(t *testing.T) {
	cmd := CommandList()

	if cmd.Name != AppletName {
		t.Errorf("Expected command name '%s', got '%s'", AppletName, cmd.Name)
	}

	expected := []string{"status", "watch", "wifi"}
	if len(cmd.Commands) != len(expected) {
		t.Fatalf("Expected %d subcommands, got %d", len(expected), len(cmd.Commands))
	}

	for i, name := range expected {
		if cmd.Commands[i].Name != name {
			t.Errorf("Expected subcommand '%s' at %d, got '%s'", name, i, cmd.Commands[i].Name)
		}
		if cmd.Commands[i].Action == nil {
			t.Errorf("Subcommand '%s' has no action", name)
		}
	}
}
