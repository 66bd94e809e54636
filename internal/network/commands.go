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
	"applets/internal/common/app"
	"applets/internal/common/bridge"
	"applets/internal/common/helper"
	"applets/internal/common/reply"
	"applets/internal/common/wrapper"
	"context"

	"github.com/urfave/cli/v3"
)

// AppletName имя апплета в событиях
const AppletName = "network"

// newErrorResponse создаёт ответ с ошибкой и указанным сообщением.
func newErrorResponse(message string) reply.APIResponse {
	app.Log.Error(message)

	return reply.APIResponse{
		Data:  map[string]interface{}{"message": message},
		Error: true,
	}
}

var withActions = wrapper.WithOptions(NewActions, newErrorResponse)

// SendEvent выводит событие подписки
func SendEvent(ctx context.Context, item bridge.Item[string, Event]) error {
	return reply.SendEvent(ctx, reply.NewEventData(AppletName, item.ID, item.Event.Kind(), item.Event.Snapshot()))
}

func CommandList() *cli.Command {
	return &cli.Command{
		Name:    "network",
		Aliases: []string{"n"},
		Usage:   app.T_("Network applet"),
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: app.T_("Show network state"),
				Action: withActions(func(ctx context.Context, cmd *cli.Command, actions *Actions) error {
					resp, err := actions.Status(ctx)
					if err != nil {
						return reply.CliResponse(ctx, newErrorResponse(err.Error()))
					}
					return reply.CliResponse(ctx, *resp)
				}),
			},
			{
				Name:  "watch",
				Usage: app.T_("Print network state on every change"),
				Action: withActions(func(ctx context.Context, cmd *cli.Command, actions *Actions) error {
					resp, err := actions.Status(ctx)
					if err != nil {
						return reply.CliResponse(ctx, newErrorResponse(err.Error()))
					}
					if err = reply.CliResponse(ctx, *resp); err != nil {
						return err
					}

					err = actions.Watch(ctx, func(item bridge.Item[string, Event]) error {
						return SendEvent(ctx, item)
					})
					if err != nil {
						return reply.CliResponse(ctx, newErrorResponse(err.Error()))
					}
					return nil
				}),
			},
			{
				Name:      "wifi",
				Usage:     app.T_("Turn Wi-Fi on or off"),
				ArgsUsage: "on|off",
				Action: withActions(func(ctx context.Context, cmd *cli.Command, actions *Actions) error {
					enabled, ok := helper.ParseSwitch(cmd.Args().First())
					if !ok {
						return reply.CliResponse(ctx, newErrorResponse(app.T_("Expected on or off")))
					}

					resp, err := actions.SetWirelessEnabled(ctx, enabled)
					if err != nil {
						return reply.CliResponse(ctx, newErrorResponse(err.Error()))
					}
					return reply.CliResponse(ctx, *resp)
				}),
			},
		},
	}
}
