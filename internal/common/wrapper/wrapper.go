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

package wrapper

import (
	"applets/internal/common/app"
	"applets/internal/common/helper"
	"applets/internal/common/reply"
	"context"

	"github.com/urfave/cli/v3"
)

// WithOptions создаёт универсальный wrapper для CLI команд с поддержкой generics.
// T - тип Actions для конкретного апплета.
func WithOptions[T any](
	newActions func(*app.Config) *T,
	errorResponse func(string) reply.APIResponse,
) func(func(context.Context, *cli.Command, *T) error) cli.ActionFunc {
	return func(actionFunc func(context.Context, *cli.Command, *T) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			appConfig := app.GetAppConfig(ctx)

			format := cmd.String("format")
			switch format {
			case "", app.FormatText, app.FormatJSON:
			default:
				return reply.CliResponse(ctx, errorResponse(app.T_("Unknown output format, expected text or json")))
			}
			if format != "" {
				appConfig.ConfigManager.SetFormat(format)
			}
			appConfig.ConfigManager.SetVerbose(cmd.Bool("verbose"))
			ctx = context.WithValue(ctx, helper.TransactionKey, cmd.String("transaction"))

			actions := newActions(appConfig)
			return actionFunc(ctx, cmd, actions)
		}
	}
}
