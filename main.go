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

package main

import (
	"applets/internal/battery"
	"applets/internal/common/app"
	"applets/internal/common/bridge"
	"applets/internal/common/busproxy"
	"applets/internal/common/helper"
	"applets/internal/common/reply"
	"applets/internal/network"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

var (
	ctx, globalCancel = context.WithCancel(context.Background())
	appConfig         *app.Config
)

func main() {
	var errInitial error
	appConfig, errInitial = app.InitializeApp()
	cliError(errInitial)

	app.Log.Debug("Starting applets…")

	setupSignalHandling()
	ctx = context.WithValue(ctx, app.AppConfigKey, appConfig)

	// Основная команда приложения
	rootCommand := &cli.Command{
		Name:    "applets",
		Usage:   "Panel applets bus bridge",
		Version: appConfig.ConfigManager.GetConfig().Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Usage:   app.T_("Output format: json, text"),
				Aliases: []string{"f"},
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "transaction",
				Usage:   app.T_("Internal property, adds the transaction to the output"),
				Aliases: []string{"t"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   app.T_("Print the log to the terminal"),
				Aliases: []string{"v"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "dbus-session",
				Usage:  fmt.Sprintf(app.T_("Start session D-Bus service %s"), app.ServiceName),
				Action: sessionDbus,
			},
			network.CommandList(),
			battery.CommandList(),
			{
				Name:      "help",
				Aliases:   []string{"h"},
				Usage:     app.T_("Show the list of commands or help for each command"),
				ArgsUsage: app.T_("[command]"),
				HideHelp:  true,
			},
		},
	}

	applyCommandSetting(rootCommand)

	if err := rootCommand.Run(ctx, os.Args); err != nil {
		cleanup()
		os.Exit(1)
	}
	cleanup()
}

// setupSignalHandling настраивает обработку системных сигналов
func setupSignalHandling() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigs

		switch sig {
		case syscall.SIGINT, syscall.SIGTERM:
			app.Log.Info(fmt.Sprintf(app.T_("Received signal %s. Stopping application…"), sig))

		default:
			infoText := fmt.Sprintf(app.T_("Unexpected signal %s received. Terminating the application with an error."), sig)
			app.Log.Error(infoText)
			cliError(errors.New(infoText))
		}

		cleanup()
		code := 1
		if s, ok := sig.(syscall.Signal); ok {
			switch s {
			case syscall.SIGINT:
				code = 130
			case syscall.SIGTERM:
				code = 143
			default:
				code = 128 + int(s)
			}
		}
		os.Exit(code)
	}()
}

func applyCommandSetting(cliCommand *cli.Command) {
	cliCommand.CommandNotFound = func(ctx context.Context, cmd *cli.Command, name string) {
		appConfig.ConfigManager.SetFormat(cmd.String("format"))
		msg := fmt.Sprintf(app.T_("Unknown command: %s. See 'applets help'"), name)
		cliError(errors.New(msg))
		cleanup()
		os.Exit(1)
	}
	cliCommand.HideHelpCommand = true
	cliCommand.EnableShellCompletion = true
	cliCommand.Suggest = true

	for _, sub := range cliCommand.Commands {
		applyCommandSetting(sub)
	}
}

// sessionDbus публикует действия апплетов на сессионной шине и рассылает
// события всех подписок сигналом Notification.
func sessionDbus(ctx context.Context, cmd *cli.Command) error {
	appConfig.ConfigManager.SetFormat(cmd.String("format"))
	appConfig.ConfigManager.SetVerbose(cmd.Bool("verbose"))

	if err := appConfig.DBusManager.ConnectSessionBus(); err != nil {
		app.Log.Error("ConnectSessionBus failed: ", err)
		cliError(err)
		return err
	}

	conn, err := busproxy.DeviceBus(appConfig.DBusManager)
	if err != nil {
		cliError(err)
		return err
	}

	networkActions := network.NewActions(appConfig)
	batteryActions := battery.NewActions(appConfig)
	session := appConfig.DBusManager.GetSessionConnection()

	// Экспортируем в D-Bus
	if err = session.Export(network.NewDBusWrapper(networkActions, ctx), reply.NotificationPath, app.ServiceName+".network"); err != nil {
		return err
	}
	if err = session.Export(battery.NewDBusWrapper(batteryActions, ctx), reply.NotificationPath, app.ServiceName+".battery"); err != nil {
		return err
	}
	if err = session.Export(
		introspect.Introspectable(helper.SessionIntrospectXML),
		reply.NotificationPath,
		"org.freedesktop.DBus.Introspectable",
	); err != nil {
		return err
	}

	appConfig.ConfigManager.SetFormat(app.FormatDBus)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bridge.Dispatch(gctx, func(item bridge.Item[string, network.Event]) error {
			return network.SendEvent(gctx, item)
		}, network.Subscriptions(conn)...)
	})
	g.Go(func() error {
		devicePath := dbus.ObjectPath(appConfig.ConfigManager.GetConfig().BatteryDevice)
		return bridge.Dispatch(gctx, func(item bridge.Item[string, battery.Event]) error {
			return battery.SendEvent(gctx, item)
		}, battery.Subscriptions(conn, devicePath)...)
	})

	// Блокируем до сигнала
	return g.Wait()
}

func cliError(err error) {
	if err == nil {
		return
	}

	// конфигурация ещё не загружена, отвечать через reply нельзя
	if appConfig == nil {
		log.Fatal(err)
	}

	errCli := reply.CliResponse(context.WithValue(ctx, app.AppConfigKey, appConfig), reply.APIResponse{
		Data: map[string]interface{}{
			"message": err.Error(),
		},
		Error: true,
	})
	if errCli != nil && errCli.Error() != "" {
		log.Fatal(errCli)
	}
}

func cleanup() {
	if appConfig != nil {
		app.Log.Debug(app.T_("Terminating the application. Releasing resources…"))
		defer func(appConfig *app.Config) {
			err := closeApp(appConfig)
			if err != nil {
				app.Log.Error(err)
			}
		}(appConfig)
	}

	defer globalCancel()
}

func closeApp(appConfig *app.Config) error {
	if appConfig == nil || appConfig.DBusManager == nil {
		return nil
	}

	// Закрываем DBus соединение
	if err := appConfig.DBusManager.Close(); err != nil {
		return fmt.Errorf(app.T_("failed to close DBus: %w"), err)
	}

	return nil
}
