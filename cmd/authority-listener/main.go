package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fedid/engine/actors"
	"fedid/engine/library"
	"fedid/messaging/eventcatcher"
	"fedid/messaging/notifications"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	flags := pflag.NewFlagSet("authority-listener", pflag.ExitOnError)
	authorityFlag := flags.String("authority", "", "only print requests made to this authority")
	relayFlag := flags.String("relay", "", "relay to follow, defaults to the first configured relay")
	flags.Int("log-level", 4, "0 fatal ... 5 trace")
	_ = flags.Parse(os.Args[1:])

	conf := viper.New()
	actors.InitConfig(conf)
	actors.SetConfig(conf)
	if flags.Changed("log-level") {
		_ = conf.BindPFlag("logLevel", flags.Lookup("log-level"))
		library.SetLogLevel(conf.GetInt("logLevel"))
	}

	var authority library.Address
	if *authorityFlag != "" {
		a, err := library.ParseAddress(*authorityFlag)
		if err != nil {
			library.LogCLI(err.Error(), 0)
			os.Exit(1)
		}
		authority = a
	}
	url := *relayFlag
	if url == "" {
		relays := conf.GetStringSlice("relays")
		if len(relays) == 0 {
			library.LogCLI("no relay given and none configured", 0)
			os.Exit(1)
		}
		url = relays[0]
	}

	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	go func() {
		<-signals
		cancel()
	}()

	out := make(chan notifications.Notification)
	done := make(chan error, 1)
	go func() {
		done <- eventcatcher.Catch(ctx, url, authority, conf.GetInt("notificationKind"), out)
	}()
	for {
		select {
		case n := <-out:
			fmt.Printf("\nNEW REQUEST %s\nAuthority: %s\nIdentity: %s\nMask: %q\nAt: %s\n", n.ID, n.Authority, n.Identity, n.Mask, n.At)
		case err := <-done:
			if err != nil {
				library.LogCLI(err.Error(), 2)
			}
			cancel()
			actors.Shutdown()
			return
		}
	}
}
