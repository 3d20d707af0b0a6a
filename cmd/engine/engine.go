package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fedid/engine/actors"
	"fedid/engine/library"
	"fedid/messaging/conductor"
	"fedid/messaging/notifications"
	"fedid/messaging/relays"
	"github.com/spf13/viper"
)

func main() {
	// Various aspect of this application require global and local settings. To keep things
	// clean and tidy we put these settings in a Viper configuration.
	conf := viper.New()

	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)
	if err := actors.ValidateConfig(conf); err != nil {
		library.LogCLI(err.Error(), 0)
		os.Exit(1)
	}

	c, err := conductor.OpenDefault()
	if err != nil {
		library.LogCLI(err.Error(), 0)
		os.Exit(1)
	}
	sink := relays.StartSink(notifications.Default, actors.MyWallet(), relays.PublishToRelays)

	interrupt := make(chan struct{})
	go cliListener(context.Background(), c, interrupt)
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)
	select {
	case <-interrupt:
	case <-signals:
	}

	sink.Stop()
	if err := c.Close(); err != nil {
		library.LogCLI(err.Error(), 1)
	}
	actors.Shutdown()
	fmt.Println("bye")
}
