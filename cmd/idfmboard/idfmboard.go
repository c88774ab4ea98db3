package main

import (
	"os"
	"time"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/localize"
	"github.com/idfmboard/idfmboard/pkg/notify"
	"github.com/idfmboard/idfmboard/pkg/realtime"
	"github.com/idfmboard/idfmboard/pkg/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("IDFMBOARD_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("IDFMBOARD_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	localize.SetLanguage(util.GetEnvironmentVariable("IDFMBOARD_LANGUAGE", localize.DefaultLanguage))

	app := &cli.App{
		Name:        "idfmboard",
		Description: "Realtime Île-de-France Mobilités departure boards",

		Commands: []*cli.Command{
			realtime.RegisterCLI(),
			config.RegisterCLI(),
			notify.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
