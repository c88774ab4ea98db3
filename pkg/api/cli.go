package api

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/idfmboard/idfmboard/pkg/config"
	"github.com/idfmboard/idfmboard/pkg/idfm"
	"github.com/idfmboard/idfmboard/pkg/notify"
	"github.com/idfmboard/idfmboard/pkg/realtime/idfmdepartures"
	"github.com/idfmboard/idfmboard/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "run the departure boards and serve them over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Usage:    "path to the board configuration file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "listen",
				Value: ":8080",
				Usage: "listen target for the web server",
			},
		},
		Action: func(c *cli.Context) error {
			file, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			if err := redis_client.Connect(false); err != nil {
				return err
			}

			var publisher idfmdepartures.Publisher
			if redis_client.Connected() {
				queuePublisher, err := notify.NewQueuePublisher(redis_client.QueueConnection)
				if err != nil {
					return err
				}
				publisher = queuePublisher
			}

			manager, err := idfmdepartures.NewTrackerManagerFromFile(file, idfm.NewClientFromEnvironment(), publisher)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
			p.Go(func(ctx context.Context) error {
				// A card that fails to set up is reported on its board, the others keep running
				if err := manager.Run(ctx); err != nil {
					log.Error().Err(err).Msg("Some boards could not be set up")
				}
				return nil
			})
			p.Go(func(ctx context.Context) error {
				return SetupServer(ctx, c.String("listen"), manager)
			})

			return p.Wait()
		},
	}
}
