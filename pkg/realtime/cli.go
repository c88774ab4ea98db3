package realtime

import (
	"github.com/idfmboard/idfmboard/pkg/api"
	"github.com/idfmboard/idfmboard/pkg/realtime/idfmdepartures"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "boards",
		Usage: "Realtime departure boards",
		Subcommands: []*cli.Command{
			api.RegisterCLI(),
			idfmdepartures.RegisterCLI(),
		},
	}
}
