package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/idfmboard/idfmboard/pkg/api/routes"
	"github.com/rs/zerolog/log"
)

func NewApp(boards routes.BoardProvider) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.BoardsRouter(group.Group("/boards"), boards)
	routes.EditorRouter(group.Group("/editor"))

	return webApp
}

// SetupServer serves the API until ctx is done
func SetupServer(ctx context.Context, listen string, boards routes.BoardProvider) error {
	webApp := NewApp(boards)

	go func() {
		<-ctx.Done()
		if err := webApp.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Failed to shut down web server")
		}
	}()

	log.Info().Str("listen", listen).Msg("Starting web server")

	return webApp.Listen(listen)
}
