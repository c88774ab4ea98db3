package routes

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/idfmboard/idfmboard/pkg/ctdf"
	"github.com/idfmboard/idfmboard/pkg/realtime/idfmdepartures"
	"github.com/liip/sheriff"
)

// BoardProvider is what the routes need from the running trackers
type BoardProvider interface {
	Boards() []*ctdf.DepartureBoard
	Board(name string) (*ctdf.DepartureBoard, error)
	Refresh(ctx context.Context, name string) (*ctdf.DepartureBoard, error)
}

type boardSummary struct {
	Name        string `json:"name"`
	Rows        int    `json:"rows"`
	Error       bool   `json:"error"`
	Failure     string `json:"failure,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

func BoardsRouter(router fiber.Router, boards BoardProvider) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listBoards(c, boards)
	})
	router.Get("/:name", func(c *fiber.Ctx) error {
		return getBoard(c, boards)
	})
	router.Post("/:name/refresh", func(c *fiber.Ctx) error {
		return refreshBoard(c, boards)
	})
}

func listBoards(c *fiber.Ctx, boards BoardProvider) error {
	summaries := []boardSummary{}

	for _, board := range boards.Boards() {
		summary := boardSummary{
			Name:    board.Name,
			Rows:    len(board.Rows),
			Error:   board.Error,
			Failure: board.Failure,
		}
		if !board.LastUpdated.IsZero() {
			summary.LastUpdated = board.LastUpdated.Format(time.RFC3339)
		}

		summaries = append(summaries, summary)
	}

	return c.JSON(summaries)
}

func getBoard(c *fiber.Ctx, boards BoardProvider) error {
	board, err := boards.Board(boardName(c))
	if err != nil {
		return boardError(c, err)
	}

	return sendBoard(c, board)
}

func refreshBoard(c *fiber.Ctx, boards BoardProvider) error {
	board, err := boards.Refresh(c.UserContext(), boardName(c))
	if err != nil {
		return boardError(c, err)
	}

	return sendBoard(c, board)
}

func boardName(c *fiber.Ctx) string {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Params("name")
	}

	return name
}

func sendBoard(c *fiber.Ctx, board *ctdf.DepartureBoard) error {
	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	boardReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, board)

	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce board",
		})
	}

	return c.JSON(boardReduced)
}

func boardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, idfmdepartures.ErrUnknownBoard):
		c.SendStatus(fiber.StatusNotFound)
	case errors.Is(err, idfmdepartures.ErrNotReady):
		c.SendStatus(fiber.StatusConflict)
	default:
		c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(fiber.Map{
		"error": err.Error(),
	})
}
