package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/idfmboard/idfmboard/pkg/config"
)

type parseURLRequest struct {
	URL  string      `json:"url"`
	Card config.Card `json:"card"`
}

type parseURLResponse struct {
	Applied   bool             `json:"applied"`
	Extracted config.Extracted `json:"extracted"`
	Card      config.Card      `json:"card"`
}

func EditorRouter(router fiber.Router) {
	router.Post("/parse-url", parseURL)
}

// parseURL applies a pasted journey planner link to the card being edited. The card comes back unchanged when
// the link does not name both a line and a departure stop.
func parseURL(c *fiber.Ctx) error {
	var request parseURLRequest
	if err := c.BodyParser(&request); err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Request body must be a JSON object with a url",
		})
	}

	if request.URL == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A url must be provided",
		})
	}

	extracted, _ := config.ParseURL(request.URL)
	applied := request.Card.ApplyURL(request.URL)

	return c.JSON(parseURLResponse{
		Applied:   applied,
		Extracted: extracted,
		Card:      request.Card,
	})
}
