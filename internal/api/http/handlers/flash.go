package handlers

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// Flash is a one-shot message carried across a redirect.
type Flash struct {
	Kind string
	Text string
}

func setFlash(c *fiber.Ctx, kind, text string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + text),
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(time.Minute),
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	kind, text, ok := strings.Cut(decoded, "|")
	if !ok {
		return &Flash{Kind: "info", Text: decoded}
	}
	return &Flash{Kind: kind, Text: text}
}
