package middleware_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/chesscore/internal/middleware"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.EnsurePlayerID())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.PlayerID(c))
	})
	app.Get("/ws", middleware.WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	app := newApp()
	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"header", "/whoami", "alice", fiber.StatusOK, "alice"},
		{"query", "/whoami?playerId=bob", "", fiber.StatusOK, "bob"},
		{"header wins", "/whoami?playerId=bob", "alice", fiber.StatusOK, "alice"},
		{"missing", "/whoami", "", fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestWebSocketUpgradeRejectsPlainRequests(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("X-Player-ID", "alice")
	resp, err := newApp().Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}

func TestEnsurePlayerID_OutlivesRequest(t *testing.T) {
	var seats []string
	app := fiber.New()
	app.Use(middleware.EnsurePlayerID())
	app.Post("/join", func(c *fiber.Ctx) error {
		seats = append(seats, middleware.PlayerID(c))
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.PlayerID(c))
	})

	for _, step := range []struct{ method, target, header string }{
		{"POST", "/join", "alice"},
		{"GET", "/whoami", "zzzzz"},
		{"POST", "/join?playerId=bob", ""},
		{"GET", "/whoami?playerId=yyy", ""},
	} {
		req := httptest.NewRequest(step.method, step.target, nil)
		if step.header != "" {
			req.Header.Set("X-Player-ID", step.header)
		}
		if _, err := app.Test(req); err != nil {
			t.Fatalf("%s %s: app.Test() error: %v", step.method, step.target, err)
		}
	}

	if len(seats) != 2 || seats[0] != "alice" || seats[1] != "bob" {
		t.Errorf("stored ids = %q, want [alice bob]", seats)
	}
}
