package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"errandgo/internal/auth"
	"errandgo/internal/delivery/http/middleware"
	"errandgo/internal/domain/profile"
	"errandgo/internal/usecase/guard"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// SessionEventsHandler streams session-invalidation notices to a guarded
// dashboard over WebSocket. Each connection owns one guard watch, released
// when either side closes.
type SessionEventsHandler struct {
	role    profile.Role
	guard   *guard.Guard
	guardMw *middleware.GuardMiddleware
	logger  *log.Logger
}

func NewSessionEventsHandler(role profile.Role, g *guard.Guard, guardMw *middleware.GuardMiddleware, logger *log.Logger) *SessionEventsHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &SessionEventsHandler{role: role, guard: g, guardMw: guardMw, logger: logger}
}

func (h *SessionEventsHandler) RegisterRoutes(app *fiber.App) {
	if app == nil {
		return
	}

	app.Get(h.role.DashboardRoute()+"/events", h.handle, h.guardMw.Middleware())
}

func (h *SessionEventsHandler) handle(c fiber.Ctx) error {
	user, ok := middleware.UserFromCtx(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("WS upgrade error | error=%v", err)
			return
		}
		h.serve(conn, user.IdentityID)
	})

	return fiberHandler(c)
}

func (h *SessionEventsHandler) serve(conn *websocket.Conn, identityID uuid.UUID) {
	defer conn.Close()

	// The watch must not die with the upgrade request's context; its
	// lifetime is the connection's.
	watch, err := h.guard.Watch(context.Background(), identityID)
	if err != nil {
		h.logger.Printf("WS watch error | identity=%s error=%v", identityID, err)
		return
	}
	defer func() {
		if err := watch.Close(); err != nil {
			h.logger.Printf("WS watch close error | identity=%s error=%v", identityID, err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case n, ok := <-watch.Notices():
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				return
			}
			if n.Type == auth.EventSignedOut {
				_ = conn.WriteMessage(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"),
				)
				return
			}
		case <-done:
			return
		}
	}
}
