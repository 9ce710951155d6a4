package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/cart"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/internal/session"
	"github.com/ikkim/storefront-backend/internal/websocket"
)

type WSController struct {
	hub      *websocket.Hub
	sessions *session.Registry
	carts    service.CartProvider
	upgrader gorillaws.Upgrader
}

func NewWSController(hub *websocket.Hub, sessions *session.Registry, carts service.CartProvider, allowedOrigins []string) *WSController {
	return &WSController{
		hub:      hub,
		sessions: sessions,
		carts:    carts,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// HandleWebSocket streams the user's session and cart updates
// GET /api/v1/ws?token=
func (ctrl *WSController) HandleWebSocket(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c, log)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := websocket.NewClient(ctrl.hub, &websocket.Conn{Conn: conn}, userID)
	store := ctrl.carts.Get(c.Request.Context(), userID)

	client.OnSync = func(cl *websocket.Client) {
		cl.Push(websocket.Message{Type: websocket.TypeSession, Data: ctrl.sessions.Current(userID)})
		cl.Push(websocket.Message{Type: websocket.TypeCart, Data: RenderCart(store.State())})
	}

	client.Track(ctrl.sessions.Subscribe(userID, func(st session.State) {
		client.Push(websocket.Message{Type: websocket.TypeSession, Data: st})
		if !st.Loading && !st.User.Authenticated {
			go ctrl.hub.Unregister(client)
		}
	}))
	client.Track(store.Subscribe(func(st cart.State) {
		client.Push(websocket.Message{Type: websocket.TypeCart, Data: RenderCart(st)})
	}))

	ctrl.hub.Register(client)
	client.OnSync(client)

	go client.WritePump()
	go client.ReadPump()
}
