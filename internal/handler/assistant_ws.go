package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"kuruma/config"
	"kuruma/internal/auth"
	"kuruma/internal/service"
	"kuruma/pkg/genai"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	assistantWriteWait  = 10 * time.Second
	assistantPongWait   = 60 * time.Second
	assistantPingPeriod = (assistantPongWait * 9) / 10
	assistantMaxHistory = 40
	assistantTurnLimit  = 30 * time.Second
)

var assistantUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type assistantInbound struct {
	Message string `json:"message"`
}

type assistantOutbound struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// UpgradeAssistantWS holds a chat session over WebSocket; query: token.
// History lives only for the lifetime of the connection.
func UpgradeAssistantWS(cfg *config.JWTConfig, assistant *service.AssistantService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if assistant == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
			return
		}
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		if _, err := auth.ParseAccessToken(cfg, token); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := assistantUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(assistantPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(assistantPongWait))
			return nil
		})

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(assistantPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(assistantWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		var history []genai.Turn
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var in assistantInbound
			if err := json.Unmarshal(raw, &in); err != nil || in.Message == "" {
				writeAssistantWS(conn, assistantOutbound{Error: "message required"})
				continue
			}
			ctx, cancel := context.WithTimeout(c.Request.Context(), assistantTurnLimit)
			reply, err := assistant.Chat(ctx, history, in.Message)
			cancel()
			if err != nil {
				writeAssistantWS(conn, assistantOutbound{Error: "assistant unavailable"})
				continue
			}
			history = append(history,
				genai.Turn{Role: "user", Text: in.Message},
				genai.Turn{Role: "model", Text: reply},
			)
			if len(history) > assistantMaxHistory {
				history = history[len(history)-assistantMaxHistory:]
			}
			writeAssistantWS(conn, assistantOutbound{Reply: reply})
		}
	}
}

func writeAssistantWS(conn *websocket.Conn, out assistantOutbound) {
	conn.SetWriteDeadline(time.Now().Add(assistantWriteWait))
	b, _ := json.Marshal(out)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}
