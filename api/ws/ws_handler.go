package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/skumar93/folio/service"
)

type Handler struct {
	Service *service.Service
	Hub     *Hub
}

func NewHandler(svc *service.Service, hub *Hub) *Handler {
	return &Handler{
		Service: svc,
		Hub:     hub,
	}
}

func (h *Handler) NewWsUpgrader(requiredOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == requiredOrigin
		},
		Subprotocols: []string{"folio-v1"},
	}
}

// ServeWS handles websocket requests from the builder frontend. The JWT
// rides in as the second subprotocol since browsers cannot set headers on
// websocket upgrades.
func (h *Handler) ServeWS(wsUpgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	protocols := r.Header.Get("Sec-WebSocket-Protocol")
	protocolsSplit := strings.Split(protocols, ",")

	if len(protocolsSplit) != 2 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token := strings.TrimSpace(protocolsSplit[1])

	user, authErr := h.Service.AuthenticateToken(r.Context(), token)

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade ws connection: %v", err)
		return
	}

	// Must upgrade the connection in order to be able to send custom close message
	if authErr != nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "Unauthenticated"),
		)
		conn.Close()
		return
	}

	sess, err := h.Service.OpenSession(r.Context(), user.Identity())
	if err != nil {
		log.Printf("Failed to open portfolio session for %s: %v", user.Id, err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "Session unavailable"),
		)
		conn.Close()
		return
	}

	client := NewClient(h.Hub, conn, user, sess, h.HandleWsMessage)

	h.Hub.OpenCh <- client

	// Start pumps
	go client.ReadPump()
	go client.WritePump(shutdownCtx)

	// Seed the tab with the current document so it never renders stale state
	// while waiting for the first change event.
	initial := documentMessage{Type: "document", Data: documentData{Doc: sess.Document()}}
	if msgBytes, err := json.Marshal(initial); err == nil {
		client.Send <- msgBytes
	}
}

// Websocket message structs
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type updateMessage struct {
	Section string          `json:"section"`
	Value   json.RawMessage `json:"value"`
}

type saveMessage struct {
	Section string `json:"section"`
}

type responseMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func (h *Handler) HandleWsMessage(client *Client, messageType int, messageBytes []byte) {
	var msg message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		log.Printf("Invalid JSON: %v", err)
		return
	}

	var resp responseMessage

	switch msg.Type {
	case "load":
		resp = h.handleLoad(client)

	case "update":
		var updateMsg updateMessage
		if err := json.Unmarshal(msg.Data, &updateMsg); err != nil {
			log.Printf("Invalid update data: %v", err)
			return
		}
		resp = h.handleUpdate(client, updateMsg)

	case "save":
		var saveMsg saveMessage
		if err := json.Unmarshal(msg.Data, &saveMsg); err != nil {
			log.Printf("Invalid save data: %v", err)
			return
		}
		resp = h.handleSave(client, saveMsg)

	case "publish":
		resp = h.handlePublish(client)

	default:
		log.Printf("Unknown message type: %v", msg.Type)
	}

	if resp.Type != "" {
		respBytes, err := json.Marshal(resp)
		if err != nil {
			log.Printf("Error marshaling response JSON: %v", err)
			return
		}
		client.Send <- respBytes
	}
}

func (h *Handler) handleLoad(client *Client) responseMessage {
	resp := responseMessage{
		Type: "load_response",
	}

	doc := client.session.Document()
	validation := client.session.Validate()
	resp.Data = map[string]any{"success": true, "doc": doc, "ready": validation.Ready, "missing": validation.Missing}
	return resp
}

func (h *Handler) handleUpdate(client *Client, updateMsg updateMessage) responseMessage {
	resp := responseMessage{
		Type: "update_response",
	}

	value, err := service.DecodeSectionValue(updateMsg.Section, updateMsg.Value)
	if err == nil {
		err = client.session.Update(updateMsg.Section, value)
	}

	if err != nil {
		log.Printf("Update failed for section %s: %v", updateMsg.Section, err)
		resp.Data = map[string]any{"success": false, "error": err.Error(), "section": updateMsg.Section}
		return resp
	}

	validation := client.session.Validate()
	resp.Data = map[string]any{"success": true, "section": updateMsg.Section, "ready": validation.Ready, "missing": validation.Missing}
	return resp
}

func (h *Handler) handleSave(client *Client, saveMsg saveMessage) responseMessage {
	resp := responseMessage{
		Type: "save_response",
	}

	if err := client.session.Save(context.Background(), saveMsg.Section); err != nil {
		log.Printf("Save failed for section %s: %v", saveMsg.Section, err)
		resp.Data = map[string]any{"success": false, "error": err.Error(), "section": saveMsg.Section}
		return resp
	}

	resp.Data = map[string]any{"success": true, "section": saveMsg.Section}
	return resp
}

func (h *Handler) handlePublish(client *Client) responseMessage {
	resp := responseMessage{
		Type: "publish_response",
	}

	result, err := h.Service.Publish(context.Background(), client.session)
	if err != nil {
		var notReady *service.NotReadyError
		if errors.As(err, &notReady) {
			resp.Data = map[string]any{"success": false, "error": notReady.Error(), "missing": notReady.Missing}
			return resp
		}
		log.Printf("Publish failed for user %s: %v", client.user.Id, err)
		resp.Data = map[string]any{"success": false, "error": err.Error()}
		return resp
	}

	resp.Data = map[string]any{"success": true, "url": result.URL, "slug": result.Slug}
	return resp
}
