package notify

import (
	"encoding/json"
	"log"
	"net/http"

	"brewhaus/docstore"
	"brewhaus/models"
	"brewhaus/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Handlers struct {
	Hub   *Hub
	Store docstore.Store
}

func prefsKey(sessionID string) string { return "notifyprefs:" + sessionID }

// Events upgrades the connection and subscribes it to the session's
// advisory stream. The socket is write-only from the server side.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionIDFromRequest(r)
	if sessionID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Session required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	client := &Client{
		Send: make(chan []byte, 256),
		Room: sessionID,
	}
	h.Hub.Register(client)

	go writePump(conn, client)
	go readPump(conn, h.Hub, client)
}

func writePump(conn *websocket.Conn, c *Client) {
	defer conn.Close()
	for msg := range c.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// readPump only exists to notice the peer going away.
func readPump(conn *websocket.Conn, hub *Hub, c *Client) {
	defer func() {
		hub.Unregister(c)
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (h *Handlers) GetPrefs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionIDFromRequest(r)
	prefs := models.DefaultNotificationPrefs()
	docstore.Load(r.Context(), h.Store, prefsKey(sessionID), &prefs)
	utils.RespondWithJSON(w, http.StatusOK, prefs)
}

func (h *Handlers) UpdatePrefs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetSessionIDFromRequest(r)

	prefs := models.DefaultNotificationPrefs()
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := docstore.Save(r.Context(), h.Store, prefsKey(sessionID), prefs); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not save preferences")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prefs)
}
