// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the built-in test page.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (h *Hub) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		CheckOrigin:       h.origins.checkOrigin,
		EnableCompression: h.cfg.EnableCompression,
	}
}

// WebSocketHandler handles WebSocket upgrade requests and manages client connections.
// It validates that the request uses the GET method, upgrades the HTTP connection
// to WebSocket, creates a new Client instance, and hands it to the hub, which
// starts the login timer and the client's read/write pumps.
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("addr", r.RemoteAddr).Msg("WebSocket upgrade failed")
		return
	}

	client := NewClient(conn, h, r.RemoteAddr)
	if !h.Register(client) {
		client.closeTransport()
	}
}

// HealthHandler provides a simple health check endpoint that returns server status.
// It responds with a plain text message indicating the server is running.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "roomchat server is running!")
}

// TestPageHandler serves an HTML page that logs in and chats over the
// WebSocket endpoint.
func TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPageHTML); err != nil {
		log.Error().Err(err).Msg("Error writing HTML response")
	}
}

const testPageHTML = `<!DOCTYPE html>
<html>
<head>
    <title>roomchat test page</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        #messages, #users {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        #users { height: 80px; }
        input[type="text"] { width: 300px; padding: 5px; margin-right: 10px; }
        button { padding: 5px 15px; background-color: #007cba; color: white; border: none; cursor: pointer; }
        button:hover { background-color: #005a87; }
        .status { margin: 10px 0; padding: 5px; border-radius: 3px; }
        .connected { background-color: #d4edda; color: #155724; }
        .disconnected { background-color: #f8d7da; color: #721c24; }
    </style>
</head>
<body>
    <h1>roomchat</h1>

    <div id="status" class="status disconnected">Disconnected</div>

    <div>
        <input type="text" id="nameInput" placeholder="Display name">
        <button id="connectButton" onclick="toggleConnection()">Join</button>
        <button id="clearButton" onclick="clearMessages()" disabled>Clear history</button>
    </div>
    <div>
        <input type="text" id="messageInput" placeholder="Type a message..." disabled>
        <button id="sendButton" onclick="sendMessage()" disabled>Send</button>
    </div>

    <div id="users"></div>
    <div id="messages"></div>

    <script>
        let ws = null;
        let uid = null;
        const messagesDiv = document.getElementById('messages');
        const usersDiv = document.getElementById('users');
        const nameInput = document.getElementById('nameInput');
        const messageInput = document.getElementById('messageInput');
        const sendButton = document.getElementById('sendButton');
        const clearButton = document.getElementById('clearButton');
        const connectButton = document.getElementById('connectButton');
        const statusDiv = document.getElementById('status');

        function addLine(text, color) {
            const el = document.createElement('div');
            el.style.margin = '5px 0';
            el.style.color = color || 'gray';
            el.textContent = text;
            messagesDiv.appendChild(el);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        }

        function addRoomMessage(m) {
            const mine = m.uid === uid;
            addLine('[' + m.time + '] ' + m.name + ': ' + m.content, mine ? 'blue' : 'green');
        }

        function updateStatus(loggedIn) {
            statusDiv.textContent = loggedIn ? 'Logged in' : 'Disconnected';
            statusDiv.className = 'status ' + (loggedIn ? 'connected' : 'disconnected');
            messageInput.disabled = !loggedIn;
            sendButton.disabled = !loggedIn;
            clearButton.disabled = !loggedIn;
            connectButton.textContent = loggedIn ? 'Leave' : 'Join';
        }

        function handle(frame) {
            switch (frame.type) {
            case 'login-success':
                uid = frame.data.uid;
                messagesDiv.innerHTML = '';
                frame.data.history.forEach(addRoomMessage);
                updateStatus(true);
                break;
            case 'system-login':
            case 'system-logout':
                addLine(frame.data);
                break;
            case 'system-user-list':
                usersDiv.textContent = 'Online: ' + frame.data.map(function (u) { return u.name; }).join(', ');
                break;
            case 'system-clear-messages':
                messagesDiv.innerHTML = '';
                break;
            case 'room-message':
                addRoomMessage(frame.data);
                break;
            case 'user-message':
                addLine('[' + frame.data.time + '] (direct) ' + (frame.data.from || frame.data.name) + ': ' + frame.data.content, 'purple');
                break;
            }
        }

        function connect() {
            const scheme = location.protocol === 'https:' ? 'wss://' : 'ws://';
            ws = new WebSocket(scheme + location.host + '/ws');
            ws.onopen = function () {
                ws.send(JSON.stringify({ type: 'login', name: nameInput.value.trim() }));
            };
            ws.onmessage = function (event) {
                handle(JSON.parse(event.data));
            };
            ws.onclose = function () {
                addLine('Connection closed');
                updateStatus(false);
                ws = null;
                uid = null;
            };
        }

        function toggleConnection() {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.close();
            } else {
                connect();
            }
        }

        function sendMessage() {
            const text = messageInput.value.trim();
            if (text && ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: 'text', text: text }));
                messageInput.value = '';
            }
        }

        function clearMessages() {
            if (ws && ws.readyState === WebSocket.OPEN) {
                ws.send(JSON.stringify({ type: 'system-clear-messages' }));
            }
        }

        messageInput.addEventListener('keypress', function (e) {
            if (e.key === 'Enter') {
                sendMessage();
            }
        });
    </script>
</body>
</html>`
