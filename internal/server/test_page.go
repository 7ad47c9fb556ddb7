package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServeTestPage serves an HTML page for joining rooms and chatting by hand.
func ServeTestPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(testPageHTML))
}

const testPageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>RoomCast test page</title>
    <style>
        :root { --ink: #1f2933; --accent: #2f855a; --muted: #7b8794; }
        body { font: 15px/1.4 system-ui, sans-serif; color: var(--ink); max-width: 760px; margin: 2em auto; }
        form, .bar { display: flex; gap: 6px; margin-bottom: 8px; }
        input { flex: 1; border: 1px solid var(--muted); border-radius: 4px; padding: 4px 8px; }
        button { border: 0; border-radius: 4px; padding: 4px 12px; background: var(--accent); color: #fff; }
        button:disabled { opacity: .5; }
        #messages { list-style: none; padding: 8px; height: 22em; overflow-y: auto; border-top: 2px solid var(--accent); }
        #messages li { padding: 2px 0; white-space: pre-wrap; }
        #status { font-size: 13px; color: var(--muted); }
        #status.connected { color: var(--accent); }
    </style>
</head>
<body>
    <h1>RoomCast</h1>
    <form id="join">
        <input id="room" value="observer" aria-label="room">
        <input id="client" aria-label="client id">
        <input id="token" value="dev_token" aria-label="token">
        <button id="joinBtn">Join</button>
    </form>
    <p id="status">not connected</p>
    <form id="chat">
        <input id="text" placeholder="message" disabled>
        <button id="sendBtn" disabled>Send</button>
    </form>
    <ul id="messages"></ul>
    <script>
        const $ = (id) => document.getElementById(id);
        let socket;
        $('client').value = 'web_' + Math.floor(Math.random() * 10000);

        const log = (line, own) => {
            const li = document.createElement('li');
            li.textContent = line;
            if (own) li.style.fontWeight = 'bold';
            $('messages').append(li);
            li.scrollIntoView();
        };

        const setOpen = (open) => {
            $('status').textContent = open ? 'connected to ' + $('room').value : 'not connected';
            $('status').className = open ? 'connected' : '';
            $('text').disabled = $('sendBtn').disabled = !open;
            $('joinBtn').textContent = open ? 'Leave' : 'Join';
        };

        $('join').onsubmit = (e) => {
            e.preventDefault();
            if (socket) { socket.close(); return; }
            const q = new URLSearchParams({ client_id: $('client').value, token: $('token').value });
            const proto = location.protocol === 'https:' ? 'wss' : 'ws';
            socket = new WebSocket(proto + '://' + location.host + '/ws/' + encodeURIComponent($('room').value) + '?' + q);
            socket.onopen = () => setOpen(true);
            socket.onmessage = (e) => log(e.data);
            socket.onclose = (e) => {
                log('closed ' + e.code + (e.reason ? ' ' + e.reason : ''));
                socket = undefined;
                setOpen(false);
            };
        };

        $('chat').onsubmit = (e) => {
            e.preventDefault();
            const text = $('text').value.trim();
            if (!text || !socket) return;
            socket.send(text);
            log('me: ' + text, true);
            $('text').value = '';
        };
    </script>
</body>
</html>`
