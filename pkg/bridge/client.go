package bridge

import (
	"encoding/json"
	"strings"
)

// DefaultEndpoint is the path the client script connects to by default.
const DefaultEndpoint = "/_vroute/history"

// ClientScript returns the script that binds a page's address bar to the
// bridge server at endpoint. mode is sent in the init message.
func ClientScript(endpoint string, mode Mode) string {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	ep, _ := json.Marshal(endpoint)
	md, _ := json.Marshal(string(mode))
	r := strings.NewReplacer("__ENDPOINT__", string(ep), "__MODE__", string(md))
	return r.Replace(clientScript)
}

const clientScript = `
<script>
(function() {
    'use strict';

    var endpoint = __ENDPOINT__;
    var mode = __MODE__;
    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function current() {
        return location.pathname + location.search + location.hash;
    }

    function send(msg) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify(msg));
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + endpoint);

        ws.onopen = function() {
            reconnectDelay = 1000;
            send({type: 'init', url: current(), mode: mode});
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'push':
                    history.pushState(null, '', msg.url);
                    break;
                case 'replace':
                    history.replaceState(null, '', msg.url);
                    break;
                case 'go':
                    history.go(msg.delta);
                    break;
                case 'error':
                    console.error('[vroute]', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    window.addEventListener('popstate', function() {
        send({type: 'popstate', url: current()});
    });

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
</script>
`
