// internal/push/hub.go
package push

import (
	"net/http"

	"github.com/gorilla/websocket"

	"reserva/internal/pkg/logger"
)

// sendBufferSize 是单个客户端的发送队列长度，写满即视为慢消费者。
const sendBufferSize = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 仪表盘和 API 不同源，跨域检查交给网关/反向代理
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub 维护所有已连接的仪表盘客户端，把预订事件实时推送给它们。
// 注册、注销和广播都经由 run 循环串行处理；每个连接只有
// writePump 一个写入者，符合 websocket.Conn 单写者的约束。
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			h.drop(c)
		case payload := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// 发送队列已满，剔除慢消费者
					h.drop(c)
				}
			}
		}
	}
}

// drop 只在 run 循环里调用，保证 send 通道恰好关闭一次。
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// ServeWS 把一个 HTTP 请求升级为 WebSocket 连接并纳入广播列表。
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Ctx(r.Context()).Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register <- c

	go c.writePump()
	go c.readPump()
}

// Broadcast 把一条 JSON 消息推送给所有客户端。
func (h *Hub) Broadcast(payload []byte) {
	h.broadcast <- payload
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// writePump 是连接唯一的写入者，把 send 队列里的消息写到对端。
func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			c.hub.unregister <- c
			// 排空队列直到 hub 关闭 send，避免堵住 run 循环
			for range c.send {
			}
			return
		}
	}
}

// readPump 只用于感知对端关闭。
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
