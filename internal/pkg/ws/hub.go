package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub 管理员的 WebSocket 连接表，同一账号可多处登录
type Hub struct {
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	AdminID int64
	Conn    *websocket.Conn
	mu      sync.Mutex // 写锁，防止并发写入
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.AdminID] == nil {
		h.clients[client.AdminID] = make(map[*Client]struct{})
	}
	h.clients[client.AdminID][client] = struct{}{}

	log.Printf("Admin %d connected, admin_conns: %d, total: %d", client.AdminID, len(h.clients[client.AdminID]), h.countLocked())
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.AdminID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.AdminID)
		}
	}
	log.Printf("Admin %d disconnected", client.AdminID)
}

// SendToAdmin 向指定管理员的所有连接发送消息
func (h *Hub) SendToAdmin(adminID int64, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients[adminID]))
	for c := range h.clients[adminID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	h.write(clients, data)
	return nil
}

// Broadcast 向所有在线连接发送消息
func (h *Hub) Broadcast(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	clients := make([]*Client, 0, h.countLocked())
	for _, conns := range h.clients {
		for c := range conns {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	h.write(clients, data)
	return nil
}

func (h *Hub) write(clients []*Client, data []byte) {
	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			log.Printf("Write error for admin %d: %v", c.AdminID, err)
		}
	}
}

// IsOnline 检查管理员是否在线
func (h *Hub) IsOnline(adminID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[adminID]) > 0
}

// ConnectionCount 获取在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
