package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/vnkhanh/ai-course-backend/models"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

type Hub struct {
	Clients       map[string]map[*websocket.Conn]*Client // Theo từng courseID
	GlobalClients map[*websocket.Conn]*Client            // Dành cho broadcast chung
	Mutex         sync.RWMutex
}

var H = Hub{
	Clients:       make(map[string]map[*websocket.Conn]*Client),
	GlobalClients: make(map[*websocket.Conn]*Client),
}

// Struct gửi tiến trình generation của 1 khóa học
type CourseProgressUpdate struct {
	CourseID           string `json:"course_id"`
	JobID              string `json:"job_id"`
	Status             string `json:"status"`
	ProgressPercentage int    `json:"progress_percentage"`
	CurrentStep        string `json:"current_step"`
	ErrorMessage       string `json:"error_message,omitempty"`
}

// Register theo courseID riêng
func (h *Hub) Register(courseID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if _, ok := h.Clients[courseID]; !ok {
		h.Clients[courseID] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.Clients[courseID][conn] = client

	// Handler giữ read loop; hub chỉ lo write
	go h.writePump(courseID, conn)
}

// Register global cho trang danh sách khóa học
func (h *Hub) RegisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	h.GlobalClients[conn] = client

	go h.writeGlobalPump(conn)
}

// Broadcast theo courseID
func (h *Hub) Broadcast(courseID string, messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Clients[courseID]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// Broadcast toàn bộ global clients (danh sách)
func (h *Hub) BroadcastGlobal(messageType int, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.GlobalClients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// GetStats trả về số client đang kết nối (cho health check)
func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	perCourse := 0
	for _, clients := range h.Clients {
		perCourse += len(clients)
	}
	return map[string]int{
		"course_clients": perCourse,
		"global_clients": len(h.GlobalClients),
		"course_rooms":   len(h.Clients),
	}
}

// SendGenerationUpdate gửi snapshot job tới các client đang theo dõi khóa học.
// Orchestrator gọi sau MỖI lần ghi progress, trước khi sang stage kế tiếp.
func SendGenerationUpdate(courseID string, job *models.GenerationJob) {
	update := CourseProgressUpdate{
		CourseID:           courseID,
		JobID:              job.ID.String(),
		Status:             string(job.Status),
		ProgressPercentage: job.ProgressPercentage,
		CurrentStep:        job.CurrentStep,
		ErrorMessage:       job.ErrorMessage,
	}
	data, err := json.Marshal(update)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(courseID, websocket.TextMessage, data)
}

// BroadcastCourseListChanged gửi signal cập nhật danh sách khóa học
func BroadcastCourseListChanged() {
	data := []byte(`{"type": "course_list_changed"}`)
	H.BroadcastGlobal(websocket.TextMessage, data)
}

// Unregister client theo courseID
func (h *Hub) Unregister(courseID string, conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if clients, ok := h.Clients[courseID]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
		}
		if len(clients) == 0 {
			delete(h.Clients, courseID)
		}
	}
}

// Unregister global client
func (h *Hub) UnregisterGlobal(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.GlobalClients[conn]; ok {
		close(client.Send)
		delete(h.GlobalClients, conn)
	}
}

// Write pump riêng theo courseID
func (h *Hub) writePump(courseID string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.Clients[courseID][conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Write pump global
func (h *Hub) writeGlobalPump(conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.GlobalClients[conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
