// Package meshsink streams finished planet sections to websocket clients.
package meshsink

import (
	"net/http"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/orbitplanetarium/genplanet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the JSON encoding of a section upload.
type Message struct {
	Type     string    `json:"type"` // "create" or "update"
	Index    int       `json:"index"`
	Vertices []float32 `json:"vertices"`
	Indices  []int     `json:"indices"`
	Normals  []float32 `json:"normals"`
	UVs      []float32 `json:"uvs"`
	Colors   []float32 `json:"colors"`
	Tangents []float32 `json:"tangents"`
	Async    bool      `json:"async"`
}

// JSONWriter is implemented by *websocket.Conn.
type JSONWriter interface {
	WriteJSON(v interface{}) error
}

// WebSocket is a genplanet.MeshSink writing every section as a JSON message.
type WebSocket struct {
	mu   sync.Mutex
	conn JSONWriter
}

// NewWebSocket returns a sink writing to conn.
func NewWebSocket(conn JSONWriter) *WebSocket {
	return &WebSocket{conn: conn}
}

// Upgrade upgrades an HTTP request to a websocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// CreateSection implements genplanet.MeshSink.
func (s *WebSocket) CreateSection(index int, data *genplanet.VertexData, asyncCooking bool) error {
	msg := NewMessage("create", index, data)
	msg.Async = asyncCooking
	return s.write(msg)
}

// UpdateSection implements genplanet.MeshSink.
func (s *WebSocket) UpdateSection(index int, data *genplanet.VertexData) error {
	return s.write(NewMessage("update", index, data))
}

func (s *WebSocket) write(msg *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(msg)
}

// NewMessage flattens the buffers of data into a message.
func NewMessage(typ string, index int, data *genplanet.VertexData) *Message {
	return &Message{
		Type:     typ,
		Index:    index,
		Vertices: flatten3(data.Vertices),
		Indices:  data.Triangles,
		Normals:  flatten3(data.Normals),
		UVs:      flatten2(data.UV),
		Colors:   flatten4(data.Colors),
		Tangents: flatten3(data.Tangents),
	}
}

func flatten2(vs []mgl64.Vec2) []float32 {
	out := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		out = append(out, float32(v[0]), float32(v[1]))
	}
	return out
}

func flatten3(vs []mgl64.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, float32(v[0]), float32(v[1]), float32(v[2]))
	}
	return out
}

func flatten4(vs []mgl64.Vec4) []float32 {
	out := make([]float32, 0, len(vs)*4)
	for _, v := range vs {
		out = append(out, float32(v[0]), float32(v[1]), float32(v[2]), float32(v[3]))
	}
	return out
}
