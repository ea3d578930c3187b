package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/sessiongate/internal/app"
	"github.com/carebridge/sessiongate/internal/auth"
	"github.com/carebridge/sessiongate/internal/core"
	"github.com/carebridge/sessiongate/internal/domain"
	"github.com/carebridge/sessiongate/internal/store"
)

// mapVerifier resolves fixed credentials for handshake tests.
type mapVerifier struct {
	identities map[string]domain.Identity
}

func (m *mapVerifier) Verify(_ context.Context, credential string) (domain.Identity, error) {
	if id, ok := m.identities[credential]; ok {
		return id, nil
	}
	return domain.Identity{}, auth.ErrInvalidCredential
}

type gatewayFixture struct {
	srv   *httptest.Server
	rooms *core.RoomRegistry
}

func newGateway(t *testing.T) *gatewayFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	consultations := store.NewMemoryStore()
	consultations.Put(domain.Consultation{ID: "c1", PatientID: "u1", ProviderID: "u2", Status: "scheduled"})

	connections := app.NewConnectionRegistry()
	rooms := core.NewRoomRegistry()
	coordinator := app.NewCoordinator(connections, rooms, app.NewAccessVerifier(consultations), nil)
	presence := app.NewPresence(connections, rooms)
	gate := NewGate(&mapVerifier{identities: map[string]domain.Identity{
		"u1-token": {ID: "u1", Role: domain.RolePatient},
		"u2-token": {ID: "u2", Role: domain.RoleProvider},
		"u3-token": {ID: "u3", Role: domain.RolePatient},
	}})
	ctl := NewController(coordinator, presence, gate, 32768, time.Minute)

	r := gin.New()
	ctx, cancel := context.WithCancel(context.Background())
	r.GET("/api/ws/session", func(c *gin.Context) {
		ctl.HandleSession(ctx, c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return &gatewayFixture{srv: srv, rooms: rooms}
}

func (g *gatewayFixture) dial(t *testing.T, token string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(g.srv.URL, "http") + "/api/ws/session?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendEvent(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(v))
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestHandshake_RejectedBeforeUpgrade(t *testing.T) {
	req := require.New(t)
	g := newGateway(t)

	// No credential at all.
	u := "ws" + strings.TrimPrefix(g.srv.URL, "http") + "/api/ws/session"
	_, resp, err := websocket.DefaultDialer.Dial(u, nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Bad credential.
	_, resp, err = websocket.DefaultDialer.Dial(u+"?token=nope", nil)
	req.Error(err)
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Nothing leaked into the room registry.
	req.Empty(g.rooms.List())
}

func TestSession_EndToEnd(t *testing.T) {
	req := require.New(t)
	g := newGateway(t)

	// u1 joins c1 first; alone in the room, no broadcast observed.
	u1 := g.dial(t, "u1-token")
	sendEvent(t, u1, map[string]string{"type": "join_consultation", "consultationId": "c1"})
	state := readEvent(t, u1)
	req.Equal("room_state", state["type"])
	req.Equal("c1", state["consultationId"])
	req.Equal(float64(1), state["count"])

	// u2 joins next; u1 hears about it, u2 only gets the snapshot.
	u2 := g.dial(t, "u2-token")
	sendEvent(t, u2, map[string]string{"type": "join_consultation", "consultationId": "c1"})
	state = readEvent(t, u2)
	req.Equal("room_state", state["type"])
	req.Equal(float64(2), state["count"])

	joined := readEvent(t, u1)
	req.Equal("user_joined_consultation", joined["type"])
	req.Equal("u2", joined["userId"])
	req.Equal("provider", joined["userRole"])
	req.NotEmpty(joined["timestamp"])

	// Typing indicator fans out to u1 only.
	sendEvent(t, u2, map[string]string{"type": "typing_start", "consultationId": "c1"})
	typing := readEvent(t, u1)
	req.Equal("user_typing", typing["type"])
	req.Equal("u2", typing["userId"])
	req.Equal(true, typing["isTyping"])

	// Abrupt disconnect: memberships released, no left event for u1.
	u2.Close()
	req.Eventually(func() bool {
		return g.rooms.MemberCount(domain.ConsultationRoom("c1")) == 1
	}, 2*time.Second, 10*time.Millisecond)
	expectSilence(t, u1)
}

func TestSession_DeniedJoin(t *testing.T) {
	req := require.New(t)
	g := newGateway(t)

	u1 := g.dial(t, "u1-token")
	sendEvent(t, u1, map[string]string{"type": "join_consultation", "consultationId": "c1"})
	readEvent(t, u1) // room_state

	// u3 is not a participant of c1.
	u3 := g.dial(t, "u3-token")
	sendEvent(t, u3, map[string]string{"type": "join_consultation", "consultationId": "c1"})
	denied := readEvent(t, u3)
	req.Equal("error", denied["type"])
	req.Equal("access denied", denied["message"])

	// No broadcast reached u1, no membership was created.
	expectSilence(t, u1)
	req.Equal(1, g.rooms.MemberCount(domain.ConsultationRoom("c1")))
}

func TestSession_ExplicitLeaveBroadcasts(t *testing.T) {
	req := require.New(t)
	g := newGateway(t)

	u1 := g.dial(t, "u1-token")
	sendEvent(t, u1, map[string]string{"type": "join_consultation", "consultationId": "c1"})
	readEvent(t, u1)

	u2 := g.dial(t, "u2-token")
	sendEvent(t, u2, map[string]string{"type": "join_consultation", "consultationId": "c1"})
	readEvent(t, u2)
	readEvent(t, u1) // user_joined_consultation

	sendEvent(t, u2, map[string]string{"type": "leave_consultation", "consultationId": "c1"})
	left := readEvent(t, u1)
	req.Equal("user_left_consultation", left["type"])
	req.Equal("u2", left["userId"])
}

func TestSession_PingAndWhoAmI(t *testing.T) {
	req := require.New(t)
	g := newGateway(t)

	u1 := g.dial(t, "u1-token")
	sendEvent(t, u1, map[string]string{"type": "ping"})
	req.Equal("pong", readEvent(t, u1)["type"])

	sendEvent(t, u1, map[string]string{"type": "whoami"})
	who := readEvent(t, u1)
	req.Equal("whoami", who["type"])
	req.Equal("u1", who["userId"])
	req.Equal("patient", who["userRole"])
}

func TestSession_BadPayload(t *testing.T) {
	req := require.New(t)
	g := newGateway(t)

	u1 := g.dial(t, "u1-token")

	// join without a consultation id fails validation.
	sendEvent(t, u1, map[string]string{"type": "join_consultation"})
	bad := readEvent(t, u1)
	req.Equal("error", bad["type"])
	req.Equal("bad payload", bad["message"])

	// Unknown types are ignored, the connection stays usable.
	sendEvent(t, u1, map[string]string{"type": "reboot_universe"})
	sendEvent(t, u1, map[string]string{"type": "ping"})
	req.Equal("pong", readEvent(t, u1)["type"])
}
