package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"home_thermostat/internal/models"
	"home_thermostat/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestParseInterval(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"", defaultInterval},
		{"200ms", 200 * time.Millisecond},
		{"1m", time.Minute},
		{"2m", defaultInterval},
		{"-1s", defaultInterval},
		{"bogus", defaultInterval},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := parseInterval(tc.in); got != tc.want {
				t.Fatalf("parseInterval(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

type wsMessage struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// dialStream serves wsConnect for mon and dials it with a fast poll interval.
func dialStream(t *testing.T, mon *mockMonitoring) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", NewHandler(&service.Service{Monitoring: mon}, nil).wsConnect)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = url.Values{"interval": {"10ms"}}.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var m wsMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func decodeStatus(t *testing.T, m wsMessage) service.Status {
	t.Helper()
	if m.Type != msgState {
		t.Fatalf("expected state message, got %+v", m)
	}
	var st service.Status
	if err := json.Unmarshal(m.Data, &st); err != nil {
		t.Fatalf("unmarshal status: %v", err)
	}
	return st
}

func TestWebSocket_SendsOnlyChanges(t *testing.T) {
	bedroom := 16.5
	night := service.Status{
		State: models.ThermostatState{ID: 1, Name: "Night", Flags: models.Flags{Heat: true}},
		Rooms: []models.Room{{ID: 1, Name: "Bedroom", Address: "10.0.0.3", CurrentTemp: &bedroom}},
	}
	idle := service.Status{
		State: models.ThermostatState{ID: 1, Name: models.IdleName, Flags: models.Flags{FanLow: true}},
		Rooms: night.Rooms,
	}
	conn := dialStream(t, &mockMonitoring{seq: []service.Status{night, night, night, idle}})

	first := decodeStatus(t, readMessage(t, conn))
	if first.State.Name != "Night" || !first.State.Heat || len(first.Rooms) != 1 || *first.Rooms[0].CurrentTemp != 16.5 {
		t.Fatalf("unexpected first status: %+v", first)
	}
	second := decodeStatus(t, readMessage(t, conn))
	if second.State.Name != models.IdleName || second.State.Heat {
		t.Fatalf("expected the repeated Night status to be skipped, got %+v", second)
	}
}

func TestWebSocket_ReadFailureSendsError(t *testing.T) {
	conn := dialStream(t, &mockMonitoring{err: errors.New("boom")})

	m := readMessage(t, conn)
	if m.Type != msgError || m.Error != errGetState {
		t.Fatalf("expected error message, got %+v", m)
	}
}
