package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"home_thermostat/internal/models"
	"home_thermostat/internal/service"
	"home_thermostat/internal/thermostat"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockThermostat struct {
	result       service.CycleResult
	temps        thermostat.RoomTemps
	err          error
	cycleCalls   int
	refreshCalls int
	updateCalls  int
}

func (m *mockThermostat) RefreshRooms(ctx context.Context) (thermostat.RoomTemps, error) {
	m.refreshCalls++
	return m.temps, m.err
}
func (m *mockThermostat) Update(ctx context.Context) (service.CycleResult, error) {
	m.updateCalls++
	return m.result, m.err
}
func (m *mockThermostat) Cycle(ctx context.Context) (service.CycleResult, error) {
	m.cycleCalls++
	return m.result, m.err
}

type mockOverrides struct {
	result      service.CycleResult
	err         error
	lastFlags   models.Flags
	lastBand    service.BandParams
	setCalls    int
	tempCalls   int
	resumeCalls int
}

func (m *mockOverrides) SetState(ctx context.Context, flags models.Flags) (service.CycleResult, error) {
	m.setCalls++
	m.lastFlags = flags
	return m.result, m.err
}
func (m *mockOverrides) SetTemp(ctx context.Context, p service.BandParams) (service.CycleResult, error) {
	m.tempCalls++
	m.lastBand = p
	return m.result, m.err
}
func (m *mockOverrides) Resume(ctx context.Context) (service.CycleResult, error) {
	m.resumeCalls++
	return m.result, m.err
}

// mockMonitoring returns seq in order, repeating the last entry, or status when seq is empty.
type mockMonitoring struct {
	mu     sync.Mutex
	status service.Status
	seq    []service.Status
	err    error
	calls  int
}

func (m *mockMonitoring) GetState(ctx context.Context) (service.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.calls
	m.calls++
	if len(m.seq) > 0 {
		return m.seq[min(i, len(m.seq)-1)], nil
	}
	return m.status, m.err
}

// mockAdmin implements the Rooms, Modes, Schedule and Pins services.
type mockAdmin struct {
	err error

	rooms   []models.Room
	modes   []models.Mode
	entries []models.ScheduleEntry
	pins    []models.PinMapping

	lastRoomName    string
	lastRoomAddress string
	lastMode        models.Mode
	lastEntry       models.ScheduleEntry
	lastDeletedID   int
	lastPin         models.PinMapping
}

func (m *mockAdmin) ListRooms(ctx context.Context) ([]models.Room, error) {
	return m.rooms, m.err
}
func (m *mockAdmin) CreateRoom(ctx context.Context, name, address string) (int, error) {
	m.lastRoomName, m.lastRoomAddress = name, address
	return 3, m.err
}
func (m *mockAdmin) RenameRoom(ctx context.Context, address, name string) error {
	m.lastRoomName, m.lastRoomAddress = name, address
	return m.err
}
func (m *mockAdmin) DeleteRoom(ctx context.Context, address string) error {
	m.lastRoomAddress = address
	return m.err
}
func (m *mockAdmin) ListModes(ctx context.Context) ([]models.Mode, error) {
	return m.modes, m.err
}
func (m *mockAdmin) CreateMode(ctx context.Context, mode models.Mode) error {
	m.lastMode = mode
	return m.err
}
func (m *mockAdmin) UpdateMode(ctx context.Context, mode models.Mode) error {
	m.lastMode = mode
	return m.err
}
func (m *mockAdmin) DeleteMode(ctx context.Context, name string) error {
	m.lastMode = models.Mode{Name: name}
	return m.err
}
func (m *mockAdmin) ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error) {
	return m.entries, m.err
}
func (m *mockAdmin) AddScheduleEntry(ctx context.Context, e models.ScheduleEntry) (int, error) {
	m.lastEntry = e
	return 9, m.err
}
func (m *mockAdmin) DeleteScheduleEntry(ctx context.Context, id int) error {
	m.lastDeletedID = id
	return m.err
}
func (m *mockAdmin) ListPins(ctx context.Context) ([]models.PinMapping, error) {
	return m.pins, m.err
}
func (m *mockAdmin) SetPin(ctx context.Context, p models.PinMapping) error {
	m.lastPin = p
	return m.err
}

type mockEventLog struct {
	resp     []models.ThermostatEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ThermostatEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// doAuthed serves one request carrying a valid bearer token.
func doAuthed(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
