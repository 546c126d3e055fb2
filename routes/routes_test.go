package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hotel-backoffice/controllers"
	"hotel-backoffice/models"
	"hotel-backoffice/repository"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"
)

type testServer struct {
	router *gin.Engine
	token  string
	guest  models.Guest
	suite  models.Room
	other  models.Room
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := repository.NewMemoryStore()

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := store.CreateStaff(ctx, &models.Staff{FullName: "Front Desk", Username: "front@hotel.local", Password: hash, Role: "Receptionist"}); err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	rt := models.RoomType{TypeName: "Suite", BasePrice: decimal.NewFromInt(5500), Capacity: 2}
	if err := store.CreateRoomType(ctx, &rt); err != nil {
		t.Fatalf("CreateRoomType: %v", err)
	}
	ts := &testServer{
		guest: models.Guest{FirstName: "Somchai", LastName: "Jaidee"},
		suite: models.Room{RoomNumber: "101", TypeID: rt.ID, Status: models.RoomAvailable},
		other: models.Room{RoomNumber: "102", TypeID: rt.ID, Status: models.RoomAvailable},
	}
	for _, room := range []*models.Room{&ts.suite, &ts.other} {
		if err := store.CreateRoom(ctx, room); err != nil {
			t.Fatalf("CreateRoom: %v", err)
		}
	}
	if err := store.CreateGuest(ctx, &ts.guest); err != nil {
		t.Fatalf("CreateGuest: %v", err)
	}

	opts := services.Options{
		Now:      func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	}
	// sessions are checked against the wall clock
	auth := services.NewAuthService(store, "test-secret", time.Hour, services.Options{Location: time.UTC})

	ts.router = SetupRouter(Handlers{
		Rooms:        controllers.NewRoomController(services.NewRoomService(store, opts), time.UTC),
		Guests:       controllers.NewGuestController(services.NewGuestService(store, opts)),
		Reservations: controllers.NewReservationController(services.NewReservationService(store, services.NewLocalLocker(), opts), services.NewLedgerService(store, opts)),
		Auth:         controllers.NewAuthController(auth),
		Stats:        controllers.NewStatsController(services.NewStatsService(store, opts)),
		Session:      auth,
	})

	w := ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "front@hotel.local", "password": "admin123"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)
	if login.Token == "" {
		t.Fatalf("login returned no token")
	}
	ts.token = login.Token
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func (ts *testServer) book(t *testing.T, roomID uint, in, out string) *httptest.ResponseRecorder {
	t.Helper()
	return ts.do(t, http.MethodPost, "/api/reservations", map[string]interface{}{
		"guest_id":       ts.guest.ID,
		"room_id":        roomID,
		"check_in_date":  in,
		"check_out_date": out,
	})
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	if w := ts.do(t, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSecuredRoutesNeedSession(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token

	ts.token = ""
	if w := ts.do(t, http.MethodGet, "/api/rooms", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
	ts.token = token + "x"
	if w := ts.do(t, http.MethodGet, "/api/rooms", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with tampered token, got %d", w.Code)
	}

	ts.token = token
	w := ts.do(t, http.MethodGet, "/api/auth/me", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var me map[string]interface{}
	decode(t, w, &me)
	if me["username"] != "front@hotel.local" {
		t.Fatalf("unexpected me payload %v", me)
	}
	if _, leaked := me["password"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.token = ""
	w := ts.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "front@hotel.local", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateReservationPricesStay(t *testing.T) {
	ts := newTestServer(t)

	w := ts.book(t, ts.suite.ID, "2024-03-10", "2024-03-13")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var body map[string]interface{}
	decode(t, w, &body)
	if body["total_amount"] != float64(16500) || body["nights"] != float64(3) {
		t.Fatalf("unexpected pricing %v", body)
	}
	if body["status"] != string(models.StatusConfirmed) {
		t.Fatalf("expected Confirmed, got %v", body["status"])
	}

	w = ts.book(t, ts.suite.ID, "2024-03-12", "2024-03-14")
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping stay, got %d: %s", w.Code, w.Body.String())
	}

	w = ts.book(t, ts.suite.ID, "2024-03-13", "2024-03-10")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for reversed dates, got %d", w.Code)
	}
}

func TestRoomsDateFilter(t *testing.T) {
	ts := newTestServer(t)
	if w := ts.book(t, ts.suite.ID, "2024-03-10", "2024-03-13"); w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}

	w := ts.do(t, http.MethodGet, "/api/rooms?check_in=2024-03-11&check_out=2024-03-12", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rooms []map[string]interface{}
	decode(t, w, &rooms)
	if len(rooms) != 1 || rooms[0]["room_number"] != "102" {
		t.Fatalf("expected only room 102 free, got %v", rooms)
	}
	roomType, ok := rooms[0]["type"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected the joined room type under \"type\", got %v", rooms[0])
	}
	if roomType["type_id"] != float64(ts.other.TypeID) || roomType["type_name"] != "Suite" || roomType["base_price"] != float64(5500) {
		t.Fatalf("unexpected room type shape %v", roomType)
	}
	if rooms[0]["floor"] != "1" {
		t.Fatalf("expected floor 1, got %v", rooms[0]["floor"])
	}

	if w := ts.do(t, http.MethodGet, "/api/rooms?check_in=2024-03-11", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for half a date range, got %d", w.Code)
	}
}

func TestRoomEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/rooms", map[string]interface{}{"room_number": "101", "type_id": ts.suite.TypeID})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate room, got %d", w.Code)
	}
	var errBody map[string]interface{}
	decode(t, w, &errBody)
	if errBody["error"] != "Room Number '101' already exists." {
		t.Fatalf("unexpected error body %v", errBody)
	}

	w = ts.do(t, http.MethodPatch, "/api/rooms/"+idString(ts.other.ID), map[string]string{"status": "Broken"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
	w = ts.do(t, http.MethodPatch, "/api/rooms/"+idString(ts.other.ID), map[string]string{"status": "Dirty"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := ts.do(t, http.MethodGet, "/api/rooms/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/api/rooms/999", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGuestWithReservationCannotBeDeleted(t *testing.T) {
	ts := newTestServer(t)
	if w := ts.book(t, ts.suite.ID, "2024-03-10", "2024-03-13"); w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	w := ts.do(t, http.MethodDelete, "/api/guests/"+idString(ts.guest.ID), nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGuestPartialUpdate(t *testing.T) {
	ts := newTestServer(t)
	path := "/api/guests/" + idString(ts.guest.ID)

	w := ts.do(t, http.MethodPatch, path, map[string]string{"phone": "0812345678"})
	if w.Code != http.StatusOK {
		t.Fatalf("PATCH: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var g map[string]interface{}
	decode(t, w, &g)
	if g["phone"] != "0812345678" || g["first_name"] != "Somchai" {
		t.Fatalf("expected phone updated and name kept, got %v", g)
	}

	w = ts.do(t, http.MethodPut, path, map[string]string{"email": "somchai@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &g)
	if g["email"] != "somchai@example.com" || g["phone"] != "0812345678" {
		t.Fatalf("unexpected guest after PUT %v", g)
	}
}

func TestLedgerFolio(t *testing.T) {
	ts := newTestServer(t)
	w := ts.book(t, ts.suite.ID, "2024-03-10", "2024-03-11")
	if w.Code != http.StatusCreated {
		t.Fatalf("book: %d %s", w.Code, w.Body.String())
	}
	var created struct {
		ID uint `json:"res_id"`
	}
	decode(t, w, &created)
	base := "/api/reservations/" + idString(created.ID)

	if w := ts.do(t, http.MethodPost, base+"/charges", map[string]interface{}{"description": "Minibar", "amount": 250}); w.Code != http.StatusCreated {
		t.Fatalf("charge: %d %s", w.Code, w.Body.String())
	}
	if w := ts.do(t, http.MethodPost, base+"/payments", map[string]interface{}{"amount": 0, "method": "Cash"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero payment, got %d", w.Code)
	}
	w = ts.do(t, http.MethodPost, base+"/payments", map[string]interface{}{"amount": 1000, "method": "Cash", "reference": "R-1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("payment: %d %s", w.Code, w.Body.String())
	}
	var payment map[string]interface{}
	decode(t, w, &payment)
	if payment["method"] != "Cash" || payment["reference"] != "R-1" {
		t.Fatalf("expected method and reference echoed back, got %v", payment)
	}

	w = ts.do(t, http.MethodGet, base+"/folio", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("folio: %d %s", w.Code, w.Body.String())
	}
	var folio map[string]interface{}
	decode(t, w, &folio)
	if folio["balance"] != float64(4750) {
		t.Fatalf("expected balance 4750, got %v", folio)
	}
}

func idString(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
