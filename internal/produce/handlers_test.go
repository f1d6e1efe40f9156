package produce_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KopiTrack/KT-Backend/internal/auth"
	"github.com/KopiTrack/KT-Backend/internal/db"
	"github.com/KopiTrack/KT-Backend/internal/farm"
	"github.com/KopiTrack/KT-Backend/internal/produce"
	"github.com/KopiTrack/KT-Backend/internal/registry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var testServer *httptest.Server

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "producetest")
	if err != nil {
		fmt.Println("mkdtemp:", err)
		os.Exit(1)
	}

	gdb, err := db.OpenSQLite(filepath.Join(dir, "test.db"))
	if err != nil {
		fmt.Println("open sqlite:", err)
		os.Exit(1)
	}
	db.DB = gdb

	auth.Init()
	registry.Init()
	farm.Init()
	produce.Init()

	r := chi.NewRouter()
	r.Mount("/productivities", produce.SetupRoutes())
	testServer = httptest.NewServer(r)

	code := m.Run()
	testServer.Close()
	os.RemoveAll(dir)
	os.Exit(code)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func seedUser(t *testing.T, admin bool) (userID, sessionID string) {
	t.Helper()
	userID = uuid.NewString()
	sessionID = uuid.NewString()

	user := auth.User{
		UUID:         userID,
		Name:         "Test User",
		Email:        fmt.Sprintf("user_%s@example.com", userID[:8]),
		PasswordHash: "unused",
		IsAdmin:      admin,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	session := auth.Session{
		SessionID: sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := db.DB.Create(&session).Error; err != nil {
		t.Fatalf("create test session: %v", err)
	}
	return userID, sessionID
}

// seedFarm inserts a farm with the given area owned by a fresh farmer.
func seedFarm(t *testing.T, area float64) (farm.Farm, string) {
	t.Helper()
	farmerID, farmerSession := seedUser(t, false)

	district := registry.District{
		UUID:         uuid.NewString(),
		DistrictCode: fmt.Sprintf("KEC%s", uuid.NewString()[:8]),
		DistrictName: "Cisarua",
	}
	if err := db.DB.Create(&district).Error; err != nil {
		t.Fatalf("create district: %v", err)
	}

	f := farm.Farm{
		UUID:             uuid.NewString(),
		FarmerID:         farmerID,
		DistrictID:       district.UUID,
		FarmArea:         area,
		InputCoordinates: `{"type":"Point","coordinates":[106.8,-6.2]}`,
		Status:           farm.StatusPendingVerification,
	}
	if err := db.DB.Create(&f).Error; err != nil {
		t.Fatalf("create farm: %v", err)
	}
	return f, farmerSession
}

func request(t *testing.T, method, path, sessionID string, payload interface{}) (int, envelope) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, testServer.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope from %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

// TestCreateProductivityDerivesFigure verifies 100 kg on a 20 ha farm is
// stored as 5.0 kg/ha.
func TestCreateProductivityDerivesFigure(t *testing.T) {
	f, session := seedFarm(t, 20.0)

	status, env := request(t, http.MethodPost, "/productivities", session, map[string]interface{}{
		"farm_id":           f.UUID,
		"harvest_date":      "2026-05-10",
		"production_amount": 100.0,
		"selling_price":     45000.0,
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", status, env.Message)
	}

	var record produce.Productivity
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.Productivity != 5.0 {
		t.Errorf("expected productivity 5.0, got %v", record.Productivity)
	}
	if env.Message != "" {
		t.Errorf("unexpected warning on clean payload: %q", env.Message)
	}
}

// TestCreateProductivityMismatchWarning verifies a disagreeing client figure
// is replaced by the computed one and flagged, not rejected.
func TestCreateProductivityMismatchWarning(t *testing.T) {
	f, session := seedFarm(t, 20.0)

	status, env := request(t, http.MethodPost, "/productivities", session, map[string]interface{}{
		"farm_id":           f.UUID,
		"harvest_date":      "2026-05-10",
		"production_amount": 100.0,
		"selling_price":     45000.0,
		"productivity":      9.99,
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if !strings.Contains(env.Message, "disagrees with computed") {
		t.Errorf("expected mismatch warning, got %q", env.Message)
	}

	var record produce.Productivity
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record.Productivity != 5.0 {
		t.Errorf("computed value not stored: %v", record.Productivity)
	}
}

// TestCreateProductivityValidation covers required fields, date format and
// negative amounts.
func TestCreateProductivityValidation(t *testing.T) {
	f, session := seedFarm(t, 20.0)

	cases := []struct {
		name    string
		payload map[string]interface{}
		want    int
	}{
		{"missing farm", map[string]interface{}{
			"harvest_date": "2026-05-10", "production_amount": 10.0, "selling_price": 1.0,
		}, http.StatusBadRequest},
		{"bad date", map[string]interface{}{
			"farm_id": f.UUID, "harvest_date": "10/05/2026", "production_amount": 10.0, "selling_price": 1.0,
		}, http.StatusBadRequest},
		{"negative amount", map[string]interface{}{
			"farm_id": f.UUID, "harvest_date": "2026-05-10", "production_amount": -10.0, "selling_price": 1.0,
		}, http.StatusBadRequest},
		{"unknown farm", map[string]interface{}{
			"farm_id": uuid.NewString(), "harvest_date": "2026-05-10", "production_amount": 10.0, "selling_price": 1.0,
		}, http.StatusNotFound},
	}

	for _, tc := range cases {
		status, _ := request(t, http.MethodPost, "/productivities", session, tc.payload)
		if status != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, status)
		}
	}
}

// TestUpdateProductivityRecomputes verifies a changed production amount
// re-derives the figure from the farm's current area.
func TestUpdateProductivityRecomputes(t *testing.T) {
	f, session := seedFarm(t, 20.0)

	_, env := request(t, http.MethodPost, "/productivities", session, map[string]interface{}{
		"farm_id":           f.UUID,
		"harvest_date":      "2026-05-10",
		"production_amount": 100.0,
		"selling_price":     45000.0,
	})
	var record produce.Productivity
	if err := json.Unmarshal(env.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}

	status, _ := request(t, http.MethodPut, "/productivities/"+record.UUID, session, map[string]interface{}{
		"production_amount": 240.0,
	})
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", status)
	}

	var reloaded produce.Productivity
	if err := db.DB.First(&reloaded, "uuid = ?", record.UUID).Error; err != nil {
		t.Fatalf("reload record: %v", err)
	}
	if reloaded.Productivity != 12.0 {
		t.Errorf("expected recomputed 12.0, got %v", reloaded.Productivity)
	}
}

// TestSummaryPerFarmer verifies the aggregate figures over one farmer's
// records: totals sum, averages divide by the record count.
func TestSummaryPerFarmer(t *testing.T) {
	f, session := seedFarm(t, 10.0)

	for _, harvest := range []struct {
		date   string
		amount float64
		price  float64
	}{
		{"2026-04-01", 100.0, 40000.0},
		{"2026-05-01", 200.0, 50000.0},
	} {
		status, _ := request(t, http.MethodPost, "/productivities", session, map[string]interface{}{
			"farm_id":           f.UUID,
			"harvest_date":      harvest.date,
			"production_amount": harvest.amount,
			"selling_price":     harvest.price,
		})
		if status != http.StatusCreated {
			t.Fatalf("create harvest: expected 201, got %d", status)
		}
	}

	status, env := request(t, http.MethodGet, "/productivities/summary?farmer_id="+f.FarmerID, "", nil)
	if status != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", status)
	}

	var summary produce.Summary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.RecordCount != 2 {
		t.Fatalf("expected 2 records, got %d", summary.RecordCount)
	}
	if summary.TotalProduction != 300.0 {
		t.Errorf("total production: expected 300, got %v", summary.TotalProduction)
	}
	wantRevenue := 100.0*40000.0 + 200.0*50000.0
	if summary.TotalRevenue != wantRevenue {
		t.Errorf("total revenue: expected %v, got %v", wantRevenue, summary.TotalRevenue)
	}
	// (10 + 20) / 2 kg/ha
	if math.Abs(summary.AvgProductivity-15.0) > 1e-9 {
		t.Errorf("avg productivity: expected 15, got %v", summary.AvgProductivity)
	}
	if math.Abs(summary.AvgPrice-45000.0) > 1e-9 {
		t.Errorf("avg price: expected 45000, got %v", summary.AvgPrice)
	}
}

// TestExportReport verifies the admin export is a readable XLSX workbook with
// the expected sheet and header row.
func TestExportReport(t *testing.T) {
	_, adminSession := seedUser(t, true)
	f, session := seedFarm(t, 20.0)
	request(t, http.MethodPost, "/productivities", session, map[string]interface{}{
		"farm_id":           f.UUID,
		"harvest_date":      "2026-06-01",
		"production_amount": 150.0,
		"selling_price":     42000.0,
	})

	req, err := http.NewRequest(http.MethodGet, testServer.URL+"/productivities/export", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: "session_id", Value: adminSession})

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("unexpected content type %q", ct)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	book, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer book.Close()

	header, err := book.GetCellValue("Harvests", "A1")
	if err != nil {
		t.Fatalf("read header cell: %v", err)
	}
	if header != "Harvest Date" {
		t.Errorf("unexpected header cell: %q", header)
	}
	rows, err := book.GetRows("Harvests")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) < 2 {
		t.Errorf("expected header plus at least one record, got %d rows", len(rows))
	}
}

// TestExportRequiresAdmin verifies a farmer session cannot export.
func TestExportRequiresAdmin(t *testing.T) {
	_, session := seedFarm(t, 20.0)

	status, _ := request(t, http.MethodGet, "/productivities/export", session, nil)
	if status != http.StatusForbidden {
		t.Errorf("expected 403, got %d", status)
	}
}
