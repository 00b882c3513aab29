package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"warung-service/internal/bot"
	mid "warung-service/internal/middleware"
	"warung-service/internal/model"
	"warung-service/internal/order"
	"warung-service/pkg/config"
	"warung-service/pkg/jwtutil"
)

const testAdminChat = "628123456789@c.us"

type fakeNotifier struct {
	sent []sentMessage
}

type sentMessage struct {
	Number string
	Text   string
}

func (f *fakeNotifier) Send(number, text string) {
	f.sent = append(f.sent, sentMessage{Number: number, Text: text})
}

func (f *fakeNotifier) reset() { f.sent = nil }

func (f *fakeNotifier) lastTo(number string) string {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].Number == number {
			return f.sent[i].Text
		}
	}
	return ""
}

// testApp is the full route table wired against an in-memory store and
// a recording notifier, mirroring the production wiring.
type testApp struct {
	echo     *echo.Echo
	db       *gorm.DB
	notifier *fakeNotifier
	jwt      *jwtutil.JWTUtil
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Mitra{}, &model.Product{}, &model.Order{}))

	cfg := &config.Config{
		JWT:  config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1},
		Auth: config.AuthConfig{AdminPassword: "rahasia123"},
		WhatsApp: config.WhatsAppConfig{
			AdminNumber: "08123456789",
		},
		Server: config.ServerConfig{UploadDir: t.TempDir()},
	}

	log := zap.NewNop()
	notifier := &fakeNotifier{}
	jwtUtil := jwtutil.NewJWTUtil(&cfg.JWT)
	orderService := order.NewService(db, notifier, testAdminChat, log)
	interpreter := bot.NewInterpreter(db, orderService, notifier, &cfg.WhatsApp, log)

	authHandler := NewAuthHandler(cfg, jwtUtil)
	productHandler := NewProductHandler(db, cfg.Server.UploadDir)
	mitraHandler := NewMitraHandler(db)
	orderHandler := NewOrderHandler(orderService)
	webhookHandler := NewWebhookHandler(interpreter)

	e := echo.New()
	api := e.Group("/api")
	admin := api.Group("", mid.AuthMiddleware(jwtUtil))

	api.POST("/login", authHandler.Login)
	api.GET("/products", productHandler.List)
	api.POST("/orders", orderHandler.Create)
	api.POST("/webhook", webhookHandler.Handle)

	admin.POST("/products", productHandler.Create)
	admin.DELETE("/products/:id", productHandler.Delete)
	admin.GET("/mitra", mitraHandler.List)
	admin.POST("/mitra", mitraHandler.Create)
	admin.DELETE("/mitra/:id", mitraHandler.Delete)
	admin.GET("/orders", orderHandler.List)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus)

	e.GET("/health", Health)

	return &testApp{echo: e, db: db, notifier: notifier, jwt: jwtUtil}
}

func (a *testApp) request(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	token, err := a.jwt.GenerateAdminToken()
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/login", "", echo.Map{"password": "rahasia123"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	rec = app.request(t, http.MethodPost, "/api/login", "", echo.Map{"password": "salah"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Password salah!", decodeBody(t, rec)["message"])
}

func TestLoginIssuedTokenOpensAdminRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/login", "", echo.Map{"password": "rahasia123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	rec = app.request(t, http.MethodGet, "/api/orders", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnsetAdminPasswordLocksLogin(t *testing.T) {
	app := newTestApp(t)

	cfg := &config.Config{
		JWT:  config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1},
		Auth: config.AuthConfig{AdminPassword: ""},
	}
	h := NewAuthHandler(cfg, app.jwt)

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"password":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := app.echo.NewContext(req, rec)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	// Missing header.
	rec := app.request(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Akses ditolak.", decodeBody(t, rec)["message"])

	// Malformed header.
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	malformed := httptest.NewRecorder()
	app.echo.ServeHTTP(malformed, req)
	assert.Equal(t, http.StatusUnauthorized, malformed.Code)

	// Well-formed but invalid token.
	rec = app.request(t, http.MethodGet, "/api/orders", "not.a.token", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Token invalid.", decodeBody(t, rec)["message"])
}

// TestCheckoutLifecycle walks a full customer order through the public
// checkout and the admin status update, asserting the paired
// notifications on each step.
func TestCheckoutLifecycle(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/orders", "", echo.Map{
		"namaPelanggan": "Budi",
		"noHp":          "08111111111",
		"alamat":        "Jl. Mawar No. 1",
		"items": []echo.Map{
			{"nama": "Es Teh", "harga": 5000, "qty": 2},
			{"nama": "Nasi Goreng", "harga": 12000, "qty": 1},
		},
		"total": 22000,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "PENDING", data["status"])
	assert.EqualValues(t, 22000, data["total"])
	assert.EqualValues(t, 22000, data["computedTotal"])
	orderID := uint(data["id"].(float64))

	assert.Contains(t, app.notifier.lastTo(testAdminChat), "ORDER MASUK BOS!")
	assert.Contains(t, app.notifier.lastTo("08111111111"), "*PENDING*")
	app.notifier.reset()

	token := app.adminToken(t)
	rec = app.request(t, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", orderID), token, echo.Map{
		"status": "PROCESSED",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Status berhasil diubah", decodeBody(t, rec)["message"])
	assert.Contains(t, app.notifier.lastTo("08111111111"), "*DIPROSES*")

	rec = app.request(t, http.MethodGet, "/api/orders", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decodeBody(t, rec)["data"].([]any)
	require.Len(t, orders, 1)
	assert.Equal(t, "PROCESSED", orders[0].(map[string]any)["status"])
}

func TestCheckoutValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPost, "/api/orders", "", echo.Map{
		"namaPelanggan": "Budi",
		"total":         5000,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Data pelanggan tidak lengkap", decodeBody(t, rec)["message"])
	assert.Empty(t, app.notifier.sent)
}

func TestUpdateStatusErrors(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	rec := app.request(t, http.MethodPatch, "/api/orders/abc/status", token, echo.Map{"status": "PROCESSED"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.request(t, http.MethodPatch, "/api/orders/9999/status", token, echo.Map{"status": "PROCESSED"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order tidak ditemukan", decodeBody(t, rec)["message"])

	rec = app.request(t, http.MethodPatch, "/api/orders/1/status", token, echo.Map{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status diperlukan", decodeBody(t, rec)["message"])

	require.NoError(t, app.db.Create(&model.Order{
		NamaPelanggan: "Budi", NoHp: "0811", Alamat: "Jl. X",
		Total: 1000, Status: model.OrderPending,
	}).Error)
	rec = app.request(t, http.MethodPatch, "/api/orders/1/status", token, echo.Map{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status tidak valid: SHIPPED", decodeBody(t, rec)["message"])
}

func TestProductCatalog(t *testing.T) {
	app := newTestApp(t)

	mitra := model.Mitra{Nama: "Toko Berkah", NoHp: "0815", PersenBagi: 90}
	require.NoError(t, app.db.Create(&mitra).Error)
	require.NoError(t, app.db.Create(&model.Product{
		Nama: "Es Teh", Harga: 5000, Kategori: "minuman", MitraID: &mitra.ID,
	}).Error)
	require.NoError(t, app.db.Create(&model.Product{
		Nama: "Nasi Goreng", Harga: 12000, Kategori: "makanan", IsUnlimited: true,
	}).Error)

	rec := app.request(t, http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].([]any)
	assert.Len(t, data, 2)

	rec = app.request(t, http.MethodGet, "/api/products?kategori=minuman", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].([]any)
	require.Len(t, data, 1)
	p := data[0].(map[string]any)
	assert.Equal(t, "Es Teh", p["nama"])
	assert.Equal(t, "Toko Berkah", p["mitra"].(map[string]any)["nama"])
}

func TestProductCreateMultipart(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("nama", "Kopi Susu"))
	require.NoError(t, w.WriteField("harga", "8000"))
	require.NoError(t, w.WriteField("kategori", "minuman"))
	require.NoError(t, w.WriteField("stok", "25"))
	require.NoError(t, w.WriteField("deskripsi", "Gula aren"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+app.adminToken(t))
	rec := httptest.NewRecorder()
	app.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "Kopi Susu", data["nama"])
	assert.EqualValues(t, 8000, data["harga"])
	assert.EqualValues(t, 25, data["stok"])
	// No image uploaded and no imageUrl supplied: placeholder.
	assert.Equal(t, "https://via.placeholder.com/400", data["imageUrl"])
}

func TestProductCreateRequiresFields(t *testing.T) {
	app := newTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("nama", "Tanpa Harga"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+app.adminToken(t))
	rec := httptest.NewRecorder()
	app.echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Data wajib diisi", decodeBody(t, rec)["message"])
}

func TestProductDelete(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	require.NoError(t, app.db.Create(&model.Product{Nama: "Es Teh", Harga: 5000, Kategori: "minuman"}).Error)

	rec := app.request(t, http.MethodDelete, "/api/products/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(t, http.MethodDelete, "/api/products/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductDeleteRejectsNonNumericID(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	require.NoError(t, app.db.Create(&model.Product{Nama: "Es Teh", Harga: 5000, Kategori: "minuman"}).Error)
	require.NoError(t, app.db.Create(&model.Product{Nama: "Kopi Susu", Harga: 8000, Kategori: "minuman"}).Error)

	// An id that is not a number must be a plain 404. In particular a
	// SQL expression smuggled into the path ("id > 0", URL-encoded)
	// must never reach the store as a condition.
	for _, id := range []string{"abc", "id%20%3E%200", "1%20OR%201=1"} {
		rec := app.request(t, http.MethodDelete, "/api/products/"+id, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "id %q", id)
	}

	var count int64
	require.NoError(t, app.db.Model(&model.Product{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestMitraDeleteRejectsNonNumericID(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	require.NoError(t, app.db.Create(&model.Mitra{Nama: "Toko Berkah", NoHp: "0815", PersenBagi: 90}).Error)

	for _, id := range []string{"abc", "id%20%3E%200"} {
		rec := app.request(t, http.MethodDelete, "/api/mitra/"+id, token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "id %q", id)
	}

	var count int64
	require.NoError(t, app.db.Model(&model.Mitra{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMitraCRUD(t *testing.T) {
	app := newTestApp(t)
	token := app.adminToken(t)

	rec := app.request(t, http.MethodPost, "/api/mitra", token, echo.Map{
		"nama":   "Toko Berkah",
		"noHp":   "08151234567",
		"alamat": "Jl. Kenangan No. 5",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	// persenBagi omitted: the default revenue share applies.
	assert.EqualValues(t, model.DefaultPersenBagi, data["persenBagi"])

	rec = app.request(t, http.MethodPost, "/api/mitra", token, echo.Map{
		"nama": "Tanpa HP",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nama dan No HP wajib diisi", decodeBody(t, rec)["message"])

	rec = app.request(t, http.MethodPost, "/api/mitra", token, echo.Map{
		"nama":       "Serakah",
		"noHp":       "0816",
		"persenBagi": 150,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.request(t, http.MethodGet, "/api/mitra", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["data"].([]any), 1)

	rec = app.request(t, http.MethodDelete, "/api/mitra/1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = app.request(t, http.MethodDelete, "/api/mitra/1", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookAcknowledgesEverything(t *testing.T) {
	app := newTestApp(t)

	// A non-admin message is a business-rule miss, still 200 OK.
	payload, _ := json.Marshal(bot.Message{From: "628999@c.us", Body: "!list", FromMe: false})
	rec := app.request(t, http.MethodPost, "/api/webhook", "", echo.Map{
		"event":   "message.any",
		"payload": json.RawMessage(payload),
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	// An unknown event shape is acknowledged too.
	rec = app.request(t, http.MethodPost, "/api/webhook", "", echo.Map{
		"event":   "session.status",
		"payload": echo.Map{"name": "default"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookRunsAdminCommands(t *testing.T) {
	app := newTestApp(t)

	require.NoError(t, app.db.Create(&model.Order{
		NamaPelanggan: "Budi", NoHp: "08111111111", Alamat: "Jl. X",
		Total: 10000, Status: model.OrderPending,
	}).Error)

	payload, _ := json.Marshal(bot.Message{From: testAdminChat, Body: "!selesai 1", FromMe: false})
	rec := app.request(t, http.MethodPost, "/api/webhook", "", echo.Map{
		"event":   "message.any",
		"payload": json.RawMessage(payload),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	require.NoError(t, app.db.First(&updated, 1).Error)
	assert.Equal(t, model.OrderCompleted, updated.Status)
	assert.Contains(t, app.notifier.lastTo("08111111111"), "*SELESAI/DIKIRIM*")
	assert.Contains(t, app.notifier.lastTo(testAdminChat), "✅ Order #1 -> COMPLETED.")
}
