package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"realty_gateway/internal/gateway"
	"realty_gateway/internal/model"
	"realty_gateway/pkg/config"
	"realty_gateway/pkg/logger"
	"realty_gateway/pkg/schema"
	"realty_gateway/pkg/utils/jwt"
)

const (
	adminEmail    = "agent@example.com"
	adminPassword = "correct horse"
)

type testApp struct {
	app    *fiber.App
	gw     *mockGateway
	tokens *jwt.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	schemas, err := schema.New()
	require.NoError(t, err)

	gw := &mockGateway{}
	tokens := jwt.NewManager("test-secret", time.Hour)
	log := logger.Discard()

	app := fiber.New()
	SetupRoutes(app, Handlers{
		Auth:       NewAuthController(config.AdminConfig{Email: adminEmail, PasswordHash: string(hash)}, tokens, log),
		Properties: NewPropertyController(gw, schemas, log),
		Enquiries:  NewEnquiryController(gw, schemas),
		Newsletter: NewNewsletterController(gw, schemas),
		Uploads:    NewUploadController(gw, false, log),
	}, tokens)

	t.Cleanup(func() { gw.AssertExpectations(t) })
	return &testApp{app: app, gw: gw, tokens: tokens}
}

func (ta *testApp) do(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &parsed))
	}
	return resp, parsed
}

func (ta *testApp) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := ta.tokens.GenerateToken(adminEmail)
	require.NoError(t, err)
	return token
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestListActiveProperties(t *testing.T) {
	ta := newTestApp(t)
	ta.gw.On("FetchActiveProperties", mock.Anything).Return([]model.Property{{ID: "p1", Location: "Leeds"}}).Once()

	resp, err := ta.app.Test(httptest.NewRequest(http.MethodGet, "/api/properties", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var props []model.Property
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&props))
	require.Len(t, props, 1)
	assert.Equal(t, "Leeds", props[0].Location)
}

func TestGetProperty(t *testing.T) {
	ta := newTestApp(t)
	ta.gw.On("FetchPropertyByID", mock.Anything, "p1").Return(&model.Property{ID: "p1"}).Once()
	ta.gw.On("FetchPropertyByID", mock.Anything, "missing").Return(nil).Once()

	resp, _ := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/properties/p1", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body := ta.do(t, httptest.NewRequest(http.MethodGet, "/api/properties/missing", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Property not found", body["error"])
}

func TestRecordView(t *testing.T) {
	ta := newTestApp(t)
	ta.gw.On("TrackPropertyView", mock.Anything, "p1", "test-agent").
		Return(gateway.Outcome{OK: true, Secondary: []gateway.StepError{{Step: gateway.StepInsertAnalytics, Err: errors.New("down")}}}).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/properties/p1/view", nil)
	req.Header.Set("User-Agent", "test-agent")
	resp, _ := ta.do(t, req)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestSubmitEnquiry(t *testing.T) {
	ta := newTestApp(t)
	ta.gw.On("SubmitEnquiry", mock.Anything, mock.MatchedBy(func(e model.EnquiryData) bool {
		return e.Name == "Ada" && e.PropertyID != nil && *e.PropertyID == "p1"
	})).Return(gateway.Outcome{OK: true}).Once()

	resp, body := ta.do(t, jsonRequest(http.MethodPost, "/api/enquiries",
		`{"name":"Ada","email":"ada@example.com","phone":"0113","property_id":"p1"}`))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Enquiry submitted successfully", body["message"])
}

func TestSubmitEnquiry_Invalid(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, jsonRequest(http.MethodPost, "/api/enquiries", `{"name":"Ada","email":"nope"}`))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid input", body["error"])
	assert.NotEmpty(t, body["details"])
	ta.gw.AssertNotCalled(t, "SubmitEnquiry", mock.Anything, mock.Anything)
}

func TestSubmitEnquiry_GatewayFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.gw.On("SubmitEnquiry", mock.Anything, mock.Anything).Return(gateway.Outcome{}).Once()

	resp, _ := ta.do(t, jsonRequest(http.MethodPost, "/api/enquiries", `{"name":"Ada","email":"ada@example.com","phone":"0113"}`))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestNewsletterSubscribe(t *testing.T) {
	ta := newTestApp(t)
	ta.gw.On("SubscribeToNewsletter", mock.Anything, "ada@example.com", (*string)(nil)).Return(gateway.Outcome{OK: true}).Once()

	resp, _ := ta.do(t, jsonRequest(http.MethodPost, "/api/newsletter/subscribe", `{"email":"ada@example.com"}`))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ta := newTestApp(t)

	for _, target := range []string{"/api/admin/properties", "/api/admin/enquiries", "/api/admin/newsletter"} {
		resp, _ := ta.do(t, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, target)

		resp, _ = ta.do(t, withToken(httptest.NewRequest(http.MethodGet, target, nil), "not-a-token"))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, target)
	}
}

func TestLogin(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, jsonRequest(http.MethodPost, "/api/auth/login",
		`{"email":"Agent@Example.com","password":"correct horse"}`))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = ta.do(t, withToken(httptest.NewRequest(http.MethodGet, "/api/admin/me", nil), token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, adminEmail, body["email"])

	resp, _ = ta.do(t, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"agent@example.com","password":"wrong"}`))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListings(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)
	ta.gw.On("FetchAllProperties", mock.Anything).Return([]model.Property{{ID: "p1"}, {ID: "p2"}}).Once()
	ta.gw.On("FetchEnquiries", mock.Anything).Return([]datatypes.JSONMap{{"name": "Ada"}}).Once()
	ta.gw.On("FetchNewsletterSubscriptions", mock.Anything).Return([]datatypes.JSONMap{}).Once()

	resp, err := ta.app.Test(withToken(httptest.NewRequest(http.MethodGet, "/api/admin/properties", nil), token), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var props []model.Property
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&props))
	assert.Len(t, props, 2)

	resp, err = ta.app.Test(withToken(httptest.NewRequest(http.MethodGet, "/api/admin/enquiries", nil), token), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = ta.app.Test(withToken(httptest.NewRequest(http.MethodGet, "/api/admin/newsletter", nil), token), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", string(raw))
}

func TestCreateProperty(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)
	ta.gw.On("AddProperty", mock.Anything, mock.MatchedBy(func(d model.NewPropertyData) bool {
		return d.Location == "Leeds" && d.Bedrooms == 3 && string(d.NeighborhoodInfo) == `{"schools":2}`
	})).Return(gateway.Outcome{OK: true}).Once()

	body := `{"price":"$450,000","location":"Leeds","type":"House","bedrooms":3,"bathrooms":2,"sqft":1800,"neighborhood_info":{"schools":2}}`
	resp, _ := ta.do(t, withToken(jsonRequest(http.MethodPost, "/api/admin/properties", body), token))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = ta.do(t, withToken(jsonRequest(http.MethodPost, "/api/admin/properties", `{"location":"Leeds"}`), token))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateProperty(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)
	ta.gw.On("UpdateProperty", mock.Anything, "p1", mock.MatchedBy(func(u model.PropertyUpdate) bool {
		return u.Bedrooms != nil && *u.Bedrooms == 4 && u.Price == nil
	})).Return(gateway.Outcome{OK: true}).Once()
	ta.gw.On("UpdateProperty", mock.Anything, "p2", mock.Anything).Return(gateway.Outcome{}).Once()

	resp, _ := ta.do(t, withToken(jsonRequest(http.MethodPut, "/api/admin/properties/p1", `{"bedrooms":4}`), token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = ta.do(t, withToken(jsonRequest(http.MethodPut, "/api/admin/properties/p2", `{"bedrooms":4}`), token))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestUpdateProperty_NullClearsField(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)
	ta.gw.On("UpdateProperty", mock.Anything, "p1", mock.MatchedBy(func(u model.PropertyUpdate) bool {
		return u.Description == nil && assert.ObjectsAreEqual([]string{"description", "year_built"}, u.Cleared)
	})).Return(gateway.Outcome{OK: true}).Once()

	resp, _ := ta.do(t, withToken(jsonRequest(http.MethodPut, "/api/admin/properties/p1", `{"description":null,"year_built":null}`), token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestDeleteProperty(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)
	ta.gw.On("DeleteProperty", mock.Anything, "p1").Return(gateway.Outcome{
		OK:        true,
		Secondary: []gateway.StepError{{Step: gateway.StepRemoveImage, Err: errors.New("denied")}},
	}).Once()

	resp, body := ta.do(t, withToken(httptest.NewRequest(http.MethodDelete, "/api/admin/properties/p1", nil), token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{gateway.StepRemoveImage}, body["warnings"])
}

func multipartImage(t *testing.T, name string, content []byte, folder string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if folder != "" {
		require.NoError(t, w.WriteField("folder", folder))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadPropertyImage(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)

	var png8 bytes.Buffer
	require.NoError(t, png.Encode(&png8, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	ta.gw.On("UploadImage", mock.Anything, mock.MatchedBy(func(f gateway.ImageFile) bool {
		return f.Name == "house.png" && f.ContentType == "image/png"
	}), "listings").Return("https://cdn.example.com/property-images/listings/1.png", true).Once()

	resp, body := ta.do(t, withToken(multipartImage(t, "house.png", png8.Bytes(), "listings"), token))
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://cdn.example.com/property-images/listings/1.png", body["url"])

	resp, _ = ta.do(t, withToken(multipartImage(t, "notes.txt", []byte("hello"), ""), token))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUploadPropertyImage_GatewayFailure(t *testing.T) {
	ta := newTestApp(t)
	token := ta.adminToken(t)

	var png8 bytes.Buffer
	require.NoError(t, png.Encode(&png8, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	ta.gw.On("UploadImage", mock.Anything, mock.Anything, "").Return("", false).Once()

	resp, body := ta.do(t, withToken(multipartImage(t, "house.png", png8.Bytes(), ""), token))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Could not upload image", body["error"])
}
