package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infrajwt "github.com/ZP-ING/reportebuenaventura-backend/infrastructure/jwt"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/api"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/classifier"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/complaint"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/importer"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/stats"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/testhelpers"
)

const testSecret = "test-secret"

type testServer struct {
	router *gin.Engine
	store  *testhelpers.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testhelpers.NewMemoryStore()
	dir, err := directory.Load(context.Background(), store, nil)
	require.NoError(t, err)

	keyword := classifier.NewKeywordClassifier(classifier.DefaultKeywords(), dir, nil)
	orchestrator := classifier.NewOrchestrator(keyword, nil, classifier.OrchestratorConfig{}, nil, nil)
	complaints := complaint.NewService(complaint.Deps{
		Complaints: store,
		Comments:   store,
		Classifier: orchestrator,
		Directory:  dir,
	})
	manager := directory.NewManager(dir, store, store, nil)
	handler := api.NewHandler(complaints, dir, manager, stats.NewService(store, dir, nil, nil), nil)

	router := gin.New()
	api.SetupRoutes(router, handler, testSecret)
	return &testServer{router: router, store: store}
}

func token(t *testing.T, subject, role string) string {
	t.Helper()

	signed, err := infrajwt.Sign(testSecret, infrajwt.Claims{
		Email:            subject + "@example.com",
		Name:             subject,
		Role:             role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
	}, time.Hour)
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createComplaint(t *testing.T, bearer string) domain.Complaint {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/complaints", bearer, api.CreateComplaintRequest{
		Title:       "Fuga de agua",
		Description: "Tubería rota frente a la escuela",
		Location:    domain.Location{Latitude: 3.88, Longitude: -77.03},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Complaint](t, rec)
}

func TestCreateAndReadComplaint(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	citizen := token(t, "user-1", "")

	created := srv.createComplaint(t, citizen)
	assert.Equal(t, "Agua Potable", created.Category)
	assert.Equal(t, "acueducto-alcantarillado", created.Entity.ID)
	assert.Equal(t, "user-1", created.Submitter.ID)
	assert.Equal(t, domain.StatusReceived, created.Status)

	rec := srv.do(t, http.MethodGet, "/api/v1/complaints/"+created.ID, citizen, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[domain.Complaint](t, rec).ID)

	rec = srv.do(t, http.MethodGet, "/api/v1/complaints?mine=true", citizen, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[api.ComplaintsResponse](t, rec).Total)

	rec = srv.do(t, http.MethodGet, "/api/v1/complaints?owner_id=someone-else", citizen, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[api.ComplaintsResponse](t, rec).Total)
}

func TestAuthenticationRequired(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/v1/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/complaints", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEntitiesArePublic(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/api/v1/entities", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, len(directory.SeedCatalog()), decode[api.EntitiesResponse](t, rec).Total)

	rec = srv.do(t, http.MethodGet, "/api/v1/entities/policia-nacional", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/entities/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	citizen := token(t, "user-1", "")
	other := token(t, "user-2", "")
	admin := token(t, "admin-1", infrajwt.RoleAdmin)
	created := srv.createComplaint(t, citizen)
	base := "/api/v1/complaints/" + created.ID

	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		body   any
		status int
		code   string
	}{
		{"malformed body", http.MethodPost, "/api/v1/complaints", citizen, "{", http.StatusBadRequest, "INVALID_REQUEST"},
		{
			"missing title", http.MethodPost, "/api/v1/complaints", citizen,
			api.CreateComplaintRequest{Description: "x"}, http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"image is not a URL", http.MethodPost, "/api/v1/complaints", citizen,
			api.CreateComplaintRequest{Title: "Hueco", Description: "x", Images: []string{"foto.jpg"}},
			http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{"unknown complaint", http.MethodGet, "/api/v1/complaints/nope", citizen, nil, http.StatusNotFound, "NOT_FOUND"},
		{
			"invalid status", http.MethodPatch, base + "/status", citizen,
			api.UpdateStatusRequest{Status: "closed"}, http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"rating out of range", http.MethodPut, base + "/rating", citizen,
			api.RatingRequest{Rating: 9}, http.StatusBadRequest, "VALIDATION_ERROR",
		},
		{
			"rating by non-owner", http.MethodPut, base + "/rating", other,
			api.RatingRequest{Rating: 4}, http.StatusForbidden, "FORBIDDEN",
		},
		{"admin route as citizen", http.MethodPost, base + "/redirect", citizen, nil, http.StatusForbidden, "FORBIDDEN"},
		{
			"reassign to unknown entity", http.MethodPut, base + "/entity", admin,
			api.ReassignRequest{EntityID: "nope"}, http.StatusUnprocessableEntity, "UNKNOWN_ENTITY",
		},
		{
			"delete assigned entity", http.MethodDelete, "/api/v1/entities/acueducto-alcantarillado", admin,
			nil, http.StatusConflict, "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.bearer, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[map[string]any](t, rec)["code"])
		})
	}
}

func TestRatingAndAdminFlow(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	citizen := token(t, "user-1", "")
	admin := token(t, "admin-1", infrajwt.RoleAdmin)
	created := srv.createComplaint(t, citizen)
	base := "/api/v1/complaints/" + created.ID

	rec := srv.do(t, http.MethodPut, base+"/rating", citizen, api.RatingRequest{Rating: 4, Comment: "rápido"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rated := decode[domain.Complaint](t, rec)
	require.NotNil(t, rated.Rating)
	assert.Equal(t, 4, *rated.Rating)

	rec = srv.do(t, http.MethodPost, base+"/redirect", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[domain.Complaint](t, rec).Redirected)

	rec = srv.do(t, http.MethodPut, base+"/entity", admin, api.ReassignRequest{EntityID: "secretaria-salud"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.MethodManual, decode[domain.Complaint](t, rec).ClassificationMethod)

	rec = srv.do(t, http.MethodPatch, base+"/priority", admin, api.UpdatePriorityRequest{Priority: "alta"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PriorityHigh, decode[domain.Complaint](t, rec).Priority)

	rec = srv.do(t, http.MethodGet, "/api/v1/stats", citizen, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	snapshot := decode[stats.Snapshot](t, rec)
	assert.Equal(t, 1, snapshot.Total)
	require.NotNil(t, snapshot.AverageRating)
	assert.InDelta(t, 4.0, *snapshot.AverageRating, 1e-9)
}

func TestDeleteComplaintRemovesThread(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	citizen := token(t, "user-1", "")
	admin := token(t, "admin-1", infrajwt.RoleAdmin)
	created := srv.createComplaint(t, citizen)
	base := "/api/v1/complaints/" + created.ID

	rec := srv.do(t, http.MethodPost, base+"/comments", admin, api.CommentRequest{Text: "En revisión"})
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decode[domain.Comment](t, rec)
	assert.True(t, comment.IsAdmin)

	rec = srv.do(t, http.MethodGet, base+"/comments", citizen, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[api.CommentsResponse](t, rec).Total)

	rec = srv.do(t, http.MethodDelete, base, citizen, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodDelete, base, admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodGet, base+"/comments", citizen, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, srv.store.CommentCount())
}

func TestEntityAdministration(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	admin := token(t, "admin-1", infrajwt.RoleAdmin)
	citizen := token(t, "user-1", "")

	input := directory.EntityInput{Name: "Defensa Civil", Categories: []string{"Gestión del Riesgo"}}
	rec := srv.do(t, http.MethodPost, "/api/v1/entities", citizen, input)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/entities", admin, input)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[domain.Entity](t, rec)
	assert.Equal(t, "defensa-civil", created.ID)

	rec = srv.do(t, http.MethodGet, "/api/v1/entities/defensa-civil", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, "/api/v1/entities/defensa-civil", admin, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/entities/reload", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, len(directory.SeedCatalog()), decode[api.EntitiesResponse](t, rec).Total)
}

func (s *testServer) upload(t *testing.T, path, bearer string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "entidades.xlsx")
	require.NoError(t, err)
	_, err = part.Write(file)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestImportEntities(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	admin := token(t, "admin-1", infrajwt.RoleAdmin)
	citizen := token(t, "user-1", "")

	sheet := testhelpers.EntitySheet(t, importer.Headers, [][]string{
		{"Defensa Civil", "Gestión del Riesgo; Inundaciones", "Atención de desastres"},
		{"", "Seguridad"},
		{"Policía Nacional", "Seguridad"},
	})

	rec := srv.upload(t, "/api/v1/entities/import", citizen, sheet)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.upload(t, "/api/v1/entities/import", admin, sheet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[api.EntityImportResponse](t, rec)
	require.Len(t, resp.Created, 1)
	assert.Equal(t, "defensa-civil", resp.Created[0].ID)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, 3, resp.Errors[0].Row, "validation errors come first")
	assert.Equal(t, 4, resp.Errors[1].Row, "duplicate id is rejected on create")

	rec = srv.do(t, http.MethodGet, "/api/v1/entities/defensa-civil", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Gestión del Riesgo", "Inundaciones"}, decode[domain.Entity](t, rec).Categories)

	rec = srv.do(t, http.MethodPost, "/api/v1/entities/import", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStats(t *testing.T) {
	t.Helper()

	srv := newTestServer(t)
	citizen := token(t, "user-1", "")

	rec := srv.do(t, http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	empty := decode[stats.Snapshot](t, rec)
	assert.Zero(t, empty.Total)
	assert.Nil(t, empty.AverageRating)
	assert.Equal(t, len(directory.SeedCatalog()), empty.TotalEntities)

	first := srv.createComplaint(t, citizen)
	srv.createComplaint(t, citizen)

	rec = srv.do(t, http.MethodGet, "/api/v1/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decode[stats.Snapshot](t, rec)
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, 2, snap.ByCategory["Agua Potable"])
	assert.Equal(t, 2, snap.ByEntity[first.EntityName])
	assert.Equal(t, 2, snap.ByStatus[string(domain.StatusReceived)])
	assert.Equal(t, 2, snap.ThisWeek)
	assert.Equal(t, 2, snap.ThisMonth)
	assert.Equal(t, len(directory.SeedCatalog()), snap.TotalEntities)
}
