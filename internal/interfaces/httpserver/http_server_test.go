package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medisage-api/internal/config"
	"medisage-api/internal/domain/history"
	domain "medisage-api/internal/domain/inference"
	"medisage-api/internal/domain/model"
	"medisage-api/internal/domain/query"
	"medisage-api/internal/domain/user"
	"medisage-api/internal/infrastructure/auth"
	"medisage-api/internal/infrastructure/database/dbtest"
	"medisage-api/internal/infrastructure/database/repository/historyrepo"
	"medisage-api/internal/infrastructure/database/repository/userrepo"
	"medisage-api/internal/infrastructure/inference"
	"medisage-api/internal/interfaces/httpserver/handlers/authhandler"
	"medisage-api/internal/interfaces/httpserver/handlers/historyhandler"
	"medisage-api/internal/interfaces/httpserver/handlers/modelhandler"
	"medisage-api/internal/interfaces/httpserver/handlers/queryhandler"
	"medisage-api/internal/interfaces/httpserver/routes/api"
	"medisage-api/internal/interfaces/httpserver/routes/api/medical"
	"medisage-api/internal/interfaces/httpserver/routes/api/models"
	userroute "medisage-api/internal/interfaces/httpserver/routes/api/user"
	authroute "medisage-api/internal/interfaces/httpserver/routes/auth"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type scriptedAdapter struct {
	kind  model.ProviderKind
	reply string
	calls atomic.Int32
}

func (a *scriptedAdapter) Kind() model.ProviderKind { return a.kind }

func (a *scriptedAdapter) GenerateText(ctx context.Context, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	a.calls.Add(1)
	completion := &domain.Completion{Text: a.reply, Usage: &domain.Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}}
	if p.Structured {
		completion.JSON = json.RawMessage(a.reply)
	}
	return completion, nil
}

func (a *scriptedAdapter) AnalyzeImage(ctx context.Context, img domain.ImageInput, p domain.Prompt, m model.Descriptor) (*domain.Completion, error) {
	return a.GenerateText(ctx, p, m)
}

type testServer struct {
	handler  http.Handler
	together *scriptedAdapter
	gemini   *scriptedAdapter
}

func newTestServer(t *testing.T, defaultTier model.Tier) *testServer {
	t.Helper()

	cfg := &config.Config{
		ServiceName:         "medisage-api",
		DefaultTier:         string(defaultTier),
		MaxUploadBytes:      1 << 20,
		ProviderTimeout:     time.Second,
		HistoryQueueSize:    16,
		HistoryWriteTimeout: time.Second,
		JWTSecret:           "test-secret",
		JWTIssuer:           "medisage-api",
		JWTTTL:              time.Hour,
		ShutdownTimeout:     time.Second,
		EnableSwagger:       true,
	}
	log := zerolog.Nop()
	db := dbtest.Open(t)

	registry, err := model.LoadCatalog("")
	require.NoError(t, err)
	router := model.NewRouter(registry)

	together := &scriptedAdapter{kind: model.ProviderTogether, reply: "Rest and drink fluids."}
	gemini := &scriptedAdapter{kind: model.ProviderGemini}
	providers := inference.NewProviderSetFrom(together, gemini)

	gateway := history.NewGateway(cfg, historyrepo.NewHistoryGormRepository(db), log)
	ctx, cancel := context.WithCancel(context.Background())
	go gateway.Run(ctx)
	t.Cleanup(func() {
		cancel()
		gateway.Wait()
	})

	tokens, err := auth.NewTokenService(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(tokens.Close)

	orchestrator := query.NewOrchestrator(cfg, router, providers, gateway, log)
	users := user.NewService(cfg, userrepo.NewUserGormRepository(db), log)

	apiRoute := api.NewAPIRoute(
		medical.NewMedicalRoute(cfg, queryhandler.NewQueryHandler(cfg, orchestrator)),
		userroute.NewUserRoute(historyhandler.NewHistoryHandler(gateway)),
		models.NewModelRoute(cfg, modelhandler.NewModelHandler(router)),
		authroute.NewAuthRoute(authhandler.NewAuthHandler(users, tokens, log)),
	)
	server := NewHttpServer(apiRoute, tokens, db, cfg, log)
	return &testServer{handler: server.Handler(), together: together, gemini: gemini}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
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
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "secret1",
		"email":    username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

type historyPage struct {
	Data []struct {
		ID       uint   `json:"id"`
		ItemType string `json:"itemType"`
		Model    string `json:"model"`
		Saved    bool   `json:"saved"`
	} `json:"data"`
	Total int64 `json:"total"`
}

func (s *testServer) history(t *testing.T, token string) historyPage {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/user/medical-history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page historyPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	return page
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestMedicalQueryPersonalTier(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	rec := srv.do(t, http.MethodPost, "/api/medical-query", "", map[string]string{"question": "What are the symptoms of the flu?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Answer   string `json:"answer"`
		Model    string `json:"model"`
		Metadata struct {
			Provider string `json:"provider"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Rest and drink fluids.", res.Answer)
	assert.Equal(t, "mistral", res.Model)
	assert.Equal(t, "together", res.Metadata.Provider)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestMedicalQueryRequiresQuestion(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	rec := srv.do(t, http.MethodPost, "/api/medical-query", "", map[string]string{"question": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Question is required", decodeError(t, rec)["message"])
	assert.Zero(t, srv.together.calls.Load())
}

func TestMedicineScannerDeniedOnPersonalTier(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="pill.png"`)
	header.Set("Content-Type", "image/png")
	part, err := form.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/medicine-scanner", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	res := decodeError(t, rec)
	assert.Equal(t, query.CodeCapabilityDenied, res["code"])
	assert.Equal(t, "Medicine scanning requires a corporate tier subscription", res["message"])
	assert.Zero(t, srv.gemini.calls.Load())
}

func TestMedicineScannerRequiresImage(t *testing.T) {
	srv := newTestServer(t, model.TierCorporate)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("model", "gemini"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/medicine-scanner", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Image file is required", decodeError(t, rec)["message"])
}

func TestMedicineScannerRejectsNonImage(t *testing.T) {
	srv := newTestServer(t, model.TierCorporate)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("take two tablets daily"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/medicine-scanner", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only image files are allowed", decodeError(t, rec)["message"])
	assert.Zero(t, srv.gemini.calls.Load())
}

func TestSaveItemMissingItem(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)
	token := srv.register(t, "dave")

	rec := srv.do(t, http.MethodPost, "/api/user/save-item", token, map[string]any{"itemType": "symptom-check", "itemId": 999, "saved": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "item not found", decodeError(t, rec)["message"])
}

func TestSymptomCheckerCorporateTier(t *testing.T) {
	srv := newTestServer(t, model.TierCorporate)
	srv.gemini.reply = `{"conditions":[{"name":"Migraine","probability":"Medium","description":"A headache disorder"}],"recommendations":["Rest in a dark room"]}`

	rec := srv.do(t, http.MethodPost, "/api/symptom-checker", "", map[string]any{
		"symptoms":   "headache and nausea",
		"age":        "30-40",
		"conditions": map[string]bool{"asthma": true, "diabetes": false},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Conditions []struct {
			Name        string `json:"name"`
			Probability string `json:"probability"`
		} `json:"conditions"`
		Recommendations []string `json:"recommendations"`
		Model           string   `json:"model"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Conditions, 1)
	assert.Equal(t, "Migraine", res.Conditions[0].Name)
	assert.Equal(t, "medium", res.Conditions[0].Probability)
	assert.Equal(t, []string{"Rest in a dark room"}, res.Recommendations)
	assert.Equal(t, "gemini", res.Model)
}

func TestVoiceAssistantPersonalShortcut(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	rec := srv.do(t, http.MethodPost, "/api/voice-assistant", "", map[string]string{"input": "Please check my symptoms"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Answer string `json:"answer"`
		Action string `json:"action"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, query.ActionSymptomChecker, res.Action)
	assert.NotEmpty(t, res.Answer)
	assert.Zero(t, srv.together.calls.Load())
}

func TestModelsListsCallerTier(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	rec := srv.do(t, http.MethodGet, "/api/models", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Tier   string `json:"tier"`
		Models []struct {
			ID string `json:"id"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "personal", res.Tier)
	ids := make([]string, 0, len(res.Models))
	for _, m := range res.Models {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"mistral", "llama3"}, ids)
}

func TestSaveItemRequiresAuthentication(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	rec := srv.do(t, http.MethodPost, "/api/user/save-item", "", map[string]any{"itemType": "medical-query", "itemId": 1, "saved": true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/user/save-item", "garbage", map[string]any{"itemType": "medical-query", "itemId": 1, "saved": true})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveItemOwnershipAndIdempotence(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)
	alice := srv.register(t, "alice")
	bob := srv.register(t, "bob")

	rec := srv.do(t, http.MethodPost, "/api/medical-query", alice, map[string]string{"question": "Is ibuprofen safe with coffee?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var page historyPage
	require.Eventually(t, func() bool {
		rec := srv.do(t, http.MethodGet, "/api/user/medical-history", alice, nil)
		if rec.Code != http.StatusOK || json.Unmarshal(rec.Body.Bytes(), &page) != nil {
			return false
		}
		return page.Total == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Len(t, page.Data, 1)
	item := page.Data[0]
	assert.Equal(t, "medical-query", item.ItemType)
	assert.False(t, item.Saved)

	save := map[string]any{"itemType": "medical-query", "itemId": item.ID, "saved": true}

	rec = srv.do(t, http.MethodPost, "/api/user/save-item", bob, save)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for i := 0; i < 2; i++ {
		rec = srv.do(t, http.MethodPost, "/api/user/save-item", alice, save)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var saved struct {
			ID    uint `json:"id"`
			Saved bool `json:"saved"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
		assert.Equal(t, item.ID, saved.ID)
		assert.True(t, saved.Saved)
	}

	assert.Zero(t, srv.history(t, bob).Total)

	rec = srv.do(t, http.MethodGet, "/api/user/medical-history?saved=true&type=medical-query", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Total)

	rec = srv.do(t, http.MethodPost, "/api/user/save-item", alice, map[string]any{"itemType": "prescription", "itemId": item.ID, "saved": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthLifecycle(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)
	srv.register(t, "carol")

	rec := srv.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "carol", "password": "secret1", "email": "carol@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "carol", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "carol", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
			Tier     string `json:"tier"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Equal(t, "carol", session.User.Username)
	assert.Equal(t, "personal", session.User.Tier)

	rec = srv.do(t, http.MethodGet, "/api/auth/status", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/auth/logout", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/auth/status", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t, model.TierPersonal)

	for _, path := range []string{"/healthz", "/readyz", "/api/health", "/metrics", "/swagger/doc.json"} {
		t.Run(path, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("GET %s", path))
		})
	}
}
