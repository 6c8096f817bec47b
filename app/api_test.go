package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jurisalerta/jurisalerta/comunicapje"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/datajud"
	"github.com/jurisalerta/jurisalerta/lib"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"github.com/jurisalerta/jurisalerta/senders"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type stubAPI struct {
	search func(ctx context.Context, oabNumber, oabUF, date string) (*models.ComunicacaoSearchResult, error)
}

func (s *stubAPI) Search(ctx context.Context, oabNumber, oabUF, date string) (*models.ComunicacaoSearchResult, error) {
	if s.search != nil {
		return s.search(ctx, oabNumber, oabUF, date)
	}
	return &models.ComunicacaoSearchResult{}, nil
}

func (s *stubAPI) Certificate(ctx context.Context, hash string) ([]byte, error) {
	return nil, fmt.Errorf("no certificate for %s", hash)
}

type stubSender struct{}

func (stubSender) Send(ctx context.Context, subject, body, recipient string, attachments []senders.Attachment) (string, error) {
	return "stub-id", nil
}

type testEnv struct {
	handler http.Handler
	svc     *lib.Service
	db      *gorm.DB
}

func newTestEnv(t *testing.T, api comunicapje.API) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Plan{},
		&models.Subscription{},
		&models.SearchTarget{},
		&models.SearchConfig{},
		&models.Publication{},
		&models.Admin{},
	))

	cfg := &config.Config{AdminJWTSecret: "test-secret"}
	cfg.ComunicaPJE.Concurrency = 2
	cfg.DataJud.BaseURL = "https://datajud.test"
	cfg.DataJud.TimeoutSecs = 5

	log := zap.NewNop()
	svc := lib.NewService(nil, cfg, log, db)
	searcher := comunicapje.NewSearcher(cfg, log, db, api, senders.Registry{"email": stubSender{}})
	dj := datajud.NewClient(cfg, log, rtFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"hits":[]}`)),
		}, nil
	}))

	return &testEnv{handler: router(log, svc, searcher, dj), svc: svc, db: db}
}

func (env *testEnv) request(t *testing.T, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, values := range header {
		req.Header[key] = values
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})
	rec := env.request(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})

	rec := env.request(t, http.MethodPost, "/api/users",
		`{"username":"ana","email":"ana@example.com","password":"segredo123","full_name":"Dra. Ana"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var view UserView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "ana", view.Username)
	require.NotZero(t, view.ID)

	rec = env.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", view.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateUser_validation(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})

	rec := env.request(t, http.MethodPost, "/api/users",
		`{"username":"ana","email":"not-an-email","password":"segredo123"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/users",
		`{"username":"ana","email":"ana@example.com","password":"curta"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser_notFound(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})
	rec := env.request(t, http.MethodGet, "/api/users/42", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateSearchTarget_validation(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})

	rec := env.request(t, http.MethodPost, "/api/search-targets",
		`{"user_id":1,"oab_number":"123456","oab_uf":"SAO"}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePlan_inUse(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})
	ctx := context.Background()

	user, err := env.svc.CreateUser(ctx, lib.CreateUserParams{
		Username: "ana", Email: "ana@example.com", Password: "segredo123",
	})
	require.NoError(t, err)
	plan, err := env.svc.CreatePlan(ctx, lib.PlanParams{Name: "Pro", Price: 99})
	require.NoError(t, err)
	_, err = env.svc.CreateSubscription(ctx, user.ID, plan.ID, 1)
	require.NoError(t, err)

	rec := env.request(t, http.MethodDelete, fmt.Sprintf("/api/plans/%d", plan.ID), "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunComunicaPJESearch(t *testing.T) {
	env := newTestEnv(t, &stubAPI{
		search: func(ctx context.Context, oabNumber, oabUF, date string) (*models.ComunicacaoSearchResult, error) {
			return &models.ComunicacaoSearchResult{
				Count: 1,
				Items: []models.Comunicacao{{NumeroProcesso: "0001"}},
			}, nil
		},
	})
	ctx := context.Background()

	user, err := env.svc.CreateUser(ctx, lib.CreateUserParams{
		Username: "ana", Email: "ana@example.com", Password: "segredo123",
	})
	require.NoError(t, err)
	_, err = env.svc.CreateSearchTarget(ctx, user.ID, "999999", "RJ")
	require.NoError(t, err)

	rec := env.request(t, http.MethodPost, "/api/run-comunicapje-search", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string               `json:"message"`
		Report  comunicapje.RunReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Report.Selected)
	require.Equal(t, 1, resp.Report.Notified)
	require.NotEmpty(t, resp.Report.RunID)
}

func TestRunComunicaPJESearch_conflictWhileRunning(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	env := newTestEnv(t, &stubAPI{
		search: func(ctx context.Context, oabNumber, oabUF, date string) (*models.ComunicacaoSearchResult, error) {
			close(entered)
			<-release
			return &models.ComunicacaoSearchResult{}, nil
		},
	})
	ctx := context.Background()

	user, err := env.svc.CreateUser(ctx, lib.CreateUserParams{
		Username: "ana", Email: "ana@example.com", Password: "segredo123",
	})
	require.NoError(t, err)
	_, err = env.svc.CreateSearchTarget(ctx, user.ID, "999999", "RJ")
	require.NoError(t, err)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- env.request(t, http.MethodPost, "/api/run-comunicapje-search", "", nil)
	}()

	<-entered
	rec := env.request(t, http.MethodPost, "/api/run-comunicapje-search", "", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	close(release)
	require.Equal(t, http.StatusOK, (<-done).Code)
}

func TestDataJudProxy(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})
	rec := env.request(t, http.MethodGet, "/api/datajud/tribunals", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"hits":[]}`, rec.Body.String())
}

func seedAdmin(t *testing.T, db *gorm.DB, username, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Admin{
		Username:     username,
		Email:        username + "@jurisalerta.com.br",
		PasswordHash: string(hash),
		IsActive:     true,
	}).Error)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})
	seedAdmin(t, env.db, "root", "senha-forte")

	rec := env.request(t, http.MethodPost, "/api/admin/login",
		`{"username":"root","password":"senha-forte"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string    `json:"token"`
		Admin AdminView `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "root", resp.Admin.Username)

	rec = env.request(t, http.MethodPost, "/api/admin/login",
		`{"username":"root","password":"errada"}`, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_requireToken(t *testing.T) {
	env := newTestEnv(t, &stubAPI{})
	seedAdmin(t, env.db, "root", "senha-forte")

	rec := env.request(t, http.MethodGet, "/api/admin/dashboard", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	header := http.Header{}
	header.Set("Authorization", "Bearer not.a.token")
	rec = env.request(t, http.MethodGet, "/api/admin/dashboard", "", header)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/admin/login",
		`{"username":"root","password":"senha-forte"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	header.Set("Authorization", "Bearer "+resp.Token)
	rec = env.request(t, http.MethodGet, "/api/admin/dashboard", "", header)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "total_users")
}
