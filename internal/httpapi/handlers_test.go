package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"lawfirm-cms/internal/assignment"
	"lawfirm-cms/internal/audit"
	"lawfirm-cms/internal/auth"
	"lawfirm-cms/internal/cases"
	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/documents"
	"lawfirm-cms/internal/editors"
	"lawfirm-cms/internal/lawyers"
	"lawfirm-cms/internal/notify"
	"lawfirm-cms/internal/ratelimit"
	"lawfirm-cms/internal/rbac"
	"lawfirm-cms/internal/reporting"
	"lawfirm-cms/internal/session"
	"lawfirm-cms/internal/testutil"
	"lawfirm-cms/internal/todos"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	router   *gin.Engine
	h        *Handlers
	notifier *notify.Recorder
}

func newEnv(t *testing.T) env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db := testutil.SQLite(t)
	auditSvc := audit.NewService(audit.NewSQLRepo(db), nil)

	tokens, err := auth.NewManager(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: 24 * time.Hour})
	require.NoError(t, err)

	edSvc := editors.NewService(editors.NewSQLRepo(db)).ReserveUsernames("admin")
	_, err = edSvc.Create(ctx, editors.CreateInput{
		Username:    "clerk",
		Password:    "clerk-pass",
		Permissions: []string{rbac.CapDashboard, rbac.CapCases},
	})
	require.NoError(t, err)

	limiter := ratelimit.NewMemoryLimiter(ratelimit.Policy{Max: 5, Window: 15 * time.Minute}, nil)
	issuer := session.NewIssuer(session.Config{AdminUsername: "admin", AdminPassword: "admin-pass"},
		edSvc, tokens, limiter, auditSvc, nil)

	lawyerSvc := lawyers.NewService(db, auditSvc)
	caseSvc := cases.NewService(db, auditSvc)
	rec := &notify.Recorder{}
	assignSvc := assignment.NewService(assignment.NewSQLStore(db), lawyerSvc, caseSvc, rec, auditSvc, nil)

	store, err := documents.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	h := &Handlers{
		Tokens:      tokens,
		Sessions:    issuer,
		Editors:     edSvc,
		Lawyers:     lawyerSvc,
		Cases:       caseSvc,
		Assignments: assignSvc,
		Todos:       todos.NewService(db, auditSvc),
		Documents:   documents.NewService(db, store, auditSvc, 1<<20, nil),
		Reports:     reporting.NewService(reporting.NewSQLRepo(db), caseSvc),
		Audit:       auditSvc,
	}

	r := gin.New()
	h.Register(r.Group("/api"))
	return env{router: r, h: h, notifier: rec}
}

func (e env) do(method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e env) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodPost, "/api/login", loginRequest{Username: username, Password: password}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("no session cookie in login response")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestLogin_SetsCookieAndVerifies(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/api/login", loginRequest{Username: "clerk", Password: "clerk-pass"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "editor", user["role"])
	assert.ElementsMatch(t, []any{"dashboard", "cases"}, user["permissions"])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	w = e.do(http.MethodGet, "/api/verifyToken", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "clerk", decode(t, w)["user"].(map[string]any)["username"])
}

func TestLogin_InvalidCredentialsSameMessage(t *testing.T) {
	e := newEnv(t)

	unknown := e.do(http.MethodPost, "/api/login", loginRequest{Username: "ghost", Password: "x"}, nil)
	wrong := e.do(http.MethodPost, "/api/login", loginRequest{Username: "clerk", Password: "x"}, nil)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, auth.MsgInvalidCredentials, decode(t, unknown)["message"])
	assert.Equal(t, decode(t, unknown), decode(t, wrong))
}

func TestLogin_SixthAttemptRateLimited(t *testing.T) {
	e := newEnv(t)

	for i := 0; i < 5; i++ {
		w := e.do(http.MethodPost, "/api/login", loginRequest{Username: "clerk", Password: "bad"}, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := e.do(http.MethodPost, "/api/login", loginRequest{Username: "clerk", Password: "clerk-pass"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, auth.MsgRateLimited, decode(t, w)["message"])
}

func TestProtectedRoute_RequiresSession(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/getTodos", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodGet, "/api/getTodos", nil, &http.Cookie{Name: auth.CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAssign_EditorWithoutCapabilityForbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.h.Cases.Create(ctx, "admin", cases.Case{CaseNumber: "C1", ClientName: "Perera", Lawyer1: "L1"})
	require.NoError(t, err)

	cookie := e.login(t, "clerk", "clerk-pass")
	w := e.do(http.MethodPost, "/api/assignLawyer", assignRequest{CaseNumber: "C1", LawyerName: "L1"}, cookie)

	assert.Equal(t, http.StatusForbidden, w.Code)
	_, err = e.h.Assignments.Get(ctx, "C1")
	assert.ErrorIs(t, err, assignment.ErrNotFound)
}

func TestAssign_NotifierFailureStillSucceeds(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.h.Lawyers.Create(ctx, "admin", lawyers.Lawyer{NIC: "N1", Name: "L1", Email: "l1@example.com"}))
	_, err := e.h.Cases.Create(ctx, "admin", cases.Case{CaseNumber: "C1", ClientName: "Perera", Lawyer1: "L1"})
	require.NoError(t, err)
	e.notifier.Err = errors.New("relay down")

	cookie := e.login(t, "admin", "admin-pass")
	w := e.do(http.MethodPost, "/api/assignLawyer", assignRequest{CaseNumber: "C1", LawyerName: "L1", Notify: true}, cookie)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, false, body["notified"])

	a, err := e.h.Assignments.Get(ctx, "C1")
	require.NoError(t, err)
	assert.Equal(t, "L1", a.LawyerName)
}

func TestAssign_MissingFields(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, "admin", "admin-pass")

	w := e.do(http.MethodPost, "/api/assignLawyer", assignRequest{CaseNumber: "C1"}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "NIC or lawyer missing", decode(t, w)["message"])
}

func TestChangePassword_AdminRejected(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, "admin", "admin-pass")

	w := e.do(http.MethodPost, "/api/changePassword", changePasswordRequest{CurrentPassword: "admin-pass", NewPassword: "whatever"}, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, msgAdminPassword, body["message"])
}

func TestChangePassword_EditorCanLoginWithNewPassword(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, "clerk", "clerk-pass")

	w := e.do(http.MethodPost, "/api/changePassword", changePasswordRequest{CurrentPassword: "clerk-pass", NewPassword: "fresh-pass"}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	e.login(t, "clerk", "fresh-pass")
}

func TestActivityLogs_AdminOnlyAndUsesVerifiedUsername(t *testing.T) {
	e := newEnv(t)
	clerk := e.login(t, "clerk", "clerk-pass")

	w := e.do(http.MethodPost, "/api/logAction", map[string]string{
		"username": "someone-else",
		"action":   "Print Report",
		"details":  "printed",
	}, clerk)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/getActivityLogs", nil, clerk)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := e.login(t, "admin", "admin-pass")
	w = e.do(http.MethodGet, "/api/getActivityLogs?limit=10", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []audit.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp), "entries must be newest first")
	}
	var found bool
	for _, en := range entries {
		if en.Action == "Print Report" {
			found = true
			assert.Equal(t, "clerk", en.Username)
		}
	}
	assert.True(t, found)
}

func TestCasesAndDashboard(t *testing.T) {
	e := newEnv(t)
	admin := e.login(t, "admin", "admin-pass")

	w := e.do(http.MethodPost, "/api/addUser", caseRequest{NIC: "C9", Name: "Fernando", Lawyer1: "L1", CaseType: "civil", NextDate: "2026-11-02"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/updateStatus", statusRequest{NIC: "C9", Status: "bogus"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/updateStatus", statusRequest{NIC: "C9", Status: "concluded"}, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/getUsers?page=1&limit=5", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["pagination"].(map[string]any)["total"])

	w = e.do(http.MethodGet, "/api/getCaseStats", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"Civil","value":1}]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/dashboard_counts", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["totalCases"])
}

func TestDocuments_UploadDownloadDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.h.Cases.Create(ctx, "admin", cases.Case{CaseNumber: "C1", ClientName: "Perera", Lawyer1: "L1"})
	require.NoError(t, err)
	cookie := e.login(t, "clerk", "clerk-pass")

	content := []byte("%PDF-1.4\n% test document\n")
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("nic", "C1"))
	fw, err := mw.CreateFormFile("file", "brief.pdf")
	require.NoError(t, err)
	_, _ = fw.Write(content)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploadDocument", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodGet, "/api/getDocuments/C1", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var docs []documents.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "application/pdf", docs[0].ContentType)

	w = e.do(http.MethodGet, "/api/documents/"+itoa(docs[0].ID)+"/download", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "brief.pdf")

	w = e.do(http.MethodPost, "/api/deleteDocument", idRequest{ID: docs[0].ID}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/documents/"+itoa(docs[0].ID)+"/download", nil, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditors_RequireAddEditorCapability(t *testing.T) {
	e := newEnv(t)
	clerk := e.login(t, "clerk", "clerk-pass")

	w := e.do(http.MethodPost, "/api/addEditor", editors.CreateInput{Username: "x", Password: "secret1"}, clerk)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := e.login(t, "admin", "admin-pass")
	w = e.do(http.MethodPost, "/api/addEditor", editors.CreateInput{Username: "x", Password: "secret1", Permissions: []string{"report"}}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/api/addEditor", editors.CreateInput{Username: "x", Password: "secret1"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/addEditor", editors.CreateInput{Username: "admin", Password: "secret1"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/getEditors", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
