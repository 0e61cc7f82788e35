package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/phrazzld/taskboard/internal/api/shared"
	"github.com/phrazzld/taskboard/internal/domain"
	"github.com/phrazzld/taskboard/internal/service"
	"github.com/phrazzld/taskboard/internal/service/auth"
	"github.com/phrazzld/taskboard/internal/web"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 1

type mockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) ListTasks(
	ctx context.Context,
	userID int64,
	params service.ListParams,
) (*domain.Page[*domain.Task], error) {
	args := m.Called(ctx, userID, params)
	if page := args.Get(0); page != nil {
		return page.(*domain.Page[*domain.Task]), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task := args.Get(0); task != nil {
		return task.(*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) GetOwnedTask(ctx context.Context, userID, id int64) (*domain.Task, error) {
	args := m.Called(ctx, userID, id)
	if task := args.Get(0); task != nil {
		return task.(*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) NewTask(ctx context.Context, userID, threadID int64) (*domain.Task, error) {
	args := m.Called(ctx, userID, threadID)
	if task := args.Get(0); task != nil {
		return task.(*domain.Task), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) CreateTask(ctx context.Context, userID, threadID int64, task *domain.Task) error {
	args := m.Called(ctx, userID, threadID, task)
	return args.Error(0)
}

func (m *mockTaskService) UpdateTask(ctx context.Context, userID int64, task *domain.Task) error {
	args := m.Called(ctx, userID, task)
	return args.Error(0)
}

func (m *mockTaskService) DeleteTask(ctx context.Context, userID, id int64) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type mockThreadService struct {
	mock.Mock
}

var _ service.ThreadService = (*mockThreadService)(nil)

func (m *mockThreadService) ListThreads(ctx context.Context, userID int64) ([]*domain.Thread, error) {
	args := m.Called(ctx, userID)
	if threads := args.Get(0); threads != nil {
		return threads.([]*domain.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockThreadService) GetThreadWithTasks(
	ctx context.Context,
	userID, threadID int64,
) (*domain.Thread, []*domain.Task, error) {
	args := m.Called(ctx, userID, threadID)
	var thread *domain.Thread
	var tasks []*domain.Task
	if v := args.Get(0); v != nil {
		thread = v.(*domain.Thread)
	}
	if v := args.Get(1); v != nil {
		tasks = v.([]*domain.Task)
	}
	return thread, tasks, args.Error(2)
}

func (m *mockThreadService) CreateThread(ctx context.Context, userID int64, title string) (*domain.Thread, error) {
	args := m.Called(ctx, userID, title)
	if thread := args.Get(0); thread != nil {
		return thread.(*domain.Thread), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLoginService struct {
	mock.Mock
}

func (m *mockLoginService) Login(ctx context.Context, loginName, password string) (*auth.Session, error) {
	args := m.Called(ctx, loginName, password)
	if session := args.Get(0); session != nil {
		return session.(*auth.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

// jsonPage is the JSON rendition of a view written by web.Responder.
type jsonPage struct {
	View  string         `json:"view"`
	Model map[string]any `json:"model"`
}

func newTestResponder(t *testing.T) *web.Responder {
	t.Helper()
	renderer, err := web.NewTemplateRenderer()
	require.NoError(t, err)
	return web.NewResponder(renderer, false)
}

// asPrincipal wraps h so every request is made by userID.
func asPrincipal(h http.Handler, userID int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.WithPrincipal(r.Context(), shared.Principal{UserID: userID, LoginName: "alice"})
		h.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newJSONRequest(method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder) jsonPage {
	t.Helper()
	var page jsonPage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page), rec.Body.String())
	return page
}

func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == web.FlashCookieName {
			return c
		}
	}
	return nil
}
