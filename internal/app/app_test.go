package app_test

import (
	"accessgate/internal/app"
	mockauthsession "accessgate/internal/authsession/mock"
	"accessgate/internal/router"
	"accessgate/internal/views"
	"accessgate/internal/worker"
	"accessgate/pkg/domain"
	"accessgate/pkg/serrors"
	mockstorage "accessgate/pkg/storage/mock"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	admin    = &domain.User{UID: "a1", Email: "admin@example.com", Role: domain.RoleAdmin}        //nolint: gochecknoglobals
	guard    = &domain.User{UID: "s1", Email: "guard@example.com", Role: domain.RoleSecurity}    //nolint: gochecknoglobals
	resident = &domain.User{UID: "r1", Email: "resident@example.com", Role: domain.RoleResident} //nolint: gochecknoglobals
)

type fakeHost struct {
	mu      sync.Mutex
	handler http.Handler
	err     error
}

func (h *fakeHost) Mount(handler http.Handler) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.handler = handler

	return nil
}

type fixture struct {
	app     *app.App
	auth    *mockauthsession.MockProvider
	storage *mockstorage.MockAllStorage
}

func newFixture(t *testing.T, initial *domain.User, base string) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	auth := mockauthsession.NewMockProvider(ctrl)
	strg := mockstorage.NewMockAllStorage(ctrl)

	set, err := views.New(views.Deps{Storage: strg})
	require.NoError(t, err)
	r, err := router.New(router.Routes(), router.Options{BasePath: base})
	require.NoError(t, err)

	a := app.New(app.Deps{
		Auth:    auth,
		Storage: strg,
		Views:   set,
		Now:     func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}, initial)
	require.NoError(t, a.Use(r))
	t.Cleanup(a.Close)

	return &fixture{app: a, auth: auth, storage: strg}
}

func (f *fixture) do(method, target string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if method == http.MethodPost && !strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	f.app.ServeHTTP(rec, req)

	return rec
}

func TestApp_Use_unknownView(t *testing.T) {
	set, err := views.New(views.Deps{})
	require.NoError(t, err)
	r, err := router.New([]router.Route{{Path: "/", Name: "home", View: "Missing"}}, router.Options{})
	require.NoError(t, err)

	a := app.New(app.Deps{Views: set}, nil)
	require.Error(t, a.Use(r))
	require.Error(t, a.Mount(&fakeHost{}))
}

func TestApp_Mount(t *testing.T) {
	f := newFixture(t, nil, "/")

	host := &fakeHost{}
	require.NoError(t, f.app.Mount(host))
	require.Same(t, f.app, host.handler)

	taken := &fakeHost{err: serrors.With(serrors.ErrConflict, "occupied")}
	require.ErrorIs(t, f.app.Mount(taken), serrors.ErrConflict)
}

func TestApp_dispatch(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.User
		path     string
		status   int
		location string
	}{
		{"home without session", nil, "/", http.StatusOK, ""},
		{"login redirects home", nil, "/login", http.StatusFound, "/"},
		{"guarded without session", nil, "/my-logs", http.StatusFound, "/"},
		{"unknown path", nil, "/nope", http.StatusNotFound, ""},
		{"unknown path signed in", admin, "/nope", http.StatusNotFound, ""},
		{"admin dashboard", admin, "/dashboard", http.StatusOK, ""},
		{"admin dashboard as resident", resident, "/dashboard", http.StatusForbidden, ""},
		{"admin dashboard as guard", guard, "/dashboard", http.StatusForbidden, ""},
		{"qr scan as guard", guard, "/qr-scan", http.StatusOK, ""},
		{"qr scan as admin", admin, "/qr-scan", http.StatusOK, ""},
		{"qr scan as resident", resident, "/qr-scan", http.StatusForbidden, ""},
		{"resident page as guard", guard, "/contact-us", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.user, "/")
			rec := f.do(http.MethodGet, tt.path, "")
			require.Equal(t, tt.status, rec.Code)
			if tt.location != "" {
				require.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestApp_dispatch_basePath(t *testing.T) {
	f := newFixture(t, nil, "/console")

	rec := f.do(http.MethodGet, "/console/login", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/console/", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/console/dashboard", "")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/console/", rec.Header().Get("Location"))

	rec = f.do(http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApp_viewQRIsPublic(t *testing.T) {
	f := newFixture(t, nil, "/")
	f.storage.EXPECT().QRCodeByID(gomock.Any(), "doc-1").Return(&domain.QRCode{ID: "doc-1", GuestName: "Alice"}, nil)

	rec := f.do(http.MethodGet, "/view-qr/doc-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Alice")
}

func TestApp_postToViewIsRejected(t *testing.T) {
	f := newFixture(t, admin, "/")
	rec := f.do(http.MethodPost, "/dashboard", "x=1")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApp_loginSignIn(t *testing.T) {
	tests := []struct {
		user     *domain.User
		location string
	}{
		{admin, "/dashboard"},
		{guard, "/security-dashboard"},
		{resident, "/user-dashboard"},
	}
	for _, tt := range tests {
		t.Run(string(tt.user.Role), func(t *testing.T) {
			f := newFixture(t, nil, "/")
			f.auth.EXPECT().SignIn(gomock.Any(), tt.user.Email, "secret").Return(tt.user, nil)

			form := url.Values{"action": {"sign-in"}, "email": {tt.user.Email}, "password": {"secret"}}
			rec := f.do(http.MethodPost, "/", form.Encode())
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestApp_loginSignIn_rejected(t *testing.T) {
	f := newFixture(t, nil, "/")
	f.auth.EXPECT().SignIn(gomock.Any(), "guard@example.com", "wrong").
		Return(nil, serrors.With(serrors.ErrUnauthorized, "INVALID_PASSWORD"))

	form := url.Values{"action": {"sign-in"}, "email": {"guard@example.com"}, "password": {"wrong"}}
	rec := f.do(http.MethodPost, "/", form.Encode())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Wrong email or password.")
	require.Contains(t, rec.Body.String(), `value="guard@example.com"`)
}

func TestApp_loginSignOut(t *testing.T) {
	f := newFixture(t, guard, "/")
	f.auth.EXPECT().SignOut(gomock.Any()).Return(nil)

	rec := f.do(http.MethodPost, "/", url.Values{"action": {"sign-out"}}.Encode())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestApp_loginUnknownAction(t *testing.T) {
	f := newFixture(t, nil, "/")
	rec := f.do(http.MethodPost, "/", url.Values{"action": {"explode"}}.Encode())
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApp_sessionAPI(t *testing.T) {
	f := newFixture(t, nil, "/")

	rec := f.do(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"signedIn":false,"user":null}`, rec.Body.String())

	f.auth.EXPECT().SignIn(gomock.Any(), "guard@example.com", "secret").Return(guard, nil)
	rec = f.do(http.MethodPost, "/api/session", `{"email":"guard@example.com","password":"secret","extra":[1,2]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"signedIn":true,"user":{"uid":"s1","email":"guard@example.com","displayName":"",`+
		`"emailVerified":false,"role":"security"}}`, rec.Body.String())

	f.auth.EXPECT().SignOut(gomock.Any()).Return(nil)
	rec = f.do(http.MethodDelete, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"signedIn":false,"user":null}`, rec.Body.String())
}

func TestApp_sessionAPI_errors(t *testing.T) {
	f := newFixture(t, nil, "/")

	rec := f.do(http.MethodPost, "/api/session", `{"email":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"BAD_REQUEST"`)

	f.auth.EXPECT().SignIn(gomock.Any(), "a@example.com", "b").
		Return(nil, serrors.With(serrors.ErrUnauthorized, "identity service rejected credentials: INVALID_PASSWORD"))
	rec = f.do(http.MethodPost, "/api/session", `{"email":"a@example.com","password":"b"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)

	f.auth.EXPECT().SignIn(gomock.Any(), "a@example.com", "b").Return(nil, errors.New("boom"))
	rec = f.do(http.MethodPost, "/api/session", `{"email":"a@example.com","password":"b"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":{"code":"INTERNAL","message":"internal error"}}`, rec.Body.String())

	rec = f.do(http.MethodPut, "/api/session", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "GET, POST, DELETE", rec.Header().Get("Allow"))
}

func TestApp_SessionChanged(t *testing.T) {
	f := newFixture(t, nil, "/")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var (
		mu   sync.Mutex
		jobs []worker.AccessEventArgs
	)
	f.storage.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
			mu.Lock()
			defer mu.Unlock()
			jobs = append(jobs, args.(worker.AccessEventArgs))

			return true, nil
		}).Times(4)

	ctx := context.Background()
	f.app.SessionChanged(ctx, guard)
	require.Equal(t, "s1", f.app.CurrentUser().UID)

	// same uid is not a transition
	f.app.SessionChanged(ctx, guard)
	// user switch records both sides
	f.app.SessionChanged(ctx, admin)
	f.app.SessionChanged(ctx, nil)
	f.app.Close()
	require.Nil(t, f.app.CurrentUser())

	mu.Lock()
	defer mu.Unlock()
	// enqueues of separate transitions may interleave
	require.ElementsMatch(t, []worker.AccessEventArgs{
		{ActorUID: "s1", ActorEmail: "guard@example.com", EventKind: domain.AccessEventSignIn, OccurredAt: at},
		{ActorUID: "s1", ActorEmail: "guard@example.com", EventKind: domain.AccessEventSignOut, OccurredAt: at},
		{ActorUID: "a1", ActorEmail: "admin@example.com", EventKind: domain.AccessEventSignIn, OccurredAt: at},
		{ActorUID: "a1", ActorEmail: "admin@example.com", EventKind: domain.AccessEventSignOut, OccurredAt: at},
	}, jobs)
}

func TestApp_SessionChanged_afterClose(t *testing.T) {
	f := newFixture(t, nil, "/")
	f.storage.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	f.app.Close()
	f.app.SessionChanged(context.Background(), guard)
	require.Equal(t, "s1", f.app.CurrentUser().UID)

	// Close stays safe to call
	f.app.Close()
}

func TestApp_SessionChanged_concurrentClose(t *testing.T) {
	f := newFixture(t, nil, "/")
	f.storage.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(true, nil).AnyTimes()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 50 {
			if i%2 == 0 {
				f.app.SessionChanged(context.Background(), guard)
			} else {
				f.app.SessionChanged(context.Background(), nil)
			}
		}
	}()
	f.app.Close()
	wg.Wait()
	f.app.Close()
}

func TestApp_SessionChanged_enqueueFailureIsLogged(t *testing.T) {
	f := newFixture(t, nil, "/")
	f.storage.EXPECT().AddJob(gomock.Any(), gomock.Any(), gomock.Nil()).Return(false, errors.New("db down"))

	f.app.SessionChanged(context.Background(), resident)
	f.app.Close()
	require.Equal(t, "r1", f.app.CurrentUser().UID)
}
