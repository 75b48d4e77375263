package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type workersByUser map[int64]*domain.Worker

func (m workersByUser) GetByUserID(_ context.Context, userID int64) (*domain.Worker, error) {
	if userID == 500 {
		return nil, errors.New("connection reset")
	}
	w, ok := m[userID]
	if !ok {
		return nil, workerRepo.ErrWorkerNotFound
	}
	return w, nil
}

func serve(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, *domain.RequestContext) {
	t.Helper()
	var captured *domain.RequestContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, ok := GetRequestContext(r.Context())
		require.True(t, ok)
		captured = &rc
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/1", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	Auth(workersByUser{20: {ID: 7}}, nopLogger{})(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuth_ClientByDefault(t *testing.T) {
	rec, rc := serve(t, map[string]string{HeaderUserID: "3"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, rc)
	assert.Equal(t, int64(3), rc.ActorID())
	assert.True(t, rc.IsClient())
	_, ok := rc.WorkerID()
	assert.False(t, ok)
}

func TestAuth_ResolvesWorkerProfile(t *testing.T) {
	rec, rc := serve(t, map[string]string{HeaderUserID: "20", HeaderUserRole: "empleado"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	workerID, ok := rc.WorkerID()
	require.True(t, ok)
	assert.Equal(t, int64(7), workerID)
	assert.True(t, rc.ActsAsWorker(7))
}

func TestAuth_AdminWithoutProfile(t *testing.T) {
	rec, rc := serve(t, map[string]string{HeaderUserID: "1", HeaderUserRole: "admin"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, rc.IsAdmin())
	_, ok := rc.WorkerID()
	assert.False(t, ok)
}

func TestAuth_Rejections(t *testing.T) {
	cases := []struct {
		name    string
		headers map[string]string
		status  int
	}{
		{"missing user", map[string]string{}, http.StatusUnauthorized},
		{"malformed user", map[string]string{HeaderUserID: "abc"}, http.StatusUnauthorized},
		{"negative user", map[string]string{HeaderUserID: "-4"}, http.StatusUnauthorized},
		{"unknown role", map[string]string{HeaderUserID: "3", HeaderUserRole: "root"}, http.StatusForbidden},
		{"lookup failure", map[string]string{HeaderUserID: "500", HeaderUserRole: "worker"}, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, rc := serve(t, tc.headers)
			assert.Equal(t, tc.status, rec.Code)
			assert.Nil(t, rc)
		})
	}
}
