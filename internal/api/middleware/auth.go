package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	workerRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/worker"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "falta el identificador de usuario"
	msgInvalidUserID = "identificador de usuario no válido"
	msgInvalidRole   = "rol de usuario no válido"
)

type contextKey int

const requestContextKey contextKey = iota

// WorkerLookup поиск профиля мастера по пользователю
type WorkerLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Worker, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth строит неизменяемый domain.RequestContext из заголовков X-User-ID и X-User-Role
// Для персонала профиль мастера ищется один раз на запрос
func Auth(workers WorkerLookup, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(HeaderUserID)
			if rawID == "" {
				logger.Warn("Auth: missing %s header on %s %s", HeaderUserID, r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgMissingUserID)
				return
			}

			userID, err := strconv.ParseInt(rawID, 10, 64)
			if err != nil || userID <= 0 {
				logger.Warn("Auth: invalid user id %q", rawID)
				handlers.RespondUnauthorized(w, msgInvalidUserID)
				return
			}

			role := domain.RoleClient
			if rawRole := r.Header.Get(HeaderUserRole); rawRole != "" {
				role, err = domain.ParseRole(rawRole)
				if err != nil {
					logger.Warn("Auth: user=%d: %v", userID, err)
					handlers.RespondForbidden(w, msgInvalidRole)
					return
				}
			}

			var workerID *int64
			if role != domain.RoleClient {
				worker, err := workers.GetByUserID(r.Context(), userID)
				switch {
				case err == nil:
					workerID = &worker.ID
				case errors.Is(err, workerRepo.ErrWorkerNotFound):
					// Администратор без профиля мастера
				default:
					logger.Error("Auth: failed to resolve worker profile for user=%d: %v", userID, err)
					handlers.RespondInternalError(w)
					return
				}
			}

			rc := domain.NewRequestContext(userID, role, workerID)
			next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
		})
	}
}

// WithRequestContext кладет контекст запроса в context.Context
func WithRequestContext(ctx context.Context, rc domain.RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey, rc)
}

// GetRequestContext извлекает контекст запроса, установленный middleware Auth
func GetRequestContext(ctx context.Context) (domain.RequestContext, bool) {
	rc, ok := ctx.Value(requestContextKey).(domain.RequestContext)
	return rc, ok
}
