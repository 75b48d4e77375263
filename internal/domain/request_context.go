package domain

import (
	"fmt"
	"strings"
)

// Role of the acting user
type Role string

const (
	RoleClient Role = "client"
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// ErrUnknownRole returned for an unrecognised role header
var ErrUnknownRole = fmt.Errorf("%w: unknown role", ErrPermission)

// ParseRole converts a role name, accepting the Spanish aliases used by the front office
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "client", "cliente":
		return RoleClient, nil
	case "worker", "empleado":
		return RoleWorker, nil
	case "admin", "administrador":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
}

// RequestContext identifies the actor of a single request.
// It is built once at the boundary and is read-only afterwards.
type RequestContext struct {
	actorID  int64
	role     Role
	workerID int64
	isWorker bool
}

// NewRequestContext creates the context; workerID is the worker profile resolved for the actor, if any
func NewRequestContext(actorID int64, role Role, workerID *int64) RequestContext {
	rc := RequestContext{actorID: actorID, role: role}
	if workerID != nil {
		rc.workerID = *workerID
		rc.isWorker = true
	}
	return rc
}

func (rc RequestContext) ActorID() int64 { return rc.actorID }

func (rc RequestContext) Role() Role { return rc.role }

// WorkerID returns the worker profile of the actor
func (rc RequestContext) WorkerID() (int64, bool) { return rc.workerID, rc.isWorker }

func (rc RequestContext) IsAdmin() bool { return rc.role == RoleAdmin }

func (rc RequestContext) IsClient() bool { return rc.role == RoleClient }

// IsStaff reports worker or admin role
func (rc RequestContext) IsStaff() bool { return rc.role == RoleWorker || rc.role == RoleAdmin }

// ActsAsWorker reports whether the actor is staff with a resolved worker profile equal to workerID
func (rc RequestContext) ActsAsWorker(workerID int64) bool {
	return rc.IsStaff() && rc.isWorker && rc.workerID == workerID
}
