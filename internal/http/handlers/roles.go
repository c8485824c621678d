package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	"github.com/pribylovaa/go-task-manager/internal/http/middleware"
	"github.com/pribylovaa/go-task-manager/internal/models"
)

type assignRoleRequest struct {
	Role string `json:"role"`
}

// userBrief — публичная проекция пользователя для списков ролей.
type userBrief struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type rolesResponse struct {
	Owners        []userBrief `json:"owners"`
	Collaborators []userBrief `json:"collaborators"`
}

// AssignRole — PUT /users/{id}/role (только owner).
func (h *Handlers) AssignRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var in assignRoleRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.Svc.AssignRole(r.Context(), id, in.Role)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("Role updated to %s", role)})
}

// RolesOverview — GET /users/roles (только owner).
func (h *Handlers) RolesOverview(w http.ResponseWriter, r *http.Request) {
	owners, collaborators, err := h.Svc.RolesOverview(r.Context())
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rolesResponse{
		Owners:        toBriefs(owners),
		Collaborators: toBriefs(collaborators),
	})
}

// OwnerDashboard — GET /users/owner-dashboard (только owner).
func (h *Handlers) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Welcome to the owner dashboard, %s", principal.Email),
	})
}

// SharedDashboard — GET /users/shared-dashboard (owner или collaborator).
func (h *Handlers) SharedDashboard(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())
	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Welcome to the shared dashboard, %s", principal.Email),
	})
}

func toBriefs(users []models.User) []userBrief {
	briefs := make([]userBrief, 0, len(users))
	for _, u := range users {
		briefs = append(briefs, userBrief{ID: u.ID, Email: u.Email})
	}

	return briefs
}
