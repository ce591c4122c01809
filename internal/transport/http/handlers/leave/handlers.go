package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmlite/internal/domain/auth"
	"hrmlite/internal/domain/leave"
	"hrmlite/internal/transport/http/api"
	"hrmlite/internal/transport/http/middleware"
)

type Handler struct {
	Service *leave.Service
	Auth    *auth.Service
}

func NewHandler(service *leave.Service, authSvc *auth.Service) *Handler {
	return &Handler{Service: service, Auth: authSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave-policies", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleListPolicies)
		r.Post("/", h.handleCreatePolicy)
		r.Put("/{policyID}", h.handleUpdatePolicy)
		r.Delete("/{policyID}", h.handleDeletePolicy)
		r.Post("/assign", h.handleAssign)
	})

	r.Route("/leave-requests", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListRequests)
		r.Post("/", h.handleSubmitRequest)
		r.Get("/balance", h.handleBalances)
		r.With(middleware.RequireAdmin).Patch("/{requestID}", h.handleUpdateStatus)
	})
}

func (h *Handler) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	var payload leave.PolicyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "policy name is required", middleware.GetRequestID(r.Context()))
		return
	}

	policy, err := h.Service.CreatePolicy(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "policy_create_failed", "failed to create leave policy", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, policy, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.Service.ListPolicies(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "policy_list_failed", "failed to list leave policies", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, policies, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var payload leave.PolicyInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "policy name is required", middleware.GetRequestID(r.Context()))
		return
	}

	policy, err := h.Service.UpdatePolicy(r.Context(), chi.URLParam(r, "policyID"), payload)
	if err != nil {
		h.failLeave(w, r, err, "policy_update_failed", "failed to update leave policy")
		return
	}
	api.Success(w, policy, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeletePolicy(r.Context(), chi.URLParam(r, "policyID")); err != nil {
		h.failLeave(w, r, err, "policy_delete_failed", "failed to delete leave policy")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type assignPayload struct {
	EmployeeID string `json:"employeeId"`
	PolicyID   string `json:"policyId"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var payload assignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EmployeeID == "" || payload.PolicyID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId and policyId are required", middleware.GetRequestID(r.Context()))
		return
	}

	assignment, err := h.Service.Assign(r.Context(), payload.EmployeeID, payload.PolicyID)
	if err != nil {
		h.failLeave(w, r, err, "policy_assign_failed", "failed to assign leave policy")
		return
	}
	api.Success(w, assignment, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.selfEmployeeID(w, r)
	if !ok {
		return
	}

	var payload leave.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil ||
		payload.LeaveType == "" || payload.StartDate == "" || payload.EndDate == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "leaveType, startDate and endDate are required", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.SubmitRequest(r.Context(), employeeID, payload)
	if err != nil {
		h.failLeave(w, r, err, "request_submit_failed", "failed to submit leave request")
		return
	}
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	if user.Role == auth.RoleAdmin {
		requests, err := h.Service.ListAllRequests(r.Context())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, requests, middleware.GetRequestID(r.Context()))
		return
	}

	employeeID, ok := h.resolveSelf(w, r)
	if !ok {
		return
	}
	if employeeID == "" {
		api.Success(w, []leave.Request{}, middleware.GetRequestID(r.Context()))
		return
	}
	requests, err := h.Service.ListEmployeeRequests(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "request_list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Status == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "status is required", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.UpdateStatus(r.Context(), chi.URLParam(r, "requestID"), payload.Status)
	if err != nil {
		h.failLeave(w, r, err, "request_update_failed", "failed to update leave request")
		return
	}
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.resolveSelf(w, r)
	if !ok {
		return
	}
	if employeeID == "" {
		api.Success(w, []leave.Balance{}, middleware.GetRequestID(r.Context()))
		return
	}

	balances, err := h.Service.Balances(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "balance_failed", "failed to compute leave balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

// resolveSelf maps the caller to their own employee record. Admin accounts
// have no employee record and are rejected, matching the employee-only
// endpoints. An unlinked employee account yields ("", true); failure
// responses are written here.
func (h *Handler) resolveSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, _ := middleware.GetUser(r.Context())
	if user.Role == auth.RoleAdmin {
		api.Fail(w, http.StatusForbidden, "forbidden", "admins do not have an employee record", middleware.GetRequestID(r.Context()))
		return "", false
	}

	account, err := h.Auth.Store.AccountByID(r.Context(), user.AccountID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account not found", middleware.GetRequestID(r.Context()))
		return "", false
	}
	employeeID, err := h.Auth.ResolveEmployeeID(r.Context(), account)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "resolve_failed", "failed to resolve employee record", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return employeeID, true
}

// selfEmployeeID is resolveSelf for endpoints that need an employee record to
// exist.
func (h *Handler) selfEmployeeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	employeeID, ok := h.resolveSelf(w, r)
	if !ok {
		return "", false
	}
	if employeeID == "" {
		api.Fail(w, http.StatusNotFound, "no_employee_record", "no employee record linked to this account", middleware.GetRequestID(r.Context()))
		return "", false
	}
	return employeeID, true
}

func (h *Handler) failLeave(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrPolicyNotFound),
		errors.Is(err, leave.ErrEmployeeNotFound),
		errors.Is(err, leave.ErrRequestNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, leave.ErrNoAssignment):
		api.Fail(w, http.StatusBadRequest, "no_policy_assigned", err.Error(), reqID)
	case errors.Is(err, leave.ErrPolicyInUse):
		api.Fail(w, http.StatusBadRequest, "policy_in_use", err.Error(), reqID)
	case errors.Is(err, leave.ErrUnknownLeaveType):
		api.Fail(w, http.StatusBadRequest, "unknown_leave_type", err.Error(), reqID)
	case errors.Is(err, leave.ErrInvalidStatus):
		api.Fail(w, http.StatusBadRequest, "invalid_status", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
