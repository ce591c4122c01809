package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmlite/internal/domain/directory"
	"hrmlite/internal/transport/http/api"
	"hrmlite/internal/transport/http/middleware"
)

type Handler struct {
	Service *directory.Service
}

func NewHandler(service *directory.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListDepartments)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateDepartment)
		r.With(middleware.RequireAdmin).Put("/{departmentID}", h.handleUpdateDepartment)
		r.With(middleware.RequireAdmin).Delete("/{departmentID}", h.handleDeleteDepartment)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", h.handleListEmployees)
		r.Get("/tree", h.handleOrgTree)
		r.Get("/{employeeID}", h.handleGetEmployee)
		r.With(middleware.RequireAdmin).Post("/", h.handleCreateEmployee)
		r.With(middleware.RequireAdmin).Put("/{employeeID}", h.handleUpdateEmployee)
		r.With(middleware.RequireAdmin).Delete("/{employeeID}", h.handleDeleteEmployee)
	})
}

type departmentPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "department name is required", middleware.GetRequestID(r.Context()))
		return
	}

	dept, err := h.Service.CreateDepartment(r.Context(), payload.Name, payload.Description)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_create_failed", "failed to create department", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, dept, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "department_list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "department name is required", middleware.GetRequestID(r.Context()))
		return
	}

	dept, err := h.Service.UpdateDepartment(r.Context(), chi.URLParam(r, "departmentID"), payload.Name, payload.Description)
	if err != nil {
		h.failDirectory(w, r, err, "department_update_failed", "failed to update department")
		return
	}
	api.Success(w, dept, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteDepartment(r.Context(), chi.URLParam(r, "departmentID")); err != nil {
		h.failDirectory(w, r, err, "department_delete_failed", "failed to delete department")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload directory.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee name and email are required", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), payload)
	if err != nil {
		h.failDirectory(w, r, err, "employee_create_failed", "failed to create employee")
		return
	}
	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.failDirectory(w, r, err, "employee_get_failed", "failed to load employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload directory.EmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" || payload.Email == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employee name and email are required", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Service.UpdateEmployee(r.Context(), chi.URLParam(r, "employeeID"), payload)
	if err != nil {
		h.failDirectory(w, r, err, "employee_update_failed", "failed to update employee")
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteEmployee(r.Context(), chi.URLParam(r, "employeeID")); err != nil {
		h.failDirectory(w, r, err, "employee_delete_failed", "failed to delete employee")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOrgTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.Service.OrgTree(r.Context())
	if err != nil {
		if errors.Is(err, directory.ErrManagerCycle) {
			api.Fail(w, http.StatusBadRequest, "manager_cycle", "manager chain contains a cycle", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "org_tree_failed", "failed to build organization tree", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tree, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failDirectory(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, directory.ErrDepartmentNotFound),
		errors.Is(err, directory.ErrEmployeeNotFound),
		errors.Is(err, directory.ErrManagerNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, directory.ErrDepartmentInUse):
		api.Fail(w, http.StatusBadRequest, "department_in_use", err.Error(), reqID)
	case errors.Is(err, directory.ErrEmailTaken):
		api.Fail(w, http.StatusBadRequest, "email_taken", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
