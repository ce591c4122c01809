package payrollhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmlite/internal/domain/auth"
	"hrmlite/internal/domain/directory"
	"hrmlite/internal/domain/payroll"
	"hrmlite/internal/domain/printformat"
	"hrmlite/internal/render"
	"hrmlite/internal/transport/http/api"
	"hrmlite/internal/transport/http/middleware"
)

type Handler struct {
	Service   *payroll.Service
	Auth      *auth.Service
	Directory *directory.Service
	Formats   *printformat.Service
}

func NewHandler(service *payroll.Service, authSvc *auth.Service, dirSvc *directory.Service, formatSvc *printformat.Service) *Handler {
	return &Handler{Service: service, Auth: authSvc, Directory: dirSvc, Formats: formatSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll-structures", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/", h.handleListStructures)
		r.Post("/", h.handleCreateStructure)
		r.Put("/{structureID}", h.handleUpdateStructure)
		r.Delete("/{structureID}", h.handleDeleteStructure)
	})

	r.Route("/payroll", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Post("/", h.handleAssign)
		r.Get("/{employeeID}", h.handleGetPayroll)
	})

	r.Route("/payslips", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.With(middleware.RequireAdmin).Post("/generate", h.handleGeneratePayslip)
		r.Get("/employee/{employeeID}", h.handleListPayslips)
		r.Get("/{payslipID}/download", h.handleDownloadPayslip)
	})
}

func (h *Handler) handleCreateStructure(w http.ResponseWriter, r *http.Request) {
	var payload payroll.StructureInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "structure name is required", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.PrintFormatID != "" {
		if _, err := h.Formats.Get(r.Context(), payload.PrintFormatID); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_print_format", "print format does not exist", middleware.GetRequestID(r.Context()))
			return
		}
	}

	structure, err := h.Service.CreateStructure(r.Context(), payload)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "structure_create_failed", "failed to create payroll structure", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, structure, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListStructures(w http.ResponseWriter, r *http.Request) {
	structures, err := h.Service.ListStructures(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "structure_list_failed", "failed to list payroll structures", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, structures, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateStructure(w http.ResponseWriter, r *http.Request) {
	var payload payroll.StructureInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "structure name is required", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.PrintFormatID != "" {
		if _, err := h.Formats.Get(r.Context(), payload.PrintFormatID); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_print_format", "print format does not exist", middleware.GetRequestID(r.Context()))
			return
		}
	}

	structure, err := h.Service.UpdateStructure(r.Context(), chi.URLParam(r, "structureID"), payload)
	if err != nil {
		h.failPayroll(w, r, err, "structure_update_failed", "failed to update payroll structure")
		return
	}
	api.Success(w, structure, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteStructure(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteStructure(r.Context(), chi.URLParam(r, "structureID")); err != nil {
		h.failPayroll(w, r, err, "structure_delete_failed", "failed to delete payroll structure")
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

type assignPayload struct {
	EmployeeID  string `json:"employeeId"`
	StructureID string `json:"structureId"`
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	var payload assignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EmployeeID == "" || payload.StructureID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId and structureId are required", middleware.GetRequestID(r.Context()))
		return
	}

	comp, err := h.Service.Assign(r.Context(), payload.EmployeeID, payload.StructureID)
	if err != nil {
		h.failPayroll(w, r, err, "payroll_assign_failed", "failed to assign payroll")
		return
	}
	api.Success(w, comp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPayroll(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.GetPayroll(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.failPayroll(w, r, err, "payroll_get_failed", "failed to load payroll")
		return
	}
	api.Success(w, detail, middleware.GetRequestID(r.Context()))
}

type generatePayload struct {
	EmployeeID string `json:"employeeId"`
	Month      string `json:"month"`
}

func (h *Handler) handleGeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.EmployeeID == "" || payload.Month == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId and month are required", middleware.GetRequestID(r.Context()))
		return
	}

	slip, err := h.Service.GeneratePayslip(r.Context(), payload.EmployeeID, payload.Month)
	if err != nil {
		h.failPayroll(w, r, err, "payslip_generate_failed", "failed to generate payslip")
		return
	}
	api.Created(w, slip, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if !h.callerMayAccess(w, r, employeeID) {
		return
	}

	slips, err := h.Service.ListPayslips(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_list_failed", "failed to list payslips", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, slips, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	slip, err := h.Service.GetPayslip(r.Context(), chi.URLParam(r, "payslipID"))
	if err != nil {
		h.failPayroll(w, r, err, "payslip_get_failed", "failed to load payslip")
		return
	}
	if !h.callerMayAccess(w, r, slip.EmployeeID) {
		return
	}

	emp, err := h.Directory.GetEmployee(r.Context(), slip.EmployeeID)
	if err != nil {
		h.failPayroll(w, r, err, "payslip_download_failed", "failed to load employee")
		return
	}
	departmentName := ""
	if emp.DepartmentID != "" {
		if dept, err := h.Directory.Store.DepartmentByID(r.Context(), emp.DepartmentID); err == nil {
			departmentName = dept.Name
		}
	}

	// The structure currently assigned to the employee decides the
	// configured template; the system default and the built-in layout back
	// it up.
	structureFormatID := ""
	if detail, err := h.Service.GetPayroll(r.Context(), slip.EmployeeID); err == nil && detail != nil {
		structureFormatID = detail.Structure.PrintFormatID
	}

	body, err := h.Formats.ResolveBody(r.Context(), r.URL.Query().Get("format"), structureFormatID)
	if err != nil {
		if errors.Is(err, printformat.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "print format not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "payslip_download_failed", "failed to resolve print format", middleware.GetRequestID(r.Context()))
		return
	}

	data := render.Data{
		EmployeeName: emp.Name,
		EmployeeCode: emp.EmployeeCode,
		Department:   departmentName,
		Month:        slip.Month,
		Basic:        slip.Basic,
		Allowances:   slip.Allowances,
		Deductions:   slip.Deductions,
		NetPay:       slip.NetPay,
		GeneratedAt:  slip.GeneratedAt.Format("2006-01-02"),
	}

	filename := fmt.Sprintf("payslip_%s_%s", slip.Month, strings.ReplaceAll(emp.Name, " ", "_"))
	if body != "" {
		out, err := render.HTML(body, data)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "render_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.html", filename))
		_, _ = w.Write(out)
		return
	}

	out, err := render.PDF(data)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "render_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
	_, _ = w.Write(out)
}

// callerMayAccess lets admins through and restricts employees to their own
// records. It writes the failure response itself.
func (h *Handler) callerMayAccess(w http.ResponseWriter, r *http.Request, employeeID string) bool {
	user, _ := middleware.GetUser(r.Context())
	if user.Role == auth.RoleAdmin {
		return true
	}

	account, err := h.Auth.Store.AccountByID(r.Context(), user.AccountID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account not found", middleware.GetRequestID(r.Context()))
		return false
	}
	ownID, err := h.Auth.ResolveEmployeeID(r.Context(), account)
	if err != nil || ownID == "" || ownID != employeeID {
		api.Fail(w, http.StatusForbidden, "forbidden", "access denied", middleware.GetRequestID(r.Context()))
		return false
	}
	return true
}

func (h *Handler) failPayroll(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrStructureNotFound),
		errors.Is(err, payroll.ErrEmployeeNotFound),
		errors.Is(err, payroll.ErrNoCompensation),
		errors.Is(err, payroll.ErrEmptyStructure),
		errors.Is(err, payroll.ErrPayslipNotFound),
		errors.Is(err, directory.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, payroll.ErrStructureInUse):
		api.Fail(w, http.StatusBadRequest, "structure_in_use", err.Error(), reqID)
	case errors.Is(err, payroll.ErrPayslipExists):
		api.Fail(w, http.StatusBadRequest, "payslip_exists", err.Error(), reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
