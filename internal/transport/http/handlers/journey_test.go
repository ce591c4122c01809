package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hrmlite/internal/app/server"
	"hrmlite/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:              ":0",
		DatabaseURL:       dbURL,
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		Environment:       "test",
		AllowSelfSignup:   false,
		SeedAdminEmail:    "admin@test.local",
		SeedAdminPassword: "ChangeMe123!",
		SeedAdminName:     "Test Admin",
		RunMigrations:     true,
		RunSeed:           true,
		MigrationsDir:     "../../../../migrations",
		MaxBodyBytes:      1048576,
		CORSOrigins:       []string{"*"},
		MetricsEnabled:    true,
	}
}

func TestPayrollAndLeaveJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	// Templates from earlier runs would shadow the built-in fallback below.
	clearPrintFormats(t, client, ts.URL, adminToken)

	suffix := time.Now().UnixNano()

	// Directory: department plus an employee in it.
	dept := postJSON(t, client, ts.URL+"/api/v1/departments", adminToken, map[string]any{
		"name": fmt.Sprintf("Engineering-%d", suffix),
	})
	deptID := stringField(t, dept.Data, "id")

	employeeEmail := fmt.Sprintf("journey-%d@example.com", suffix)
	emp := postJSON(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"name":         "Journey Tester",
		"email":        employeeEmail,
		"departmentId": deptID,
		"joiningDate":  "2024-06-01",
	})
	employeeID := stringField(t, emp.Data, "id")
	if code := stringField(t, emp.Data, "employeeCode"); len(code) != 11 || code[:3] != "EMP" {
		t.Fatalf("unexpected employee code %q", code)
	}

	// Employee emails are unique.
	postJSONStatus(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"name":  "Duplicate Tester",
		"email": employeeEmail,
	}, http.StatusBadRequest)

	// A department with employees cannot be deleted.
	deleteJSONStatus(t, client, ts.URL+"/api/v1/departments/"+deptID, adminToken, http.StatusBadRequest)

	// Compensation: structure, assignment, then reassignment overwrites.
	structA := postJSON(t, client, ts.URL+"/api/v1/payroll-structures", adminToken, map[string]any{
		"name": "Standard",
		"components": []map[string]any{
			{"label": "Basic Salary", "amount": 5000},
			{"label": "HRA", "amount": 1000},
			{"label": "Tax", "amount": -200},
		},
	})
	structAID := stringField(t, structA.Data, "id")
	if net := numberField(t, structA.Data, "netSalary"); net != 5800 {
		t.Fatalf("expected net salary 5800, got %v", net)
	}

	postJSON(t, client, ts.URL+"/api/v1/payroll", adminToken, map[string]any{
		"employeeId":  employeeID,
		"structureId": structAID,
	})

	structB := postJSON(t, client, ts.URL+"/api/v1/payroll-structures", adminToken, map[string]any{
		"name": "Senior",
		"components": []map[string]any{
			{"label": "Basic Salary", "amount": 7000},
		},
	})
	structBID := stringField(t, structB.Data, "id")
	postJSON(t, client, ts.URL+"/api/v1/payroll", adminToken, map[string]any{
		"employeeId":  employeeID,
		"structureId": structBID,
	})

	detail := getJSON(t, client, ts.URL+"/api/v1/payroll/"+employeeID, adminToken)
	if got := stringField(t, detail.Data, "structureId"); got != structBID {
		t.Fatalf("expected reassignment to overwrite, got structure %s", got)
	}

	// A structure still assigned cannot be deleted.
	deleteJSONStatus(t, client, ts.URL+"/api/v1/payroll-structures/"+structBID, adminToken, http.StatusBadRequest)

	// Payslips: one per employee per month.
	month := "2025-03"
	slip := postJSON(t, client, ts.URL+"/api/v1/payslips/generate", adminToken, map[string]any{
		"employeeId": employeeID,
		"month":      month,
	})
	slipID := stringField(t, slip.Data, "id")
	if net := numberField(t, slip.Data, "netPay"); net != 7000 {
		t.Fatalf("expected net pay 7000, got %v", net)
	}

	postJSONStatus(t, client, ts.URL+"/api/v1/payslips/generate", adminToken, map[string]any{
		"employeeId": employeeID,
		"month":      month,
	}, http.StatusBadRequest)

	slips := getJSON(t, client, ts.URL+"/api/v1/payslips/employee/"+employeeID, adminToken)
	var slipList []map[string]any
	if err := json.Unmarshal(slips.Data, &slipList); err != nil {
		t.Fatalf("failed to decode payslips: %v", err)
	}
	if len(slipList) != 1 {
		t.Fatalf("expected 1 payslip, got %d", len(slipList))
	}

	// Download falls back to the built-in PDF layout without templates.
	raw, contentType := download(t, client, ts.URL+"/api/v1/payslips/"+slipID+"/download", adminToken)
	if contentType != "application/pdf" {
		t.Fatalf("expected pdf, got %s", contentType)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatal("expected pdf payload")
	}

	// A stored template takes over once it is configured as the default.
	format := postJSON(t, client, ts.URL+"/api/v1/print-formats", adminToken, map[string]any{
		"name":      "Simple",
		"body":      "<h1>{{.EmployeeName}} {{.Month}} {{.NetPay}}</h1>",
		"isDefault": true,
	})
	formatID := stringField(t, format.Data, "id")

	// A structure update rejects unknown formats, and a referenced format
	// cannot be deleted until the reference is dropped.
	putJSONStatus(t, client, ts.URL+"/api/v1/payroll-structures/"+structAID, adminToken, map[string]any{
		"name":          "Standard",
		"printFormatId": "no-such-format",
	}, http.StatusBadRequest)
	putJSON(t, client, ts.URL+"/api/v1/payroll-structures/"+structAID, adminToken, map[string]any{
		"name":          "Standard",
		"printFormatId": formatID,
	})
	deleteJSONStatus(t, client, ts.URL+"/api/v1/print-formats/"+formatID, adminToken, http.StatusBadRequest)
	putJSON(t, client, ts.URL+"/api/v1/payroll-structures/"+structAID, adminToken, map[string]any{
		"name": "Standard",
	})

	raw, contentType = download(t, client, ts.URL+"/api/v1/payslips/"+slipID+"/download", adminToken)
	if contentType != "text/html; charset=utf-8" {
		t.Fatalf("expected html, got %s", contentType)
	}
	if !bytes.Contains(raw, []byte("Journey Tester")) {
		t.Fatal("expected rendered employee name")
	}

	// Leave: policy, assignment, request, approval, balance.
	policy := postJSON(t, client, ts.URL+"/api/v1/leave-policies", adminToken, map[string]any{
		"name": "Default Policy",
		"leaveTypes": []map[string]any{
			{"name": "Casual", "annualDays": 12},
		},
	})
	policyID := stringField(t, policy.Data, "id")
	postJSON(t, client, ts.URL+"/api/v1/leave-policies/assign", adminToken, map[string]any{
		"employeeId": employeeID,
		"policyId":   policyID,
	})

	// Self-service signup with the employee's email links the account to the
	// employee record. Account emails are unique too.
	employeeToken := register(t, client, ts.URL, employeeEmail, "Secret123!", "Journey Tester")
	postJSONStatus(t, client, ts.URL+"/api/v1/auth/register", "", map[string]any{
		"email":    employeeEmail,
		"password": "Other123!",
		"fullName": "Journey Tester",
	}, http.StatusBadRequest)

	req := postJSON(t, client, ts.URL+"/api/v1/leave-requests", employeeToken, map[string]any{
		"leaveType": "Casual",
		"startDate": "2025-02-01",
		"endDate":   "2025-02-03",
		"reason":    "Rest",
	})
	requestID := stringField(t, req.Data, "id")
	if status := stringField(t, req.Data, "status"); status != "pending" {
		t.Fatalf("expected pending request, got %s", status)
	}

	approved := patchJSON(t, client, ts.URL+"/api/v1/leave-requests/"+requestID, adminToken, map[string]any{
		"status": "approved",
	})
	if status := stringField(t, approved.Data, "status"); status != "approved" {
		t.Fatalf("expected approved request, got %s", status)
	}

	balances := getJSON(t, client, ts.URL+"/api/v1/leave-requests/balance", employeeToken)
	var balanceList []map[string]any
	if err := json.Unmarshal(balances.Data, &balanceList); err != nil {
		t.Fatalf("failed to decode balances: %v", err)
	}
	if len(balanceList) != 1 {
		t.Fatalf("expected 1 balance row, got %d", len(balanceList))
	}
	if used := balanceList[0]["used"].(float64); used != 3 {
		t.Fatalf("expected 3 used days, got %v", used)
	}
	if remaining := balanceList[0]["remaining"].(float64); remaining != 9 {
		t.Fatalf("expected 9 remaining days, got %v", remaining)
	}

	// A second request plus a second employee show that the employee listing
	// is scoped to the caller and ordered newest first.
	later := postJSON(t, client, ts.URL+"/api/v1/leave-requests", employeeToken, map[string]any{
		"leaveType": "Casual",
		"startDate": "2025-04-01",
		"endDate":   "2025-04-02",
		"reason":    "Travel",
	})
	laterID := stringField(t, later.Data, "id")

	otherEmail := fmt.Sprintf("journey2-%d@example.com", suffix)
	other := postJSON(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"name":  "Second Tester",
		"email": otherEmail,
	})
	otherID := stringField(t, other.Data, "id")
	postJSON(t, client, ts.URL+"/api/v1/leave-policies/assign", adminToken, map[string]any{
		"employeeId": otherID,
		"policyId":   policyID,
	})
	otherToken := register(t, client, ts.URL, otherEmail, "Secret123!", "Second Tester")
	postJSON(t, client, ts.URL+"/api/v1/leave-requests", otherToken, map[string]any{
		"leaveType": "Casual",
		"startDate": "2025-05-01",
		"endDate":   "2025-05-01",
	})

	mine := getJSON(t, client, ts.URL+"/api/v1/leave-requests", employeeToken)
	var requestList []map[string]any
	if err := json.Unmarshal(mine.Data, &requestList); err != nil {
		t.Fatalf("failed to decode requests: %v", err)
	}
	if len(requestList) != 2 {
		t.Fatalf("expected 2 own requests, got %d", len(requestList))
	}
	for _, item := range requestList {
		if item["employeeId"] != employeeID {
			t.Fatalf("expected only own requests, saw employee %v", item["employeeId"])
		}
	}
	if requestList[0]["id"] != laterID {
		t.Fatal("expected newest request first")
	}

	// A policy with assignments cannot be deleted.
	deleteJSONStatus(t, client, ts.URL+"/api/v1/leave-policies/"+policyID, adminToken, http.StatusBadRequest)

	// Deleting the employees keeps their payslips and leave requests around.
	deleteJSON(t, client, ts.URL+"/api/v1/employees/"+employeeID, adminToken)
	deleteJSON(t, client, ts.URL+"/api/v1/employees/"+otherID, adminToken)

	history := getJSON(t, client, ts.URL+"/api/v1/payslips/employee/"+employeeID, adminToken)
	var historyList []map[string]any
	if err := json.Unmarshal(history.Data, &historyList); err != nil {
		t.Fatalf("failed to decode payslips: %v", err)
	}
	if len(historyList) != 1 {
		t.Fatalf("expected payslip history to survive, got %d slips", len(historyList))
	}
	allRequests := getJSON(t, client, ts.URL+"/api/v1/leave-requests", adminToken)
	if err := json.Unmarshal(allRequests.Data, &requestList); err != nil {
		t.Fatalf("failed to decode requests: %v", err)
	}
	kept := 0
	for _, item := range requestList {
		if item["employeeId"] == employeeID {
			kept++
		}
	}
	if kept != 2 {
		t.Fatalf("expected leave history to survive, got %d requests", kept)
	}

	// With the assignments gone the policy can finally be removed.
	deleteJSON(t, client, ts.URL+"/api/v1/leave-policies/"+policyID, adminToken)
}

func TestEmployeeCannotReadOthersPayslips(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	aliceEmail := fmt.Sprintf("alice-%d@example.com", suffix)
	bobEmail := fmt.Sprintf("bob-%d@example.com", suffix)

	alice := postJSON(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"name": "Alice", "email": aliceEmail,
	})
	aliceID := stringField(t, alice.Data, "id")

	bob := postJSON(t, client, ts.URL+"/api/v1/employees", adminToken, map[string]any{
		"name": "Bob", "email": bobEmail,
	})
	bobID := stringField(t, bob.Data, "id")

	bobToken := register(t, client, ts.URL, bobEmail, "Secret123!", "Bob")

	getJSONStatus(t, client, ts.URL+"/api/v1/payslips/employee/"+aliceID, bobToken, http.StatusForbidden)
	getJSON(t, client, ts.URL+"/api/v1/payslips/employee/"+bobID, bobToken)
}

func clearPrintFormats(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/print-formats", token)
	var formats []map[string]any
	if err := json.Unmarshal(resp.Data, &formats); err != nil {
		t.Fatalf("failed to decode print formats: %v", err)
	}
	for _, format := range formats {
		id, _ := format["id"].(string)
		doJSON(t, client, http.MethodDelete, baseURL+"/api/v1/print-formats/"+id, token, nil, 0)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	token := stringField(t, resp.Data, "token")
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func register(t *testing.T, client *http.Client, baseURL, email, password, fullName string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/register", "", map[string]any{
		"email":    email,
		"password": password,
		"fullName": fullName,
	})
	token := stringField(t, resp.Data, "token")
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func stringField(t *testing.T, data json.RawMessage, key string) string {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	value, _ := payload[key].(string)
	return value
}

func numberField(t *testing.T, data json.RawMessage, key string) float64 {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	value, _ := payload[key].(float64)
	return value
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if want == 0 {
		if resp.StatusCode >= 400 {
			t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
		}
	} else if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, 0)
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, want)
}

func patchJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPatch, url, token, body, 0)
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, 0)
}

func getJSONStatus(t *testing.T, client *http.Client, url, token string, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, want)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body, 0)
}

func putJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body, want)
}

func deleteJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, token, nil, 0)
}

func deleteJSONStatus(t *testing.T, client *http.Client, url, token string, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, token, nil, want)
}

func download(t *testing.T, client *http.Client, url, token string) ([]byte, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, resp.Header.Get("Content-Type")
}
