package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSanitizeJSONRedactsSecrets(t *testing.T) {
	body := []byte(`{"email":"a@b.com","password":"hunter2","otp":"123456","bank":{"account_number":"1234","ifsc_code":"SBIN0001","upi_id":"a@upi"},"access_token":"eyJ"}`)

	summary, ok := sanitizeBody(body, echo.MIMEApplicationJSON).(map[string]any)
	if !ok {
		t.Fatalf("expected map summary, got %T", summary)
	}
	if summary["email"] != "a@b.com" {
		t.Fatalf("email should be kept, got %v", summary["email"])
	}
	for _, key := range []string{"password", "otp", "access_token"} {
		if summary[key] != redacted {
			t.Fatalf("%s should be redacted, got %v", key, summary[key])
		}
	}
	bank := summary["bank"].(map[string]any)
	for _, key := range []string{"account_number", "ifsc_code", "upi_id"} {
		if bank[key] != redacted {
			t.Fatalf("bank.%s should be redacted, got %v", key, bank[key])
		}
	}
}

func TestSanitizeFormRedactsSecrets(t *testing.T) {
	summary := sanitizeBody([]byte("token=abc&user_id=42&new_password=x"), echo.MIMEApplicationForm).(map[string]any)
	if summary["token"] != redacted || summary["new_password"] != redacted {
		t.Fatalf("expected secrets redacted, got %v", summary)
	}
	if summary["user_id"] != "42" {
		t.Fatalf("expected user_id kept, got %v", summary["user_id"])
	}
}

func TestSanitizeBodyClampsLongText(t *testing.T) {
	long := strings.Repeat("a", maxLoggedBody+100)
	got := sanitizeBody([]byte(long), "text/plain").(string)
	if !strings.HasSuffix(got, "...(truncated)") || len(got) > maxLoggedBody+len("...(truncated)") {
		t.Fatalf("expected clamped string, got length %d", len(got))
	}
}

func TestRequestLoggingUsesLogger(t *testing.T) {
	log := &recordingLogger{}
	e := NewRouter([]string{"*"}, log)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(log.infos) != 1 || log.infos[0] != "request" {
		t.Fatalf("expected one request log line, got %v", log.infos)
	}
}
