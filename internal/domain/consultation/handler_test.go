package consultation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func doRequest(h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandlerBook(t *testing.T) {
	svc, _, docID := newTestService()
	h := NewHandler(svc, zerolog.New(os.Stderr))

	body := fmt.Sprintf(`{
		"doctorId": %q,
		"appointmentDate": %q,
		"appointmentTime": "09:00",
		"patientInfo": {"fullName": "Nguyễn Văn A", "phoneNumber": "0901234567"}
	}`, docID, nextMonday())

	rec := doRequest(h.Book, http.MethodPost, "/api/v1/consultations", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var res BookResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !res.Success || !strings.HasPrefix(res.MeetingLink, "https://meet.google.com/") {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHandlerLookup_MissingContact(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc, zerolog.New(os.Stderr))

	rec := doRequest(h.Lookup, http.MethodGet, "/api/v1/consultations/lookup", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), msgMissingContact) {
		t.Errorf("expected %q in body, got %s", msgMissingContact, rec.Body.String())
	}
}
