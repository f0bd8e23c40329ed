package ingestion

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartUpload(t *testing.T, fileName, contents string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestUploadEndpointSuccess(t *testing.T) {
	datasets := newStubDatasets()
	uploads := &stubUploadLog{}
	handler := NewHTTPHandler(NewService(datasets, uploads, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "people.csv", "Name,Age\nAnn,30\n"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if payload["success"] != true {
		t.Fatalf("expected success envelope, got %v", payload)
	}
	if payload["rowsCount"] != float64(1) {
		t.Fatalf("expected rowsCount 1, got %v", payload["rowsCount"])
	}
	tableName, _ := payload["tableName"].(string)
	if !strings.HasPrefix(tableName, "upload_") {
		t.Fatalf("unexpected table name %q", tableName)
	}
	preview, ok := payload["preview"].([]any)
	if !ok || len(preview) != 1 {
		t.Fatalf("expected 1 preview row, got %v", payload["preview"])
	}
}

func TestUploadEndpointRejectsWrongMethod(t *testing.T) {
	handler := NewHTTPHandler(NewService(newStubDatasets(), &stubUploadLog{}, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/upload", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	payload := decodeBody(t, rec)
	if payload["success"] != false {
		t.Fatalf("expected failure envelope, got %v", payload)
	}
}

func TestUploadEndpointRejectsMissingFile(t *testing.T) {
	handler := NewHTTPHandler(NewService(newStubDatasets(), &stubUploadLog{}, nil))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("note", "no file here"); err != nil {
		t.Fatalf("failed to write field: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUploadEndpointRejectsUnsupportedFormat(t *testing.T) {
	handler := NewHTTPHandler(NewService(newStubDatasets(), &stubUploadLog{}, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "notes.txt", "just text"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadEndpointRejectsHeaderOnlySheet(t *testing.T) {
	handler := NewHTTPHandler(NewService(newStubDatasets(), &stubUploadLog{}, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "empty.csv", "Name,Age\n"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUploadEndpointReportsColumnConflict(t *testing.T) {
	handler := NewHTTPHandler(NewService(newStubDatasets(), &stubUploadLog{}, nil))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartUpload(t, "dup.csv", "a b,a-b\n1,2\n"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	payload := decodeBody(t, rec)
	msg, _ := payload["message"].(string)
	if !strings.Contains(msg, "a_b") {
		t.Fatalf("expected conflicting column in message, got %q", msg)
	}
}
