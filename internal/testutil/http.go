package testutil

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/projecthub/internal/app/system/auth"
)

// TestIdentity returns a caller identity for handler tests.
func TestIdentity() auth.Identity {
	return auth.Identity{UserID: 1, Username: "tester", Role: "admin"}
}

// WithIdentity injects an identity into the request context, bypassing
// token verification.
func WithIdentity(r *http.Request, id auth.Identity) *http.Request {
	return auth.WithTestIdentity(r, id)
}

// FileField is one file part of a multipart request.
type FileField struct {
	Field    string
	FileName string
	Content  []byte
}

// NewMultipartRequest builds a multipart/form-data request with the given
// text fields and files. Files with the same Field repeat that field.
func NewMultipartRequest(t *testing.T, method, target string, fields map[string]string, files []FileField) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			t.Fatalf("create form file %s: %v", f.FileName, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			t.Fatalf("write form file %s: %v", f.FileName, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// NewJSONRequest builds a request with a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// Envelope is the decoded shape of every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// DecodeEnvelope parses a recorder body as an API envelope.
func DecodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to parse response: %v (body %q)", err, rec.Body.String())
	}
	return env
}
