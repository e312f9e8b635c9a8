package media

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"snapfeed/internal/apperrors"
)

func newTestClient(uploadURL string) *Client {
	return &Client{
		UploadURL:  uploadURL,
		PrivateKey: "private-key",
		HTTP:       &http.Client{},
	}
}

func TestUploadSendsMultipartRequest(t *testing.T) {
	var gotFileName, gotTags, gotFile, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		gotFileName = r.FormValue("fileName")
		gotTags = r.FormValue("tags")
		gotUser, _, _ = r.BasicAuth()

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
		} else {
			data, _ := io.ReadAll(file)
			gotFile = string(data)
			file.Close()
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://cdn.example.com/photo_x.png","name":"photo_x.png","fileId":"f-1"}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).Upload([]byte("png-bytes"), "photo.png")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	if result.URL != "https://cdn.example.com/photo_x.png" {
		t.Fatalf("unexpected url %q", result.URL)
	}
	if result.Name != "photo_x.png" {
		t.Fatalf("unexpected name %q", result.Name)
	}
	if gotFile != "png-bytes" {
		t.Fatalf("file bytes not forwarded, got %q", gotFile)
	}
	if gotUser != "private-key" {
		t.Fatalf("expected basic auth with private key, got %q", gotUser)
	}
	if gotTags != "backend-upload" {
		t.Fatalf("unexpected tags %q", gotTags)
	}
	if !strings.HasPrefix(gotFileName, "photo_") || !strings.HasSuffix(gotFileName, ".png") {
		t.Fatalf("expected unique name keeping base and extension, got %q", gotFileName)
	}
	if gotFileName == "photo.png" {
		t.Fatal("expected generated name to differ from the original")
	}
}

func TestUploadGeneratesDistinctNames(t *testing.T) {
	if uniqueName("a.png") == uniqueName("a.png") {
		t.Fatal("expected distinct generated names for repeated uploads")
	}
}

func TestUploadAPIErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload([]byte("data"), "x.png")
	if apperrors.KindOf(err) != apperrors.Upstream {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid key") {
		t.Fatalf("expected host message in error, got %q", err.Error())
	}
}

func TestUploadTransportErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := newTestClient(srv.URL).Upload([]byte("data"), "x.png")
	if apperrors.KindOf(err) != apperrors.Upstream {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestUploadBadResponseBodyIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload([]byte("data"), "x.png")
	if apperrors.KindOf(err) != apperrors.Upstream {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}
