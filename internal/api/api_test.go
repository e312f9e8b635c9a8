package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"snapfeed/internal/auth"
	"snapfeed/internal/media"
	"snapfeed/internal/posts"
	"snapfeed/internal/testsupport"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUploader struct {
	err   error
	calls int
}

func (f *fakeUploader) Upload(fileData []byte, filename string) (*media.UploadResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &media.UploadResult{
		URL:  "https://cdn.example.com/" + filename,
		Name: filename,
	}, nil
}

type testEnv struct {
	router   *gin.Engine
	users    *auth.UserManager
	db       *gorm.DB
	uploader *fakeUploader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testsupport.OpenTestDB(t)
	users := auth.NewUserManager(db, auth.NewTokenIssuer("test-secret", time.Hour))
	uploader := &fakeUploader{}
	service := posts.NewService(db, uploader)

	r := gin.New()
	RegisterRoutes(r, users, service)

	return &testEnv{router: r, users: users, db: db, uploader: uploader}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(t, req)
}

// registerAndLogin creates an account through the HTTP surface and returns a
// bearer token for it.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()

	rec := e.doJSON(t, "POST", "/auth/jwt/register", "", gin.H{"email": email, "password": password})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest("POST", "/auth/jwt/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = e.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	if resp.TokenType != "bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected login response: %s", rec.Body.String())
	}
	return resp.AccessToken
}

// upload performs a multipart POST /upload with the given file part.
func (e *testEnv) upload(t *testing.T, token, filename, contentType, caption string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create file part: %v", err)
	}
	part.Write(data)

	if caption != "" {
		writer.WriteField("caption", caption)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(t, req)
}

type postResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Caption   string    `json:"caption"`
	URL       string    `json:"url"`
	FileType  string    `json:"file_type"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
	IsOwner   bool      `json:"is_owner"`
	Email     string    `json:"email"`
}

func (e *testEnv) feed(t *testing.T, token string) []postResponse {
	t.Helper()

	rec := e.doJSON(t, "GET", "/feed", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feed: status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Posts []postResponse `json:"posts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode feed response: %v", err)
	}
	return resp.Posts
}
