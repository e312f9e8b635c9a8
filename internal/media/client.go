package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"snapfeed/internal/apperrors"
	"snapfeed/internal/config"

	"github.com/google/uuid"
)

// Client uploads binary files to the media host (an ImageKit-style upload
// API) and returns the durable URL the host assigns. Uploads are not retried
// and not size-checked.
type Client struct {
	UploadURL  string
	PrivateKey string
	HTTP       *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		UploadURL:  cfg.MediaUploadURL,
		PrivateKey: cfg.MediaPrivateKey,
		HTTP:       &http.Client{},
	}
}

// UploadResult is the subset of the media host's response the service needs.
type UploadResult struct {
	URL    string `json:"url"`
	Name   string `json:"name"`
	FileID string `json:"fileId"`
}

// Upload streams the file to the media host under a generated unique name.
// Any transport or API failure is reported as an upstream error.
func (c *Client) Upload(fileData []byte, filename string) (*UploadResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Upstream, err)
	}
	part.Write(fileData)

	writer.WriteField("fileName", uniqueName(filename))
	writer.WriteField("useUniqueFileName", "false")
	writer.WriteField("tags", "backend-upload")
	writer.Close()

	req, err := http.NewRequest("POST", c.UploadURL, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Upstream, err)
	}
	req.SetBasicAuth(c.PrivateKey, "")
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Upstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Upstream, err)
	}

	if resp.StatusCode >= 400 {
		return nil, apperrors.New(apperrors.Upstream,
			"upload failed: %s - %s", resp.Status, string(respBody))
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.Wrap(apperrors.Upstream, err)
	}
	if result.Name == "" {
		result.Name = filename
	}
	return &result, nil
}

// uniqueName prefixes the original filename with a random id so concurrent
// uploads of the same file never collide on the host.
func uniqueName(filename string) string {
	ext := path.Ext(filename)
	base := filename[:len(filename)-len(ext)]
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext)
}
