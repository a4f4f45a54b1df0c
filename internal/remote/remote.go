// Package remote is the client for the document-signing service: template
// retrieval, file storage, document creation and share creation.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/courier/internal/shares"
	"github.com/JaimeStill/courier/internal/templates"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 200

// System is the signing service API consumed by the batch.
type System interface {
	// FetchTemplate returns the template with the given id.
	FetchTemplate(ctx context.Context, id string) (*templates.Template, error)
	// DownloadFile streams the stored file with the given id. The caller must
	// close the reader. Reads past the configured maximum size fail with
	// ErrFileTooLarge.
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error)
	// UploadFile stores the contents of reader under name.
	UploadFile(ctx context.Context, name, contentType string, reader io.Reader) (*UploadResult, error)
	// CreateDocument registers an uploaded file as a document titled title.
	CreateDocument(ctx context.Context, title, fileID string) (*DocumentResult, error)
	// CreateShare sends a share request.
	CreateShare(ctx context.Context, payload shares.Payload) error
}

// UploadResult is the service's answer to a file upload.
type UploadResult struct {
	File StoredFile `json:"file"`
}

// StoredFile identifies a file in the service's file storage.
type StoredFile struct {
	FileID string `json:"fileId"`
}

// DocumentResult is the service's answer to document creation.
type DocumentResult struct {
	Results []DocumentRef `json:"results"`
}

// DocumentRef identifies a created document.
type DocumentRef struct {
	DocumentID string `json:"documentId"`
}

// DocumentID returns the id of the first created document.
func (r *DocumentResult) DocumentID() string {
	if len(r.Results) == 0 {
		return ""
	}
	return r.Results[0].DocumentID
}

type createDocumentRequest struct {
	Body struct {
		DocumentType  string `json:"documentType"`
		DocumentTitle string `json:"documentTitle"`
		PDFFile       struct {
			Content string `json:"content"`
		} `json:"pdfFile"`
	} `json:"body"`
	DefinitionType string `json:"definitionType"`
	Workflow       string `json:"workflow"`
}

type client struct {
	httpClient  *http.Client
	base        string
	token       string
	maxFileSize int64
	logger      *slog.Logger
}

// New creates a service client from cfg. cfg is expected to be finalized.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if _, err := url.Parse(cfg.BaseURI); err != nil {
		return nil, fmt.Errorf("parse base uri: %w", err)
	}

	return &client{
		httpClient:  &http.Client{Timeout: cfg.TimeoutDuration()},
		base:        cfg.BaseURI,
		token:       cfg.Token,
		maxFileSize: cfg.MaxFileSizeBytes(),
		logger:      logger.With("system", "remote"),
	}, nil
}

func (c *client) FetchTemplate(ctx context.Context, id string) (*templates.Template, error) {
	resp, err := c.do(ctx, http.MethodGet, nil, "", "templates", id)
	if err != nil {
		return nil, fmt.Errorf("fetch template %s: %w", id, err)
	}
	defer resp.Body.Close()

	var tpl templates.Template
	if err := decode(resp.Body, &tpl); err != nil {
		return nil, fmt.Errorf("fetch template %s: %w", id, err)
	}
	return &tpl, nil
}

func (c *client) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, error) {
	resp, err := c.do(ctx, http.MethodGet, nil, "", "files", "loadFile", "hash", fileID)
	if err != nil {
		return nil, fmt.Errorf("download file %s: %w", fileID, err)
	}
	if resp.ContentLength > c.maxFileSize {
		resp.Body.Close()
		return nil, fmt.Errorf("download file %s: %w", fileID, ErrFileTooLarge)
	}
	return &limitedBody{body: resp.Body, remaining: c.maxFileSize}, nil
}

func (c *client) UploadFile(ctx context.Context, name, contentType string, reader io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create upload part: %w", err)
	}
	if _, err := io.Copy(part, reader); err != nil {
		return nil, fmt.Errorf("write upload part: %w", err)
	}
	if err := mw.WriteField("fileName", strings.TrimSuffix(name, filepath.Ext(name))); err != nil {
		return nil, fmt.Errorf("write upload field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close upload body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, &buf, mw.FormDataContentType(), "files", "saveFile")
	if err != nil {
		return nil, fmt.Errorf("upload file %s: %w", name, err)
	}
	defer resp.Body.Close()

	var result UploadResult
	if err := decode(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("upload file %s: %w", name, err)
	}
	if result.File.FileID == "" {
		return nil, fmt.Errorf("upload file %s: %w: no file id", name, ErrMalformedResponse)
	}
	return &result, nil
}

func (c *client) CreateDocument(ctx context.Context, title, fileID string) (*DocumentResult, error) {
	var req createDocumentRequest
	req.Body.DocumentType = "d_default"
	req.Body.DocumentTitle = title
	req.Body.PDFFile.Content = fileID
	req.DefinitionType = "ext"
	req.Workflow = "wf_archive"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal document request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, bytes.NewReader(body), "application/json", "documents")
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	defer resp.Body.Close()

	var result DocumentResult
	if err := decode(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	if result.DocumentID() == "" {
		return nil, fmt.Errorf("create document: %w: no document id", ErrMalformedResponse)
	}
	return &result, nil
}

func (c *client) CreateShare(ctx context.Context, payload shares.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal share request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, bytes.NewReader(body), "application/json", "share")
	if err != nil {
		return fmt.Errorf("create share for document %s: %w", payload.ID, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		c.logger.WarnContext(ctx, "share confirmation unreadable", "document_id", payload.ID, "error", err)
	}
	return nil
}

// do sends an authenticated request to the path formed from segments and
// returns the response if its status is 2xx.
func (c *client) do(
	ctx context.Context,
	method string,
	body io.Reader,
	contentType string,
	segments ...string,
) (*http.Response, error) {
	endpoint, err := url.JoinPath(c.base, segments...)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.DebugContext(ctx, "remote request", "method", method, "path", u.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4*maxErrorBody))
	msg := strings.TrimSpace(string(data))
	if runes := []rune(msg); len(runes) > maxErrorBody {
		msg = string(runes[:maxErrorBody]) + "..."
	}
	if msg == "" {
		return fmt.Errorf("%w: HTTP %d", ErrRequestFailed, resp.StatusCode)
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrRequestFailed, resp.StatusCode, msg)
}

func decode(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// limitedBody fails reads once more than remaining bytes have been read.
type limitedBody struct {
	body      io.ReadCloser
	remaining int64
}

func (l *limitedBody) Read(p []byte) (int, error) {
	if l.remaining < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.body.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}

func (l *limitedBody) Close() error {
	return l.body.Close()
}
