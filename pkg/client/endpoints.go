package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobboard/pkg/models"
)

// NewApplication is the body of POST /addjob.
type NewApplication struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Status      int64  `json:"status"`
	Deadline    string `json:"deadline,omitempty"`
	DateApplied string `json:"dateApplied,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Salary      string `json:"salary,omitempty"`
	Color       string `json:"color,omitempty"`
	CompanyLogo string `json:"companyLogo,omitempty"`
	Favourite   bool   `json:"favourite,omitempty"`
}

// NewFile is the body of POST /files.
type NewFile struct {
	TypeID         int64   `json:"typeId"`
	URL            string  `json:"url"`
	Name           string  `json:"name"`
	Extension      string  `json:"extension,omitempty"`
	Description    string  `json:"description,omitempty"`
	ApplicationIDs []int64 `json:"applicationIds"`
}

// Presigned is the answer of POST /files/presigned-upload.
type Presigned struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signup registers a user and keeps the returned token.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signup", map[string]string{"name": name, "email": email, "password": password}, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

// Signin authenticates and keeps the returned token.
func (c *Client) Signin(ctx context.Context, email, password string) error {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/signin", map[string]string{"email": email, "password": password}, &out); err != nil {
		return err
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) ListStatuses(ctx context.Context) ([]models.Status, error) {
	var out []models.Status
	return out, c.do(ctx, http.MethodGet, "/v1/status", nil, &out)
}

func (c *Client) CreateStatus(ctx context.Context, name string) (*models.Status, error) {
	var out struct {
		Status *models.Status `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/status", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return out.Status, nil
}

func (c *Client) RenameStatus(ctx context.Context, id int64, name string) (*models.Status, error) {
	var out struct {
		Status *models.Status `json:"status"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/status/%d", id), map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return out.Status, nil
}

func (c *Client) DeleteStatus(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/status/%d", id), nil, nil)
}

// MoveStatus persists the full column order after column id was dragged.
func (c *Client) MoveStatus(ctx context.Context, id int64, order []int64) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/status/%d/move", id), map[string][]int64{"order": order}, nil)
}

func (c *Client) ListApplications(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	return out, c.do(ctx, http.MethodGet, "/v1/applications", nil, &out)
}

func (c *Client) CreateApplication(ctx context.Context, a NewApplication) (*models.Application, error) {
	var out struct {
		Job *models.Application `json:"job"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/addjob", a, &out); err != nil {
		return nil, err
	}
	return out.Job, nil
}

func (c *Client) UpdateApplication(ctx context.Context, id int64, p *models.ApplicationPatch) (*models.Application, error) {
	var out struct {
		Application *models.Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/applications/%d", id), p, &out); err != nil {
		return nil, err
	}
	return out.Application, nil
}

func (c *Client) ToggleFavourite(ctx context.Context, id int64) (*models.Application, error) {
	var out struct {
		Application *models.Application `json:"application"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/applications/%d/favorite", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Application, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/applications/%d", id), nil, nil)
}

func (c *Client) ListFileTypes(ctx context.Context) ([]models.FileType, error) {
	var out []models.FileType
	return out, c.do(ctx, http.MethodGet, "/v1/files/types", nil, &out)
}

func (c *Client) ListFiles(ctx context.Context) ([]models.File, error) {
	var out []models.File
	return out, c.do(ctx, http.MethodGet, "/v1/files", nil, &out)
}

func (c *Client) CreateFile(ctx context.Context, f NewFile) (*models.File, error) {
	if f.ApplicationIDs == nil {
		f.ApplicationIDs = []int64{}
	}
	var out struct {
		File *models.File `json:"file"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/files", f, &out); err != nil {
		return nil, err
	}
	return out.File, nil
}

func (c *Client) UpdateFile(ctx context.Context, id int64, p *models.FilePatch) (*models.File, error) {
	var out struct {
		File *models.File `json:"file"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/v1/files/%d", id), p, &out); err != nil {
		return nil, err
	}
	return out.File, nil
}

// ReplaceLinks sends the complete set of application ids for a file.
func (c *Client) ReplaceLinks(ctx context.Context, fileID int64, ids []int64) (*models.File, error) {
	if ids == nil {
		ids = []int64{}
	}
	return c.UpdateFile(ctx, fileID, &models.FilePatch{ApplicationIDs: &ids})
}

func (c *Client) DeleteFile(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/v1/files/%d", id), nil, nil)
}

func (c *Client) Presign(ctx context.Context, docType, filename string) (*Presigned, error) {
	var out Presigned
	if err := c.do(ctx, http.MethodPost, "/v1/files/presigned-upload", map[string]string{"docType": docType, "filename": filename}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadObject PUTs the body straight to a presigned URL. No bearer token
// is sent; the URL carries its own credentials.
func (c *Client) UploadObject(ctx context.Context, uploadURL string, body io.Reader, size int64, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	logger.Info("client: object uploaded", slog.Int64("size", size))
	return nil
}

// DeleteAccount schedules removal of the signed-in account and returns the
// purge job id.
func (c *Client) DeleteAccount(ctx context.Context) (int64, error) {
	var out struct {
		JobID int64 `json:"jobId"`
	}
	if err := c.do(ctx, http.MethodDelete, "/v1/account", nil, &out); err != nil {
		return 0, err
	}
	return out.JobID, nil
}
