package handler

import (
	"time"

	"docvault/internal/model"
	"docvault/internal/service"
)

type documentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileType  string    `json:"fileType"`
	User      string    `json:"user"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDocumentResponse(d model.Document) documentResponse {
	return documentResponse{
		ID:        d.ID,
		Name:      d.Name,
		FileType:  d.FileType,
		User:      string(d.Owner),
		Size:      d.Size,
		CreatedAt: d.CreatedAt,
	}
}

type createDocumentRequest struct {
	Name     string `json:"name"`
	FileData string `json:"fileData"`
	FileType string `json:"fileType"`
	User     string `json:"user"`
}

type previewResponse struct {
	Type             string `json:"type"`
	Name             string `json:"name"`
	Content          string `json:"content"`
	PreviewAvailable bool   `json:"previewAvailable"`
	User             string `json:"user"`
}

func toPreviewResponse(p *service.Preview) previewResponse {
	return previewResponse{
		Type:             p.Type,
		Name:             p.Name,
		Content:          p.Content,
		PreviewAvailable: p.PreviewAvailable,
		User:             string(p.Owner),
	}
}

type sharedDocumentResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	FileType         string     `json:"fileType"`
	CreatedAt        time.Time  `json:"createdAt"`
	Type             string     `json:"type"`
	Content          string     `json:"content"`
	PreviewAvailable bool       `json:"previewAvailable"`
	User             string     `json:"user"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

type shareRequest struct {
	ExpirationDays *int `json:"expirationDays"`
}

type shareResponse struct {
	Success    bool      `json:"success"`
	ShareToken string    `json:"shareToken"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

type verifyRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type transferRequest struct {
	User string `json:"user"`
}

type transferResponse struct {
	Success       bool   `json:"success"`
	ModifiedCount int64  `json:"modifiedCount"`
	User          string `json:"user"`
}

type successResponse struct {
	Success bool `json:"success"`
}
