package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"docvault/internal/service"
)

var errContentUnavailable = errors.New("document content unavailable")

// ListDocuments godoc
// @Summary List documents
// @Description Metadata only, newest first. Filter by owner tag with ?user=.
// @Tags documents
// @Produce json
// @Param user query string false "owner tag (MATTHEW, MOM, DAD, SAMUEL)"
// @Success 200 {array} documentResponse
// @Failure 400 {object} errorPayload
// @Router /api/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := svc.List(c.UserContext(), c.Query("user"))
		if err != nil {
			return err
		}
		out := make([]documentResponse, 0, len(docs))
		for _, d := range docs {
			out = append(out, toDocumentResponse(d))
		}
		return c.JSON(out)
	}
}

// UploadDocument godoc
// @Summary Upload a document
// @Description fileData is base64, optionally as a data URL.
// @Tags documents
// @Accept json
// @Produce json
// @Param body body createDocumentRequest true "document"
// @Success 201 {object} documentResponse
// @Failure 400 {object} errorPayload
// @Router /api/documents [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createDocumentRequest
		if err := c.BodyParser(&req); err != nil {
			return &service.ValidationError{Field: "body", Reason: "invalid JSON"}
		}
		doc, err := svc.Create(c.UserContext(), service.CreateDocumentInput{
			Name:     req.Name,
			FileData: req.FileData,
			FileType: req.FileType,
			Owner:    req.User,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(*doc))
	}
}

var filenameReplacer = strings.NewReplacer(`"`, "'", "\r", "", "\n", "")

// DownloadDocument godoc
// @Summary Download document bytes
// @Tags documents
// @Produce octet-stream
// @Param id path string true "document id"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/documents/{id}/download [get]
func DownloadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		if doc.Content == nil {
			return errContentUnavailable
		}
		c.Set(fiber.HeaderContentType, doc.FileType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filenameReplacer.Replace(doc.Name)+`"`)
		c.Set(fiber.HeaderCacheControl, "no-cache")
		return c.Send(doc.Content)
	}
}

// PreviewDocument godoc
// @Summary Preview a document as a data URL
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} previewResponse
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/preview [get]
func PreviewDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := svc.Preview(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toPreviewResponse(p))
	}
}

// DeleteDocument godoc
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		existed, err := svc.Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		if !existed {
			return service.ErrNotFound
		}
		return c.JSON(successResponse{Success: true})
	}
}

// TransferDocuments godoc
// @Summary Reassign every document to one owner
// @Tags documents
// @Accept json
// @Produce json
// @Param body body transferRequest true "target owner"
// @Success 200 {object} transferResponse
// @Failure 400 {object} errorPayload
// @Router /api/documents/transfer [post]
func TransferDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req transferRequest
		if err := c.BodyParser(&req); err != nil {
			return &service.ValidationError{Field: "body", Reason: "invalid JSON"}
		}
		n, err := svc.TransferAll(c.UserContext(), req.User)
		if err != nil {
			return err
		}
		return c.JSON(transferResponse{Success: true, ModifiedCount: n, User: strings.ToUpper(strings.TrimSpace(req.User))})
	}
}
