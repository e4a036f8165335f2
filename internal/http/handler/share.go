package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/content"
	"docvault/internal/service"
)

// ShareDocument godoc
// @Summary Create a share link
// @Description Replaces any previous token. expirationDays defaults to 7, range 1..30.
// @Tags sharing
// @Accept json
// @Produce json
// @Param id path string true "document id"
// @Param body body shareRequest false "expiration"
// @Success 200 {object} shareResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/share [post]
func ShareDocument(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req shareRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return &service.ValidationError{Field: "body", Reason: "invalid JSON"}
			}
		}
		link, err := svc.CreateShareLink(c.UserContext(), c.Params("id"), req.ExpirationDays)
		if err != nil {
			return err
		}
		return c.JSON(shareResponse{Success: true, ShareToken: link.Token, ExpiresAt: link.ExpiresAt})
	}
}

// RevokeShare godoc
// @Summary Disable sharing
// @Tags sharing
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorPayload
// @Router /api/documents/{id}/share [delete]
func RevokeShare(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		existed, err := svc.RevokeShare(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		if !existed {
			return service.ErrNotFound
		}
		return c.JSON(successResponse{Success: true})
	}
}

// GetSharedDocument godoc
// @Summary Open a shared document
// @Description Public. Unknown, revoked and expired tokens all answer 404.
// @Tags sharing
// @Produce json
// @Param token path string true "share token"
// @Success 200 {object} sharedDocumentResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /api/shared/{token} [get]
func GetSharedDocument(svc service.ShareService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.ResolveShareToken(c.UserContext(), c.Params("token"))
		if err != nil {
			return err
		}
		return c.JSON(sharedDocumentResponse{
			ID:               doc.ID,
			Name:             doc.Name,
			FileType:         doc.FileType,
			CreatedAt:        doc.CreatedAt,
			Type:             doc.FileType,
			Content:          content.DataURL(doc.FileType, doc.Content),
			PreviewAvailable: doc.Content != nil,
			User:             string(doc.Owner),
			ExpiresAt:        doc.ShareExpiresAt,
		})
	}
}
