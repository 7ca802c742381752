package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/application/announcement/dto"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/constants"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/errors"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/logger"
	"github.com/corredoraunidad/APP-UNIDAD-sub001/internal/shared/utils"
)

type AnnouncementHandler struct {
	service announcementService
	logger  logger.Interface
}

func NewAnnouncementHandler(service announcementService, logger logger.Interface) *AnnouncementHandler {
	return &AnnouncementHandler{
		service: service,
		logger:  logger,
	}
}

// CreateAnnouncement godoc
// @Summary Create announcement
// @Description Create an announcement. Publishing on create fans receipts out to every holder of the target roles.
// @Security Bearer
// @Tags announcements
// @Accept json
// @Produce json
// @Param request body dto.CreateAnnouncementRequest true "Announcement data"
// @Success 201 {object} utils.APIResponse{data=dto.AnnouncementResponse} "Announcement created successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 503 {object} utils.APIResponse "Role directory unavailable"
// @Router /announcements [post]
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create announcement", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}
	req.CreatedBy = userID

	result, err := h.service.CreateAnnouncement(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Announcement created successfully")
}

// ListAnnouncements godoc
// @Summary List announcements
// @Description Newest first. is_read reflects the caller's receipt.
// @Security Bearer
// @Tags announcements
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param priority query string false "Priority filter" Enums(low, medium, high)
// @Param status query string false "Status filter" Enums(draft, published, archived)
// @Param search query string false "Matches title or body"
// @Param created_from query string false "RFC3339 or YYYY-MM-DD"
// @Param created_to query string false "RFC3339 or YYYY-MM-DD"
// @Param unread_only query bool false "Only announcements the caller has not read"
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse{items=[]dto.AnnouncementResponse}}
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /announcements [get]
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.ListAnnouncementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}
	req.ViewerID = userID

	result, err := h.service.ListAnnouncements(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Items, result.Total, utils.Pagination{Page: result.Page, Limit: result.Limit})
}

// GetUnreadCount godoc
// @Summary Unread badge count
// @Description Unread receipts of published announcements for the caller.
// @Security Bearer
// @Tags announcements
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.UnreadCountResponse}
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /announcements/unread-count [get]
func (h *AnnouncementHandler) GetUnreadCount(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetAnnouncement godoc
// @Summary View announcement
// @Description Returns the announcement, marks it read for the caller and includes the new unread count.
// @Security Bearer
// @Tags announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} utils.APIResponse{data=dto.AnnouncementDetailResponse}
// @Failure 400 {object} utils.APIResponse "Invalid announcement ID"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "Announcement not found"
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	announcementID, err := utils.ParseUintParam(c, "id", "announcement")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ViewAnnouncement(c.Request.Context(), announcementID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateAnnouncement godoc
// @Summary Update announcement
// @Description Partial update. target_roles replaces the whole set; receipts are only ever added.
// @Security Bearer
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path int true "Announcement ID"
// @Param request body dto.UpdateAnnouncementRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse{data=dto.AnnouncementResponse} "Announcement updated successfully"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Announcement not found"
// @Router /announcements/{id} [patch]
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	announcementID, err := utils.ParseUintParam(c, "id", "announcement")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update announcement",
			"announcement_id", announcementID,
			"error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	result, err := h.service.UpdateAnnouncement(c.Request.Context(), announcementID, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Announcement updated successfully", result)
}

// DeleteAnnouncement godoc
// @Summary Delete announcement
// @Description Deletes the announcement together with its receipts.
// @Security Bearer
// @Tags announcements
// @Param id path int true "Announcement ID"
// @Success 204 "Announcement deleted successfully"
// @Failure 400 {object} utils.APIResponse "Invalid announcement ID"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Announcement not found"
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	announcementID, err := utils.ParseUintParam(c, "id", "announcement")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.service.DeleteAnnouncement(c.Request.Context(), announcementID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// PublishAnnouncement godoc
// @Summary Publish announcement
// @Description Publishes and fans out. Safe to repeat: existing receipts are kept as they are.
// @Security Bearer
// @Tags announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} utils.APIResponse{data=PublishAnnouncementResponse}
// @Failure 400 {object} utils.APIResponse "Invalid transition"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Announcement not found"
// @Failure 503 {object} utils.APIResponse "Role directory unavailable"
// @Router /announcements/{id}/publish [post]
func (h *AnnouncementHandler) PublishAnnouncement(c *gin.Context) {
	announcementID, err := utils.ParseUintParam(c, "id", "announcement")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, fanout, err := h.service.PublishAnnouncement(c.Request.Context(), announcementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Announcement published successfully", PublishAnnouncementResponse{
		Announcement: result,
		Fanout:       fanout,
	})
}

// ArchiveAnnouncement godoc
// @Summary Archive announcement
// @Description Archived announcements stop counting towards unread badges.
// @Security Bearer
// @Tags announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} utils.APIResponse{data=dto.AnnouncementResponse}
// @Failure 400 {object} utils.APIResponse "Invalid announcement ID"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden"
// @Failure 404 {object} utils.APIResponse "Announcement not found"
// @Router /announcements/{id}/archive [post]
func (h *AnnouncementHandler) ArchiveAnnouncement(c *gin.Context) {
	announcementID, err := utils.ParseUintParam(c, "id", "announcement")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.ArchiveAnnouncement(c.Request.Context(), announcementID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Announcement archived successfully", result)
}

// MarkAsRead godoc
// @Summary Mark announcement as read
// @Description Idempotent. Answers 404 when the caller never received the announcement.
// @Security Bearer
// @Tags announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} utils.APIResponse{data=dto.MarkReadResponse}
// @Failure 400 {object} utils.APIResponse "Invalid announcement ID"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "No receipt for the caller"
// @Router /announcements/{id}/read [post]
func (h *AnnouncementHandler) MarkAsRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	announcementID, err := utils.ParseUintParam(c, "id", "announcement")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.service.MarkAsRead(c.Request.Context(), announcementID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Announcement marked as read", result)
}

func currentUserID(c *gin.Context) (uint, error) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, errors.NewUnauthorizedError("User not authenticated")
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		return 0, errors.NewUnauthorizedError("User not authenticated")
	}
	return userID, nil
}
