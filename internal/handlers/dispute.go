package handlers

import (
	"strconv"

	"campusrent/internal/models"
	"campusrent/internal/services/dispute"
	"campusrent/internal/utils"
	"campusrent/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DisputeHandler struct {
	disputeService dispute.Service
}

func NewDisputeHandler(disputeService dispute.Service) *DisputeHandler {
	return &DisputeHandler{disputeService: disputeService}
}

func (h *DisputeHandler) FileDispute(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input dispute.FileRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	input.UserID = claims.UserID

	filed, err := h.disputeService.FileDispute(c.UserContext(), input)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Dispute filed successfully", filed)
}

func (h *DisputeHandler) MyDisputes(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	disputes, err := h.disputeService.ListForUser(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Disputes retrieved successfully", disputes)
}

func (h *DisputeHandler) OpenDisputes(c *fiber.Ctx) error {
	disputes, err := h.disputeService.ListOpen(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Open disputes retrieved successfully", disputes)
}

func (h *DisputeHandler) Resolve(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	disputeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid dispute ID")
	}

	var input struct {
		Resolution models.DisputeResolution `json:"resolution"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	resolved, err := h.disputeService.Resolve(c.UserContext(), uint(disputeID), claims.UserID, input.Resolution)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Dispute resolved successfully", resolved)
}
