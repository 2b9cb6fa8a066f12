package handlers

import (
	"context"

	"campusrent/internal/logger"
	"campusrent/internal/models"
	"campusrent/internal/services/escrow"
	"campusrent/internal/utils"
	"campusrent/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type EscrowHandler struct {
	escrowService escrow.Service
}

func NewEscrowHandler(escrowService escrow.Service) *EscrowHandler {
	return &EscrowHandler{escrowService: escrowService}
}

// Create opens an escrow. Only the renter named in the request, or an admin,
// may open it.
func (h *EscrowHandler) Create(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var req escrow.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if !isAdmin(claims) && req.RenterID != claims.UserID {
		return response.Error(c, fiber.StatusForbidden, "escrow can only be opened by its renter")
	}

	created, err := h.escrowService.Create(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Escrow created successfully", created)
}

func (h *EscrowHandler) Get(c *fiber.Ctx) error {
	tx, ok, err := h.loadForParty(c)
	if !ok {
		return err
	}
	return response.Success(c, "Escrow retrieved successfully", tx)
}

func (h *EscrowHandler) Events(c *fiber.Ctx) error {
	if _, ok, err := h.loadForParty(c); !ok {
		return err
	}

	events, err := h.escrowService.Events(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow events retrieved successfully", events)
}

// Hold authorizes the renter's payment.
func (h *EscrowHandler) Hold(c *fiber.Ctx) error {
	return h.transition(c, "hold", renterSide, h.escrowService.Hold)
}

// Release pays the vendor once the renter confirms the rental.
func (h *EscrowHandler) Release(c *fiber.Ctx) error {
	return h.transition(c, "release", renterSide, h.escrowService.Release)
}

// Refund returns the held payment to the renter. The vendor gives it up.
func (h *EscrowHandler) Refund(c *fiber.Ctx) error {
	return h.transition(c, "refund", vendorSide, h.escrowService.Refund)
}

type side int

const (
	renterSide side = iota
	vendorSide
)

type transitionFunc func(ctx context.Context, id string, actorID uint) (*models.EscrowTransaction, error)

func (h *EscrowHandler) transition(c *fiber.Ctx, op string, allowed side, fn transitionFunc) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	tx, err := h.escrowService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	if !isAdmin(claims) && !actsFor(tx, claims.UserID, allowed) {
		logger.Warn("escrow transition denied",
			"escrow_id", tx.ID, "operation", op, "user_id", claims.UserID)
		return response.Error(c, fiber.StatusForbidden, "not allowed to "+op+" this escrow")
	}

	updated, err := fn(c.UserContext(), tx.ID, claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Escrow "+string(updated.State), updated)
}

func (h *EscrowHandler) loadForParty(c *fiber.Ctx) (*models.EscrowTransaction, bool, error) {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return nil, false, response.Unauthorized(c)
	}

	tx, err := h.escrowService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, false, response.FromError(c, err)
	}
	if !isAdmin(claims) && !tx.IsParty(claims.UserID) {
		return nil, false, response.Error(c, fiber.StatusForbidden, "not a party to this escrow")
	}
	return tx, true, nil
}

func actsFor(tx *models.EscrowTransaction, userID uint, s side) bool {
	if s == vendorSide {
		return tx.VendorID == userID
	}
	return tx.RenterID == userID
}

func isAdmin(claims *models.UserClaims) bool {
	return claims.Role == models.RoleAdmin
}
