package handlers

import (
	"campusrent/internal/models"
	"campusrent/internal/services/deposit"
	"campusrent/internal/services/fee"
	"campusrent/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// QuoteHandler serves the public fee and deposit quotes.
type QuoteHandler struct {
	fees     fee.Service
	deposits deposit.Service
}

func NewQuoteHandler(fees fee.Service, deposits deposit.Service) *QuoteHandler {
	return &QuoteHandler{fees: fees, deposits: deposits}
}

type feeQuoteInput struct {
	RentalAmount     *decimal.Decimal `json:"rentalAmount"`
	RenterID         uint             `json:"renterId"`
	CompletedRentals *int             `json:"completedRentals"`
}

// QuoteFee prices the commission for a rental. A renterId looks the renter's
// history up; otherwise completedRentals must be supplied.
func (h *QuoteHandler) QuoteFee(c *fiber.Ctx) error {
	var input feeQuoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.RentalAmount == nil {
		return response.BadRequest(c, "rentalAmount is required")
	}

	var (
		quote *models.FeeCalculation
		err   error
	)
	switch {
	case input.RenterID != 0:
		quote, err = h.fees.Quote(c.UserContext(), input.RenterID, *input.RentalAmount)
	case input.CompletedRentals != nil:
		history := models.RentalHistory{CompletedRentals: *input.CompletedRentals}
		quote, err = h.fees.QuoteForHistory(c.UserContext(), history, *input.RentalAmount)
	default:
		return response.BadRequest(c, "renterId or completedRentals is required")
	}
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Fee calculated successfully", quote)
}

type depositQuoteInput struct {
	UserProfile *models.UserProfile `json:"userProfile"`
	RenterID    uint                `json:"renterId"`
	ItemDetails models.ItemDetails  `json:"itemDetails"`
	BaseDeposit *decimal.Decimal    `json:"baseDeposit"`
}

func (h *QuoteHandler) QuoteDeposit(c *fiber.Ctx) error {
	var input depositQuoteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if input.BaseDeposit == nil {
		return response.BadRequest(c, "baseDeposit is required")
	}

	var (
		quote *models.DepositBreakdown
		err   error
	)
	switch {
	case input.UserProfile != nil:
		quote, err = h.deposits.Quote(c.UserContext(), *input.UserProfile, input.ItemDetails, *input.BaseDeposit)
	case input.RenterID != 0:
		quote, err = h.deposits.QuoteForRenter(c.UserContext(), input.RenterID, input.ItemDetails, *input.BaseDeposit)
	default:
		return response.BadRequest(c, "userProfile or renterId is required")
	}
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Success(c, "Deposit calculated successfully", quote)
}
