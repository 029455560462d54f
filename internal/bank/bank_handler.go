package bank

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-payroll/internal/employee"
	"go-payroll/internal/shared/response"
)

type ValidateAccountRequest struct {
	BankName      string `json:"bank_name"`
	RoutingNumber string `json:"routing_number" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	AccountType   string `json:"account_type" binding:"omitempty,oneof=checking savings"`
}

type Handler struct {
	validator *Validator
}

func NewHandler(validator *Validator) *Handler {
	return &Handler{validator: validator}
}

// Validate checks an account ahead of saving it on an employee record, so
// the UI can reject bad routing numbers before payroll ever runs.
func (h *Handler) Validate(c *gin.Context) {
	var req ValidateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	result := h.validator.ValidateAccount(c.Request.Context(), employee.BankAccount{
		BankName:      req.BankName,
		RoutingNumber: req.RoutingNumber,
		AccountNumber: req.AccountNumber,
		AccountType:   req.AccountType,
	})

	response.Success(c, http.StatusOK, result, nil)
}
