package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pocketledger/expense-tracker/internal/api/metrics"
	"github.com/pocketledger/expense-tracker/internal/core/ports"
)

// ExpenseHandler handles HTTP requests for the caller's expenses.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// List handles GET /api/expenses.
//
// @Summary      List the caller's expenses, newest first
// @Tags         expenses
// @Produce      json
// @Success      200  {array}   expenseResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListExpenses(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponses(items))
}

// Create handles POST /api/expenses.
//
// @Summary      Record a new expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        body  body      createExpenseRequest  true  "Expense details"
// @Success      201   {object}  expenseResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createExpenseRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input, err := toCreateExpenseInput(req)
	if err != nil {
		return err
	}

	expense, err := h.service.CreateExpense(c.Request().Context(), user.ID, input)
	if err != nil {
		return err
	}

	metrics.ExpensesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}
