package http

import (
	"net/http"

	"github.com/frontandrew/fleetflow/internal/pkg/logger"
	"github.com/frontandrew/fleetflow/internal/pkg/validate"
	"github.com/frontandrew/fleetflow/internal/usecase/fleet"
)

// ExpenseHandler обрабатывает расходы по рейсам
type ExpenseHandler struct {
	expenseService ExpenseService
	logger         logger.Logger
}

// NewExpenseHandler создает новый handler
func NewExpenseHandler(expenseService ExpenseService, logger logger.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		logger:         logger,
	}
}

// ListExpenses GET /api/expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.ListExpenses(r.Context())
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, expenses)
}

// GetExpense GET /api/expenses/{id}
func (h *ExpenseHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	expense, err := h.expenseService.GetExpense(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusOK, expense)
}

// CreateExpense POST /api/expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req fleet.CreateExpenseRequest
	if err := validate.Decode(w, r, &req); err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(r.Context(), &req)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondData(w, http.StatusCreated, expense)
}
