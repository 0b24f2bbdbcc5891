package api

import (
	"net/http"

	"github.com/etnz/wallet"
	"github.com/go-chi/chi/v5"
)

type createPortfolioRequest struct {
	Name           string        `json:"name"`
	InitialCapital wallet.Amount `json:"initialCapital"`
	FirstGoal      wallet.Amount `json:"firstGoal"`
	Currency       string        `json:"currency"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type amountRequest struct {
	Amount wallet.Amount `json:"amount"`
}

type goalsRequest struct {
	Goals []wallet.GoalInput `json:"goals"`
}

type openTradeRequest struct {
	StockName     string        `json:"stockName"`
	PurchasePrice wallet.Amount `json:"purchasePrice"`
	TradeValue    wallet.Amount `json:"tradeValue"`
	StopLoss      wallet.Amount `json:"stopLoss"`
	TakeProfit    wallet.Amount `json:"takeProfit"`
	Notes         string        `json:"notes"`
}

type editTradeRequest struct {
	StockName     *string        `json:"stockName"`
	PurchasePrice *wallet.Amount `json:"purchasePrice"`
	TradeValue    *wallet.Amount `json:"tradeValue"`
	StopLoss      *wallet.Amount `json:"stopLoss"`
	TakeProfit    *wallet.Amount `json:"takeProfit"`
	Notes         *string        `json:"notes"`
}

type closeTradeRequest struct {
	ClosePrice wallet.Amount `json:"closePrice"`
}

type expenseRequest struct {
	Description string          `json:"description"`
	Amount      wallet.Amount   `json:"amount"`
	Category    wallet.Category `json:"category"`
	PortfolioID string          `json:"portfolioId"`
}

type valuationResponse struct {
	Trade      wallet.Trade   `json:"trade"`
	LastPrice  wallet.Amount  `json:"lastPrice"`
	PnL        wallet.Amount  `json:"pnl"`
	PnLPercent wallet.Percent `json:"pnlPercent"`
	Error      string         `json:"error,omitempty"`
}

type performanceResponse struct {
	wallet.Performance
	History []wallet.HistoryPoint `json:"history"`
	Stocks  []wallet.StockProfit  `json:"stocks"`
}

func (h *Handler) listPortfolios(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, orEmpty(h.ledger.Portfolios()))
}

func (h *Handler) createPortfolio(w http.ResponseWriter, r *http.Request) {
	var req createPortfolioRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.CreatePortfolio(r.Context(), wallet.NewPortfolio{
		Name:           req.Name,
		InitialCapital: req.InitialCapital,
		FirstGoal:      req.FirstGoal,
		Currency:       req.Currency,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.Portfolio(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) renamePortfolio(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.RenamePortfolio(r.Context(), chi.URLParam(r, "id"), req.Name)
	h.reply(w, p, err)
}

func (h *Handler) deletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeletePortfolio(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustCapital(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.AdjustCapital(r.Context(), chi.URLParam(r, "id"), req.Amount)
	h.reply(w, p, err)
}

func (h *Handler) resetCapital(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.ResetCapital(r.Context(), chi.URLParam(r, "id"), req.Amount)
	h.reply(w, p, err)
}

func (h *Handler) setGoals(w http.ResponseWriter, r *http.Request) {
	var req goalsRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.SetGoals(r.Context(), chi.URLParam(r, "id"), req.Goals)
	h.reply(w, p, err)
}

func (h *Handler) openTrade(w http.ResponseWriter, r *http.Request) {
	var req openTradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	_, t, err := h.ledger.OpenTrade(r.Context(), chi.URLParam(r, "id"), wallet.NewTrade{
		StockName:     req.StockName,
		PurchasePrice: req.PurchasePrice,
		TradeValue:    req.TradeValue,
		StopLoss:      req.StopLoss,
		TakeProfit:    req.TakeProfit,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *Handler) editTrade(w http.ResponseWriter, r *http.Request) {
	var req editTradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.EditTrade(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tradeID"), wallet.TradeEdit{
		StockName:     req.StockName,
		PurchasePrice: req.PurchasePrice,
		TradeValue:    req.TradeValue,
		StopLoss:      req.StopLoss,
		TakeProfit:    req.TakeProfit,
		Notes:         req.Notes,
	})
	h.reply(w, p, err)
}

func (h *Handler) closeTrade(w http.ResponseWriter, r *http.Request) {
	var req closeTradeRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.CloseTrade(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tradeID"), req.ClosePrice)
	h.reply(w, p, err)
}

func (h *Handler) deleteTrade(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.DeleteTrade(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "tradeID"))
	h.reply(w, p, err)
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.ledger.WithdrawToSavings(r.Context(), chi.URLParam(r, "id"), req.Amount)
	h.reply(w, p, err)
}

func (h *Handler) unrealized(w http.ResponseWriter, r *http.Request) {
	vs, err := h.ledger.Unrealized(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	res := make([]valuationResponse, 0, len(vs))
	for _, v := range vs {
		vr := valuationResponse{Trade: v.Trade, LastPrice: v.LastPrice, PnL: v.PnL, PnLPercent: v.PnLPercent}
		if v.Err != nil {
			vr.Error = v.Err.Error()
		}
		res = append(res, vr)
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) performance(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.Portfolio(chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, performanceResponse{
		Performance: wallet.NewPerformance(p),
		History:     wallet.CapitalHistory(p),
		Stocks:      orEmpty(wallet.ProfitByStock(p)),
	})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	ps := h.ledger.Portfolios()
	res := make([]wallet.Comparison, 0, len(ps))
	for _, p := range ps {
		res = append(res, wallet.Compare(p))
	}
	h.writeJSON(w, http.StatusOK, res)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, orEmpty(h.ledger.Expenses()))
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	e, err := h.ledger.AddExpense(r.Context(), wallet.NewExpense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		PortfolioID: req.PortfolioID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) savings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]wallet.Amount{"savingsBalance": h.ledger.SavingsBalance()})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, wallet.Summarize(h.ledger.Portfolios()))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="wallet.json"`)
	if err := wallet.EncodeSnapshot(w, h.ledger.Export()); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode snapshot")
	}
}

func (h *Handler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	s, err := wallet.DecodeSnapshot(r.Body, wallet.ImportOptions{})
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.ledger.Import(r.Context(), s); err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{
		"portfolios": len(s.Portfolios),
		"expenses":   len(s.Expenses),
	})
}

// reply writes p, or the error when err is set.
func (h *Handler) reply(w http.ResponseWriter, p wallet.Portfolio, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// orEmpty makes nil slices encode as [].
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
