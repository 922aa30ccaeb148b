package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/exchange"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// OrdersHandler handles HTTP requests for the tracked open orders.
type OrdersHandler struct {
	exchange *exchange.Client
	logger   *zap.Logger
}

// NewOrdersHandler creates a new open-orders handler.
func NewOrdersHandler(client *exchange.Client, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		exchange: client,
		logger:   logger,
	}
}

// OrderEntry represents a single open order in the HTTP response. Amounts
// are raw integer token amounts.
type OrderEntry struct {
	TokenGet   string    `json:"token_get"`
	AmountGet  types.Wad `json:"amount_get"`
	TokenGive  string    `json:"token_give"`
	AmountGive types.Wad `json:"amount_give"`
	Expires    uint64    `json:"expires"`
	Nonce      uint32    `json:"nonce"`
	User       string    `json:"user"`
}

// OrdersResponse represents the HTTP response for open orders.
type OrdersResponse struct {
	Contract string       `json:"contract"`
	Count    int          `json:"count"`
	Orders   []OrderEntry `json:"orders"`
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleOrders handles GET /api/orders[?user=<address>] requests. The
// optional user parameter narrows the listing to one maker.
func (h *OrdersHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var filterUser common.Address
	filterSet := false
	if user := r.URL.Query().Get("user"); user != "" {
		if !common.IsHexAddress(user) {
			h.writeError(w, "invalid user address", http.StatusBadRequest)
			return
		}
		filterUser = common.HexToAddress(user)
		filterSet = true
	}

	open, err := h.exchange.ActiveOrders(r.Context())
	if err != nil {
		h.logger.Error("active-orders-failed", zap.Error(err))
		h.writeError(w, "order tracker unavailable", http.StatusServiceUnavailable)
		return
	}

	entries := make([]OrderEntry, 0, len(open))
	for _, order := range open {
		if filterSet && order.User != filterUser {
			continue
		}

		entries = append(entries, OrderEntry{
			TokenGet:   order.TokenGet.Hex(),
			AmountGet:  order.AmountGet,
			TokenGive:  order.TokenGive.Hex(),
			AmountGive: order.AmountGive,
			Expires:    order.Expires,
			Nonce:      order.Nonce,
			User:       order.User.Hex(),
		})
	}

	response := OrdersResponse{
		Contract: h.exchange.Contract().Hex(),
		Count:    len(entries),
		Orders:   entries,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err = json.NewEncoder(w).Encode(response)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *OrdersHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	err := json.NewEncoder(w).Encode(ErrorResponse{Error: message})
	if err != nil {
		h.logger.Error("failed-to-encode-error-response", zap.Error(err))
	}
}
