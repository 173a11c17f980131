package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/LavaJover/shvark-redsys-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-redsys-service/internal/domain"
	"github.com/LavaJover/shvark-redsys-service/internal/usecase"
	checkoutdto "github.com/LavaJover/shvark-redsys-service/internal/usecase/dto/checkout"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 10

type RedsysHandler struct {
	notifications usecase.NotificationUsecase
	checkout      usecase.CheckoutUsecase
	logger        *zap.Logger
}

func NewRedsysHandler(notifications usecase.NotificationUsecase, checkout usecase.CheckoutUsecase, logger *zap.Logger) *RedsysHandler {
	return &RedsysHandler{
		notifications: notifications,
		checkout:      checkout,
		logger:        logger,
	}
}

// Notify reads the body verbatim: the signature covers Ds_MerchantParameters exactly as sent.
func (h *RedsysHandler) Notify(w http.ResponseWriter, r *http.Request) {
	rawBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("failed to read notification body", zap.Error(err))
	}

	outcome := h.notifications.ProcessNotification(r.Context(), rawBody)

	switch outcome.Status {
	case usecase.OutcomeRejected:
		writeJSON(w, outcome.HTTPStatus, response.ErrorResponse{Error: outcome.Message})
	default:
		writeJSON(w, outcome.HTTPStatus, response.StatusResponse{Status: outcome.Status})
	}
}

func (h *RedsysHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var input checkoutdto.CreateOrderInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, response.ErrorResponse{
			Error:   "Invalid request body",
			Details: []string{err.Error()},
		})
		return
	}

	out, err := h.checkout.CreateOrder(r.Context(), &input)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, response.ErrorResponse{Error: "Invalid request", Details: verr.Details})
			return
		}
		h.logger.Error("failed to create payment", zap.String("kind", domain.Kind(err)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response.ErrorResponse{
			Error:   "Failed to create payment",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *RedsysHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	out, err := h.checkout.GetOrderStatus(r.Context(), orderID)
	if err != nil {
		status := domain.HTTPStatus(err)
		if status == http.StatusNotFound {
			writeJSON(w, status, response.ErrorResponse{Error: "Order not found"})
			return
		}
		h.logger.Error("failed to get order", zap.String("order_id", orderID), zap.Error(err))
		writeJSON(w, status, response.ErrorResponse{Error: "Failed to get order"})
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
