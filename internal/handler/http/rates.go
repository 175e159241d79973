package http

import (
	"encoding/json"
	"net/http"

	"github.com/paylane-hq/payroll-backend-go/internal/domain/rates"
	"github.com/paylane-hq/payroll-backend-go/internal/handler/http/response"
)

type RatesHandler interface {
	SaveConfig(w http.ResponseWriter, r *http.Request)
	GetConfig(w http.ResponseWriter, r *http.Request)
}

type ratesHandlerImpl struct {
	configService rates.ConfigService
}

func NewRatesHandler(configService rates.ConfigService) RatesHandler {
	return &ratesHandlerImpl{configService: configService}
}

func (h *ratesHandlerImpl) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var req rates.SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.configService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate configuration saved", result)
}

func (h *ratesHandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")

	result, err := h.configService.GetEffective(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
