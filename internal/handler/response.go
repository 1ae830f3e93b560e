package handler

import "github.com/actuallystonmai/upsell-service/internal/domain"

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type LimitErrorResponse struct {
	ErrorResponse
	Decision domain.LimitDecision `json:"decision"`
}

type LimitCheckRequest struct {
	Action string `json:"action"`
	Amount *int   `json:"amount"`
}

type IncrementPagesRequest struct {
	Count int `json:"count"`
}

type SyncRequest struct {
	Products []domain.Product `json:"products"`
}

type BatchRequest struct {
	ProductIDs []domain.ProductID `json:"productIds"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func ok(data any) SuccessResponse {
	return SuccessResponse{Success: true, Data: data}
}
