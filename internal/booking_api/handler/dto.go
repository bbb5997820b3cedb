package handler

import (
	"time"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/booking_api/service"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/client"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// AdjustBalanceRequest is a signed credit change. Amount accepts a JSON number
// or a decimal string; more than two decimal places is rejected.
type AdjustBalanceRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	Description string           `json:"description" binding:"max=500"`
}

type ResolveReportRequest struct {
	Note string `json:"note" binding:"required,max=2000"`
}

// CalendarParams is the year of GET /calendar/:year
type CalendarParams struct {
	Year int `uri:"year" binding:"required,min=1970,max=9999"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

// ProfileResponse is a client profile as the front-end reads it
type ProfileResponse struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	Amount       string `json:"amount"`
	BalanceAfter string `json:"balance_after"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	CreatedBy    string `json:"created_by"`
	BookingID    string `json:"booking_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type AdjustmentResponse struct {
	NewBalance  string              `json:"new_balance"`
	Transaction TransactionResponse `json:"transaction"`
}

func mapProfileToResponse(p *client.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Role:      string(p.Role),
		Balance:   p.CurrentBalance().StringFixed(2),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
	}
}

func mapTransactionToResponse(tx *ledger.Transaction) TransactionResponse {
	response := TransactionResponse{
		ID:           tx.ID.String(),
		ClientID:     tx.ClientID.String(),
		Amount:       tx.Amount.StringFixed(2),
		BalanceAfter: tx.BalanceAfter.StringFixed(2),
		Description:  tx.Description,
		Type:         string(tx.Type),
		CreatedBy:    tx.CreatedBy.String(),
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.BookingID != nil {
		response.BookingID = tx.BookingID.String()
	}
	return response
}

func mapTransactionsToResponse(transactions []*ledger.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		response = append(response, mapTransactionToResponse(tx))
	}
	return response
}

func mapAdjustmentToResponse(result *service.AdjustmentResult) AdjustmentResponse {
	return AdjustmentResponse{
		NewBalance:  result.NewBalance.StringFixed(2),
		Transaction: mapTransactionToResponse(result.Transaction),
	}
}
