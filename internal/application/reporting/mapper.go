package reporting

import (
	"github.com/jhoicas/smd-api/internal/application/dto"
	"github.com/jhoicas/smd-api/internal/domain/entity"
	"github.com/jhoicas/smd-api/internal/domain/repository"
)

func toClosingResponse(r repository.ClosingRow) dto.ClosingResponse {
	c := r.Closing
	return dto.ClosingResponse{
		SMDClosingID:     c.ID,
		Status:           string(c.Status),
		SellPrice:        c.SellPrice,
		MonthlyRent:      c.MonthlyRent,
		SharePercentage:  c.SharePercentage,
		TotalAmountDue:   c.TotalAmountDue,
		AmountPaid:       c.AmountPaid,
		RemainingBalance: c.RemainingBalance(),
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		ClosedAt:         c.ClosedAt,
		SMDID:            c.DeviceID,
		SMDCode:          r.DeviceCode,
		SMDTitle:         r.DeviceTitle,
		City:             r.DeviceCity,
		Area:             r.DeviceArea,
		CustomerID:       c.CustomerID,
		CustomerName:     r.CustomerName,
		CustomerEmail:    r.CustomerEmail,
		ContactNumber:    r.ContactNumber,
		MarketerID:       c.MarketerID,
		MarketerName:     r.MarketerName,
		MarketerEmail:    r.MarketerEmail,
		ClosedBy:         c.ClosedBy,
		ClosedByName:     r.ClosedByName,
	}
}

func toPayoutResponse(r repository.PayoutRow) dto.PayoutResponse {
	p := r.Payout
	return dto.PayoutResponse{
		PayoutID:      p.ID,
		SMDClosingID:  p.ClosingID,
		PayoutMonth:   p.Month.String(),
		Amount:        p.Amount,
		Status:        string(p.Status),
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		PaidBy:        p.PaidBy,
		PaidByName:    r.PaidByName,
		CustomerID:    r.CustomerID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		SMDID:         r.DeviceID,
		SMDCode:       r.DeviceCode,
		SMDTitle:      r.DeviceTitle,
	}
}

func toPaymentResponse(p *entity.ClosingPayment) dto.ClosingPaymentResponse {
	return dto.ClosingPaymentResponse{
		PaymentID:     p.ID,
		Amount:        p.Amount,
		PaymentMethod: string(p.Method),
		ReferenceNo:   p.ReferenceNo,
		Notes:         p.Notes,
		RecordedBy:    p.RecordedBy,
		CreatedAt:     p.CreatedAt,
	}
}
