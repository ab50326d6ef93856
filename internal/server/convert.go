package server

import (
	"ltd_tracker/internal/domain/entity"
	"ltd_tracker/internal/domain/service/query"
	"ltd_tracker/pkg/lox"
	"ltd_tracker/pkg/rest"
)

func newRESTDeal(d entity.Deal) rest.Deal {
	out := rest.Deal{
		ID:             d.ID.String(),
		Name:           d.Name,
		Marketplace:    d.Marketplace.String(),
		Price:          d.Price,
		PurchaseDate:   d.PurchaseDate.String(),
		RefundWindow:   d.RefundWindow,
		RefundDeadline: d.RefundDeadline.String(),
		Category:       d.Category,
		Status:         d.Status.String(),
		Favorite:       d.Favorite,
		Description:    d.Description,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}

	if d.HasExpiry() {
		expiry := d.ExpiryDate.String()
		out.ExpiryDate = &expiry
	}

	return out
}

func newRESTDeals(deals []entity.Deal) []rest.Deal {
	return lox.Map(deals, newRESTDeal)
}

func newRESTStats(s query.Summary) rest.Stats {
	return rest.Stats{
		Total:           s.Total,
		Active:          s.Active,
		Refundable:      s.Refundable,
		ExpiringSoon:    s.ExpiringSoon,
		Favorites:       s.Favorites,
		TotalInvestment: s.TotalInvestment,
	}
}

func newRESTUpcomingRefunds(upcoming []query.UpcomingRefund) []rest.UpcomingRefund {
	return lox.Map(upcoming, func(u query.UpcomingRefund) rest.UpcomingRefund {
		return rest.UpcomingRefund{
			Deal:     newRESTDeal(u.Deal),
			DaysLeft: u.DaysLeft,
			Urgent:   u.Urgent,
		}
	})
}

func newDomainDealInput(r rest.CreateDealRequest) entity.DealInput {
	return entity.DealInput{
		Name:         r.Name,
		Marketplace:  r.Marketplace,
		Price:        r.Price,
		PurchaseDate: r.PurchaseDate,
		RefundWindow: r.RefundWindow,
		ExpiryDate:   r.ExpiryDate,
		Category:     r.Category,
		Status:       r.Status,
		Favorite:     r.Favorite,
		Description:  r.Description,
		Notes:        r.Notes,
	}
}

func newDomainDealPatch(r rest.UpdateDealRequest) entity.DealPatch {
	return entity.DealPatch{
		Name:         r.Name,
		Marketplace:  r.Marketplace,
		Price:        r.Price,
		PurchaseDate: r.PurchaseDate,
		RefundWindow: r.RefundWindow,
		ExpiryDate:   r.ExpiryDate,
		Category:     r.Category,
		Status:       r.Status,
		Favorite:     r.Favorite,
		Description:  r.Description,
		Notes:        r.Notes,
	}
}
