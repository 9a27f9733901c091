package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
)

type balanceDTO struct {
	PlayerID    string    `json:"playerId"`
	Balance     string    `json:"balance"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	query := &shop.GetBalanceQuery{PlayerID: r.PathValue("playerId")}

	resp, err := s.mediator.Send(r.Context(), query)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.GetBalanceResponse)
	writeSuccess(w, http.StatusOK, "balance retrieved", balanceDTO{
		PlayerID:    result.PlayerID,
		Balance:     result.Balance.StringFixed(2),
		LastUpdated: result.LastUpdated,
	})
}

type transactionDTO struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	ItemID     string    `json:"itemId"`
	Direction  string    `json:"direction"`
	Quantity   int       `json:"quantity"`
	UnitPrice  string    `json:"unitPrice"`
	Total      string    `json:"total"`
	CreatedAt  time.Time `json:"createdAt"`
}

type historyDTO struct {
	Transactions []transactionDTO `json:"transactions"`
	Total        int              `json:"total"`
	Page         int              `json:"page"`
	Size         int              `json:"size"`
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	var direction *ledger.Direction
	if t := q.Get("type"); t != "" {
		d, err := ledger.ParseDirection(t)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid type filter", err.Error())
			return
		}
		direction = &d
	}

	query := &shop.GetHistoryQuery{
		PlayerID:  r.PathValue("playerId"),
		Page:      page,
		Size:      size,
		Direction: direction,
	}

	resp, err := s.mediator.Send(r.Context(), query)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.GetHistoryResponse)
	dtos := make([]transactionDTO, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		dtos = append(dtos, transactionDTO{
			ID:         t.ID().String(),
			PlayerID:   t.PlayerID().Value(),
			PlayerName: t.PlayerName(),
			ItemID:     t.ItemID(),
			Direction:  t.Direction().String(),
			Quantity:   t.Quantity(),
			UnitPrice:  t.UnitPrice().StringFixed(2),
			Total:      t.Total().StringFixed(2),
			CreatedAt:  t.CreatedAt(),
		})
	}

	writeSuccess(w, http.StatusOK, "history retrieved", historyDTO{
		Transactions: dtos,
		Total:        result.Total,
		Page:         result.Page,
		Size:         result.Size,
	})
}

type priceDTO struct {
	ItemID      string    `json:"itemId"`
	BuyPrice    string    `json:"buyPrice"`
	SellPrice   string    `json:"sellPrice"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (s *Server) handleGetPrice(w http.ResponseWriter, r *http.Request) {
	query := &shop.GetPriceQuery{ItemID: r.PathValue("itemId")}

	resp, err := s.mediator.Send(r.Context(), query)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.GetPriceResponse)
	writeSuccess(w, http.StatusOK, "price retrieved", priceDTO{
		ItemID:      result.ItemID,
		BuyPrice:    result.BuyPrice.StringFixed(2),
		SellPrice:   result.SellPrice.StringFixed(2),
		LastUpdated: result.LastUpdated,
	})
}

type itemDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	ComplexityClass string `json:"complexityClass,omitempty"`
	BaseSellPrice   string `json:"baseSellPrice"`
	BaseBuyPrice    string `json:"baseBuyPrice"`
	MinPrice        string `json:"minPrice"`
	MaxPrice        string `json:"maxPrice"`
	Active          bool   `json:"active"`
}

func toItemDTO(item *catalog.Item) itemDTO {
	return itemDTO{
		ID:              item.ID(),
		Name:            item.Name(),
		Category:        item.Category().String(),
		ComplexityClass: item.ComplexityClass().String(),
		BaseSellPrice:   item.BaseSellPrice().StringFixed(2),
		BaseBuyPrice:    item.BaseBuyPrice().StringFixed(2),
		MinPrice:        item.MinPrice().StringFixed(2),
		MaxPrice:        item.MaxPrice().StringFixed(2),
		Active:          item.IsActive(),
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	var category *catalog.Category
	if c := r.URL.Query().Get("category"); c != "" {
		parsed, err := catalog.ParseCategory(c)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid category filter", err.Error())
			return
		}
		category = &parsed
	}

	query := &shop.ListItemsQuery{Category: category}

	resp, err := s.mediator.Send(r.Context(), query)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.ListItemsResponse)
	dtos := make([]itemDTO, 0, len(result.Items))
	for _, item := range result.Items {
		dtos = append(dtos, toItemDTO(item))
	}

	writeSuccess(w, http.StatusOK, "items retrieved", dtos)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	query := &shop.GetItemQuery{ItemID: r.PathValue("itemId")}

	resp, err := s.mediator.Send(r.Context(), query)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.GetItemResponse)
	writeSuccess(w, http.StatusOK, "item retrieved", toItemDTO(result.Item))
}
