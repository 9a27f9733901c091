package http

import (
	"encoding/json"
	"net/http"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/ledger"
)

type tradeResultDTO struct {
	TransactionID string  `json:"transactionId"`
	PlayerID      string  `json:"playerId"`
	ItemID        string  `json:"itemId"`
	Direction     string  `json:"direction"`
	Quantity      int     `json:"quantity"`
	UnitPrice     string  `json:"unitPrice"`
	Total         string  `json:"total"`
	NewBalance    string  `json:"newBalance"`
}

func toTradeResultDTO(r *shop.TradeResult) tradeResultDTO {
	return tradeResultDTO{
		TransactionID: r.TransactionID,
		PlayerID:      r.PlayerID,
		ItemID:        r.ItemID,
		Direction:     r.Direction.String(),
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice.StringFixed(2),
		Total:         r.Total.StringFixed(2),
		NewBalance:    r.NewBalance.StringFixed(2),
	}
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, direction ledger.Direction) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cmd := &shop.ExecuteTradeCommand{
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		ItemID:     req.ItemID,
		Quantity:   req.Quantity,
		Direction:  direction,
	}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.ExecuteTradeResponse).Result
	writeSuccess(w, http.StatusOK, "trade executed", toTradeResultDTO(result))
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, ledger.PlayerBuys)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, ledger.PlayerSells)
}

type batchEntryDTO struct {
	Index  int             `json:"index"`
	Result *tradeResultDTO `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	ops := make([]shop.BatchOperation, 0, len(req.Transactions))
	for _, t := range req.Transactions {
		direction, err := ledger.ParseDirection(t.Direction)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid direction", err.Error())
			return
		}
		ops = append(ops, shop.BatchOperation{ItemID: t.ItemID, Quantity: t.Quantity, Direction: direction})
	}

	cmd := &shop.BatchExecuteCommand{
		PlayerID:   req.PlayerID,
		PlayerName: req.PlayerName,
		Operations: ops,
	}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	entries := resp.(*shop.BatchExecuteResponse).Entries
	dtos := make([]batchEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := batchEntryDTO{Index: e.Index}
		if e.Err != nil {
			dto.Error = e.Err.Error()
		} else {
			result := toTradeResultDTO(e.Result)
			dto.Result = &result
		}
		dtos = append(dtos, dto)
	}

	writeSuccess(w, http.StatusOK, "batch executed", dtos)
}
