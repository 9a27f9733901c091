package http

import (
	"encoding/json"
	"net/http"

	"github.com/andrescamacho/vendor-pricing-engine/internal/application/shop"
	"github.com/andrescamacho/vendor-pricing-engine/internal/domain/catalog"
)

func (s *Server) handleAdminSetBalance(w http.ResponseWriter, r *http.Request) {
	var req adminSetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cmd := &shop.SetBalanceCommand{
		PlayerID:   req.PlayerID,
		NewBalance: req.NewBalance,
	}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.SetBalanceResponse)
	writeSuccess(w, http.StatusOK, "balance updated", balanceDTO{
		PlayerID: result.PlayerID,
		Balance:  result.Balance.StringFixed(2),
	})
}

// handleAdminAddItem creates a new catalog entry, the admin path §3's
// Lifecycle note describes.
func (s *Server) handleAdminAddItem(w http.ResponseWriter, r *http.Request) {
	var req adminAddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	category, err := catalog.ParseCategory(req.Category)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid category", err.Error())
		return
	}

	var complexity catalog.ComplexityClass
	if req.ComplexityClass != "" {
		complexity, err = catalog.ParseComplexityClass(req.ComplexityClass)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid complexityClass", err.Error())
			return
		}
	}

	cmd := &shop.AddItemCommand{
		ID:            req.ID,
		Name:          req.Name,
		Category:      category,
		Nutrition:     catalog.Nutrition{Hunger: req.NutritionHunger, Saturation: req.Saturation},
		Complexity:    complexity,
		BaseSellPrice: req.BaseSellPrice,
		BaseBuyPrice:  req.BaseBuyPrice,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
	}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.AddItemResponse)
	writeSuccess(w, http.StatusCreated, "item created", toItemDTO(result.Item))
}

// handleAdminDeactivateItem soft-deletes a catalog item (§4.2).
func (s *Server) handleAdminDeactivateItem(w http.ResponseWriter, r *http.Request) {
	cmd := &shop.DeactivateItemCommand{ItemID: r.PathValue("itemId")}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.DeactivateItemResponse)
	writeSuccess(w, http.StatusOK, "item deactivated", toItemDTO(result.Item))
}

type settingDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// handleAdminGetSetting reads one named scalar from the §4.1 config store.
func (s *Server) handleAdminGetSetting(w http.ResponseWriter, r *http.Request) {
	query := &shop.GetSettingQuery{Key: r.PathValue("key")}

	resp, err := s.mediator.Send(r.Context(), query)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.GetSettingResponse)
	writeSuccess(w, http.StatusOK, "setting retrieved", settingDTO{Key: result.Key, Value: result.Value})
}

// handleAdminSetSetting writes one named scalar through the §4.1 store.
func (s *Server) handleAdminSetSetting(w http.ResponseWriter, r *http.Request) {
	var req adminSetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	cmd := &shop.SetSettingCommand{Key: r.PathValue("key"), Value: req.Value}

	resp, err := s.mediator.Send(r.Context(), cmd)
	if err != nil {
		status, msg := statusFor(err)
		writeFailure(w, status, msg)
		return
	}

	result := resp.(*shop.SetSettingResponse)
	writeSuccess(w, http.StatusOK, "setting updated", settingDTO{Key: result.Key, Value: result.Value})
}
