package httpapi

import (
	"net/http"

	"github.com/loveeee/ledger/internal/service"
)

func (s *Server) getCouple(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.callerID(w, r, r.URL.Query().Get("userId"))
	if !ok {
		return
	}

	couple, err := s.couples.ResolveCouple(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"couple": toCouple(couple)})
}

type createCoupleRequest struct {
	UserID       string    `json:"userId"`
	PartnerEmail string    `json:"partnerEmail"`
	StartDate    *flexTime `json:"startDate"`
	Anniversary  *flexTime `json:"anniversary"`
	SharedGoals  string    `json:"sharedGoals"`
}

func (s *Server) createCouple(w http.ResponseWriter, r *http.Request) {
	var req createCoupleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := s.callerID(w, r, req.UserID)
	if !ok {
		return
	}

	in := service.CreateCoupleInput{
		UserID:       userID,
		PartnerEmail: req.PartnerEmail,
		Anniversary:  req.Anniversary.ptr(),
		SharedGoals:  req.SharedGoals,
	}
	if start := req.StartDate.ptr(); start != nil {
		in.StartDate = *start
	}

	couple, err := s.couples.CreateCouple(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msgCoupleCreated, "couple": toCouple(couple)})
}

type updateCoupleRequest struct {
	UserID      string             `json:"userId"`
	StartDate   optional[flexTime] `json:"startDate"`
	Anniversary optional[flexTime] `json:"anniversary"`
	SharedGoals optional[string]   `json:"sharedGoals"`
}

func (s *Server) updateCouple(w http.ResponseWriter, r *http.Request) {
	var req updateCoupleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := s.callerID(w, r, req.UserID)
	if !ok {
		return
	}

	patch := service.CoupleSettingsPatch{SharedGoals: req.SharedGoals.ptr()}
	if req.StartDate.Set && !req.StartDate.Null {
		patch.StartDate = req.StartDate.Value.ptr()
	}
	if req.Anniversary.Set {
		// null or "" removes the anniversary
		patch.Anniversary = req.Anniversary.Value.ptr()
		patch.ClearAnniversary = patch.Anniversary == nil
	}

	couple, err := s.couples.UpdateCoupleSettings(r.Context(), userID, patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"message": msgCoupleUpdated, "couple": toCouple(couple)})
}
