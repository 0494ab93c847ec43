package rest

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fd1az/chain-explorer/business/chain/domain"
)

type networkResponse struct {
	Network       string `json:"network"`
	GenesisDigest string `json:"genesis_digest"`
}

type utxoResponse struct {
	LeafIndex uint64            `json:"leaf_index"`
	Digest    domain.Digest     `json:"digest"`
	Enriched  *domain.UtxoTuple `json:"enriched,omitempty"`
}

type announcementResponse struct {
	Selector         string              `json:"selector"`
	BlockHeight      domain.BlockHeight  `json:"block_height"`
	BlockDigest      domain.Digest       `json:"block_digest"`
	NumAnnouncements int                 `json:"num_announcements"`
	Announcement     domain.Announcement `json:"announcement"`
}

type supplyResponse struct {
	Height      uint64 `json:"height"`
	LiquidNau   string `json:"liquid_nau"`
	TotalNau    string `json:"total_nau"`
	LiquidCoins string `json:"liquid_coins"`
	TotalCoins  string `json:"total_coins"`
}

func (s *Server) handleNetwork(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, networkResponse{
		Network:       s.explorer.Network().String(),
		GenesisDigest: s.explorer.GenesisDigest().String(),
	})
}

// blockSelector parses the {selector} path variable.
func blockSelector(r *http.Request) (domain.BlockSelector, string, error) {
	raw := mux.Vars(r)["selector"]
	sel, err := domain.ParseBlockSelector(raw)
	if err != nil {
		return domain.BlockSelector{}, raw, selectorError(raw, err)
	}
	return sel, raw, nil
}

func (s *Server) handleBlockInfo(w http.ResponseWriter, r *http.Request) {
	sel, _, err := blockSelector(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	info, err := s.explorer.BlockInfo(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleBlockDigest(w http.ResponseWriter, r *http.Request) {
	sel, _, err := blockSelector(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.explorer.BlockDigest(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func leafIndex(r *http.Request) (uint64, error) {
	raw := mux.Vars(r)["index"]
	i, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, indexError(raw, err)
	}
	return i, nil
}

func (s *Server) handleUtxoDigest(w http.ResponseWriter, r *http.Request) {
	i, err := leafIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.explorer.UtxoDigest(r.Context(), i)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleUtxo(w http.ResponseWriter, r *http.Request) {
	i, err := leafIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	view, err := s.explorer.Utxo(r.Context(), i)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := utxoResponse{LeafIndex: view.LeafIndex, Digest: view.Digest}
	view.Enriched.WhenSome(func(t domain.UtxoTuple) {
		resp.Enriched = &t
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnnouncement(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["selector"]
	sel, err := domain.ParseAnnouncementSelector(raw)
	if err != nil {
		s.writeError(w, r, selectorError(raw, err))
		return
	}

	view, err := s.explorer.Announcement(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, announcementResponse{
		Selector:         view.Selector.String(),
		BlockHeight:      view.Block.Height,
		BlockDigest:      view.Block.Digest,
		NumAnnouncements: view.Count,
		Announcement:     view.Announcement,
	})
}

// handleCirculatingSupply returns the liquid supply in nau as a JSON
// number. The float is lossy and for display only.
func (s *Server) handleCirculatingSupply(w http.ResponseWriter, r *http.Request) {
	report, err := s.supply.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Liquid.RawFloat64())
}

// handleTotalSupply returns the total supply in nau as a JSON number.
func (s *Server) handleTotalSupply(w http.ResponseWriter, r *http.Request) {
	report, err := s.supply.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Total.RawFloat64())
}

// handleSupply returns both figures exactly.
func (s *Server) handleSupply(w http.ResponseWriter, r *http.Request) {
	report, err := s.supply.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplyResponse{
		Height:      report.Height,
		LiquidNau:   report.Liquid.RawString(),
		TotalNau:    report.Total.RawString(),
		LiquidCoins: report.Liquid.ToDecimal().String(),
		TotalCoins:  report.Total.ToDecimal().String(),
	})
}
