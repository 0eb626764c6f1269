package importfile

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradebookhq/tradebook/internal/importer"
	"github.com/tradebookhq/tradebook/internal/trade"
)

type Handler struct {
	importSvc *importer.Service
	tradeSvc  *trade.Service
}

func NewHandler(importSvc *importer.Service, tradeSvc *trade.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		tradeSvc:  tradeSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/confirm", h.confirmImport)
}

type tradeResponse struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	Platform   trade.Platform  `json:"platform"`
	Symbol     string          `json:"symbol"`
	Direction  trade.Direction `json:"direction"`
	Volume     float64         `json:"volume"`
	EntryPrice float64         `json:"entry_price"`
	ExitPrice  float64         `json:"exit_price"`
	EntryTime  time.Time       `json:"entry_time"`
	ExitTime   *time.Time      `json:"exit_time,omitempty"`
	PnL        float64         `json:"pnl"`
	Commission float64         `json:"commission"`
	Swap       float64         `json:"swap"`
	CreatedAt  time.Time       `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int             `json:"imported"`
	TotalPnL float64         `json:"total_pnl"`
	Trades   []tradeResponse `json:"trades"`
}

type createParamsDTO struct {
	AccountID  uuid.UUID       `json:"account_id"`
	Platform   trade.Platform  `json:"platform"`
	Symbol     string          `json:"symbol"`
	Direction  trade.Direction `json:"direction"`
	Volume     float64         `json:"volume"`
	EntryPrice float64         `json:"entry_price"`
	ExitPrice  float64         `json:"exit_price"`
	EntryTime  time.Time       `json:"entry_time"`
	ExitTime   *time.Time      `json:"exit_time,omitempty"`
	PnL        float64         `json:"pnl"`
	Commission float64         `json:"commission"`
	Swap       float64         `json:"swap"`
	StopLoss   float64         `json:"stop_loss"`
	TakeProfit float64         `json:"take_profit"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing tradeResponse   `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	AccountID uuid.UUID         `json:"account_id"`
	Params    []createParamsDTO `json:"params"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	platform := trade.Platform(r.FormValue("platform"))
	if platform == "" {
		http.Error(w, "platform field is required", http.StatusBadRequest)
		return
	}

	accountID, err := uuid.Parse(r.FormValue("account_id"))
	if err != nil {
		http.Error(w, "account_id field is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	parsed, err := h.importSvc.Import(platform, importer.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, importer.Options{
		AccountID: accountID,
		Timezone:  r.FormValue("timezone"),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.tradeSvc.ImportBatch(r.Context(), accountID, parsed.Trades)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTradeResponse(c.Existing),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(result.Imported, parsed.TotalPnL)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]trade.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, trade.CreateParams{
			AccountID:  req.AccountID,
			Platform:   p.Platform,
			Symbol:     p.Symbol,
			Direction:  p.Direction,
			Volume:     p.Volume,
			EntryPrice: p.EntryPrice,
			ExitPrice:  p.ExitPrice,
			EntryTime:  p.EntryTime,
			ExitTime:   p.ExitTime,
			PnL:        p.PnL,
			Commission: p.Commission,
			Swap:       p.Swap,
			StopLoss:   p.StopLoss,
			TakeProfit: p.TakeProfit,
		})
	}

	trades, err := h.tradeSvc.CreateBatch(r.Context(), req.AccountID, params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	totalPnL := 0.0
	for _, tr := range trades {
		totalPnL += tr.PnL
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(trades, totalPnL)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(trades []*trade.Trade, totalPnL float64) importSuccessResponse {
	responses := make([]tradeResponse, 0, len(trades))
	for _, tr := range trades {
		responses = append(responses, toTradeResponse(tr))
	}

	return importSuccessResponse{
		Imported: len(trades),
		TotalPnL: totalPnL,
		Trades:   responses,
	}
}

func toTradeResponse(tr *trade.Trade) tradeResponse {
	return tradeResponse{
		ID:         tr.ID,
		AccountID:  tr.AccountID,
		Platform:   tr.Platform,
		Symbol:     tr.Symbol,
		Direction:  tr.Direction,
		Volume:     tr.Volume,
		EntryPrice: tr.EntryPrice,
		ExitPrice:  tr.ExitPrice,
		EntryTime:  tr.EntryTime,
		ExitTime:   tr.ExitTime,
		PnL:        tr.PnL,
		Commission: tr.Commission,
		Swap:       tr.Swap,
		CreatedAt:  tr.CreatedAt,
	}
}

func toParamsDTO(p trade.CreateParams) createParamsDTO {
	return createParamsDTO{
		AccountID:  p.AccountID,
		Platform:   p.Platform,
		Symbol:     p.Symbol,
		Direction:  p.Direction,
		Volume:     p.Volume,
		EntryPrice: p.EntryPrice,
		ExitPrice:  p.ExitPrice,
		EntryTime:  p.EntryTime,
		ExitTime:   p.ExitTime,
		PnL:        p.PnL,
		Commission: p.Commission,
		Swap:       p.Swap,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
	}
}
