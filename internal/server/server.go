// Package server exposes the financing simulator over HTTP: a JSON
// simulation endpoint, PDF and Excel export endpoints and the usual
// version, health and metrics surfaces.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Alliabson/Price/internal/config"
	"github.com/Alliabson/Price/internal/metrics"
	"github.com/Alliabson/Price/internal/simulation"
	"github.com/Alliabson/Price/pkg/constants"
	"github.com/Alliabson/Price/pkg/export"
	"github.com/Alliabson/Price/pkg/output"
	"github.com/Alliabson/Price/pkg/schedule"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the simulation API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxBodySize: maxBodySize, version: trimmedVersion}

	router := mux.NewRouter()
	router.HandleFunc("/api/simulate", h.handleSimulate).Methods(http.MethodPost)
	router.HandleFunc("/api/export/pdf", h.handleExportPdf).Methods(http.MethodPost)
	router.HandleFunc("/api/export/xlsx", h.handleExportExcel).Methods(http.MethodPost)
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return router
}

// simulateRequest mirrors the simulation section of the YAML configuration.
type simulateRequest struct {
	Quadra   string `json:"quadra"`
	Lote     string `json:"lote"`
	Metragem string `json:"metragem"`

	PropertyValue float64 `json:"valorImovel"`
	DownPayment   float64 `json:"entrada"`
	MonthlyRate   float64 `json:"taxaMensal"`
	StartDate     string  `json:"dataInicio"`
	DueDay        int     `json:"diaVencimento"`
	Installments  int     `json:"parcelas"`
	Modality      string  `json:"modalidade"`
	BalloonType   string  `json:"tipoBalao"`

	InstallmentAmount float64 `json:"valorParcela"`
	BalloonAmount     float64 `json:"valorBalao"`

	ReconcilePolicy string `json:"politicaAjuste"`
	DiscountBasis   string `json:"baseDesconto"`
}

type simulateResponse struct {
	ID                string            `json:"id"`
	Financed          float64           `json:"valorFinanciado"`
	InstallmentAmount float64           `json:"valorParcela"`
	BalloonAmount     float64           `json:"valorBalao"`
	InstallmentCount  int               `json:"quantidadeParcelas"`
	BalloonCount      int               `json:"quantidadeBaloes"`
	Rates             ratesPayload      `json:"taxas"`
	Schedule          schedule.Schedule `json:"cronograma"`
	TotalValue        float64           `json:"valorTotal"`
	TotalPresentValue float64           `json:"valorPresenteTotal"`
	TotalDiscount     float64           `json:"descontoTotal"`
	CSV               string            `json:"csv"`
	Warnings          []string          `json:"warnings,omitempty"`
	Duration          string            `json:"duration"`
}

type ratesPayload struct {
	Monthly    float64 `json:"mensal"`
	Annual     float64 `json:"anual"`
	Semiannual float64 `json:"semestral"`
	Quarterly  float64 `json:"trimestral"`
	Daily      float64 `json:"diaria"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	op := "server.handleSimulate"

	result, warnings, ok := h.runSimulation(w, r, op)
	if !ok {
		return
	}

	elapsed := time.Since(start)
	metrics.SimulationDuration.Observe(elapsed.Seconds())

	response := simulateResponse{
		ID:                result.ID,
		Financed:          result.Financed,
		InstallmentAmount: result.InstallmentAmount,
		BalloonAmount:     result.BalloonAmount,
		InstallmentCount:  result.InstallmentCount,
		BalloonCount:      result.BalloonCount,
		Rates: ratesPayload{
			Monthly:    result.Rates.Monthly,
			Annual:     result.Rates.Annual,
			Semiannual: result.Rates.Semiannual,
			Quarterly:  result.Rates.Quarterly,
			Daily:      result.Rates.Daily,
		},
		Schedule:          result.Schedule,
		TotalValue:        result.TotalValue,
		TotalPresentValue: result.TotalPresentValue,
		TotalDiscount:     result.TotalDiscount,
		CSV:               output.CsvString(result),
		Warnings:          warnings,
		Duration:          elapsed.String(),
	}

	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.String("modality", result.Input.Modality.String()),
		zap.Int("rows", len(result.Schedule.Items)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExportPdf(w http.ResponseWriter, r *http.Request) {
	op := "server.handleExportPdf"
	result, _, ok := h.runSimulation(w, r, op)
	if !ok {
		metrics.Exports.WithLabelValues("pdf", "error").Inc()
		return
	}

	var buf bytes.Buffer
	if err := export.PdfDocument(&buf, result); err != nil {
		metrics.Exports.WithLabelValues("pdf", "error").Inc()
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render PDF: %v", err), op)
		return
	}
	metrics.Exports.WithLabelValues("pdf", "ok").Inc()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="simulacao.pdf"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write PDF response", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleExportExcel(w http.ResponseWriter, r *http.Request) {
	op := "server.handleExportExcel"
	result, _, ok := h.runSimulation(w, r, op)
	if !ok {
		metrics.Exports.WithLabelValues("xlsx", "error").Inc()
		return
	}

	var buf bytes.Buffer
	if err := export.ExcelWorkbook(&buf, result); err != nil {
		metrics.Exports.WithLabelValues("xlsx", "error").Inc()
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render workbook: %v", err), op)
		return
	}
	metrics.Exports.WithLabelValues("xlsx", "ok").Inc()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="simulacao.xlsx"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write workbook response", zap.String("op", op), zap.Error(err))
	}
}

// runSimulation decodes the request, runs the engine and handles the error
// responses. The boolean reports whether a result was produced.
func (h *handler) runSimulation(w http.ResponseWriter, r *http.Request, op string) (*simulation.Result, []string, bool) {
	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var payload simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, nil, false
	}

	cfg := config.Configuration{
		Simulation: config.SimulationConfig{
			Quadra:            payload.Quadra,
			Lote:              payload.Lote,
			Metragem:          payload.Metragem,
			PropertyValue:     payload.PropertyValue,
			DownPayment:       payload.DownPayment,
			MonthlyRate:       payload.MonthlyRate,
			StartDate:         payload.StartDate,
			DueDay:            payload.DueDay,
			Installments:      payload.Installments,
			Modality:          payload.Modality,
			BalloonType:       payload.BalloonType,
			InstallmentAmount: payload.InstallmentAmount,
			BalloonAmount:     payload.BalloonAmount,
			ReconcilePolicy:   payload.ReconcilePolicy,
			DiscountBasis:     payload.DiscountBasis,
		},
	}

	warnings := cfg.ValidateConfiguration()

	input, err := cfg.ToInput()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, nil, false
	}

	result, err := simulation.Simulate(h.logger, input)
	if err != nil {
		metrics.Simulations.WithLabelValues(input.Modality.String(), "error").Inc()
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return nil, nil, false
	}

	status := "ok"
	if result.Schedule.IsError() {
		status = "error"
	}
	metrics.Simulations.WithLabelValues(input.Modality.String(), status).Inc()

	return result, warnings, true
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("simulation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
