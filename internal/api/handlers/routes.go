package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"manifest-route-service/internal/adapters/document"
	"manifest-route-service/internal/api/dto"
	"manifest-route-service/internal/domain"
	"manifest-route-service/internal/platform/obs"
	"manifest-route-service/internal/services"
	"net/http"
	"strconv"
	"strings"
)

const maxUploadBytes = 32 << 20

// RoutePlanner is the pipeline entry point the handler depends on.
type RoutePlanner interface {
	Plan(ctx context.Context, req services.PlanRouteRequest) (*domain.RouteResult, error)
}

type RouteHandler struct {
	Planner RoutePlanner
}

// Plan accepts a manifest upload plus routing options as multipart form data
// and responds with the ordered route and the stops that could not be routed.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	req, opts, err := parseRouteForm(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := document.ReadDocument(header.Filename, data, opts)
	if err != nil {
		log.Printf("req_id=%s read document failed name=%q err=%v", obs.RequestID(r.Context()), header.Filename, err)
		if errors.Is(err, document.ErrUnsupportedDocument) {
			writeError(w, r, http.StatusBadRequest, "unsupported file type; upload a .pdf, .xlsx, .xlsm or .txt manifest")
			return
		}
		writeError(w, r, http.StatusBadRequest, "could not parse document")
		return
	}
	req.Document = doc

	res, err := h.Planner.Plan(r.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("req_id=%s plan route failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRouteResult(res))
}

func parseRouteForm(r *http.Request) (services.PlanRouteRequest, document.TabularOptions, error) {
	req := services.PlanRouteRequest{
		StartAddress: strings.TrimSpace(r.FormValue("start_address")),
		RegionBias:   strings.TrimSpace(r.FormValue("region_bias")),
	}
	opts := document.TabularOptions{
		StartRow:      1,
		AddressColumn: strings.TrimSpace(r.FormValue("address_col")),
	}

	if v := strings.TrimSpace(r.FormValue("max_distance")); v != "" {
		km, err := strconv.ParseFloat(v, 64)
		if err != nil || km <= 0 {
			return req, opts, fmt.Errorf("max_distance must be a positive number")
		}
		req.MaxDistanceKm = km
	}

	if v := strings.TrimSpace(r.FormValue("start_row")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return req, opts, fmt.Errorf("start_row must be a positive integer")
		}
		opts.StartRow = n
	}

	if opts.AddressColumn != "" {
		if _, err := services.ColumnIndex(opts.AddressColumn); err != nil {
			return req, opts, fmt.Errorf("address_col must be a column letter or a 1-based number")
		}
	}

	if v := strings.TrimSpace(r.FormValue("round_trip")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			if !strings.EqualFold(v, "on") {
				return req, opts, fmt.Errorf("round_trip must be a boolean")
			}
			b = true
		}
		req.RoundTrip = b
	}

	strategy, err := domain.ParseStrategy(r.FormValue("strategy"))
	if err != nil {
		return req, opts, fmt.Errorf("strategy must be %q or %q", domain.StrategyNearest, domain.StrategyFurthest)
	}
	req.Strategy = strategy

	return req, opts, nil
}
