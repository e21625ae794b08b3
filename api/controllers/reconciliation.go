package controllers

import (
	"net/http"
	"strings"

	"github.com/kandangops/kandang-backend/api/responses"
	"github.com/kandangops/kandang-backend/api/validators"
	"github.com/kandangops/kandang-backend/internal/recon"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

func OrderStatus(service recon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := validators.ParseAnimalFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := service.OrderStatus(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func StockSummary(service recon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		report, err := service.StockSummary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func DailyArrivals(service recon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		animal, err := validators.ParseAnimalFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		filter := recon.DailyFilter{
			Vendor:     strings.TrimSpace(r.URL.Query().Get("vendor")),
			AnimalType: animal,
			Category:   strings.TrimSpace(r.URL.Query().Get("category")),
		}

		report, err := service.DailyArrivals(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func VendorSummary(service recon.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := validators.ParseAnimalFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := service.VendorSummary(ctx, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
