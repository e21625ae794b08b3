package controllers

import (
	"net/http"

	"github.com/kandangops/kandang-backend/api/responses"
	"github.com/kandangops/kandang-backend/api/validators"
	"github.com/kandangops/kandang-backend/internal/intake"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

type dispatchRequest struct {
	VehicleNumber  string               `json:"vehicle_number"`
	DispatchDate   string               `json:"dispatch_date" validate:"omitempty,datetime=2006-01-02"`
	DispatchReason string               `json:"dispatch_reason"`
	ShipmentDocRef string               `json:"shipment_doc_ref"`
	Note           string               `json:"note"`
	Entries        []animalEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

func SubmitDispatch(service intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body dispatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.SubmitDispatch(ctx, intake.DispatchInput{
			VehicleNumber:  body.VehicleNumber,
			DispatchDate:   body.DispatchDate,
			DispatchReason: body.DispatchReason,
			ShipmentDocRef: body.ShipmentDocRef,
			Note:           body.Note,
			Entries:        toEntries(body.Entries),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ListDispatches(service intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := service.ListDispatches(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
