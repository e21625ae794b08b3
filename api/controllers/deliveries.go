package controllers

import (
	"net/http"

	"github.com/kandangops/kandang-backend/api/responses"
	"github.com/kandangops/kandang-backend/api/validators"
	"github.com/kandangops/kandang-backend/internal/intake"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

type animalEntryRequest struct {
	AnimalType string `json:"animal_type" validate:"required"`
	Category   string `json:"category" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type deliveryRequest struct {
	ReceiptNumber string               `json:"receipt_number" validate:"required"`
	Vendor        string               `json:"vendor" validate:"required"`
	Orderer       string               `json:"orderer"`
	Sender        string               `json:"sender"`
	Receiver      string               `json:"receiver"`
	ReceiptRef    string               `json:"receipt_ref"`
	DeliveryDate  string               `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Note          string               `json:"note"`
	Entries       []animalEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

func SubmitDelivery(service intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body deliveryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.SubmitDelivery(ctx, intake.DeliveryInput{
			ReceiptNumber: body.ReceiptNumber,
			Vendor:        body.Vendor,
			Orderer:       body.Orderer,
			Sender:        body.Sender,
			Receiver:      body.Receiver,
			ReceiptRef:    body.ReceiptRef,
			DeliveryDate:  body.DeliveryDate,
			Note:          body.Note,
			Entries:       toEntries(body.Entries),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

func ListDeliveries(service intake.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := service.ListDeliveries(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func toEntries(in []animalEntryRequest) []intake.DeliveryEntry {
	entries := make([]intake.DeliveryEntry, len(in))
	for i, entry := range in {
		entries[i] = intake.DeliveryEntry{
			AnimalType: entry.AnimalType,
			Category:   entry.Category,
			Quantity:   entry.Quantity,
		}
	}
	return entries
}
