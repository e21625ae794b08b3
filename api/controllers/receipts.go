package controllers

import (
	"net/http"

	"github.com/kandangops/kandang-backend/api/responses"
	"github.com/kandangops/kandang-backend/internal/receipts"
	pkgerrors "github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
)

const maxReceiptSize = 10 << 20 // 10 MiB

// UploadReceipt accepts a multipart receipt file and stores it, returning
// the URL to put in the delivery's receipt_ref field.
func UploadReceipt(service receipts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "receipt file is required"))
			return
		}
		defer func() { _ = file.Close() }()

		stored, err := service.Store(ctx, receipts.StoreInput{
			ReceiptNumber: r.FormValue("receipt_number"),
			Filename:      header.Filename,
			ContentType:   header.Header.Get("Content-Type"),
			Data:          file,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, stored)
	}
}
