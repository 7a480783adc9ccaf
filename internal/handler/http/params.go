package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/utafrali/EcommerceGo/services/storefront/pkg/errors"
	"github.com/utafrali/EcommerceGo/services/storefront/pkg/validator"
)

type productIDParam struct {
	ID int `validate:"required,gte=1"`
}

// productID reads and validates the {id} path parameter.
func productID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidInput("product id must be an integer")
	}

	param := productIDParam{ID: id}
	if err := validator.Validate(param); err != nil {
		return 0, err
	}
	return id, nil
}
