package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// CustomerPayload is the optional customer override supplied at checkout.
// Empty fields fall back to the session identity.
type CustomerPayload struct {
	MessID     string `json:"messId"`
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Contact    string `json:"contact"`
}

// CreateOrderRequest is the payload for POST /api/orders. The cart reference
// is explicit in the request rather than read from ambient session state.
type CreateOrderRequest struct {
	CartID              string          `json:"cartId" validate:"required"`
	Customer            CustomerPayload `json:"customer"`
	DeliveryDate        string          `json:"deliveryDate"` // RFC3339; ignored unless strictly in the future
	SpecialInstructions string          `json:"specialInstructions"`
	PickupWindow        string          `json:"pickupWindow"`
}

// UpdateStatusRequest is the payload for PATCH /api/order/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// bindAndValidate binds the JSON body into out and runs struct validation.
// On failure it writes a 422 with field-level messages and returns an error
// for the handler to short-circuit.
func bindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  false,
			"message": "Invalid request body.",
		})
		return err
	}
	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  false,
			"message": "Validation failed.",
			"fields":  validationErrorsToMap(err),
		})
		return err
	}
	return nil
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Error()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
