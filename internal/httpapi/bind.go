package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// newValidator returns a configured validator with the struct-level rules
// the tag language cannot express.
func newValidator() *validatorv10.Validate {
	v := validatorv10.New(validatorv10.WithRequiredStructEnabled())
	v.RegisterStructValidation(createOrderStructValidation, createOrderRequest{})
	return v
}

// createOrderStructValidation enforces the delivery address invariant at the
// boundary: an address is required with delivery and rejected with pickup.
// The domain layer re-asserts the same invariant.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(createOrderRequest)

	switch req.DeliveryMethod {
	case "delivery":
		if req.DeliveryAddress == nil {
			sl.ReportError(req.DeliveryAddress, "deliveryAddress", "DeliveryAddress", "required_for_delivery", "")
		}
	case "pickup":
		if req.DeliveryAddress != nil {
			sl.ReportError(req.DeliveryAddress, "deliveryAddress", "DeliveryAddress", "excluded_for_pickup", "")
		}
	}
}

// bindAndValidate binds the JSON body into out and runs validation. On
// failure it writes a 400 response and returns false so the handler can
// short-circuit.
func bindAndValidate(c *gin.Context, v *validatorv10.Validate, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "invalid request body",
		})
		return false
	}
	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "validation failed",
			"fields":  validationFields(err),
		})
		return false
	}
	return true
}

// validationFields flattens validator errors into field -> violated rule.
func validationFields(err error) map[string]string {
	out := map[string]string{}
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		out["body"] = err.Error()
		return out
	}
	for _, fe := range ve {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}
