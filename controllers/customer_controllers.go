package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type CustomerController struct {
	Customers *services.CustomerService
}

func NewCustomerController(customers *services.CustomerService) *CustomerController {
	return &CustomerController{Customers: customers}
}

// GetAllCustomers -> ?status=active|inactive&q=
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	filter := services.CustomerFilter{
		Status: models.CustomerStatus(c.Query("status")),
		Search: c.Query("q"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.RespondAppError(c, apperrors.NewValidationError("status", "must be active or inactive"))
		return
	}

	customers, err := cc.Customers.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of customers", customers)
}

func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	customer, err := cc.Customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer detail", customer)
}

func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var form models.CustomerForm
	if !bindJSON(c, &form) {
		return
	}

	customer, err := cc.Customers.Create(c.Request.Context(), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Customer created", customer)
}

func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	var form models.CustomerUpdate
	if !bindJSON(c, &form) {
		return
	}

	customer, err := cc.Customers.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer updated", customer)
}

func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	if err := cc.Customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer deleted", nil)
}
