package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablemate/apperrors"
	"github.com/yeremiapane/tablemate/models"
	"github.com/yeremiapane/tablemate/services"
	"github.com/yeremiapane/tablemate/utils"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// GetAllMenus -> ?category=&available=true
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	filter := services.MenuFilter{
		Category:      models.MenuCategory(c.Query("category")),
		AvailableOnly: c.Query("available") == "true",
	}
	if filter.Category != "" && !filter.Category.Valid() {
		utils.RespondAppError(c, apperrors.NewValidationError("category", `has unsupported value "`+string(filter.Category)+`"`))
		return
	}

	items, err := mc.Menu.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", items)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	item, err := mc.Menu.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", item)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var form models.MenuItemForm
	if !bindJSON(c, &form) {
		return
	}

	item, err := mc.Menu.Create(c.Request.Context(), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", item)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var form models.MenuItemUpdate
	if !bindJSON(c, &form) {
		return
	}

	item, err := mc.Menu.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", item)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	if err := mc.Menu.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}
