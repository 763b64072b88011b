package handler

import (
	"github.com/gin-gonic/gin"

	appevent "github.com/xiebiao/catalog/internal/application/event"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

type EventHandler struct {
	events *appevent.Service
}

func NewEventHandler(events *appevent.Service) *EventHandler {
	return &EventHandler{events: events}
}

// Cities godoc
// @Summary      List cities
// @Tags         events
// @Produce      json
// @Success      200 {object} response.Response{data=[]appevent.CityDTO}
// @Router       /api/v1/cities [get]
func (h *EventHandler) Cities(c *gin.Context) {
	out, err := h.events.FindAllCities(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// CreateCity godoc
// @Summary      Create a city
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CityRequest true "city"
// @Success      201 {object} response.Response{data=appevent.CityDTO}
// @Router       /api/v1/cities [post]
func (h *EventHandler) CreateCity(c *gin.Context) {
	var req dto.CityRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.events.InsertCity(c.Request.Context(), middleware.GetPrincipal(c), appevent.CityRequest{Name: req.Name})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// List godoc
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        page  query  int     false  "zero-based page"
// @Param        size  query  int     false  "page size"
// @Param        sort  query  string  false  "id|name|date[,asc|desc]"
// @Success      200 {object} response.Response{data=pagination.Page[appevent.EventDTO]}
// @Router       /api/v1/events [get]
func (h *EventHandler) List(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.events.FindAllPaged(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Create godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.EventRequest true "event"
// @Success      201 {object} response.Response{data=appevent.EventDTO}
// @Failure      404 {object} response.Response "unknown city"
// @Router       /api/v1/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.events.Insert(c.Request.Context(), middleware.GetPrincipal(c), toEventRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Update godoc
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int               true  "event id"
// @Param        request  body  dto.EventRequest  true  "event"
// @Success      200 {object} response.Response{data=appevent.EventDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.events.Update(c.Request.Context(), middleware.GetPrincipal(c), id, toEventRequest(req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

func toEventRequest(req dto.EventRequest) appevent.EventRequest {
	return appevent.EventRequest{
		Name:   req.Name,
		Date:   req.Date,
		URL:    req.URL,
		CityID: req.CityID,
	}
}
