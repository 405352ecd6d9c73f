package handlers

import (
	"net/http"
	"strconv"

	"coachtickets/internal/domain/models"
	"coachtickets/internal/http/middleware"
	"coachtickets/internal/services"
	"coachtickets/internal/utils"

	"github.com/gin-gonic/gin"
)

// Cities lists the origin/destination cities served by active routes.
// GET /api/cities
func (h Handler) Cities(c *gin.Context) {
	cities, err := h.Routes.RouteRepo.Cities()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// SearchTrips returns available routes between two cities on a date,
// each with a price quote. The availability check here is advisory:
// booking creation re-validates.
// GET /api/trips/search?from=&to=&date=&promo_code=
func (h Handler) SearchTrips(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "from and to are required", nil)
		return
	}

	travelDay, err := utils.NormalizeTravelDate(c.Query("date"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	routes, err := h.Routes.RouteRepo.Search(from, to)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	promoCode := c.Query("promo_code")
	type trip struct {
		Route models.Route            `json:"route"`
		Quote services.PriceBreakdown `json:"quote"`
	}
	trips := make([]trip, 0, len(routes))
	for _, rt := range routes {
		if err := h.Avail.CheckAvailability(rt, travelDay); err != nil {
			continue
		}
		trips = append(trips, trip{Route: rt, Quote: h.Pricing.Quote(rt, promoCode, 0)})
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  utils.DateKey(travelDay),
		"trips": trips,
	})
}

// --- Admin route management ---

type routePayload struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	BasePrice       float64  `json:"base_price"`
	Currency        string   `json:"currency"`
	DepartureTime   string   `json:"departure_time"`
	ArrivalTime     string   `json:"arrival_time"`
	Stations        []string `json:"stations"`
	Active          *bool    `json:"active"`
	AvailableDays   []int    `json:"available_days"`
	StudentDiscount float64  `json:"student_discount"`
}

func (p routePayload) toModel(id int64) models.Route {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return models.Route{
		ID:              id,
		From:            p.From,
		To:              p.To,
		BasePrice:       p.BasePrice,
		Currency:        p.Currency,
		DepartureTime:   p.DepartureTime,
		ArrivalTime:     p.ArrivalTime,
		Stations:        p.Stations,
		Active:          active,
		AvailableDays:   p.AvailableDays,
		StudentDiscount: p.StudentDiscount,
	}
}

// POST /api/admin/routes
func (h Handler) CreateRoute(c *gin.Context) {
	var req routePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.Routes
	svc.RequestID = middleware.GetRequestID(c)
	rt, err := svc.Create(req.toModel(0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// GET /api/admin/routes
func (h Handler) ListRoutes(c *gin.Context) {
	routes, err := h.Routes.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GET /api/admin/routes/:id
func (h Handler) GetRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rt, err := h.Routes.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// PUT /api/admin/routes/:id
func (h Handler) UpdateRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req routePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.Routes
	svc.RequestID = middleware.GetRequestID(c)
	rt, err := svc.Update(req.toModel(id))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, rt)
}

// DELETE /api/admin/routes/:id
func (h Handler) DeleteRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Routes.Delete(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type closedDatePayload struct {
	Date string `json:"date"`
}

// POST /api/admin/routes/:id/closed-dates
func (h Handler) AddClosedDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req closedDatePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.Routes
	svc.RequestID = middleware.GetRequestID(c)
	key, err := svc.AddClosedDate(id, req.Date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route_id": id, "date_key": key})
}

// DELETE /api/admin/routes/:id/closed-dates
func (h Handler) RemoveClosedDate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req closedDatePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := h.Routes
	svc.RequestID = middleware.GetRequestID(c)
	key, err := svc.RemoveClosedDate(id, req.Date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route_id": id, "date_key": key})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid id", nil)
		return 0, false
	}
	return id, true
}
