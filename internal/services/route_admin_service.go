package services

import (
	"strings"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/repositories"
	"coachtickets/internal/utils"
)

// RouteAdminService manages the route fields that drive availability
// and pricing. Closed-date mutations run the same date normalization
// as search and booking creation, so the stored date-keys always
// compare equal across entry points.
type RouteAdminService struct {
	RouteRepo repositories.RouteRepository
	RequestID string
}

func (s RouteAdminService) validate(rt models.Route) error {
	if strings.TrimSpace(rt.From) == "" || strings.TrimSpace(rt.To) == "" {
		return domain.ValidationError{Field: "route", Msg: "from and to are required"}
	}
	if rt.BasePrice <= 0 {
		return domain.ValidationError{Field: "base_price", Msg: "must be positive"}
	}
	switch rt.Currency {
	case "RON", "EUR":
	default:
		return domain.ValidationError{Field: "currency", Msg: "must be RON or EUR"}
	}
	if rt.StudentDiscount < 0 {
		return domain.ValidationError{Field: "student_discount", Msg: "must not be negative"}
	}
	for _, d := range rt.AvailableDays {
		if d < 0 || d > 6 {
			return domain.ValidationError{Field: "available_days", Msg: "weekdays are 0-6"}
		}
	}
	return nil
}

func (s RouteAdminService) Create(rt models.Route) (models.Route, error) {
	if err := s.validate(rt); err != nil {
		return models.Route{}, err
	}
	rt.BasePrice = utils.Round2(rt.BasePrice)
	rt.StudentDiscount = utils.Round2(rt.StudentDiscount)
	id, err := s.RouteRepo.Insert(rt)
	if err != nil {
		return models.Route{}, err
	}
	rt.ID = id
	utils.LogEvent(s.RequestID, "route", "create", "route_id created")
	return rt, nil
}

func (s RouteAdminService) Update(rt models.Route) (models.Route, error) {
	if rt.ID <= 0 {
		return models.Route{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	if err := s.validate(rt); err != nil {
		return models.Route{}, err
	}
	rt.BasePrice = utils.Round2(rt.BasePrice)
	rt.StudentDiscount = utils.Round2(rt.StudentDiscount)
	if err := s.RouteRepo.Update(rt); err != nil {
		return models.Route{}, err
	}
	return s.RouteRepo.GetByID(rt.ID)
}

func (s RouteAdminService) Delete(id int64) error {
	return s.RouteRepo.Delete(id)
}

func (s RouteAdminService) Get(id int64) (models.Route, error) {
	return s.RouteRepo.GetByID(id)
}

func (s RouteAdminService) List() ([]models.Route, error) {
	return s.RouteRepo.List()
}

// AddClosedDate normalizes the raw date through the shared travel-day
// rules before storing its date-key.
func (s RouteAdminService) AddClosedDate(routeID int64, rawDate string) (string, error) {
	if _, err := s.RouteRepo.GetByID(routeID); err != nil {
		return "", err
	}
	day, err := utils.NormalizeTravelDate(rawDate)
	if err != nil {
		return "", err
	}
	key := utils.DateKey(day)
	if err := s.RouteRepo.AddClosedDate(routeID, key); err != nil {
		return "", err
	}
	utils.LogEvent(s.RequestID, "route", "close_date", "date_key="+key)
	return key, nil
}

// RemoveClosedDate applies the same normalization so a timestamp form
// of a stored key removes that key.
func (s RouteAdminService) RemoveClosedDate(routeID int64, rawDate string) (string, error) {
	if _, err := s.RouteRepo.GetByID(routeID); err != nil {
		return "", err
	}
	day, err := utils.NormalizeTravelDate(rawDate)
	if err != nil {
		return "", err
	}
	key := utils.DateKey(day)
	if err := s.RouteRepo.RemoveClosedDate(routeID, key); err != nil {
		return "", err
	}
	utils.LogEvent(s.RequestID, "route", "reopen_date", "date_key="+key)
	return key, nil
}
