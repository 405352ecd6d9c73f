package services

import (
	"fmt"
	"time"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
	"coachtickets/internal/utils"
)

// AvailabilityService decides whether a route may be booked on a given
// travel day. Trip search uses it as a read-only filter; booking
// creation re-runs it as the authoritative check, closing the race
// where a route is closed between search and booking.
type AvailabilityService struct{}

// CheckAvailability returns nil when the route is bookable on the
// travel day. Rules run in order: weekly schedule first, explicit
// closures second, so a closed date on an off-schedule day reports the
// schedule rejection.
func (AvailabilityService) CheckAvailability(route models.Route, travelDay time.Time) error {
	if len(route.AvailableDays) > 0 && !route.RunsOn(utils.WeekdayUTC(travelDay)) {
		return domain.BusinessError{
			Reason: domain.ReasonDayNotAvailable,
			Msg:    fmt.Sprintf("route %s-%s does not run on %s", route.From, route.To, travelDay.Weekday()),
			Detail: utils.WeekdayNames(route.AvailableDays),
		}
	}

	key := utils.DateKey(travelDay)
	if route.ClosedOn(key) {
		return domain.BusinessError{
			Reason: domain.ReasonDateClosed,
			Msg:    fmt.Sprintf("route %s-%s is closed on %s", route.From, route.To, key),
			Detail: key,
		}
	}

	return nil
}
