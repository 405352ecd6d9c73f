package repositories

import (
	"database/sql"
	"strconv"
	"strings"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
)

type RouteRepository struct {
	DB *sql.DB
}

const routeColumns = `id, from_city, to_city, base_price, currency, departure_time, arrival_time,
	COALESCE(stations, ''), active, available_days, student_discount`

func (r RouteRepository) scanRoute(row *sql.Row) (models.Route, error) {
	var (
		rt       models.Route
		stations string
		days     string
	)
	err := row.Scan(&rt.ID, &rt.From, &rt.To, &rt.BasePrice, &rt.Currency,
		&rt.DepartureTime, &rt.ArrivalTime, &stations, &rt.Active, &days, &rt.StudentDiscount)
	if err == sql.ErrNoRows {
		return rt, domain.NotFoundError{Resource: "route"}
	}
	if err != nil {
		return rt, domain.InternalError{Err: err}
	}
	rt.Stations = splitCSV(stations)
	rt.AvailableDays = splitDays(days)
	return rt, nil
}

// GetByID loads a route together with its closed dates.
func (r RouteRepository) GetByID(id int64) (models.Route, error) {
	if id <= 0 {
		return models.Route{}, domain.ValidationError{Field: "route_id", Msg: "invalid id"}
	}
	row := r.DB.QueryRow(`SELECT `+routeColumns+` FROM routes WHERE id=? LIMIT 1`, id)
	rt, err := r.scanRoute(row)
	if err != nil {
		return rt, err
	}
	rt.ClosedDates, err = r.closedDates(id)
	return rt, err
}

func (r RouteRepository) closedDates(routeID int64) ([]string, error) {
	rows, err := r.DB.Query(`SELECT date_key FROM route_closed_dates WHERE route_id=? ORDER BY date_key`, routeID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

// List returns every route, active or not, for administration.
func (r RouteRepository) List() ([]models.Route, error) {
	rows, err := r.DB.Query(`SELECT ` + routeColumns + ` FROM routes ORDER BY from_city, to_city, departure_time`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.Route
	for rows.Next() {
		var (
			rt       models.Route
			stations string
			days     string
		)
		if err := rows.Scan(&rt.ID, &rt.From, &rt.To, &rt.BasePrice, &rt.Currency,
			&rt.DepartureTime, &rt.ArrivalTime, &stations, &rt.Active, &days, &rt.StudentDiscount); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		rt.Stations = splitCSV(stations)
		rt.AvailableDays = splitDays(days)
		if rt.ClosedDates, err = r.closedDates(rt.ID); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Search returns active routes between two cities (case-insensitive).
func (r RouteRepository) Search(from, to string) ([]models.Route, error) {
	rows, err := r.DB.Query(`SELECT `+routeColumns+` FROM routes
		WHERE active=1 AND LOWER(from_city)=LOWER(?) AND LOWER(to_city)=LOWER(?)
		ORDER BY departure_time`, strings.TrimSpace(from), strings.TrimSpace(to))
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.Route
	for rows.Next() {
		var (
			rt       models.Route
			stations string
			days     string
		)
		if err := rows.Scan(&rt.ID, &rt.From, &rt.To, &rt.BasePrice, &rt.Currency,
			&rt.DepartureTime, &rt.ArrivalTime, &stations, &rt.Active, &days, &rt.StudentDiscount); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		rt.Stations = splitCSV(stations)
		rt.AvailableDays = splitDays(days)
		if rt.ClosedDates, err = r.closedDates(rt.ID); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Cities lists distinct origin and destination cities of active routes.
func (r RouteRepository) Cities() ([]string, error) {
	rows, err := r.DB.Query(`SELECT DISTINCT city FROM (
		SELECT from_city AS city FROM routes WHERE active=1
		UNION SELECT to_city FROM routes WHERE active=1) c ORDER BY city`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, city)
	}
	return out, rows.Err()
}

func (r RouteRepository) Insert(rt models.Route) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO routes
		(from_city, to_city, base_price, currency, departure_time, arrival_time, stations, active, available_days, student_discount)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rt.From, rt.To, rt.BasePrice, rt.Currency, rt.DepartureTime, rt.ArrivalTime,
		joinCSV(rt.Stations), rt.Active, joinDays(rt.AvailableDays), rt.StudentDiscount)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}

func (r RouteRepository) Update(rt models.Route) error {
	res, err := r.DB.Exec(`UPDATE routes SET
		from_city=?, to_city=?, base_price=?, currency=?, departure_time=?, arrival_time=?,
		stations=?, active=?, available_days=?, student_discount=?
		WHERE id=?`,
		rt.From, rt.To, rt.BasePrice, rt.Currency, rt.DepartureTime, rt.ArrivalTime,
		joinCSV(rt.Stations), rt.Active, joinDays(rt.AvailableDays), rt.StudentDiscount, rt.ID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL reports 0 for no-op updates too; distinguish missing rows.
		if _, err := r.GetByID(rt.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r RouteRepository) Delete(id int64) error {
	res, err := r.DB.Exec(`DELETE FROM routes WHERE id=?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "route"}
	}
	_, err = r.DB.Exec(`DELETE FROM route_closed_dates WHERE route_id=?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// AddClosedDate records a canonical date-key closure. Duplicate adds
// are absorbed by the unique key.
func (r RouteRepository) AddClosedDate(routeID int64, dateKey string) error {
	_, err := r.DB.Exec(`INSERT IGNORE INTO route_closed_dates (route_id, date_key) VALUES (?,?)`, routeID, dateKey)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r RouteRepository) RemoveClosedDate(routeID int64, dateKey string) error {
	_, err := r.DB.Exec(`DELETE FROM route_closed_dates WHERE route_id=? AND date_key=?`, routeID, dateKey)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinCSV(parts []string) string {
	return strings.Join(parts, ",")
}

func splitDays(s string) []int {
	var out []int
	for _, p := range splitCSV(s) {
		if d, err := strconv.Atoi(p); err == nil && d >= 0 && d <= 6 {
			out = append(out, d)
		}
	}
	return out
}

func joinDays(days []int) string {
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}
