package repositories

import (
	"database/sql"
	"strings"

	"coachtickets/internal/domain"
	"coachtickets/internal/domain/models"
)

type PromoRepository struct {
	DB *sql.DB
}

const promoColumns = `id, code, discount_percent, discount_fixed, max_discount,
	valid_from, valid_until, usage_limit, usage_count, active`

// GetByCode looks a code up case-insensitively; codes are stored
// uppercase.
func (r PromoRepository) GetByCode(code string) (models.PromoCode, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return models.PromoCode{}, domain.ValidationError{Field: "code", Msg: "code is required"}
	}
	var p models.PromoCode
	err := r.DB.QueryRow(`SELECT `+promoColumns+` FROM promo_codes WHERE code=? LIMIT 1`, code).
		Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.DiscountFixed, &p.MaxDiscount,
			&p.ValidFrom, &p.ValidUntil, &p.UsageLimit, &p.UsageCount, &p.Active)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "promo code"}
	}
	if err != nil {
		return p, domain.InternalError{Err: err}
	}
	return p, nil
}

func (r PromoRepository) List() ([]models.PromoCode, error) {
	rows, err := r.DB.Query(`SELECT ` + promoColumns + ` FROM promo_codes ORDER BY code`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	var out []models.PromoCode
	for rows.Next() {
		var p models.PromoCode
		if err := rows.Scan(&p.ID, &p.Code, &p.DiscountPercent, &p.DiscountFixed, &p.MaxDiscount,
			&p.ValidFrom, &p.ValidUntil, &p.UsageLimit, &p.UsageCount, &p.Active); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PromoRepository) Insert(p models.PromoCode) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO promo_codes
		(code, discount_percent, discount_fixed, max_discount, valid_from, valid_until, usage_limit, usage_count, active)
		VALUES (?,?,?,?,?,?,?,0,?)`,
		strings.ToUpper(strings.TrimSpace(p.Code)), p.DiscountPercent, p.DiscountFixed, p.MaxDiscount,
		p.ValidFrom, p.ValidUntil, p.UsageLimit, p.Active)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}

// IncrementUsage bumps usage_count atomically in SQL so concurrent
// confirmations of different bookings sharing a code cannot lose
// updates. The limit re-check inside the statement keeps the count
// within the cap under races.
func (r PromoRepository) IncrementUsage(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	_, err := r.DB.Exec(`UPDATE promo_codes
		SET usage_count = usage_count + 1
		WHERE code=? AND (usage_limit=0 OR usage_count < usage_limit)`, code)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}
