package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
)

// GroundRepo wraps the grounds table.  Images and amenities are stored as
// JSON arrays.
type GroundRepo struct {
	db *sql.DB
}

// NewGroundRepo returns a new GroundRepo bound to the given database.
func NewGroundRepo(db *sql.DB) *GroundRepo { return &GroundRepo{db: db} }

const groundColumns = `id, name, address, latitude, longitude, images, open_time, close_time,
	price_per_hour, amenities, qr_image, upi_id, is_active, created_at, updated_at`

// Create inserts a ground and reads the stored row back so timestamps and
// defaults are populated on g.
func (r *GroundRepo) Create(ctx context.Context, g *model.Ground) error {
	images, err := encodeList(g.Images)
	if err != nil {
		return err
	}
	amenities, err := encodeList(g.Amenities)
	if err != nil {
		return err
	}
	const q = `INSERT INTO grounds (name, address, latitude, longitude, images, open_time, close_time,
		price_per_hour, amenities, qr_image, upi_id, is_active) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		g.Name, g.Address, g.Latitude, g.Longitude, images, g.OpenTime, g.CloseTime,
		g.PricePerHour, amenities, g.QRImage, g.UPIID, g.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*g = stored
	return nil
}

// GetByID returns a ground regardless of its active flag.
func (r *GroundRepo) GetByID(ctx context.Context, id uint64) (model.Ground, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+groundColumns+" FROM grounds WHERE id = ?", id)
	g, err := scanGround(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ground{}, ErrNotFound
	}
	return g, err
}

// ListActive returns active grounds, newest first.
func (r *GroundRepo) ListActive(ctx context.Context) ([]model.Ground, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+groundColumns+" FROM grounds WHERE is_active = 1 ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Ground{}
	for rows.Next() {
		g, err := scanGround(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SetActive flips the active flag.
func (r *GroundRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE grounds SET is_active = ? WHERE id = ?", active, id); err != nil {
		return err
	}
	// Unchanged values report zero affected rows, so existence is checked separately.
	_, err := r.GetByID(ctx, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGround(s rowScanner) (model.Ground, error) {
	var (
		g                 model.Ground
		lat, lng          sql.NullFloat64
		images, amenities []byte
		qr                sql.NullString
	)
	err := s.Scan(&g.ID, &g.Name, &g.Address, &lat, &lng, &images, &g.OpenTime, &g.CloseTime,
		&g.PricePerHour, &amenities, &qr, &g.UPIID, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Ground{}, err
	}
	if lat.Valid {
		v := lat.Float64
		g.Latitude = &v
	}
	if lng.Valid {
		v := lng.Float64
		g.Longitude = &v
	}
	if qr.Valid {
		v := qr.String
		g.QRImage = &v
	}
	if g.Images, err = decodeList(images); err != nil {
		return model.Ground{}, err
	}
	if g.Amenities, err = decodeList(amenities); err != nil {
		return model.Ground{}, err
	}
	return g, nil
}

func encodeList(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

func decodeList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
