package model

import "time"

// Ground is a bookable sports facility.  OpenTime and CloseTime are
// hour-of-day strings ("06:00"); the slot grid runs from OpenTime up to,
// but excluding, CloseTime.
//
// Fields:
//  Images:    storage-relative paths of uploaded photos.
//  Amenities: free-form tags such as "floodlights" or "parking".
//  QRImage:   optional static payment QR uploaded by the admin.
//  UPIID:     payment-receiving handle used to build payment links.
type Ground struct {
	ID           uint64    // grounds.id
	Name         string    // grounds.name
	Address      string    // grounds.address
	Latitude     *float64  // grounds.latitude (nullable)
	Longitude    *float64  // grounds.longitude (nullable)
	Images       []string  // grounds.images (JSON)
	OpenTime     string    // grounds.open_time
	CloseTime    string    // grounds.close_time
	PricePerHour float64   // grounds.price_per_hour
	Amenities    []string  // grounds.amenities (JSON)
	QRImage      *string   // grounds.qr_image (nullable)
	UPIID        string    // grounds.upi_id
	IsActive     bool      // grounds.is_active
	CreatedAt    time.Time // grounds.created_at
	UpdatedAt    time.Time // grounds.updated_at
}

// Slot is one hourly window of a ground's day.
type Slot struct {
	StartTime string
	EndTime   string
	Available bool
	Price     float64
}
