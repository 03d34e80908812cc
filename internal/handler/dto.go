package handler

import (
	"time"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/model"
	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/service"
)

// ----- responses -----

type userResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUser(u model.User) userResp {
	return userResp{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
}

type sessionResp struct {
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
	User             userResp  `json:"user"`
}

func toSession(s service.Session) sessionResp {
	return sessionResp{
		Token:            s.Access.Token,
		ExpiresAt:        s.Access.Exp,
		RefreshToken:     s.Refresh.Raw,
		RefreshExpiresAt: s.Refresh.Exp,
		User:             toUser(s.User),
	}
}

type groundResp struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Images       []string  `json:"images"`
	OpenTime     string    `json:"openTime"`
	CloseTime    string    `json:"closeTime"`
	PricePerHour float64   `json:"pricePerHour"`
	Amenities    []string  `json:"amenities"`
	QRImage      *string   `json:"qrImage"`
	UPIID        string    `json:"upiId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toGround(g model.Ground) groundResp {
	images, amenities := g.Images, g.Amenities
	if images == nil {
		images = []string{}
	}
	if amenities == nil {
		amenities = []string{}
	}
	return groundResp{
		ID: g.ID, Name: g.Name, Address: g.Address, Latitude: g.Latitude, Longitude: g.Longitude,
		Images: images, OpenTime: g.OpenTime, CloseTime: g.CloseTime, PricePerHour: g.PricePerHour,
		Amenities: amenities, QRImage: g.QRImage, UPIID: g.UPIID, IsActive: g.IsActive,
		CreatedAt: g.CreatedAt, UpdatedAt: g.UpdatedAt,
	}
}

type slotResp struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
}

type availabilityResp struct {
	GroundID uint64     `json:"groundId"`
	Date     string     `json:"date"`
	Slots    []slotResp `json:"slots"`
}

func toAvailability(a service.Availability) availabilityResp {
	out := availabilityResp{GroundID: a.GroundID, Date: a.Date, Slots: make([]slotResp, 0, len(a.Slots))}
	for _, s := range a.Slots {
		out.Slots = append(out.Slots, slotResp{StartTime: s.StartTime, EndTime: s.EndTime, Available: s.Available, Price: s.Price})
	}
	return out
}

type bookingResp struct {
	ID                uint64    `json:"id"`
	UserID            uint64    `json:"userId"`
	GroundID          uint64    `json:"groundId"`
	Date              string    `json:"date"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	TotalAmount       float64   `json:"totalAmount"`
	PaymentStatus     string    `json:"paymentStatus"`
	BookingStatus     string    `json:"bookingStatus"`
	PaymentScreenshot *string   `json:"paymentScreenshot"`
	TransactionID     *string   `json:"transactionId"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func toBooking(b model.Booking) bookingResp {
	return bookingResp{
		ID: b.ID, UserID: b.UserID, GroundID: b.GroundID, Date: b.Date,
		StartTime: b.StartTime, EndTime: b.EndTime, TotalAmount: b.TotalAmount,
		PaymentStatus: string(b.PaymentStatus), BookingStatus: string(b.BookingStatus),
		PaymentScreenshot: b.PaymentScreenshot, TransactionID: b.TransactionID,
		CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt,
	}
}

type groundSummaryResp struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Address      string  `json:"address"`
	PricePerHour float64 `json:"pricePerHour"`
}

type userSummaryResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type bookingDetailResp struct {
	bookingResp
	Ground *groundSummaryResp `json:"ground,omitempty"`
	User   *userSummaryResp   `json:"user,omitempty"`
}

func toBookingDetails(list []model.BookingDetail) []bookingDetailResp {
	out := make([]bookingDetailResp, 0, len(list))
	for _, d := range list {
		r := bookingDetailResp{bookingResp: toBooking(d.Booking)}
		if g := d.Ground; g != nil {
			r.Ground = &groundSummaryResp{ID: g.ID, Name: g.Name, Address: g.Address, PricePerHour: g.PricePerHour}
		}
		if u := d.User; u != nil {
			r.User = &userSummaryResp{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
		out = append(out, r)
	}
	return out
}

type receiptResp struct {
	Booking     bookingResp `json:"booking"`
	GroundName  string      `json:"groundName"`
	UPIID       string      `json:"upiId"`
	PaymentLink string      `json:"paymentLink"`
	QRCodeURL   string      `json:"qrCodeUrl"`
}

func toReceipt(r service.Receipt) receiptResp {
	return receiptResp{
		Booking:     toBooking(r.Booking),
		GroundName:  r.Ground.Name,
		UPIID:       r.Ground.UPIID,
		PaymentLink: r.Payment.Link,
		QRCodeURL:   r.Payment.QRCodeURL,
	}
}
