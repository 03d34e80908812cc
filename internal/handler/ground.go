package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Nisharg-K/Pickle-Broker-Sports-Ground-Booking-Platform/internal/service"
)

// GroundHandler serves the facility catalog: public browsing and the admin
// write path.
type GroundHandler struct {
	base
	Grounds *service.GroundService
}

func NewGroundHandler(grounds *service.GroundService, log *slog.Logger, timeout time.Duration) *GroundHandler {
	return &GroundHandler{base: base{Log: log, Timeout: timeout}, Grounds: grounds}
}

// List returns the active grounds, newest first.
func (h *GroundHandler) List(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	list, err := h.Grounds.List(ctx)
	if err != nil {
		return h.respondError(c, err)
	}
	out := make([]groundResp, 0, len(list))
	for _, g := range list {
		out = append(out, toGround(g))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one ground.
func (h *GroundHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid ground id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	g, err := h.Grounds.Get(ctx, id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toGround(g))
}

// Availability returns the hourly slot grid for /grounds/:id/availability/:date.
func (h *GroundHandler) Availability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid ground id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	av, err := h.Grounds.Availability(ctx, id, c.Param("date"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toAvailability(av))
}

// Create registers a ground from a multipart form.  Photos arrive in the
// repeated "images" field, the optional payment QR in "qrImage".
func (h *GroundHandler) Create(c echo.Context) error {
	form := service.GroundForm{
		Name:         c.FormValue("name"),
		Address:      c.FormValue("address"),
		Latitude:     c.FormValue("latitude"),
		Longitude:    c.FormValue("longitude"),
		OpenTime:     c.FormValue("openTime"),
		CloseTime:    c.FormValue("closeTime"),
		PricePerHour: c.FormValue("pricePerHour"),
		Amenities:    c.FormValue("amenities"),
		UPIID:        c.FormValue("upiId"),
		IsActive:     c.FormValue("isActive"),
	}

	var (
		images []*multipart.FileHeader
		qr     *multipart.FileHeader
	)
	if mf, err := c.MultipartForm(); err == nil {
		images = mf.File["images"]
		if files := mf.File["qrImage"]; len(files) > 0 {
			qr = files[0]
		}
	} else if !errors.Is(err, http.ErrNotMultipart) {
		return badRequest(c, "invalid multipart form")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	g, err := h.Grounds.Create(ctx, identity(c), form, images, qr)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, toGround(g))
}

type groundStatusReq struct {
	IsActive *bool `json:"isActive"`
}

// SetStatus opens or closes a ground for booking.
func (h *GroundHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid ground id")
	}
	var req groundStatusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.IsActive == nil {
		return badRequest(c, "isActive is required")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	g, err := h.Grounds.SetActive(ctx, identity(c), id, *req.IsActive)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, toGround(g))
}
