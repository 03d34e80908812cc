package payment

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Link(t *testing.T) {
	b := NewBuilder(Config{})
	link := b.Link("ground1@okaxis", "Ground 1", 500)
	assert.Equal(t, "upi://pay?pa=ground1@okaxis&pn=Ground%201&am=500&cu=INR&tn=Ground%20Booking", link)
}

func TestBuilder_LinkEscapesReservedCharacters(t *testing.T) {
	b := NewBuilder(Config{Note: "Slot 07:00"})
	link := b.Link("pay@upi", "Bat & Ball", 450.5)
	assert.Contains(t, link, "pn=Bat%20%26%20Ball")
	assert.Contains(t, link, "am=450.50")
	assert.Contains(t, link, "tn=Slot%2007%3A00")
}

func TestBuilder_QRCodeURLCarriesEncodedLink(t *testing.T) {
	b := NewBuilder(Config{QRBaseURL: "https://qr.example.com/render", QRSize: "300x300"})
	ins := b.Build("ground1@okaxis", "Ground 1", 500)

	u, err := url.Parse(ins.QRCodeURL)
	require.NoError(t, err)
	assert.Equal(t, "qr.example.com", u.Host)
	assert.Equal(t, "300x300", u.Query().Get("size"))
	assert.Equal(t, ins.Link, u.Query().Get("data"))
}

func TestBuilder_QRCodeURLWithExistingQuery(t *testing.T) {
	b := NewBuilder(Config{QRBaseURL: "https://qr.example.com/render?format=png"})
	assert.Contains(t, b.QRCodeURL("upi://pay"), "?format=png&size=")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500", FormatAmount(500))
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "99.90", FormatAmount(99.9))
}
