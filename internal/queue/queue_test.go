package queue

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-seat-booking/internal/model"
)

func sampleOrder() model.Order {
	return model.Order{
		ID:            7,
		MovieID:       1,
		MovieTitle:    "Inception",
		Showtime:      "10:00 AM",
		TicketClass:   model.TicketRegular,
		Seats:         []string{"A1", "A2"},
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Membership:    model.TierGuest,
		Total:         110000,
		PaymentMethod: "card",
		CreatedAt:     time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewOrderConfirmedEvent(t *testing.T) {
	o := sampleOrder()
	ev := NewOrderConfirmedEvent(o)
	assert.Equal(t, uint64(7), ev.OrderID)
	assert.Equal(t, "Regular", ev.TicketClass)
	assert.Equal(t, "2026-03-01T09:30:00Z", ev.ConfirmedAt)

	o.Seats[0] = "Z9"
	assert.Equal(t, []string{"A1", "A2"}, ev.Seats)
}

func TestWriteAuditLine(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAuditLine(&buf, NewOrderConfirmedEvent(sampleOrder())))
	line := buf.String()
	assert.Contains(t, line, "order_id=7")
	assert.Contains(t, line, `movie="Inception"`)
	assert.Contains(t, line, "seats=[A1,A2]")
	assert.Contains(t, line, "total=110000")
	assert.True(t, line[len(line)-1] == '\n')
}

func TestAuditConsumer_Handle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "orders.log")
	c := &AuditConsumer{LogPath: path}

	body, err := json.Marshal(NewOrderConfirmedEvent(sampleOrder()))
	require.NoError(t, err)
	require.NoError(t, c.handle(body))
	require.NoError(t, c.handle(body))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(bs, []byte("\n")))

	assert.Error(t, c.handle([]byte("{not json")))
}
