package idgen

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

const orderIDLength = 12

// Generator issues order ids that are valid gateway order references (12 digits)
// and uuids for every other record.
type Generator struct {
	orderID func() string
}

func New() (*Generator, error) {
	orderID, err := nanoid.CustomASCII("0123456789", orderIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to init order id generator: %w", err)
	}
	return &Generator{orderID: orderID}, nil
}

func (g *Generator) OrderID() string {
	return g.orderID()
}

func (g *Generator) NewID() string {
	return uuid.New().String()
}
