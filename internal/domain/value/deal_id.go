package value

import (
	"fmt"

	"github.com/rs/xid"
)

// DealID — непрозрачный идентификатор сделки, выдаётся хранилищем.
type DealID string

func NewDealID() DealID {
	return DealID(xid.New().String())
}

func ParseDealID(s string) (DealID, error) {
	id, err := xid.FromString(s)
	if err != nil {
		return "", fmt.Errorf("xid.FromString: %w", err)
	}

	return DealID(id.String()), nil
}

func (id DealID) String() string {
	return string(id)
}
