package constants

import (
	"database/sql/driver"
	"fmt"
)

// DeskRole is the role carried by a desk user or terminal API key.
type DeskRole string

const (
	RoleSeller DeskRole = "seller"
	RoleAdmin  DeskRole = "admin"
)

func (r DeskRole) String() string { return string(r) }

// Valid reports whether r is a known role.
func (r DeskRole) Valid() bool {
	return r == RoleSeller || r == RoleAdmin
}

// Scan implements the sql.Scanner interface
func (r *DeskRole) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = DeskRole(v)
	case []byte:
		*r = DeskRole(v)
	default:
		return fmt.Errorf("DeskRole: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r DeskRole) Value() (driver.Value, error) { return string(r), nil }
