package auth

import "river-transit/ticketdesk/internal/constants"

// UserClaims is the authenticated caller of a request.
type UserClaims interface {
	UserID() string
	Role() constants.DeskRole
	Source() constants.RequestSource
}

// JWTClaims identifies a dashboard user.
type JWTClaims struct {
	UserUUID  string
	RoleValue constants.DeskRole
}

func (c *JWTClaims) UserID() string                  { return c.UserUUID }
func (c *JWTClaims) Role() constants.DeskRole        { return c.RoleValue }
func (c *JWTClaims) Source() constants.RequestSource { return constants.RequestSourceJWT }

// APIKeyClaims identifies a desk terminal.
type APIKeyClaims struct {
	Label     string
	RoleValue constants.DeskRole
}

func (c *APIKeyClaims) UserID() string                  { return "terminal:" + c.Label }
func (c *APIKeyClaims) Role() constants.DeskRole        { return c.RoleValue }
func (c *APIKeyClaims) Source() constants.RequestSource { return constants.RequestSourceAPIKey }
