package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPIKey RequestSource = "API_KEY"
	RequestSourceJWT    RequestSource = "JWT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixVessel CachePrefix = "VESSEL_"
	CachePrefixRoute  CachePrefix = "ROUTE_"
)
