package livebox

import (
	"encoding/json"
	"time"
)

const (
	// DefaultURL is the address of the router on a stock home network.
	DefaultURL = "http://192.168.1.1"
	// DefaultTimeout applies to each request when no positive timeout is given.
	DefaultTimeout = 10 * time.Second

	wsPath             = "ws"
	contentType        = "application/x-sah-ws-4-call+json"
	loginAuthorization = "X-Sah-Login"
	applicationName    = "so_sdkut"

	// ContextHeader and ContextCookie carry the context token after login.
	ContextHeader = "X-Context"
	ContextCookie = "sah/contextId"

	maxResponseSize = 1 << 20
)

const (
	serviceDeviceInformation = "sah.Device.Information"
	methodCreateContext      = "createContext"
	serviceNMC               = "NMC"
	methodGetWANStatus       = "getWANStatus"
)

// WAN status field names reported by getWANStatus.
const (
	FieldWanState            = "WanState"
	FieldLinkType            = "LinkType"
	FieldLinkState           = "LinkState"
	FieldGponState           = "GponState"
	FieldMACAddress          = "MACAddress"
	FieldProtocol            = "Protocol"
	FieldConnectionState     = "ConnectionState"
	FieldLastConnectionError = "LastConnectionError"
	FieldIPAddress           = "IPAddress"
	FieldRemoteGateway       = "RemoteGateway"
	FieldDNSServers          = "DNSServers"
	FieldIPv6Address         = "IPv6Address"
)

// WANStatusFields lists the fields that can be selected on the command line.
var WANStatusFields = []string{
	FieldWanState,
	FieldLinkType,
	FieldLinkState,
	FieldGponState,
	FieldMACAddress,
	FieldProtocol,
	FieldConnectionState,
	FieldLastConnectionError,
	FieldIPAddress,
	FieldRemoteGateway,
	FieldDNSServers,
	FieldIPv6Address,
}

// IsWANStatusField returns true if name is one of WANStatusFields.
func IsWANStatusField(name string) bool {
	for _, field := range WANStatusFields {
		if field == name {
			return true
		}
	}
	return false
}

// Request is the envelope of every call to the /ws endpoint.
type Request struct {
	Service    string      `json:"service"`
	Method     string      `json:"method"`
	Parameters interface{} `json:"parameters"`
}

// CreateContextParameters are the parameters of sah.Device.Information.createContext.
type CreateContextParameters struct {
	ApplicationName string `json:"applicationName"`
	Username        string `json:"username"`
	Password        string `json:"password"`
}

// LoginResponse is returned by createContext.
//
// Status is kept raw: the router reports 0/1 here and true/false elsewhere.
// Success is decided by the HTTP status code alone.
type LoginResponse struct {
	Status json.RawMessage `json:"status"`
	Data   LoginData       `json:"data"`
}

// LoginData holds the context token issued on a successful login.
type LoginData struct {
	ContextID string `json:"contextID"`
	Username  string `json:"username"`
	Groups    string `json:"groups"`
}

// wanStatusResponse is returned by NMC.getWANStatus.
type wanStatusResponse struct {
	Status json.RawMessage            `json:"status"`
	Data   map[string]json.RawMessage `json:"data"`
}

// WANStatus maps a field name to its value as text.
//
// String values are stored unquoted; other JSON values keep their JSON
// text (true, 1500). Null values are left out.
type WANStatus map[string]string

// Get returns the value of field and whether it was reported.
func (s WANStatus) Get(field string) (string, bool) {
	value, ok := s[field]
	return value, ok
}
