package server

import "net/http"

// registerRoutes wires every §6 IPC surface operation to a path. Method
// groups map directly onto the §6 table; "privileged" follows §4.6
// step 2 ("any write/mutating operation").
func (s *Server) registerRoutes() {
	// Global
	s.route(http.MethodGet, "/v1/global/version", false, s.handleGetVersion)
	s.route(http.MethodGet, "/v1/global/state", false, s.handleGetState)
	s.route(http.MethodGet, "/v1/global/connectivity", false, s.handleGetConnectivity)
	s.route(http.MethodGet, "/v1/global/devices", false, s.handleGetDevices)
	s.route(http.MethodPost, "/v1/global/networking-enabled", true, s.handleSetNetworkingEnabled)
	s.route(http.MethodPost, "/v1/global/check-connectivity", false, s.handleCheckConnectivity)

	// Device
	s.route(http.MethodGet, "/v1/devices/{name}", false, s.handleDeviceGetInfo)
	s.route(http.MethodPost, "/v1/devices/{name}/activate", true, s.handleDeviceActivate)
	s.route(http.MethodPost, "/v1/devices/{name}/deactivate", true, s.handleDeviceDeactivate)
	s.route(http.MethodPost, "/v1/devices/{name}/mtu", true, s.handleDeviceSetMTU)
	s.route(http.MethodPost, "/v1/devices/{name}/managed", true, s.handleDeviceSetManaged)
	s.route(http.MethodPost, "/v1/devices/{name}/autoconnect", true, s.handleDeviceSetAutoconnect)

	// WiFi
	s.route(http.MethodPost, "/v1/wifi/{name}/scan", true, s.handleWiFiScan)
	s.route(http.MethodGet, "/v1/wifi/{name}/access-points", false, s.handleWiFiGetAccessPoints)
	s.route(http.MethodPost, "/v1/wifi/{name}/connect", true, s.handleWiFiConnect)
	s.route(http.MethodPost, "/v1/wifi/{name}/disconnect", true, s.handleWiFiDisconnect)
	s.route(http.MethodPost, "/v1/wifi/{name}/start-ap", true, s.handleWiFiStartAP)
	s.route(http.MethodPost, "/v1/wifi/{name}/stop-ap", true, s.handleWiFiStopAP)
	s.route(http.MethodPost, "/v1/wifi/{name}/enabled", true, s.handleWiFiSetEnabled)

	// VPN
	s.route(http.MethodGet, "/v1/vpn/connections", false, s.handleVPNListConnections)
	s.route(http.MethodGet, "/v1/vpn/connections/{name}", false, s.handleVPNGetConnectionInfo)
	s.route(http.MethodPost, "/v1/vpn/connections/{name}/connect", true, s.handleVPNConnect)
	s.route(http.MethodPost, "/v1/vpn/connections/{name}/disconnect", true, s.handleVPNDisconnect)
	s.route(http.MethodDelete, "/v1/vpn/connections/{name}", true, s.handleVPNDelete)
	s.route(http.MethodPost, "/v1/vpn/connections/{name}/import", true, s.handleVPNImport)
	s.route(http.MethodGet, "/v1/vpn/connections/{name}/export", false, s.handleVPNExport)

	// Connection (profile) management
	s.route(http.MethodGet, "/v1/connections", false, s.handleConnectionList)
	s.route(http.MethodPost, "/v1/connections", true, s.handleConnectionAdd)
	s.route(http.MethodDelete, "/v1/connections/{uuid}", true, s.handleConnectionDelete)
	s.route(http.MethodPost, "/v1/connections/{uuid}/activate/{device}", true, s.handleConnectionActivate)
	s.route(http.MethodPost, "/v1/connections/{uuid}/deactivate", true, s.handleConnectionDeactivate)

	// DHCP server
	s.route(http.MethodPost, "/v1/dhcp-server/start", true, s.handleDHCPServerStart)
	s.route(http.MethodPost, "/v1/dhcp-server/stop", true, s.handleDHCPServerStop)
	s.route(http.MethodGet, "/v1/dhcp-server/status", false, s.handleDHCPServerStatus)
	s.route(http.MethodGet, "/v1/dhcp-server/leases", false, s.handleDHCPServerLeases)
	s.route(http.MethodGet, "/v1/dhcp-server/running", false, s.handleDHCPServerRunning)

	// DNS
	s.route(http.MethodPost, "/v1/dns/start", true, s.handleDNSStart)
	s.route(http.MethodPost, "/v1/dns/stop", true, s.handleDNSStop)
	s.route(http.MethodPost, "/v1/dns/forwarders", true, s.handleDNSAddForwarder)
	s.route(http.MethodDelete, "/v1/dns/forwarders/{addr}", true, s.handleDNSRemoveForwarder)
	s.route(http.MethodGet, "/v1/dns/forwarders", false, s.handleDNSGetForwarders)
	s.route(http.MethodGet, "/v1/dns/status", false, s.handleDNSGetStatus)

	// Routing
	s.route(http.MethodPost, "/v1/routing/routes", true, s.handleRoutingAddRoute)
	s.route(http.MethodDelete, "/v1/routing/routes", true, s.handleRoutingRemoveRoute)
	s.route(http.MethodGet, "/v1/routing/routes", false, s.handleRoutingGetRoutes)
	s.route(http.MethodPost, "/v1/routing/default-gateway", true, s.handleRoutingSetDefaultGateway)
	s.route(http.MethodGet, "/v1/routing/default-gateway", false, s.handleRoutingGetDefaultGateway)
	s.route(http.MethodDelete, "/v1/routing/default-gateway", true, s.handleRoutingClearDefaultGateway)

	// Privilege
	s.route(http.MethodPost, "/v1/privilege/grant", true, s.handlePrivilegeGrant)
	s.route(http.MethodPost, "/v1/privilege/revoke", true, s.handlePrivilegeRevoke)
	s.route(http.MethodGet, "/v1/privilege/status", false, s.handlePrivilegeGetStatus)
	s.route(http.MethodGet, "/v1/privilege/verify", false, s.handlePrivilegeVerify)
	s.route(http.MethodGet, "/v1/privilege/has-valid", false, s.handlePrivilegeHasValid)
	s.route(http.MethodGet, "/v1/privilege/remaining", false, s.handlePrivilegeGetRemaining)

	// Events: fans C2 out to subscribed clients (§4.6 "fans events ... out").
	s.route(http.MethodGet, "/v1/events", false, s.handleEvents)
}
