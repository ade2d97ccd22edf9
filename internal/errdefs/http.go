package errdefs

import "net/http"

// ToHTTPStatus maps an error's §7 kind to the wire status the request
// gateway (C8) returns. Errors that carry no recognized kind map to 500.
func ToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsInvalidParameter(err):
		return http.StatusBadRequest
	case IsNotFound(err):
		return http.StatusNotFound
	case IsAlreadyExists(err), IsAlreadyActive(err):
		return http.StatusConflict
	case IsPermissionDenied(err):
		return http.StatusForbidden
	case IsTimeout(err), IsConnectionFailed(err):
		return http.StatusGatewayTimeout
	case IsNotSupported(err):
		return http.StatusNotImplemented
	case IsInvalidState(err):
		return http.StatusConflict
	case IsServiceError(err):
		return http.StatusServiceUnavailable
	case IsCommandFailed(err), IsParseError(err), IsIO(err), IsConfigError(err):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
