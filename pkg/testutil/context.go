package testutil

import (
	"net/http"

	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the userID is not a valid UUID, it will not be added to the context.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsedUserID, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsedUserID))
	}
	return req
}

// WithLanguage sets the preferred language the language middleware would
// have derived from Accept-Language.
func WithLanguage(req *http.Request, lang string) *http.Request {
	return req.WithContext(requestcontext.WithLanguage(req.Context(), lang))
}

// WithRequestID sets the request ID the request middleware would assign.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
