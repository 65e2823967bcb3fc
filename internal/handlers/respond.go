package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/zbpk/Samfolio-Hub/internal/httpx"
	"github.com/zbpk/Samfolio-Hub/internal/services"
)

func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindConfiguration:
		return http.StatusServiceUnavailable
	case services.KindPaymentProvider:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// safeMessage hides internal detail behind a generic message; the full error
// is logged server-side.
func safeMessage(err error) string {
	if services.KindOf(err) == services.KindInternal {
		log.Printf("[ERROR] %v", err)
		return "Internal server error"
	}
	if se, ok := err.(*services.Error); ok {
		return se.Message
	}
	log.Printf("[ERROR] %v", err)
	return "Internal server error"
}

// writeError responds with the admin-style {"error": ...} body.
func writeError(w http.ResponseWriter, err error) {
	httpx.JSONError(w, statusFor(err), safeMessage(err))
}

// writeMessageError responds with the public-style {"message": ...} body.
func writeMessageError(w http.ResponseWriter, err error) {
	httpx.JSONMessage(w, statusFor(err), safeMessage(err))
}

func parseID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
