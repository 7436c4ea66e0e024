package api

import (
	"net/http"

	"github.com/keywarden/keywarden/api/helpers"
)

// GetOperations lists the audit trail, newest first.
func GetOperations(w http.ResponseWriter, r *http.Request) {
	operations, err := helpers.Store(r).GetUserOperations()
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, operations)
}
