package api

import (
	"net/http"

	"github.com/keywarden/keywarden/api/helpers"
)

// GetPublicKey returns only the public half of an RSA content row,
// addressed by the content id.
func (c *SecretController) GetPublicKey(w http.ResponseWriter, r *http.Request) {
	keyID, err := helpers.GetIntParam("key_id", w, r)
	if err != nil {
		return
	}

	content, err := helpers.Store(r).GetRsaContent(keyID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{
		"public_key": content.PublicKey,
	})
}

// DownloadKeyPair exports the full key pair of an RSA content row as a zip
// archive.
func (c *SecretController) DownloadKeyPair(w http.ResponseWriter, r *http.Request) {
	keyID, err := helpers.GetIntParam("key_id", w, r)
	if err != nil {
		return
	}

	filename, data, err := c.SecretService.ExportKeyPair(keyID)
	if err != nil {
		helpers.WriteError(w, err)
		return
	}

	writeArchive(w, filename, data)
}
