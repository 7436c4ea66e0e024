package secrets

import (
	"archive/zip"
	"bytes"
	"fmt"

	"github.com/keywarden/keywarden/db"
)

// Export packages a secret's key material and a plaintext metadata summary
// into a zip archive. A secret whose content row is missing yields
// db.ErrNotFound.
func (s *SecretService) Export(secretID int) (filename string, data []byte, err error) {
	secret, err := s.store.GetSecret(secretID)
	if err != nil {
		return
	}

	var files []archiveEntry

	switch {
	case secret.RsaContentID != nil:
		var content db.RsaContent
		content, err = s.store.GetRsaContent(*secret.RsaContentID)
		if err != nil {
			return
		}

		files = []archiveEntry{
			{"public_key.pem", content.PublicKey},
			{"private_key.pem", content.PrivateKey},
			{"metadata.txt", metadataSummary(secret, content.KeySize)},
		}
	case secret.AesContentID != nil:
		var content db.AesContent
		content, err = s.store.GetAesContent(*secret.AesContentID)
		if err != nil {
			return
		}

		files = []archiveEntry{{"key.txt", content.Key}}
		if content.IV != "" {
			files = append(files, archiveEntry{"iv.txt", content.IV})
		}
		files = append(files, archiveEntry{"metadata.txt", metadataSummary(secret, content.KeySize)})
	default:
		err = db.ErrNotFound
		return
	}

	data, err = packArchive(files)
	if err != nil {
		return
	}

	filename = fmt.Sprintf("secret_%d.zip", secretID)
	return
}

// ExportKeyPair packages an RSA content row addressed directly by its own
// id, without the metadata summary.
func (s *SecretService) ExportKeyPair(contentID int) (filename string, data []byte, err error) {
	content, err := s.store.GetRsaContent(contentID)
	if err != nil {
		return
	}

	data, err = packArchive([]archiveEntry{
		{"public_key.pem", content.PublicKey},
		{"private_key.pem", content.PrivateKey},
	})
	if err != nil {
		return
	}

	filename = fmt.Sprintf("rsa_keys_%d.zip", contentID)
	return
}

func metadataSummary(secret db.Secret, keySize int) string {
	return fmt.Sprintf(
		"Secret ID: %d\n"+
			"Description: %s\n"+
			"Created By: %s\n"+
			"Created At: %s\n"+
			"Key Size: %d bits\n",
		secret.ID,
		secret.Description,
		secret.CreatedBy,
		secret.CreatedAt.Format("2006-01-02 15:04:05"),
		keySize)
}

type archiveEntry struct {
	name    string
	content string
}

// packArchive writes entries in slice order so identical inputs always
// produce an identical archive.
func packArchive(files []archiveEntry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, entry := range files {
		f, err := zw.Create(entry.name)
		if err != nil {
			return nil, err
		}

		if _, err = f.Write([]byte(entry.content)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
