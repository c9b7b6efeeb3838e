package db

import (
	"context"
	"database/sql"

	"github.com/iplayapp/iplay-backend/internal/models"
)

func CertificateExists(ctx context.Context, database *sql.DB, userID, realmID string) (bool, error) {
	var exists bool
	err := database.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM certificates WHERE user_id = $1 AND realm_id = $2)`,
		userID, realmID).Scan(&exists)
	return exists, err
}

func InsertCertificate(ctx context.Context, database *sql.DB, cert models.Certificate) error {
	_, err := database.ExecContext(ctx, `
		INSERT INTO certificates (id, user_id, certificate_type, realm_id, realm_name,
			certificate_url, certificate_number, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		cert.ID, cert.UserID, cert.CertificateType, cert.RealmID, cert.RealmName,
		cert.CertificateURL, cert.CertificateNumber, cert.IssuedAt)
	return err
}
