package certificates

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iplayapp/iplay-backend/internal/db"
	"github.com/iplayapp/iplay-backend/internal/models"
	"github.com/iplayapp/iplay-backend/internal/storage"
	"go.uber.org/zap"
)

type Issuer struct {
	DB            *sql.DB
	Bucket        storage.Bucket
	VerifyBaseURL string
	Log           *zap.SugaredLogger
}

// OnUserCreated issues a certificate for every realm the new user's progress
// summary marks completed. The existence check plus the userID_realmID
// document id make re-delivery of the notification harmless.
func (i *Issuer) OnUserCreated(ctx context.Context, userID string) error {
	user, err := db.GetUserByID(ctx, i.DB, userID)
	if err != nil {
		return err
	}
	if user == nil || len(user.ProgressSummary) == 0 {
		return nil
	}

	for _, realm := range models.Realms {
		progress, ok := user.ProgressSummary[realm.ID]
		if !ok || !progress.Completed {
			continue
		}
		exists, err := db.CertificateExists(ctx, i.DB, userID, realm.ID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := i.issue(ctx, user, realm); err != nil {
			return fmt.Errorf("issue %s for %s: %w", realm.ID, userID, err)
		}
	}
	return nil
}

func (i *Issuer) issue(ctx context.Context, user *models.User, realm models.Realm) error {
	if i.Bucket == nil {
		i.Log.Warnw("certificate skipped: object storage not configured",
			"user", user.ID, "realm", realm.ID)
		return nil
	}

	issuedAt := time.Now().UTC()
	number := certificateNumber(realm.ID, issuedAt)

	name := user.DisplayName
	if name == "" {
		name = "Student"
	}
	pdf, err := render(name, realm.Name, number, issuedAt, i.VerifyBaseURL+"/"+number)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("certificates/%s/%s_%s.pdf", user.ID, user.ID, realm.ID)
	if err := i.Bucket.Put(ctx, key, bytes.NewReader(pdf), "application/pdf"); err != nil {
		return err
	}

	cert := models.Certificate{
		ID:                user.ID + "_" + realm.ID,
		UserID:            user.ID,
		CertificateType:   "realm",
		RealmID:           realm.ID,
		RealmName:         realm.Name,
		CertificateURL:    i.Bucket.URL(key),
		CertificateNumber: number,
		IssuedAt:          issuedAt,
	}
	if err := db.InsertCertificate(ctx, i.DB, cert); err != nil {
		return err
	}
	i.Log.Infow("certificate issued", "number", number, "user", user.ID, "realm", realm.ID)
	return nil
}

// certificateNumber is unique per (realm, issuance instant).
func certificateNumber(realmID string, at time.Time) string {
	return fmt.Sprintf("IPLAY-%s-%d", strings.ToUpper(realmID), at.UnixMilli())
}
