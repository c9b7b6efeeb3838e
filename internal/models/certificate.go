package models

import "time"

type Realm struct {
	ID   string
	Name string
}

// Realms lists the instructional realms that award a certificate on
// completion.
var Realms = []Realm{
	{ID: "realm_copyright", Name: "Copyright"},
	{ID: "realm_trademark", Name: "Trademark"},
	{ID: "realm_patent", Name: "Patent"},
	{ID: "realm_design", Name: "Industrial Design"},
	{ID: "realm_gi", Name: "Geographical Indication"},
	{ID: "realm_secrets", Name: "Trade Secrets"},
}

// Certificate is issued at most once per (user, realm); its ID is
// userID_realmID which doubles as the idempotency key.
type Certificate struct {
	ID                string
	UserID            string
	CertificateType   string
	RealmID           string
	RealmName         string
	CertificateURL    string
	CertificateNumber string
	IssuedAt          time.Time
}
