// models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// PrincipalKind distinguishes a database-backed admin from the bootstrap
// admin configured via environment, which has no admins-collection row.
type PrincipalKind string

const (
	PrincipalDatabaseAdmin  PrincipalKind = "database_admin"
	PrincipalBootstrapAdmin PrincipalKind = "bootstrap_admin"
)

// BootstrapAdminID is the sentinel subject carried in bootstrap admin tokens.
const BootstrapAdminID = "bootstrap"

// Principal identifies the admin performing a privileged operation.
type Principal struct {
	Kind    PrincipalKind
	AdminID string
	Name    string
}

// DatabasePrincipal builds a principal for an admins-collection record.
func DatabasePrincipal(a Admin) Principal {
	return Principal{Kind: PrincipalDatabaseAdmin, AdminID: a.ID.Hex(), Name: a.Name}
}

// BootstrapPrincipal builds the fixed bootstrap admin principal.
func BootstrapPrincipal(name string) Principal {
	if name == "" {
		name = "Administrator"
	}
	return Principal{Kind: PrincipalBootstrapAdmin, AdminID: BootstrapAdminID, Name: name}
}
