// Package gormstore persists principals and social links with GORM.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kbukum/trustauth/database"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider/social"
)

// AutoMigrate creates the principals and social_links tables.
func AutoMigrate(db *database.DB) error {
	return db.AutoMigrate(&principalModel{}, &socialLinkModel{})
}

// PrincipalStore implements principal.Store.
type PrincipalStore struct {
	db *database.DB
}

var _ principal.Store = (*PrincipalStore)(nil)

// NewPrincipalStore returns a store over db.
func NewPrincipalStore(db *database.DB) *PrincipalStore {
	return &PrincipalStore{db: db}
}

// FindByUsername returns the principal owning username or principal.ErrNotFound.
func (s *PrincipalStore) FindByUsername(ctx context.Context, username string) (*principal.Principal, error) {
	return s.first(ctx, "username = ?", username)
}

// FindByID returns the principal with id or principal.ErrNotFound.
func (s *PrincipalStore) FindByID(ctx context.Context, id string) (*principal.Principal, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *PrincipalStore) first(ctx context.Context, query string, arg any) (*principal.Principal, error) {
	var m principalModel
	err := s.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, principal.ErrNotFound
	}
	if err != nil {
		return nil, database.FromDatabase(err, "principal")
	}
	return toPrincipal(&m), nil
}

// Save upserts p by ID. A username owned by another principal fails with
// ALREADY_EXISTS wrapping principal.ErrUsernameTaken.
func (s *PrincipalStore) Save(ctx context.Context, p *principal.Principal) error {
	m := fromPrincipal(p)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "password_hash", "email", "display_name", "last_credential_change", "updated_at",
		}),
	}).Create(m).Error
	switch {
	case err == nil:
		return nil
	case database.IsDuplicateError(err):
		// id conflicts upsert, so a duplicate key can only be the username
		return database.FromDatabase(err, "principal").
			WithCause(fmt.Errorf("%w: %q: %v", principal.ErrUsernameTaken, p.Username, err))
	}
	return database.FromDatabase(err, "principal")
}

func toPrincipal(m *principalModel) *principal.Principal {
	return &principal.Principal{
		ID:                   m.ID,
		Username:             m.Username,
		PasswordHash:         m.PasswordHash,
		Email:                m.Email,
		DisplayName:          m.DisplayName,
		LastCredentialChange: m.LastCredentialChange,
		CreatedAt:            m.CreatedAt,
	}
}

func fromPrincipal(p *principal.Principal) *principalModel {
	return &principalModel{
		ID:                   p.ID,
		Username:             p.Username,
		PasswordHash:         p.PasswordHash,
		Email:                p.Email,
		DisplayName:          p.DisplayName,
		LastCredentialChange: p.LastCredentialChange,
		CreatedAt:            p.CreatedAt,
	}
}

// LinkStore implements social.LinkStore.
type LinkStore struct {
	db *database.DB
}

var _ social.LinkStore = (*LinkStore)(nil)

// NewLinkStore returns a link store over db.
func NewLinkStore(db *database.DB) *LinkStore {
	return &LinkStore{db: db}
}

// Find returns the link for an external account or social.ErrLinkNotFound.
func (s *LinkStore) Find(ctx context.Context, provider, externalID string) (*social.Link, error) {
	var m socialLinkModel
	err := s.db.WithContext(ctx).
		Where("provider = ? AND external_id = ?", provider, externalID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, social.ErrLinkNotFound
	}
	if err != nil {
		return nil, database.FromDatabase(err, "social link")
	}
	return toLink(&m), nil
}

// SaveIfNotExists inserts link unless one exists for the same provider and
// external id, in which case the stored link is returned untouched.
func (s *LinkStore) SaveIfNotExists(ctx context.Context, link social.Link) (*social.Link, bool, error) {
	m := &socialLinkModel{
		Provider:    link.Provider,
		ExternalID:  link.ExternalID,
		PrincipalID: link.PrincipalID,
		CreatedAt:   link.CreatedAt,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		return nil, false, database.FromDatabase(res.Error, "social link")
	}
	if res.RowsAffected == 1 {
		return &link, true, nil
	}
	existing, err := s.Find(ctx, link.Provider, link.ExternalID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func toLink(m *socialLinkModel) *social.Link {
	return &social.Link{
		Provider:    m.Provider,
		ExternalID:  m.ExternalID,
		PrincipalID: m.PrincipalID,
		CreatedAt:   m.CreatedAt,
	}
}
