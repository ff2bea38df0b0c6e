package postgresadapter

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sscd/contexts/identity-access/client-self-service/domain/entities"
	domainerrors "sscd/contexts/identity-access/client-self-service/domain/errors"
	"sscd/contexts/identity-access/client-self-service/domain/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the PostgreSQL adapter backing the client and identity
// directory ports. The attribute bag is stored as jsonb so marker lookups
// can use containment queries.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates or updates the directory tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&clientModel{}, &userModel{})
}

func (r *Repository) FindByClientID(ctx context.Context, clientID string) (entities.Client, bool, error) {
	var row clientModel
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Client{}, false, nil
		}
		return entities.Client{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (entities.Client, bool, error) {
	var row clientModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Client{}, false, nil
		}
		return entities.Client{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateClient(ctx context.Context, client entities.Client) (entities.Client, error) {
	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	if client.Secret == "" && !client.PublicClient {
		client.Secret = uuid.NewString()
	}
	row := fromEntity(client)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Client{}, domainerrors.Conflictf("Client %s already exists", client.ClientID)
		}
		return entities.Client{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateClient(ctx context.Context, client entities.Client) (entities.Client, error) {
	row := fromEntity(client)
	result := r.db.WithContext(ctx).
		Model(&clientModel{}).
		Where("id = ?", row.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return entities.Client{}, domainerrors.Conflictf("Client %s already exists", client.ClientID)
		}
		return entities.Client{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Client{}, domainerrors.NotFoundf("Could not find client")
	}
	return r.mustFind(ctx, row.ID)
}

func (r *Repository) DeleteClient(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&clientModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.NotFoundf("Could not find client")
	}
	return nil
}

func (r *Repository) RotateSecret(ctx context.Context, id string) (entities.Client, error) {
	secret := uuid.NewString()
	result := r.db.WithContext(ctx).
		Model(&clientModel{}).
		Where("id = ?", id).
		Update("secret", secret)
	if result.Error != nil {
		return entities.Client{}, result.Error
	}
	if result.RowsAffected == 0 {
		return entities.Client{}, domainerrors.NotFoundf("Could not find client")
	}
	return r.mustFind(ctx, id)
}

// SearchByAttributes uses jsonb containment on the attribute bag. Callers
// re-check results against the full ACL predicate regardless.
func (r *Repository) SearchByAttributes(ctx context.Context, attributes map[string]string) ([]entities.Client, error) {
	encoded, err := json.Marshal(attributes)
	if err != nil {
		return nil, err
	}
	var rows []clientModel
	if err := r.db.WithContext(ctx).
		Where("attributes @> ?::jsonb", string(encoded)).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	clients := make([]entities.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, row.toEntity())
	}
	return clients, nil
}

// UpdateAttributes applies set and remove inside one transaction with the
// row locked, so concurrent manager-set replacements serialize.
func (r *Repository) UpdateAttributes(ctx context.Context, id string, set map[string]string, remove []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row clientModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.NotFoundf("Could not find client")
			}
			return err
		}
		if row.Attributes == nil {
			row.Attributes = make(jsonMap)
		}
		for _, key := range remove {
			delete(row.Attributes, key)
		}
		for key, value := range set {
			row.Attributes[key] = value
		}
		return tx.Model(&clientModel{}).
			Where("id = ?", id).
			Update("attributes", row.Attributes).
			Error
	})
}

func (r *Repository) ValidateClient(_ context.Context, client entities.Client) error {
	return services.ValidateClientStructure(client)
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string) (entities.User, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, false, nil
		}
		return entities.User{}, false, err
	}
	return entities.User{ID: row.ID, Username: row.Username}, true, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id string) (entities.User, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, false, nil
		}
		return entities.User{}, false, err
	}
	return entities.User{ID: row.ID, Username: row.Username}, true, nil
}

func (r *Repository) mustFind(ctx context.Context, id string) (entities.Client, error) {
	client, found, err := r.FindByID(ctx, id)
	if err != nil {
		return entities.Client{}, err
	}
	if !found {
		return entities.Client{}, domainerrors.NotFoundf("Could not find client")
	}
	return client, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// jsonMap stores a string map as a jsonb column.
type jsonMap map[string]string

func (m jsonMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func (m *jsonMap) Scan(value any) error {
	return scanJSON(value, m)
}

// jsonSlice stores a string slice as a jsonb column.
type jsonSlice []string

func (s jsonSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func (s *jsonSlice) Scan(value any) error {
	return scanJSON(value, s)
}

func scanJSON(value any, target any) error {
	switch raw := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(raw, target)
	case string:
		return json.Unmarshal([]byte(raw), target)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

type clientModel struct {
	ID                           string    `gorm:"column:id;primaryKey"`
	ClientID                     string    `gorm:"column:client_id;uniqueIndex"`
	Name                         string    `gorm:"column:name"`
	Description                  string    `gorm:"column:description"`
	RootURL                      string    `gorm:"column:root_url"`
	BaseURL                      string    `gorm:"column:base_url"`
	Enabled                      bool      `gorm:"column:enabled"`
	PublicClient                 bool      `gorm:"column:public_client"`
	BearerOnly                   bool      `gorm:"column:bearer_only"`
	FrontchannelLogout           bool      `gorm:"column:frontchannel_logout"`
	StandardFlowEnabled          bool      `gorm:"column:standard_flow_enabled"`
	ImplicitFlowEnabled          bool      `gorm:"column:implicit_flow_enabled"`
	DirectAccessGrantsEnabled    bool      `gorm:"column:direct_access_grants_enabled"`
	ServiceAccountsEnabled       bool      `gorm:"column:service_accounts_enabled"`
	AuthorizationServicesEnabled bool      `gorm:"column:authorization_services_enabled"`
	Secret                       string    `gorm:"column:secret"`
	RedirectURIs                 jsonSlice `gorm:"column:redirect_uris;type:jsonb"`
	WebOrigins                   jsonSlice `gorm:"column:web_origins;type:jsonb"`
	Attributes                   jsonMap   `gorm:"column:attributes;type:jsonb"`
	CreatedAt                    time.Time `gorm:"column:created_at"`
	UpdatedAt                    time.Time `gorm:"column:updated_at"`
}

func (clientModel) TableName() string {
	return "managed_clients"
}

func (m clientModel) toEntity() entities.Client {
	return entities.Client{
		ID:                           m.ID,
		ClientID:                     m.ClientID,
		Name:                         m.Name,
		Description:                  m.Description,
		RootURL:                      m.RootURL,
		BaseURL:                      m.BaseURL,
		Enabled:                      m.Enabled,
		PublicClient:                 m.PublicClient,
		BearerOnly:                   m.BearerOnly,
		FrontchannelLogout:           m.FrontchannelLogout,
		StandardFlowEnabled:          m.StandardFlowEnabled,
		ImplicitFlowEnabled:          m.ImplicitFlowEnabled,
		DirectAccessGrantsEnabled:    m.DirectAccessGrantsEnabled,
		ServiceAccountsEnabled:       m.ServiceAccountsEnabled,
		AuthorizationServicesEnabled: m.AuthorizationServicesEnabled,
		Secret:                       m.Secret,
		RedirectURIs:                 []string(m.RedirectURIs),
		WebOrigins:                   []string(m.WebOrigins),
		Attributes:                   map[string]string(m.Attributes),
	}
}

func fromEntity(client entities.Client) clientModel {
	return clientModel{
		ID:                           client.ID,
		ClientID:                     client.ClientID,
		Name:                         client.Name,
		Description:                  client.Description,
		RootURL:                      client.RootURL,
		BaseURL:                      client.BaseURL,
		Enabled:                      client.Enabled,
		PublicClient:                 client.PublicClient,
		BearerOnly:                   client.BearerOnly,
		FrontchannelLogout:           client.FrontchannelLogout,
		StandardFlowEnabled:          client.StandardFlowEnabled,
		ImplicitFlowEnabled:          client.ImplicitFlowEnabled,
		DirectAccessGrantsEnabled:    client.DirectAccessGrantsEnabled,
		ServiceAccountsEnabled:       client.ServiceAccountsEnabled,
		AuthorizationServicesEnabled: client.AuthorizationServicesEnabled,
		Secret:                       client.Secret,
		RedirectURIs:                 jsonSlice(client.RedirectURIs),
		WebOrigins:                   jsonSlice(client.WebOrigins),
		Attributes:                   jsonMap(client.Attributes),
	}
}

type userModel struct {
	ID       string `gorm:"column:id;primaryKey"`
	Username string `gorm:"column:username;uniqueIndex"`
}

func (userModel) TableName() string {
	return "directory_users"
}
