package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"product-resource/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

// Rows keep the 24-char hex ObjectID as primary key so ids look the same
// whichever store is configured.
type productRecord struct {
	ID      string    `gorm:"primaryKey;size:24"`
	Title   string    `gorm:"not null"`
	Content string    `gorm:"type:text"`
	UserID  string    `gorm:"size:24;index"`
	Created time.Time `gorm:"not null;index:idx_products_created,sort:desc"`
}

func (productRecord) TableName() string { return "products" }

type userRecord struct {
	ID           string  `gorm:"primaryKey;size:24"`
	Username     string  `gorm:"uniqueIndex;not null"`
	Email        *string `gorm:"uniqueIndex"`
	DisplayName  string
	PasswordHash string `gorm:"not null"`
	Roles        string `gorm:"not null;default:'user'"`
}

func (userRecord) TableName() string { return "users" }

var GormRepositoryTracer = otel.Tracer("GormRepository")

// Migrate creates or updates the products and users tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&productRecord{}, &userRecord{})
}

func toProductRecord(p *model.Product) productRecord {
	rec := productRecord{
		ID:      p.ID.Hex(),
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created,
	}
	if !p.UserID.IsZero() {
		rec.UserID = p.UserID.Hex()
	}
	return rec
}

func (rec productRecord) toModel() (model.Product, error) {
	id, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return model.Product{}, err
	}
	p := model.Product{ID: id, Title: rec.Title, Content: rec.Content, Created: rec.Created}
	if rec.UserID != "" {
		if p.UserID, err = primitive.ObjectIDFromHex(rec.UserID); err != nil {
			return model.Product{}, err
		}
	}
	return p, nil
}

func toUserRecord(u *model.User) userRecord {
	rec := userRecord{
		ID:           u.ID.Hex(),
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		PasswordHash: u.PasswordHash,
		Roles:        strings.Join(u.Roles, ","),
	}
	if u.Email != "" {
		email := u.Email
		rec.Email = &email
	}
	return rec
}

func (rec userRecord) toModel() (model.User, error) {
	id, err := primitive.ObjectIDFromHex(rec.ID)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		ID:           id,
		Username:     rec.Username,
		DisplayName:  rec.DisplayName,
		PasswordHash: rec.PasswordHash,
	}
	if rec.Email != nil {
		u.Email = *rec.Email
	}
	if rec.Roles != "" {
		u.Roles = strings.Split(rec.Roles, ",")
	}
	return u, nil
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Insert(ctx context.Context, product *model.Product) error {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormProductRepository.Insert")
	defer span.End()

	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	rec := toProductRecord(product)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormProductRepository.FindAll")
	defer span.End()

	var recs []productRecord
	if err := r.db.WithContext(ctx).Order("created DESC").Order("id DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(recs))
	for _, rec := range recs {
		p, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormProductRepository.FindByID")
	defer span.End()

	var rec productRecord
	err := r.db.WithContext(ctx).Where("id = ?", id.Hex()).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p, err := rec.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *model.Product) error {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormProductRepository.Update")
	defer span.End()

	res := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", product.ID.Hex()).
		Updates(map[string]any{"title": product.Title, "content": product.Content})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormProductRepository.Delete")
	defer span.End()

	res := r.db.WithContext(ctx).Where("id = ?", id.Hex()).Delete(&productRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Insert(ctx context.Context, user *model.User) error {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormUserRepository.Insert")
	defer span.End()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	rec := toUserRecord(user)
	err := r.db.WithContext(ctx).Create(&rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *GormUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormUserRepository.FindByID")
	defer span.End()

	return r.first(ctx, "id = ?", id.Hex())
}

func (r *GormUserRepository) FindByLogin(ctx context.Context, usernameOrEmail string) (*model.User, error) {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormUserRepository.FindByLogin")
	defer span.End()

	return r.first(ctx, "username = ? OR email = ?", usernameOrEmail, usernameOrEmail)
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormUserRepository.FindByIDs")
	defer span.End()

	if len(ids) == 0 {
		return nil, nil
	}
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.Hex()
	}
	var recs []userRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", hexes).Find(&recs).Error; err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(recs))
	for _, rec := range recs {
		u, err := rec.toModel()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (r *GormUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := GormRepositoryTracer.Start(ctx, "GormUserRepository.Delete")
	defer span.End()

	res := r.db.WithContext(ctx).Where("id = ?", id.Hex()).Delete(&userRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormUserRepository) first(ctx context.Context, query string, args ...any) (*model.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u, err := rec.toModel()
	if err != nil {
		return nil, err
	}
	return &u, nil
}
