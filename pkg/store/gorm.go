package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homedash/pkg/model"
)

// ErrInvalidCredentials is returned for any failed login, whatever the cause.
var ErrInvalidCredentials = errors.New("invalid credentials")

// GormStore implements Store on a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// likePattern escapes LIKE wildcards with '!' and lowercases the term.
func likePattern(search string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(search)) + "%"
}

func searchScope(f Filter, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.ActiveOnly {
			db = db.Where("active = ?", true)
		}
		search := strings.TrimSpace(f.Search)
		if search == "" {
			return db
		}
		pat := likePattern(search)
		conds := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			conds = append(conds, "LOWER("+c+") LIKE ? ESCAPE '!'")
			args = append(args, pat)
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

func newestFirst(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order("created_at DESC").Order("id DESC")
		if p.Limit > 0 {
			db = db.Limit(p.Limit)
		}
		if p.Offset > 0 {
			db = db.Offset(p.Offset)
		}
		return db
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}

// --- service links

func (s *GormStore) CreateServiceLink(ctx context.Context, l *model.ServiceLink) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create service link: %w", err)
	}
	return nil
}

func (s *GormStore) GetServiceLink(ctx context.Context, id uint) (model.ServiceLink, error) {
	var l model.ServiceLink
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return l, notFound(err)
	}
	return l, nil
}

func (s *GormStore) FindServiceLinks(ctx context.Context, f Filter, p Page) ([]model.ServiceLink, int64, error) {
	scope := searchScope(f, "title", "description")
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.ServiceLink{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count service links: %w", err)
	}
	links := make([]model.ServiceLink, 0)
	if count == 0 {
		return links, 0, nil
	}
	if err := s.db.WithContext(ctx).Scopes(scope, newestFirst(p)).Find(&links).Error; err != nil {
		return nil, 0, fmt.Errorf("find service links: %w", err)
	}
	return links, count, nil
}

func (s *GormStore) UpdateServiceLink(ctx context.Context, id uint, in model.ServiceLink) (model.ServiceLink, error) {
	if err := in.Validate(); err != nil {
		return in, err
	}
	var l model.ServiceLink
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&l, id).Error; err != nil {
			return notFound(err)
		}
		l.Title = in.Title
		l.Description = in.Description
		l.URL = in.URL
		l.Active = in.Active
		return tx.Save(&l).Error
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || model.IsValidation(err) {
			return l, err
		}
		return l, fmt.Errorf("update service link %d: %w", id, err)
	}
	return l, nil
}

// --- users

var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)
	return h
})

func (s *GormStore) userNameTaken(tx *gorm.DB, userName string, exceptID uint) error {
	var n int64
	if err := tx.Model(&model.User{}).Where("user_name = ? AND id <> ?", userName, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &model.ValidationError{Field: "userName", Message: "user name is already taken"}
	}
	return nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User, password string) error {
	u.UserName = strings.TrimSpace(u.UserName)
	if u.UserName == "" {
		return &model.ValidationError{Field: "userName", Message: "user name is required"}
	}
	if err := u.SetPassword(password); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userNameTaken(tx, u.UserName, 0); err != nil {
			return err
		}
		return tx.Create(u).Error
	})
	u.Password = ""
	if err != nil {
		if model.IsValidation(err) {
			return err
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Omit("password").First(&u, id).Error; err != nil {
		return u, notFound(err)
	}
	return u, nil
}

func (s *GormStore) FindUsers(ctx context.Context, f Filter, p Page) ([]model.User, int64, error) {
	scope := searchScope(f, "user_name", "first_name", "last_name")
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Scopes(scope).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	users := make([]model.User, 0)
	if count == 0 {
		return users, 0, nil
	}
	if err := s.db.WithContext(ctx).Omit("password").Scopes(scope, newestFirst(p)).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	return users, count, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, id uint, upd UserUpdate) (model.User, error) {
	var u model.User
	name := strings.TrimSpace(upd.UserName)
	if name == "" {
		return u, &model.ValidationError{Field: "userName", Message: "user name is required"}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&u, id).Error; err != nil {
			return notFound(err)
		}
		if err := s.userNameTaken(tx, name, u.ID); err != nil {
			return err
		}
		u.UserName = name
		u.FirstName = strings.TrimSpace(upd.FirstName)
		u.LastName = strings.TrimSpace(upd.LastName)
		u.Active = upd.Active
		if strings.TrimSpace(upd.Password) != "" {
			if err := u.SetPassword(upd.Password); err != nil {
				return err
			}
		}
		return tx.Save(&u).Error
	})
	u.Password = ""
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || model.IsValidation(err) {
			return u, err
		}
		return u, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *GormStore) Authenticate(ctx context.Context, userName, password string) (model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("user_name = ? AND active = ?", userName, true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// keep the response time of unknown names close to wrong passwords
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user %q: %w", userName, err)
	}
	if !u.CheckPassword(password) {
		return model.User{}, ErrInvalidCredentials
	}
	u.Password = ""
	return u, nil
}

func (s *GormStore) SetPassword(ctx context.Context, userName, password string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.User
		if err := tx.Where("user_name = ?", userName).First(&u).Error; err != nil {
			return notFound(err)
		}
		if err := u.SetPassword(password); err != nil {
			return err
		}
		return tx.Save(&u).Error
	})
}
