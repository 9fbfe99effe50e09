package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hotelreserve/hrs-backend/config"
	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	repo "github.com/hotelreserve/hrs-backend/internal/domain/repository"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
	"github.com/hotelreserve/hrs-backend/pkg/mailer"
	tpl "github.com/hotelreserve/hrs-backend/pkg/mailer/templates"
)

var ErrEmailTaken = errors.New("customer already exists")

const customerListKey = "customers:list"

// CustomerService handles customer account creation and listing. New
// customers start on the configured default password and are expected to
// change it after first login.
type CustomerService struct {
	Users   repo.UserRepository
	Redis   *redis.Client
	Pub     *helpers.RabbitPublisher
	Logger  *logrus.Logger
	Cfg     *config.Config
	ES      *elasticsearch.Client
	ESIndex string
}

func NewCustomerService(users repo.UserRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config, es *elasticsearch.Client, esIndex string) *CustomerService {
	return &CustomerService{Users: users, Redis: rdb, Pub: pub, Logger: logger, Cfg: cfg, ES: es, ESIndex: esIndex}
}

// CreateCustomerInput carries the admin-supplied fields for a new customer.
type CreateCustomerInput struct {
	Name      string
	Email     string
	SendEmail bool
}

// CreateCustomer creates a customer account with the default password and,
// when requested, mails the credentials. The email is fail-open: a publish
// failure is logged, the account still exists.
func (s *CustomerService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (*entity.User, error) {
	_, err := s.Users.GetByEmail(in.Email)
	if err == nil {
		s.Logger.WithField("email", in.Email).Warn("create customer: email already registered")
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithError(err).WithField("email", in.Email).Error("create customer: email lookup failed")
		return nil, err
	}

	hash, err := helpers.HashPassword(s.Cfg.DefaultPassword)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Name:              in.Name,
		Email:             strings.ToLower(in.Email),
		Password:          hash,
		Role:              entity.RoleCustomer,
		Status:            true,
		IsDefaultPassword: true,
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisDel(ctx, s.Redis, customerListKey); err != nil {
			s.Logger.WithError(err).Warn("create customer: list cache invalidation failed")
		}
	}

	_ = s.indexCustomer(ctx, u)

	if in.SendEmail {
		s.enqueueAccountEmail(ctx, u)
	}

	s.Logger.WithField("email", u.Email).Info("customer created")
	return u.Sanitized(), nil
}

// ListCustomers returns all customer accounts without hashes. The projection
// is cached in Redis for a short window and invalidated on create.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*entity.User, error) {
	if s.Redis != nil {
		var cached []*entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, customerListKey, &cached); err == nil && ok {
			return cached, nil
		}
	}

	users, err := s.Users.ListByRole(entity.RoleCustomer)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, customerListKey, out, 5*time.Minute); err != nil {
			s.Logger.WithError(err).Warn("list customers: cache write failed")
		}
	}
	return out, nil
}

// SearchCustomers performs a multi_match search on name and email.
func (s *CustomerService) SearchCustomers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *CustomerService) indexCustomer(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"status":     u.Status,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *CustomerService) enqueueAccountEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.Cfg.MailSendEnabled {
		return
	}
	data := tpl.EmailData{
		Name:              u.Name,
		Email:             u.Email,
		CompanyName:       s.Cfg.CompanyName,
		AppName:           s.Cfg.AppName,
		LogoURL:           s.Cfg.LogoURL,
		SupportURL:        s.Cfg.SupportURL,
		LoginURL:          s.Cfg.FrontendURL,
		TemporaryPassword: s.Cfg.DefaultPassword,
	}
	job := mailer.EmailJob{To: u.Email, Template: tpl.AccountCreated, Data: tpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Error("account email enqueue failed")
	}
}
