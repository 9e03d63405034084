package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// HTTPProvider validates users against the food-ordering service. When a
// fallback provider is configured, upstream failures degrade to it with a
// warning instead of failing the request.
type HTTPProvider struct {
	baseURL  string
	client   *http.Client
	fallback Provider
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewHTTPProvider(baseURL string, fallback Provider, logger ...*zap.Logger) *HTTPProvider {
	l := zap.L().Named("identity.http")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.http")
	}
	return &HTTPProvider{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: 5 * time.Second},
		fallback: fallback,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (p *HTTPProvider) Validate(ctx context.Context, userID int64) (User, error) {
	// Concurrent validations of the same subject share one upstream call.
	v, err, _ := p.sf.Do(fmt.Sprintf("validate:%d", userID), func() (any, error) {
		return p.fetchUser(ctx, userID)
	})
	if err != nil {
		return p.degradeValidate(ctx, userID, err)
	}
	return v.(User), nil
}

func (p *HTTPProvider) ListUsers(ctx context.Context) ([]User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/auth/users", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return p.degradeList(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return p.degradeList(ctx, fmt.Errorf("identity service returned status %d", resp.StatusCode))
	}

	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

func (p *HTTPProvider) fetchUser(ctx context.Context, userID int64) (User, error) {
	url := fmt.Sprintf("%s/api/auth/users/%d", p.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return User{}, ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (p *HTTPProvider) degradeValidate(ctx context.Context, userID int64, cause error) (User, error) {
	if cause == ErrUserNotFound {
		return User{}, cause
	}
	if p.fallback == nil {
		return User{}, ErrUpstreamUnavailable
	}
	p.logger.Warn("identity service unreachable, serving fallback user",
		zap.Int64("user_id", userID),
		zap.Error(cause),
	)
	return p.fallback.Validate(ctx, userID)
}

func (p *HTTPProvider) degradeList(ctx context.Context, cause error) ([]User, error) {
	if p.fallback == nil {
		return nil, ErrUpstreamUnavailable
	}
	p.logger.Warn("identity service unreachable, serving fallback user list", zap.Error(cause))
	return p.fallback.ListUsers(ctx)
}
