// Package services – user resolution
//
// Orders store only the owner's user id. How the owner's display data is
// looked up depends on the deployment stage: the monolith reads its own
// users table, while the split-out order service calls the user service
// over HTTP. UserResolver abstracts that choice so OrderService is
// indifferent to the topology.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/domain"
)

// UserRef is the minimal user projection attached to orders.
type UserRef struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResolver looks up user display data by id.
type UserResolver interface {
	// ResolveUser returns the user or ErrUserNotFound.
	ResolveUser(ctx context.Context, id int) (*UserRef, error)

	// ResolveUsers returns the users it could find, keyed by id. Missing
	// ids are simply absent; only a total failure returns an error.
	ResolveUsers(ctx context.Context, ids []int) (map[int]*UserRef, error)
}

type tokenKey struct{}

// WithUpstreamToken stores the caller's bearer token so remote resolution
// can authenticate against the user service with the caller's identity.
func WithUpstreamToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func upstreamToken(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

// UserReader is the repository contract required by LocalUserResolver.
type UserReader interface {
	GetUser(ctx context.Context, db *gorm.DB, id int) (*domain.User, error)
	ListUsersByIDs(ctx context.Context, db *gorm.DB, ids []int) ([]domain.User, error)
}

// LocalUserResolver reads users from the monolith database.
type LocalUserResolver struct {
	DB   *gorm.DB
	Repo UserReader
}

// ResolveUser implements UserResolver against the local users table.
func (r *LocalUserResolver) ResolveUser(ctx context.Context, id int) (*UserRef, error) {
	u, err := r.Repo.GetUser(ctx, r.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// ResolveUsers implements UserResolver with a single IN query.
func (r *LocalUserResolver) ResolveUsers(ctx context.Context, ids []int) (map[int]*UserRef, error) {
	users, err := r.Repo.ListUsersByIDs(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int]*UserRef, len(users))
	for i := range users {
		u := users[i]
		out[u.ID] = &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out, nil
}

// RemoteUserResolver queries the user service over HTTP.
type RemoteUserResolver struct {
	BaseURL string
	Client  *http.Client
}

type userEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		User  *UserRef  `json:"user"`
		Users []UserRef `json:"users"`
	} `json:"data"`
}

func (r *RemoteUserResolver) get(ctx context.Context, path string) (*userEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(r.BaseURL, "/")+path, nil)
	if err != nil {
		return nil, err
	}
	if tok := upstreamToken(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}
	var env userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode user service response: %w", err)
	}
	return &env, nil
}

// ResolveUser fetches one user from GET /api/users/{id}.
func (r *RemoteUserResolver) ResolveUser(ctx context.Context, id int) (*UserRef, error) {
	env, err := r.get(ctx, "/api/users/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}
	if env.Data.User == nil {
		return nil, ErrUserNotFound
	}
	return env.Data.User, nil
}

// ResolveUsers fetches a set of users from GET /api/users/batch. When the
// batch endpoint fails it degrades to one lookup per id, dropping ids that
// still cannot be resolved.
func (r *RemoteUserResolver) ResolveUsers(ctx context.Context, ids []int) (map[int]*UserRef, error) {
	out := make(map[int]*UserRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	env, err := r.get(ctx, "/api/users/batch?ids="+strings.Join(parts, ","))
	if err == nil {
		for i := range env.Data.Users {
			u := env.Data.Users[i]
			out[u.ID] = &u
		}
		return out, nil
	}

	// Batch endpoint unavailable. Fall back to per-id lookups so a partial
	// outage degrades the listing instead of breaking it.
	for _, id := range ids {
		u, err := r.ResolveUser(ctx, id)
		if err != nil {
			continue
		}
		out[id] = u
	}
	return out, nil
}
