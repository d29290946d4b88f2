package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrviet/daotao/internal/exam"
	"github.com/hrviet/daotao/internal/rbac"
)

type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

// Claims carry the actor's identity plus the org placement the visibility
// predicate needs, so no directory lookup is required per request.
type Claims struct {
	Sub          string `json:"sub"`
	Role         string `json:"role"` // admin|manager|employee
	RoleID       string `json:"role_id"`
	Rank         int    `json:"rank"`
	DepartmentID string `json:"department_id,omitempty"`
	UnitID       string `json:"unit_id,omitempty"`
	TeamID       string `json:"team_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() exam.Actor {
	return exam.Actor{
		EmployeeID:   c.Sub,
		Role:         c.Role,
		RoleID:       c.RoleID,
		Rank:         c.Rank,
		DepartmentID: c.DepartmentID,
		UnitID:       c.UnitID,
		TeamID:       c.TeamID,
	}
}

func (a *AuthService) IssueJWT(actor exam.Actor) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:          actor.EmployeeID,
		Role:         actor.Role,
		RoleID:       actor.RoleID,
		Rank:         actor.Rank,
		DepartmentID: actor.DepartmentID,
		UnitID:       actor.UnitID,
		TeamID:       actor.TeamID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "daotao",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.hmac)
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// UserSource verifies login credentials and yields the actor.
type UserSource interface {
	Verify(ctx context.Context, username, password string) (exam.Actor, error)
}

// StaticUser is one entry of the offline credential table.
type StaticUser struct {
	PassHash string // bcrypt
	Actor    exam.Actor
}

// StaticUsers is a map-backed UserSource keyed by username.
type StaticUsers map[string]StaticUser

var errBadCredentials = errors.New("invalid credentials")

func (u StaticUsers) Verify(_ context.Context, username, password string) (exam.Actor, error) {
	entry, ok := u[username]
	if !ok {
		return exam.Actor{}, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(entry.PassHash), []byte(password)); err != nil {
		return exam.Actor{}, errBadCredentials
	}
	return entry.Actor, nil
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *AuthService, users UserSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		actor, err := users.Verify(r.Context(), req.Username, req.Password)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, err := a.IssueJWT(actor)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

// JWTMiddleware authenticates the bearer token and places the actor in the
// request context for rbac and the handlers.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			claims, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := rbac.WithActor(r.Context(), claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
