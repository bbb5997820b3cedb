// Package identity verifies bearer tokens from the identity provider and
// carries the acting identity through request contexts.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/domain/shared"
)

var ErrInvalidToken = errors.New("invalid access token")

// Identity is the authenticated caller
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   shared.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == shared.RoleAdmin
}

type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens signed with the shared secret
type Verifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewVerifier(secret, issuer string) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(30 * time.Second),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}
}

// Verify parses the token and maps its claims to an Identity. A role the
// application does not know is treated as a client.
func (v *Verifier) Verify(tokenStr string) (*Identity, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	role := shared.RoleClient
	if shared.Role(claims.Role) == shared.RoleAdmin {
		role = shared.RoleAdmin
	}

	return &Identity{UserID: userID, Email: claims.Email, Role: role}, nil
}

// Issue signs a token for the identity. The identity provider owns issuance in
// production; this is used by local tooling and tests.
func (v *Verifier) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: id.Email,
		Role:  string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the acting identity or shared.ErrUnauthenticated
func FromContext(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	if !ok || id == nil {
		return nil, shared.ErrUnauthenticated
	}
	return id, nil
}

// RequireAdmin returns the acting identity if it is an admin
func RequireAdmin(ctx context.Context) (*Identity, error) {
	id, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	return id, nil
}
