package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"metria/internal/redis"
)

const redisTokenPrefix = "auth:token:"

// Service issues, validates, and revokes staff authentication tokens. A redis
// cache in front of the token table is optional and best effort: any cache
// failure falls through to the database.
type Service struct {
	db             *sql.DB
	cache          *redis.Client
	tokenTTL       time.Duration
	cookieName     string
	headerName     string
	csrfCookieName string
	csrfHeaderName string
}

// NewService constructs an auth service with the supplied token lifetime.
// cache may be nil.
func NewService(db *sql.DB, cache *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		db:             db,
		cache:          cache,
		tokenTTL:       ttl,
		cookieName:     "auth_token",
		headerName:     "Authorization",
		csrfCookieName: "csrf_token",
		csrfHeaderName: "X-CSRF-Token",
	}
}

// IssueToken mints a new random token for the staff account and persists it.
func (s *Service) IssueToken(ctx context.Context, staffID int64) (string, error) {
	if staffID <= 0 {
		return "", errors.New("invalid staff id")
	}
	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenTTL)
	for i := 0; i < 5; i++ {
		token, err := generateToken()
		if err != nil {
			return "", err
		}
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO staff_tokens (token, staff_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
			token, staffID, now, expiresAt,
		)
		if err == nil {
			s.cacheToken(ctx, token, staffID)
			return token, nil
		}
	}
	return "", errors.New("could not issue token")
}

// NewCSRFToken returns a random token used for CSRF protection.
func (s *Service) NewCSRFToken() (string, error) {
	return generateToken()
}

// ValidateToken verifies the token exists and has not expired, returning the
// staff id. Cached entries skip the database lookup.
func (s *Service) ValidateToken(ctx context.Context, authToken string) (int64, error) {
	if authToken == "" {
		return 0, errors.New("token required")
	}
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, redisTokenPrefix+authToken); err == nil {
			if staffID, perr := strconv.ParseInt(val, 10, 64); perr == nil && staffID > 0 {
				return staffID, nil
			}
		} else if !errors.Is(err, redis.ErrCacheMiss) {
			log.Printf("auth token cache read failed: %v", err)
		}
	}

	var staffID int64
	var expires time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT staff_id, expires_at FROM staff_tokens WHERE token = ?`, authToken,
	).Scan(&staffID, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errors.New("invalid token")
		}
		return 0, fmt.Errorf("lookup token: %w", err)
	}
	if time.Now().UTC().After(expires) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM staff_tokens WHERE token = ?`, authToken)
		s.dropCachedToken(ctx, authToken)
		return 0, errors.New("token expired")
	}
	s.cacheToken(ctx, authToken, staffID)
	return staffID, nil
}

// RevokeToken deletes a single token.
func (s *Service) RevokeToken(ctx context.Context, authToken string) error {
	if authToken == "" {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM staff_tokens WHERE token = ?`, authToken); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.dropCachedToken(ctx, authToken)
	return nil
}

// RevokeStaffTokens removes all tokens belonging to the staff account.
func (s *Service) RevokeStaffTokens(ctx context.Context, staffID int64) error {
	if staffID <= 0 {
		return nil
	}
	if s.cache != nil {
		rows, err := s.db.QueryContext(ctx, `SELECT token FROM staff_tokens WHERE staff_id = ?`, staffID)
		if err == nil {
			var keys []string
			for rows.Next() {
				var token string
				if rows.Scan(&token) == nil {
					keys = append(keys, redisTokenPrefix+token)
				}
			}
			rows.Close()
			if err := s.cache.Del(ctx, keys...); err != nil {
				log.Printf("auth token cache purge failed: %v", err)
			}
		}
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM staff_tokens WHERE staff_id = ?`, staffID); err != nil {
		return fmt.Errorf("revoke staff tokens: %w", err)
	}
	return nil
}

func (s *Service) cacheToken(ctx context.Context, token string, staffID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, redisTokenPrefix+token, strconv.FormatInt(staffID, 10), s.tokenTTL); err != nil {
		log.Printf("auth token cache write failed: %v", err)
	}
}

func (s *Service) dropCachedToken(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, redisTokenPrefix+token); err != nil {
		log.Printf("auth token cache delete failed: %v", err)
	}
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// AuthCookieName returns the cookie name storing auth tokens.
func (s *Service) AuthCookieName() string {
	return s.cookieName
}

// CSRFCookieName returns the cookie used for CSRF tokens.
func (s *Service) CSRFCookieName() string {
	return s.csrfCookieName
}

// CSRFHeaderName returns the CSRF header name.
func (s *Service) CSRFHeaderName() string {
	return s.csrfHeaderName
}

// TokenTTL reports the configured token lifetime.
func (s *Service) TokenTTL() time.Duration {
	return s.tokenTTL
}
