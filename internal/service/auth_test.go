package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"auctionbay/internal/config"
	"auctionbay/internal/model"
)

func newAuthService(repo *mockRefreshTokenRepository) *AuthService {
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 3600,
	}
	return NewAuthService(repo, cfg, zerolog.Nop())
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	mockRepo := &mockRefreshTokenRepository{}
	svc := newAuthService(mockRepo)

	raw := "old-refresh-token"
	stored := &model.RefreshToken{
		ID:        "tok-1",
		UserID:    42,
		TokenHash: svc.hashToken(raw),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	tokens := map[string]*model.RefreshToken{stored.TokenHash: stored}

	mockRepo.createFn = func(ctx context.Context, token *model.RefreshToken) error {
		token.ID = "tok-2"
		token.CreatedAt = time.Now()
		tokens[token.TokenHash] = token
		return nil
	}
	mockRepo.findByTokenHashFn = func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
		if token, ok := tokens[tokenHash]; ok {
			return token, nil
		}
		return nil, model.ErrRefreshTokenNotFound
	}

	pair, userID, err := svc.RefreshTokens(context.Background(), raw)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
	if pair.AccessToken == "" {
		t.Error("expected a new access token")
	}
	if pair.RefreshToken == "" || pair.RefreshToken == raw {
		t.Errorf("refresh token %q should be newly issued", pair.RefreshToken)
	}

	// The old token must be revoked and linked to its replacement
	if len(mockRepo.revokeCalls) != 1 {
		t.Fatalf("revoke called %d times, want 1", len(mockRepo.revokeCalls))
	}
	revoked := mockRepo.revokeCalls[0]
	if revoked.id != "tok-1" {
		t.Errorf("revoked token id = %q, want tok-1", revoked.id)
	}
	if revoked.replacedBy == nil || *revoked.replacedBy != "tok-2" {
		t.Errorf("replaced_by = %v, want tok-2", revoked.replacedBy)
	}
}

func TestAuthService_RefreshTokens_ReuseRevokesFamily(t *testing.T) {
	mockRepo := &mockRefreshTokenRepository{}
	svc := newAuthService(mockRepo)

	raw := "already-rotated-token"
	revokedAt := time.Now().Add(-time.Minute)
	mockRepo.findByTokenHashFn = func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
		return &model.RefreshToken{
			ID:        "tok-1",
			UserID:    42,
			TokenHash: tokenHash,
			ExpiresAt: time.Now().Add(time.Hour),
			RevokedAt: &revokedAt,
		}, nil
	}

	_, _, err := svc.RefreshTokens(context.Background(), raw)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Fatalf("err = %v, want ErrRefreshTokenReused", err)
	}

	// Presenting a revoked token takes down every token of that user
	if len(mockRepo.revokeAllCalls) != 1 || mockRepo.revokeAllCalls[0] != 42 {
		t.Errorf("revokeAll calls = %v, want exactly [42]", mockRepo.revokeAllCalls)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Errorf("create called %d times, want 0", len(mockRepo.createCalls))
	}
}

func TestAuthService_RefreshTokens_Expired(t *testing.T) {
	mockRepo := &mockRefreshTokenRepository{}
	svc := newAuthService(mockRepo)

	mockRepo.findByTokenHashFn = func(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
		return &model.RefreshToken{
			ID:        "tok-1",
			UserID:    42,
			TokenHash: tokenHash,
			ExpiresAt: time.Now().Add(-time.Minute),
		}, nil
	}

	_, _, err := svc.RefreshTokens(context.Background(), "stale-token")
	if !errors.Is(err, model.ErrRefreshTokenExpired) {
		t.Fatalf("err = %v, want ErrRefreshTokenExpired", err)
	}
	if len(mockRepo.revokeAllCalls) != 0 {
		t.Errorf("revokeAll called %d times, want 0", len(mockRepo.revokeAllCalls))
	}
	if len(mockRepo.createCalls) != 0 {
		t.Errorf("create called %d times, want 0", len(mockRepo.createCalls))
	}
}

func TestAuthService_RefreshTokens_Unknown(t *testing.T) {
	svc := newAuthService(&mockRefreshTokenRepository{})

	_, _, err := svc.RefreshTokens(context.Background(), "never-issued")
	if !errors.Is(err, model.ErrRefreshTokenNotFound) {
		t.Fatalf("err = %v, want ErrRefreshTokenNotFound", err)
	}
}

func TestAuthService_GenerateTokenPair(t *testing.T) {
	mockRepo := &mockRefreshTokenRepository{}
	svc := newAuthService(mockRepo)

	pair, err := svc.GenerateTokenPair(context.Background(), 7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", pair.ExpiresIn)
	}

	if len(mockRepo.createCalls) != 1 {
		t.Fatalf("create called %d times, want 1", len(mockRepo.createCalls))
	}
	stored := mockRepo.createCalls[0]
	if stored.UserID != 7 {
		t.Errorf("stored user id = %d, want 7", stored.UserID)
	}
	// Only the hash is persisted, never the raw token
	if stored.TokenHash == pair.RefreshToken {
		t.Error("refresh token stored unhashed")
	}
	if stored.TokenHash != svc.hashToken(pair.RefreshToken) {
		t.Error("stored hash does not match the issued token")
	}
}

func TestAuthService_PurgeExpiredTokens(t *testing.T) {
	mockRepo := &mockRefreshTokenRepository{
		deleteExpiredFn: func(ctx context.Context, olderThan time.Duration) (int64, error) {
			return 3, nil
		},
	}
	svc := newAuthService(mockRepo)

	deleted, err := svc.PurgeExpiredTokens(context.Background(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if len(mockRepo.deleteExpiredCalls) != 1 || mockRepo.deleteExpiredCalls[0] != 7*24*time.Hour {
		t.Errorf("deleteExpired calls = %v, want exactly [168h]", mockRepo.deleteExpiredCalls)
	}
}
