package util

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		role        string
		permissions []string
	}{
		{
			name:        "Admin with permissions",
			email:       "admin@example.com",
			role:        "admin",
			permissions: []string{"products.read", "products.update"},
		},
		{
			name:        "Role without permissions",
			email:       "customer@example.com",
			role:        "customer",
			permissions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(
				uuid.New(),
				tt.email,
				tt.role,
				tt.permissions,
				testSecret,
				15*time.Minute,
				7*24*time.Hour,
			)

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := uuid.New()
	tokens, err := GenerateTokenPair(
		userID,
		"admin@example.com",
		"admin",
		[]string{"users.read"},
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{
			name:    "Valid token",
			token:   tokens.AccessToken,
			secret:  testSecret,
			wantErr: nil,
		},
		{
			name:    "Wrong secret",
			token:   tokens.AccessToken,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Malformed token",
			token:   "not-a-token",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
				assert.Equal(t, "admin@example.com", claims.Email)
				assert.Equal(t, "admin", claims.Role)
				assert.Equal(t, []string{"users.read"}, claims.Permissions)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	tokens, err := GenerateTokenPair(
		uuid.New(),
		"admin@example.com",
		"admin",
		nil,
		testSecret,
		-1*time.Minute, // already expired
		7*24*time.Hour,
	)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestRefreshTokenOmitsPermissions(t *testing.T) {
	tokens, err := GenerateTokenPair(
		uuid.New(),
		"admin@example.com",
		"admin",
		[]string{"users.read", "users.update"},
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Empty(t, claims.Permissions)
	assert.Equal(t, "admin", claims.Role)
}
