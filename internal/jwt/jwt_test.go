package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// setupTestKeys writes a throwaway RSA key pair to disk and loads it through
// the same path the server uses
func setupTestKeys(t *testing.T) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()

	privatePath := filepath.Join(dir, "private.key")
	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(privatePath, privatePEM, 0600); err != nil {
		t.Fatal(err)
	}

	publicBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	publicPath := filepath.Join(dir, "public.pem")
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicBytes,
	})
	if err := os.WriteFile(publicPath, publicPEM, 0600); err != nil {
		t.Fatal(err)
	}

	privateKey = loadPrivateKey(privatePath)
	publicKey = loadPublicKey(publicPath)
}

func TestSignAndValidateSession(t *testing.T) {
	setupTestKeys(t)

	tableID := uuid.New().String()
	playerID := uuid.New().String()

	signed, err := Sign(tableID, playerID)
	assert.NoError(t, err)

	gotTable, gotPlayer, err := ValidSession(signed)
	assert.NoError(t, err)
	assert.Equal(t, tableID, gotTable)
	assert.Equal(t, playerID, gotPlayer)
}

func signWithClaims(t *testing.T, claims sessionClaims) string {
	t.Helper()

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims)
	signed, err := token.SignedString(privateKey)
	if err != nil {
		t.Fatal(err)
	}

	return signed
}

func TestValidSession_InvalidAudience(t *testing.T) {
	setupTestKeys(t)

	signed := signWithClaims(t, sessionClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{"different-audience"},
			IssuedAt: jwtgo.NewNumericDate(time.Now()),
			Issuer:   Issuer,
			Subject:  "player-1",
		},
		TableID: "table-1",
	})

	_, _, err := ValidSession(signed)
	assert.EqualError(t, err, "invalid audience")
}

func TestValidSession_InvalidIssuer(t *testing.T) {
	setupTestKeys(t)

	signed := signWithClaims(t, sessionClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			IssuedAt: jwtgo.NewNumericDate(time.Now()),
			Issuer:   "invalid-issuer",
			Subject:  "player-1",
		},
		TableID: "table-1",
	})

	_, _, err := ValidSession(signed)
	assert.EqualError(t, err, "invalid issuer")
}

func TestValidSession_MissingTable(t *testing.T) {
	setupTestKeys(t)

	signed := signWithClaims(t, sessionClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			IssuedAt: jwtgo.NewNumericDate(time.Now()),
			Issuer:   Issuer,
			Subject:  "player-1",
		},
	})

	_, _, err := ValidSession(signed)
	assert.EqualError(t, err, "incomplete session claims")
}

func TestValidSession_Expired(t *testing.T) {
	setupTestKeys(t)

	signed := signWithClaims(t, sessionClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience:  jwtgo.ClaimStrings{Audience},
			IssuedAt:  jwtgo.NewNumericDate(time.Now().Add(time.Hour * -2)),
			ExpiresAt: jwtgo.NewNumericDate(time.Now().Add(time.Hour * -1)),
			Issuer:    Issuer,
			Subject:   "player-1",
		},
		TableID: "table-1",
	})

	_, _, err := ValidSession(signed)
	if assert.Error(t, err) {
		assert.Regexp(t, "token is expired", err.Error())
	}
}

func TestValidSession_WrongSigningMethod(t *testing.T) {
	setupTestKeys(t)

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			Issuer:   Issuer,
			Subject:  "player-1",
		},
		TableID: "table-1",
	})

	signed, err := token.SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = ValidSession(signed)
	assert.Error(t, err)
}
