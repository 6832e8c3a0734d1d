package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the session-token claims we rely on.
// The identity provider sets `sub` to the user id of the principal.
type Claims struct {
	jwt.RegisteredClaims
	// SessionID identifies the provider session the token was minted for
	SessionID string `json:"sid,omitempty"`
}

// KeyFetcher fetches the public key a session token was signed with.
// Returns interface{} to support both RSA and ECDSA keys.
type KeyFetcher interface {
	FetchPublicKey(ctx context.Context, token string) (interface{}, error)
}

// tokenHeader is the decoded JOSE header of a session token
type tokenHeader struct {
	Alg string `json:"alg"`
	Kid string `json:"kid"`
}

// parseTokenHeader decodes the JOSE header without verifying the token
func parseTokenHeader(tokenString string) (*tokenHeader, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT format: expected 3 parts, got %d", len(parts))
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode JWT header: %w", err)
	}

	var header tokenHeader
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, fmt.Errorf("failed to parse JWT header: %w", err)
	}

	return &header, nil
}

// ExtractKeyID extracts the key ID from a session token's header.
// Provider-issued tokens always carry a kid; its absence means the token
// did not come from the provider.
func ExtractKeyID(tokenString string) (string, error) {
	header, err := parseTokenHeader(tokenString)
	if err != nil {
		return "", err
	}

	if header.Kid == "" {
		return "", fmt.Errorf("missing kid in token header")
	}

	return header.Kid, nil
}

// VerifyToken verifies a session token's signature and claims.
// The identity provider signs with RS256 or ES256 and publishes keys via
// JWKS; symmetric algorithms are rejected outright so a forged token cannot
// downgrade verification to a shared-secret check.
func VerifyToken(ctx context.Context, tokenString string, keyFetcher KeyFetcher) (*Claims, error) {
	publicKey, err := keyFetcher.FetchPublicKey(ctx, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			// Expected methods for provider session tokens
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token verification failed: signature invalid")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, fmt.Errorf("token verification failed: invalid claims type")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("missing 'sub' claim (user id)")
	}

	return claims, nil
}

// JWK represents a JSON Web Key from the provider's JWKS endpoint.
// Supports both RSA and EC (ECDSA) keys.
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	// RSA fields
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`
	// EC fields
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// ToPublicKey converts a JWK to a public key (RSA or ECDSA)
func (j *JWK) ToPublicKey() (interface{}, error) {
	switch j.Kty {
	case "RSA":
		return j.toRSAPublicKey()
	case "EC":
		return j.toECPublicKey()
	default:
		return nil, fmt.Errorf("unsupported key type: %s", j.Kty)
	}
}

func (j *JWK) toRSAPublicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(j.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RSA modulus: %w", err)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(j.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode RSA exponent: %w", err)
	}

	var eInt int
	for _, b := range eBytes {
		eInt = eInt*256 + int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: eInt,
	}, nil
}

func (j *JWK) toECPublicKey() (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch j.Crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported EC curve: %s", j.Crv)
	}

	xBytes, err := base64.RawURLEncoding.DecodeString(j.X)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EC x coordinate: %w", err)
	}

	yBytes, err := base64.RawURLEncoding.DecodeString(j.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to decode EC y coordinate: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// FindKeyByID finds a key in the JWKS by its key ID
func (j *JWKS) FindKeyByID(kid string) (*JWK, error) {
	for _, key := range j.Keys {
		if key.Kid == kid {
			return &key, nil
		}
	}
	return nil, fmt.Errorf("key with kid %s not found", kid)
}
