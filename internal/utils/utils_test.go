package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJWTRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()

	token, err := GenerateJWT(id, "secret")
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), claims.ID)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	_, err = GenerateJWT(id, "")
	assert.Error(t, err)
}

func TestParseJWTRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{ID: primitive.NewObjectID().Hex()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	claims := &Claims{
		ID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}

func TestParseOptionalObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	hex := id.Hex()
	blank := "  "
	bad := "xyz"

	got, err := ParseOptionalObjectID(nil)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalObjectID(&blank)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptionalObjectID(&hex)
	require.NoError(t, err)
	assert.Equal(t, id, *got)

	_, err = ParseOptionalObjectID(&bad)
	assert.Error(t, err)
}

func TestUserIDContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	id := primitive.NewObjectID()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), id.Hex()))

	rr := httptest.NewRecorder()
	got, err := GetUserIDFromContext(rr, req)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	rr = httptest.NewRecorder()
	_, err = GetUserIDFromContext(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetObjectIDFromVars(t *testing.T) {
	id := primitive.NewObjectID()

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.Hex()})
	got, err := GetObjectIDFromVars(httptest.NewRecorder(), req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	rr := httptest.NewRecorder()
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "nope"})
	_, err = GetObjectIDFromVars(rr, req, "id")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDecodeAndValidate(t *testing.T) {
	type body struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	tests := []struct {
		name     string
		payload  string
		wantErr  bool
		contains string
	}{
		{name: "valid", payload: `{"email":"a@b.co","password":"12345678"}`},
		{name: "malformed", payload: `{"email":`, wantErr: true, contains: "Invalid JSON"},
		{name: "bad email", payload: `{"email":"nope","password":"12345678"}`, wantErr: true, contains: "email is email"},
		{name: "short password", payload: `{"email":"a@b.co","password":"1"}`, wantErr: true, contains: "password is min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.payload))

			var b body
			err := DecodeAndValidate(rr, req, &b)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.contains)
		})
	}
}
