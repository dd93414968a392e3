package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saathi/saathi-backend/internal/apperr"
	"github.com/saathi/saathi-backend/internal/auth"
	"github.com/saathi/saathi-backend/internal/models"
)

func newTestChildService(store *memStore) *ChildService {
	jwt := auth.NewJWTService("test-secret", "saathi-backend", time.Hour)
	return NewChildService(store, store, jwt, testLogger())
}

func TestChildLogin(t *testing.T) {
	store := newMemStore()
	svc := newTestChildService(store)

	id, err := svc.Create(context.Background(), &models.Child{
		Name:     "Asha",
		Username: "asha9",
	}, "secret123")
	require.NoError(t, err)

	token, childID, err := svc.Login(context.Background(), "asha9", "secret123")
	require.NoError(t, err)
	assert.Equal(t, id, childID)
	assert.NotEmpty(t, token)

	jwt := auth.NewJWTService("test-secret", "saathi-backend", time.Hour)
	claims, err := jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.ChildID)
	assert.Equal(t, "asha9", claims.Username)
}

func TestChildLogin_WrongPassword(t *testing.T) {
	store := newMemStore()
	svc := newTestChildService(store)

	_, err := svc.Create(context.Background(), &models.Child{
		Name:     "Asha",
		Username: "asha9",
	}, "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "asha9", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChildLogin_UnknownUsername(t *testing.T) {
	svc := newTestChildService(newMemStore())

	_, _, err := svc.Login(context.Background(), "nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateChild_RejectsShortPassword(t *testing.T) {
	svc := newTestChildService(newMemStore())

	_, err := svc.Create(context.Background(), &models.Child{Name: "Asha"}, "abc")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestUpdateCredentials(t *testing.T) {
	store := newMemStore()
	svc := newTestChildService(store)

	id, err := svc.Create(context.Background(), &models.Child{
		Name:     "Asha",
		Username: "asha9",
	}, "secret123")
	require.NoError(t, err)

	err = svc.UpdateCredentials(context.Background(), id, "asha10", "newsecret")
	require.NoError(t, err)

	_, childID, err := svc.Login(context.Background(), "asha10", "newsecret")
	require.NoError(t, err)
	assert.Equal(t, id, childID)
}

func TestUpdateCredentials_UsernameTaken(t *testing.T) {
	store := newMemStore()
	svc := newTestChildService(store)

	_, err := svc.Create(context.Background(), &models.Child{
		Name:     "Asha",
		Username: "asha9",
	}, "secret123")
	require.NoError(t, err)

	other, err := svc.Create(context.Background(), &models.Child{
		Name:     "Ravi",
		Username: "ravi7",
	}, "secret123")
	require.NoError(t, err)

	err = svc.UpdateCredentials(context.Background(), other, "asha9", "newsecret")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateCredentials_SameChildKeepsUsername(t *testing.T) {
	store := newMemStore()
	svc := newTestChildService(store)

	id, err := svc.Create(context.Background(), &models.Child{
		Name:     "Asha",
		Username: "asha9",
	}, "secret123")
	require.NoError(t, err)

	// Re-using your own username is just a password change.
	err = svc.UpdateCredentials(context.Background(), id, "asha9", "newsecret")
	require.NoError(t, err)
}

func TestSummaryWithConversations_NoSummary(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)
	svc := newTestChildService(store)

	_, _, err := svc.SummaryWithConversations(context.Background(), childID)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestSummaryWithConversations(t *testing.T) {
	store := newMemStore()
	childID := seedChild(t, store)

	agg := newTestAggregator(store, &scriptGenerator{})
	_, err := agg.AddConversation(context.Background(), childID, nil, []string{"happy"}, 45)
	require.NoError(t, err)

	svc := newTestChildService(store)
	summary, list, err := svc.SummaryWithConversations(context.Background(), childID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Conversations)
	assert.Equal(t, 45.0, summary.TotalDuration)
	assert.Len(t, list, 1)
}
