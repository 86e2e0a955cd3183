package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetmax/meetmax-api/internal/auth"
	"github.com/meetmax/meetmax-api/internal/shared"
)

// ============================================================================
// MOCK STORE
// ============================================================================

type mockStore struct {
	byID map[uuid.UUID]*auth.User

	listError error
	saveError error
}

func newMockStore() *mockStore {
	return &mockStore{byID: make(map[uuid.UUID]*auth.User)}
}

func (m *mockStore) ListUsers(ctx context.Context) ([]auth.User, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := []auth.User{}
	for _, u := range m.byID {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockStore) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockStore) Save(ctx context.Context, user *auth.User) error {
	if m.saveError != nil {
		return m.saveError
	}
	if _, ok := m.byID[user.ID]; !ok {
		return shared.ErrNotFound
	}
	clone := *user
	m.byID[user.ID] = &clone
	return nil
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockStore) put(user *auth.User) {
	clone := *user
	m.byID[clone.ID] = &clone
}

// ============================================================================
// HELPERS
// ============================================================================

func newTestService(t *testing.T) (*Service, *mockStore) {
	t.Helper()
	store := newMockStore()
	return NewService(store, bcrypt.MinCost), store
}

func seedUser(t *testing.T, store *mockStore, email string, verified bool) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &auth.User{
		ID:           uuid.New(),
		Email:        email,
		Firstname:    "Ada",
		Lastname:     "Lovelace",
		PasswordHash: string(hash),
		DateOfBirth:  time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
		Gender:       auth.GenderFemale,
		IsVerified:   verified,
	}
	store.put(user)
	return user
}

func updateRequestFor(user *auth.User) UpdateUserRequest {
	return UpdateUserRequest{
		ID:          user.ID.String(),
		Email:       user.Email,
		Firstname:   user.Firstname,
		Lastname:    user.Lastname,
		DateOfBirth: user.DateOfBirth.Format(dateLayout),
		Gender:      string(user.Gender),
	}
}

func validationMessage(t *testing.T, err error) string {
	t.Helper()
	var ve *shared.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Msg
}

// ============================================================================
// LIST
// ============================================================================

func TestListUsers(t *testing.T) {
	svc, store := newTestService(t)
	seedUser(t, store, "ada@example.com", true)
	seedUser(t, store, "alan@example.com", false)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestListUsersEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListUsers(context.Background())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateUser(t *testing.T) {
	svc, store := newTestService(t)
	user := seedUser(t, store, "ada@example.com", true)

	req := updateRequestFor(user)
	req.Firstname = "Augusta"
	req.Email = "augusta@example.com"

	result, err := svc.Update(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", result.Previous.Email)
	assert.Equal(t, "augusta@example.com", result.Updated.Email)
	assert.Equal(t, "Augusta", result.Updated.Firstname)

	stored, err := store.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "augusta@example.com", stored.Email)
	// Password untouched when none supplied.
	assert.Equal(t, user.PasswordHash, stored.PasswordHash)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	svc, store := newTestService(t)
	user := seedUser(t, store, "ada@example.com", true)

	req := updateRequestFor(user)
	req.Password = "new-password1"

	_, err := svc.Update(context.Background(), req)
	require.NoError(t, err)

	stored, err := store.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password1")))
}

func TestUpdateUserEmailCollision(t *testing.T) {
	svc, store := newTestService(t)
	user := seedUser(t, store, "ada@example.com", true)
	seedUser(t, store, "alan@example.com", true)

	req := updateRequestFor(user)
	req.Email = "alan@example.com"

	_, err := svc.Update(context.Background(), req)
	assert.ErrorIs(t, err, shared.ErrEmailTaken)
}

func TestUpdateUserKeepingOwnEmail(t *testing.T) {
	svc, store := newTestService(t)
	user := seedUser(t, store, "ada@example.com", true)

	// Re-submitting the current email is not a collision.
	_, err := svc.Update(context.Background(), updateRequestFor(user))
	require.NoError(t, err)
}

func TestUpdateUserGuards(t *testing.T) {
	svc, store := newTestService(t)
	pending := seedUser(t, store, "pending@example.com", false)

	missing := updateRequestFor(pending)
	missing.Firstname = ""
	_, err := svc.Update(context.Background(), missing)
	assert.Equal(t, "All fields are required", validationMessage(t, err))

	shortPassword := updateRequestFor(pending)
	shortPassword.Password = "short"
	_, err = svc.Update(context.Background(), shortPassword)
	assert.Equal(t, "Password must be at least 8 characters", validationMessage(t, err))

	badID := updateRequestFor(pending)
	badID.ID = "not-a-uuid"
	_, err = svc.Update(context.Background(), badID)
	assert.Equal(t, "Invalid user ID", validationMessage(t, err))

	unknown := updateRequestFor(pending)
	unknown.ID = uuid.NewString()
	_, err = svc.Update(context.Background(), unknown)
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)

	_, err = svc.Update(context.Background(), updateRequestFor(pending))
	assert.ErrorIs(t, err, shared.ErrAccountNotVerified)
}

// ============================================================================
// DELETE
// ============================================================================

func TestDeleteUser(t *testing.T) {
	svc, store := newTestService(t)
	user := seedUser(t, store, "ada@example.com", true)

	deleted, err := svc.Delete(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", deleted.Email)

	_, err = store.FindByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteUserGuards(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Delete(context.Background(), "")
	assert.Equal(t, "User ID required", validationMessage(t, err))

	_, err = svc.Delete(context.Background(), "not-a-uuid")
	assert.Equal(t, "Invalid user ID", validationMessage(t, err))

	_, err = svc.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, shared.ErrAccountNotFound)
}
