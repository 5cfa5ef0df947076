package repositories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateSubscriptionDuplicate(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresSubscriptionRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.CreateSubscription(alice.ID, bob.ID))
	require.ErrorIs(t, repo.CreateSubscription(alice.ID, bob.ID), ErrAlreadySubscribed)
}

func TestDeleteSubscriptionMissing(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresSubscriptionRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.ErrorIs(t, repo.DeleteSubscription(alice.ID, bob.ID), ErrNotSubscribed)
}

func TestSubscriptionIsDirectional(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresSubscriptionRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, repo.CreateSubscription(alice.ID, bob.ID))

	forward, err := repo.IsSubscribed(alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, forward)

	reverse, err := repo.IsSubscribed(bob.ID, alice.ID)
	require.NoError(t, err)
	require.False(t, reverse)
}

func TestGetSubscribedAuthors(t *testing.T) {
	db := initTestDB(t)
	repo := NewPostgresSubscriptionRepository(db)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	require.NoError(t, repo.CreateSubscription(alice.ID, bob.ID))
	require.NoError(t, repo.CreateSubscription(alice.ID, carol.ID))

	authors, err := repo.GetSubscribedAuthors(alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, authors, 2)
	require.Equal(t, "bob", authors[0].Username)
	require.Equal(t, "carol", authors[1].Username)

	count, err := repo.CountSubscriptions(alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	m, err := repo.GetSubscribedAuthorIDs(alice.ID, []uint{bob.ID, alice.ID})
	require.NoError(t, err)
	require.True(t, m[bob.ID])
	require.False(t, m[alice.ID])
}
