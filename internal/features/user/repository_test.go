package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// A malformed id can never equal a stored ObjectID, so the repository
// reports it exactly like an id that matches nothing. The parse happens
// before any collection access, so no database is needed here.
func TestMalformedIDBehavesLikeMissingDocument(t *testing.T) {
	repo := &UserRepositoryImpl{}
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "not-a-hex-id")
	require.ErrorIs(t, err, mongo.ErrNoDocuments)

	err = repo.UpdateLastLogin(ctx, "not-a-hex-id", time.Now())
	require.ErrorIs(t, err, mongo.ErrNoDocuments)

	err = repo.UpdatePassword(ctx, "not-a-hex-id", "hash")
	require.ErrorIs(t, err, mongo.ErrNoDocuments)

	modified, err := repo.ApproveIfPending(ctx, "not-a-hex-id", "ffffffffffffffffffffffff", "", time.Now())
	require.NoError(t, err)
	require.False(t, modified)

	modified, err = repo.RejectIfPending(ctx, "not-a-hex-id", "ffffffffffffffffffffffff", "reason", time.Now())
	require.NoError(t, err)
	require.False(t, modified)
}
