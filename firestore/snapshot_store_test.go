package rewindfirestore_test

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/gcloud"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rewindkit/go-rewind/event"
	rewindfirestore "github.com/rewindkit/go-rewind/firestore"
	"github.com/rewindkit/go-rewind/internal/article"
	"github.com/rewindkit/go-rewind/snapshot"
)

func TestSnapshotStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	ctx := context.Background()

	container, err := gcloud.RunFirestore(
		ctx,
		"gcr.io/google.com/cloudsdktool/google-cloud-cli:453.0.0-emulators",
		gcloud.WithProjectID("rewind-test"),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	client, err := firestore.NewClient(
		ctx,
		container.Settings.ProjectID,
		option.WithEndpoint(container.URI),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	snapshotStore := rewindfirestore.SnapshotStore{Client: client}

	t.Run("store suite", func(t *testing.T) {
		suite.Run(t, snapshot.NewStoreSuite(func() snapshot.Store {
			deleteAllSnapshots(ctx, t, client)

			return snapshotStore
		}))
	})

	t.Run("snapshot repository", func(t *testing.T) {
		article.SnapshotRepositorySuite(event.NewInMemoryStore(), snapshotStore)(t)
	})
}

func deleteAllSnapshots(ctx context.Context, t *testing.T, client *firestore.Client) {
	t.Helper()

	iter := client.Collection("Snapshots").Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return
		}

		require.NoError(t, err)

		_, err = doc.Ref.Delete(ctx)
		require.NoError(t, err)
	}
}
