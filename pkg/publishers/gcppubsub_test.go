package publishers

import (
	"context"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGCPPubSubPublisherPublishes(t *testing.T) {
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	require.NoError(t, err)
	defer client.Close()
	_, err = client.CreateTopic(ctx, "floods")
	require.NoError(t, err)

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{
		ID:     "pubsub",
		Type:   TypeGCPPubSub,
		PubSub: &PubSubPublisherConfig{ProjectID: "test-project", Topic: "floods"},
	}, nil)
	require.NoError(t, err)
	defer pub.(*gcpPubSubPublisher).Close()

	require.NoError(t, pub.Publish(ctx, NewEvent(KindFloodAnalysis, "detik", map[string]string{"title": "Banjir"})))

	msgs := server.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "detik", msgs[0].Attributes["source"])
	assert.Equal(t, KindFloodAnalysis, msgs[0].Attributes["kind"])
	assert.Contains(t, string(msgs[0].Data), `"title":"Banjir"`)
}
