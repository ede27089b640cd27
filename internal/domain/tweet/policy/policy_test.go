package policy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadim/tweetlab/internal/domain/tweet/dao"
	"github.com/vadim/tweetlab/internal/domain/tweet/entity"
	"github.com/vadim/tweetlab/internal/domain/tweet/service"
	"github.com/vadim/tweetlab/internal/scoring"
	"github.com/vadim/tweetlab/internal/storage"
)

type stubProfiles struct {
	profile *scoring.AuthorProfile
	err     error
}

func (s stubProfiles) AuthorProfile(context.Context, string) (*scoring.AuthorProfile, error) {
	return s.profile, s.err
}

type recordingPoster struct {
	posted []string
	fail   map[string]bool
}

func (p *recordingPoster) Post(_ context.Context, t *entity.Tweet) error {
	if p.fail[t.Content] {
		return errors.New("network down")
	}
	p.posted = append(p.posted, t.ID)
	return nil
}

type memoryStore struct {
	in   storage.UploadInput
	body []byte
}

func (m *memoryStore) Upload(_ context.Context, in storage.UploadInput) (*storage.UploadOutput, error) {
	data, err := io.ReadAll(in.Reader)
	if err != nil {
		return nil, err
	}
	m.in, m.body = in, data
	return &storage.UploadOutput{Key: in.Prefix + "/x.json", URL: "http://s3/" + in.Prefix + "/x.json", Size: in.Size}, nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	policy *Policy
	svc    *service.Service
	poster *recordingPoster
	store  *memoryStore
	now    time.Time
}

func newFixture(t *testing.T, withStore bool) *fixture {
	t.Helper()
	f := &fixture{
		now:    time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		poster: &recordingPoster{fail: map[string]bool{}},
	}
	f.svc = service.New(dao.NewMemoryTweetRepository()).WithNow(func() time.Time { return f.now })
	engine := scoring.New(nil, scoring.WithClock(scoring.FixedClock(f.now)), scoring.WithLocation(time.UTC))

	var store ObjectStore
	if withStore {
		f.store = &memoryStore{}
		store = f.store
	}
	f.policy = New(f.svc, engine, stubProfiles{}, f.poster, store, discard)
	return f
}

func TestCreate_Analyze(t *testing.T) {
	f := newFixture(t, false)

	tw, err := f.policy.Create(context.Background(), CreateInput{UserID: "u1", Content: "Sence bu doğru mu?", Analyze: true})
	require.NoError(t, err)
	require.NotNil(t, tw.Analysis)
	assert.True(t, tw.Analysis.Features.HasQuestion)

	tw, err = f.policy.Create(context.Background(), CreateInput{UserID: "u1", Content: "plain"})
	require.NoError(t, err)
	assert.Nil(t, tw.Analysis)
}

func TestCreate_ProfileError(t *testing.T) {
	f := newFixture(t, false)
	f.policy.profiles = stubProfiles{err: errors.New("db down")}

	_, err := f.policy.Create(context.Background(), CreateInput{UserID: "u1", Content: "x", Analyze: true})
	assert.Error(t, err)
}

func TestOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	tw, err := f.policy.Create(ctx, CreateInput{UserID: "owner", Content: "mine"})
	require.NoError(t, err)

	_, err = f.policy.Get(ctx, tw.ID, "intruder")
	assert.ErrorIs(t, err, entity.ErrTweetNotFound)

	assert.ErrorIs(t, f.policy.Delete(ctx, tw.ID, "intruder"), entity.ErrTweetNotFound)

	_, err = f.policy.Schedule(ctx, tw.ID, "intruder", f.now.Add(time.Hour))
	assert.ErrorIs(t, err, entity.ErrTweetNotFound)

	content := "changed"
	_, err = f.policy.Update(ctx, UpdateInput{ID: tw.ID, UserID: "intruder", Content: &content})
	assert.ErrorIs(t, err, entity.ErrTweetNotFound)

	got, err := f.policy.Update(ctx, UpdateInput{ID: tw.ID, UserID: "owner", Content: &content, Reanalyze: true})
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Content)
	require.NotNil(t, got.Analysis)
}

func TestProcessScheduledTweets(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	at := f.now.Add(time.Minute)
	ok, err := f.policy.Create(ctx, CreateInput{UserID: "u1", Content: "ok", ScheduledFor: &at})
	require.NoError(t, err)
	_, err = f.policy.Create(ctx, CreateInput{UserID: "u1", Content: "broken", ScheduledFor: &at})
	require.NoError(t, err)
	later := f.now.Add(time.Hour)
	_, err = f.policy.Create(ctx, CreateInput{UserID: "u1", Content: "later", ScheduledFor: &later})
	require.NoError(t, err)

	f.poster.fail["broken"] = true
	f.now = f.now.Add(5 * time.Minute)

	n, err := f.policy.ProcessScheduledTweets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{ok.ID}, f.poster.posted)

	got, err := f.policy.Get(ctx, ok.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPosted, got.Status)

	// The failed tweet stays scheduled and is retried on the next run
	f.poster.fail["broken"] = false
	n, err = f.policy.ProcessScheduledTweets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	t.Run("unavailable without storage", func(t *testing.T) {
		f := newFixture(t, false)
		_, err := f.policy.Export(ctx, "u1")
		assert.ErrorIs(t, err, entity.ErrExportUnavailable)
	})

	t.Run("uploads json document", func(t *testing.T) {
		f := newFixture(t, true)
		for _, c := range []string{"a", "b"} {
			_, err := f.policy.Create(ctx, CreateInput{UserID: "u1", Content: c})
			require.NoError(t, err)
		}

		out, err := f.policy.Export(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, out.Count)
		assert.Equal(t, "exports/u1", f.store.in.Prefix)
		assert.Equal(t, "application/json", f.store.in.ContentType)

		var doc struct {
			UserID string          `json:"user_id"`
			Tweets []entity.Tweet `json:"tweets"`
		}
		require.NoError(t, json.Unmarshal(f.store.body, &doc))
		assert.Equal(t, "u1", doc.UserID)
		assert.Len(t, doc.Tweets, 2)
	})
}
