package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorProfile_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *float64
	}{
		{"current key", `{"reputation_score": 12}`, reputation(12)},
		{"legacy key", `{"tweetcred_score": -20}`, reputation(-20)},
		{"current key wins", `{"reputation_score": 5, "tweetcred_score": 90}`, reputation(5)},
		{"neither", `{"verified": true}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p AuthorProfile
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.want, p.Reputation)
		})
	}

	var p AuthorProfile
	require.NoError(t, json.Unmarshal([]byte(`{"verified": true, "recent_post_count": 4, "total_posts": 30, "tweetcred_score": 1}`), &p))
	assert.Equal(t, AuthorProfile{Verified: true, RecentPostCount: 4, TotalPosts: 30, Reputation: reputation(1)}, p)

	assert.Error(t, json.Unmarshal([]byte(`{"tweetcred_score": "high"}`), &p))
}
