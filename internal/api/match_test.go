package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/codeclash/codeclash/internal/api"
	"github.com/codeclash/codeclash/internal/auth"
	"github.com/codeclash/codeclash/internal/event"
	"github.com/codeclash/codeclash/internal/match"
)

func TestMatchFlow(t *testing.T) {
	r, _ := makeAPI(t)

	// A lone user stays queued: the wire format for "no match yet" is null.
	body := doJSON(t, r, http.MethodPost, "/match/queue/u1", "")
	require.Equal(t, "null", body)

	body = doJSON(t, r, http.MethodGet, "/match/queue/u1", "")
	require.Equal(t, "null", body)

	// The second user pairs immediately.
	var pairing struct {
		RoomID    string `json:"roomId"`
		ProblemID string `json:"problemId"`
	}
	body = doJSON(t, r, http.MethodPost, "/match/queue/u2", "")
	require.NoError(t, json.Unmarshal([]byte(body), &pairing))
	require.NotEmpty(t, pairing.RoomID)
	require.Equal(t, "p1", pairing.ProblemID)

	// The first user discovers the same room by polling.
	var polled struct {
		RoomID string `json:"roomId"`
	}
	body = doJSON(t, r, http.MethodGet, "/match/queue/u1", "")
	require.NoError(t, json.Unmarshal([]byte(body), &polled))
	require.Equal(t, pairing.RoomID, polled.RoomID)

	battle := "/match/battle/%s/" + pairing.RoomID

	// First submission: opponent still playing.
	body = doJSON(t, r, http.MethodPost, fmt.Sprintf(battle, "u1"),
		`{"calculationTimeMs":100,"memoryUsageKb":50,"result":"accepted","testResults":[true,true]}`)
	require.Equal(t, "null", body)

	// Second submission resolves the room; u2 is slower and loses.
	body = doJSON(t, r, http.MethodPost, fmt.Sprintf(battle, "u2"),
		`{"calculationTimeMs":150,"memoryUsageKb":50,"result":"accepted","testResults":[true,true]}`)
	require.Equal(t, "false", body)

	body = doJSON(t, r, http.MethodGet, fmt.Sprintf(battle, "u1"), "")
	require.Equal(t, "true", body)

	body = doJSON(t, r, http.MethodGet, fmt.Sprintf(battle, "u2"), "")
	require.Equal(t, "false", body)

	// Both players consumed the result, so the room is gone.
	w := do(t, r, http.MethodGet, fmt.Sprintf(battle, "u1"), "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMatchBattle_Errors(t *testing.T) {
	r, _ := makeAPI(t)

	doJSON(t, r, http.MethodPost, "/match/queue/u1", "")
	var pairing struct {
		RoomID string `json:"roomId"`
	}
	body := doJSON(t, r, http.MethodPost, "/match/queue/u2", "")
	require.NoError(t, json.Unmarshal([]byte(body), &pairing))

	sub := `{"calculationTimeMs":1,"memoryUsageKb":1,"result":"accepted","testResults":[true]}`

	tests := map[string]struct {
		method, path, body string
		wantStatus         int
	}{
		"unknown room": {
			method:     http.MethodPost,
			path:       "/match/battle/u1/no-such-room",
			body:       sub,
			wantStatus: http.StatusNotFound,
		},
		"user not in room": {
			method:     http.MethodPost,
			path:       "/match/battle/intruder/" + pairing.RoomID,
			body:       sub,
			wantStatus: http.StatusForbidden,
		},
		"missing submission fields": {
			method:     http.MethodPost,
			path:       "/match/battle/u1/" + pairing.RoomID,
			body:       `{"calculationTimeMs":1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestMatchFlow_Notifications(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r, rc := makeAPI(t)

	sub := rc.Subscribe(ctx, "cc:user:u1")
	t.Cleanup(func() { _ = sub.Close() })

	// Wait for the subscription confirmation before anything can publish.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	doJSON(t, r, http.MethodPost, "/match/queue/u1", "")
	doJSON(t, r, http.MethodPost, "/match/queue/u2", "")

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var paired struct {
		Event string `json:"event"`
		Data  struct {
			RoomID   string `json:"roomId"`
			Opponent string `json:"opponent"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &paired))
	require.Equal(t, "match.paired", paired.Event)
	require.Equal(t, "u2", paired.Data.Opponent)

	// Play the battle out; u1 wins on pass count and gets told so.
	battle := "/match/battle/%s/" + paired.Data.RoomID
	doJSON(t, r, http.MethodPost, fmt.Sprintf(battle, "u1"),
		`{"calculationTimeMs":1,"memoryUsageKb":1,"result":"accepted","testResults":[true,true]}`)
	doJSON(t, r, http.MethodPost, fmt.Sprintf(battle, "u2"),
		`{"calculationTimeMs":1,"memoryUsageKb":1,"result":"wrong_answer","testResults":[true,false]}`)

	msg, err = sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var resolved struct {
		Event string `json:"event"`
		Data  struct {
			RoomID string `json:"roomId"`
			Won    bool   `json:"won"`
			Tie    bool   `json:"tie"`
			Reason string `json:"reason"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &resolved))
	require.Equal(t, "match.resolved", resolved.Event)
	require.Equal(t, paired.Data.RoomID, resolved.Data.RoomID)
	require.True(t, resolved.Data.Won)
	require.False(t, resolved.Data.Tie)
	require.Contains(t, resolved.Data.Reason, "More test cases passed")
}

// --- helpers ---

func makeAPI(t *testing.T) (*gin.Engine, redis.UniversalClient) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()

	eb := event.NewBus()
	t.Cleanup(eb.Stop)

	rs := miniredis.RunT(t)
	rc := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{rs.Addr()},
	})

	engine := match.NewEngine(match.Config{
		Catalog:  catalogStub{"p1"},
		EventBus: eb,
	})

	api.New(api.Config{
		Router:       r,
		EventBus:     eb,
		Auth:         auth.NewManager("test-secret", time.Hour),
		Match:        engine,
		Redis:        rc,
		PubsubPrefix: "cc",
	})

	return r, rc
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) string {
	t.Helper()

	w := do(t, r, method, path, body)
	require.Equal(t, http.StatusOK, w.Code, "unexpected status, body: %s", w.Body.String())
	return strings.TrimSpace(w.Body.String())
}

type catalogStub []string

func (c catalogStub) ListProblemIDs(context.Context) ([]string, error) {
	return c, nil
}
