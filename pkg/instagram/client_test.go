package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "igsaver/pkg/errors"
	"igsaver/pkg/logger"
)

// newTestServer returns a client pointed at an httptest server driven by mux
func newTestServer(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(5*time.Second, logger.NewTestLogger())
	client.SetBaseURL(server.URL)
	client.now = func() time.Time { return time.Unix(1700000000, 0) }
	return client
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// loginMux serves the login page and hands out a csrftoken cookie
func loginMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(LoginPageEndpoint, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "csrf123", Path: "/"})
		w.Write([]byte("<html></html>"))
	})
	return mux
}

func TestNewClient(t *testing.T) {
	client := NewClient(30*time.Second, logger.NewTestLogger())

	assert.NotNil(t, client.httpClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, AppID, client.headers["X-IG-App-ID"])
	assert.Len(t, client.DeviceID(), 36)
	assert.Empty(t, client.Username())
}

func TestLoginSuccess(t *testing.T) {
	mux := loginMux()
	mux.HandleFunc(LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "csrf123", r.Header.Get("X-CSRFToken"))
		assert.Equal(t, AppID, r.Header.Get("X-IG-App-ID"))
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "#PWD_INSTAGRAM_BROWSER:0:1700000000:hunter2", r.PostForm.Get("enc_password"))

		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "sess-abc", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true, "user": true, "userId": "42", "status": "ok"})
	})
	client := newTestServer(t, mux)

	require.NoError(t, client.Login(context.Background(), "alice", "hunter2"))
	assert.Equal(t, "alice", client.Username())
	assert.Equal(t, "sess-abc", client.cookie("sessionid"))
}

func TestLoginFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     map[string]interface{}
		wantType errs.ErrorType
	}{
		{
			name:     "bad password",
			status:   http.StatusOK,
			body:     map[string]interface{}{"authenticated": false, "user": true, "status": "ok"},
			wantType: errs.ErrorTypeBadCredentials,
		},
		{
			name:     "checkpoint",
			status:   http.StatusBadRequest,
			body:     map[string]interface{}{"message": "checkpoint_required", "checkpoint_url": "/challenge/", "status": "fail"},
			wantType: errs.ErrorTypeCheckpoint,
		},
		{
			name:     "two factor",
			status:   http.StatusBadRequest,
			body:     map[string]interface{}{"two_factor_required": true, "two_factor_info": map[string]interface{}{"two_factor_identifier": "tf-1"}, "status": "fail"},
			wantType: errs.ErrorTypeTwoFactor,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			body:     map[string]interface{}{"message": "Please wait a few minutes", "status": "fail"},
			wantType: errs.ErrorTypeRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := loginMux()
			mux.HandleFunc(LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			client := newTestServer(t, mux)

			err := client.Login(context.Background(), "alice", "wrong")
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errs.TypeOf(err))
			assert.Empty(t, client.Username())
		})
	}
}

func TestTwoFactorLogin(t *testing.T) {
	mux := loginMux()
	mux.HandleFunc(LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"two_factor_required": true,
			"two_factor_info":     map[string]interface{}{"two_factor_identifier": "tf-1"},
		})
	})
	mux.HandleFunc(TwoFactorEndpoint, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		assert.Equal(t, "tf-1", r.PostForm.Get("identifier"))

		if r.PostForm.Get("verificationCode") != "123456" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"authenticated": false, "status": "fail"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true, "userId": "42", "status": "ok"})
	})
	client := newTestServer(t, mux)
	ctx := context.Background()

	err := client.Login(ctx, "alice", "hunter2")
	require.True(t, errs.IsType(err, errs.ErrorTypeTwoFactor))

	err = client.TwoFactorLogin(ctx, "000000")
	assert.True(t, errs.IsType(err, errs.ErrorTypeBadCredentials))

	require.NoError(t, client.TwoFactorLogin(ctx, "123456"))
	assert.Equal(t, "alice", client.Username())

	err = client.TwoFactorLogin(ctx, "123456")
	assert.True(t, errs.IsType(err, errs.ErrorTypeAuth))
}

func TestTestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(CurrentUserEndpoint, func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sessionid"); err != nil {
			http.Redirect(w, r, LoginPageEndpoint, http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":   map[string]interface{}{"pk": 4242424242, "username": "alice"},
			"status": "ok",
		})
	})
	client := newTestServer(t, mux)
	ctx := context.Background()

	_, err := client.TestLogin(ctx)
	require.Error(t, err)
	assert.True(t, errs.IsType(err, errs.ErrorTypeAuth))

	require.NoError(t, client.ImportSession([]byte(`{"username":"alice","device_id":"DEV","cookies":[{"name":"sessionid","value":"s"}]}`)))
	username, err := client.TestLogin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, "4242424242", client.userID)
}

func TestSessionExportImport(t *testing.T) {
	mux := loginMux()
	mux.HandleFunc(LoginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "sess-abc", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": true, "userId": "42"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	first := NewClient(5*time.Second, logger.NewTestLogger())
	first.SetBaseURL(server.URL)
	require.NoError(t, first.Login(context.Background(), "alice", "pw"))

	blob, err := first.ExportSession()
	require.NoError(t, err)

	second := NewClient(5*time.Second, logger.NewTestLogger())
	second.SetBaseURL(server.URL)
	require.NoError(t, second.ImportSession(blob))

	assert.Equal(t, "alice", second.Username())
	assert.Equal(t, first.DeviceID(), second.DeviceID())
	assert.Equal(t, "sess-abc", second.cookie("sessionid"))
	assert.Equal(t, "csrf123", second.cookie("csrftoken"))
}

func TestImportSessionRejectsGarbage(t *testing.T) {
	client := NewClient(time.Second, logger.NewTestLogger())

	assert.True(t, errs.IsType(client.ImportSession([]byte("not json")), errs.ErrorTypeParsing))
	assert.True(t, errs.IsType(client.ImportSession([]byte(`{"cookies":[]}`)), errs.ErrorTypeParsing))

	_, err := client.ExportSession()
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("username") {
		case "bob":
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{"user": map[string]interface{}{
				"id": "7", "username": "bob", "is_private": false,
			}}})
		case "secret":
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{"user": map[string]interface{}{
				"id": "8", "username": "secret", "is_private": true, "followed_by_viewer": false,
			}}})
		case "ghost":
			writeJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]interface{}{"user": nil}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := newTestServer(t, mux)
	ctx := context.Background()

	profile, err := client.Profile(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "7", profile.ID)

	_, err = client.Profile(ctx, "secret")
	assert.True(t, errs.IsType(err, errs.ErrorTypePrivateProfile))
	assert.Equal(t, "secret is a private account and you don't follow them", errs.MessageOf(err))

	_, err = client.Profile(ctx, "ghost")
	assert.True(t, errs.IsType(err, errs.ErrorTypeProfileNotFound))
	assert.Equal(t, "ghost - Profile does not exist", errs.MessageOf(err))

	_, err = client.Profile(ctx, "nobody")
	assert.True(t, errs.IsType(err, errs.ErrorTypeProfileNotFound))

	// a private account is readable by its owner
	client.username = "secret"
	_, err = client.Profile(ctx, "secret")
	assert.NoError(t, err)
}

func TestHighlightsAndReelItems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/highlights/7/highlights_tray/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"tray": []map[string]interface{}{
			{"id": "highlight:1", "title": "Travel", "media_count": 2},
			{"id": "highlight:2", "title": "Food", "media_count": 0},
		}})
	})
	mux.HandleFunc(ReelsMediaEndpoint, func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("reel_ids")
		reels := map[string]interface{}{}
		if id == "highlight:1" {
			reels[id] = map[string]interface{}{"id": id, "items": []map[string]interface{}{
				{"id": "a", "taken_at": 1700000000, "media_type": 1},
				{"id": "b", "taken_at": 1700000100, "media_type": 2},
			}}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"reels": reels, "status": "ok"})
	})
	client := newTestServer(t, mux)
	ctx := context.Background()

	tray, err := client.Highlights(ctx, "7")
	require.NoError(t, err)
	require.Len(t, tray, 2)
	assert.Equal(t, "Travel", tray[0].Title)

	items, err := client.ReelItems(ctx, "highlight:1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.False(t, items[0].IsVideo())
	assert.True(t, items[1].IsVideo())
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), items[0].TakenAt())

	items, err = client.ReelItems(ctx, "highlight:2")
	require.NoError(t, err)
	assert.Empty(t, items)

	reel, err := client.Stories(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, reel)
}

func TestStories(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(ReelsMediaEndpoint, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("reel_ids"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"reels": map[string]interface{}{
			"7": map[string]interface{}{"items": []map[string]interface{}{
				{"id": "s1", "taken_at": 1700000000, "media_type": 1, "caption": map[string]interface{}{"text": "hi"}},
			}},
		}})
	})
	client := newTestServer(t, mux)

	reel, err := client.Stories(context.Background(), "7")
	require.NoError(t, err)
	require.NotNil(t, reel)
	assert.Equal(t, "7", reel.ID)
	assert.Equal(t, "stories", reel.Title)
	require.Len(t, reel.Items, 1)
	assert.Equal(t, "hi", reel.Items[0].CaptionText())
}

func TestStoryArchivePagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(ArchiveEndpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("max_id") == "" {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"items":          []map[string]interface{}{{"id": "archiveDay:1704067200", "media_count": 3}},
				"more_available": true,
				"max_id":         "page2",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items":          []map[string]interface{}{{"id": "archiveDay:x", "timestamp": 1704153600, "media_count": 1}},
			"more_available": false,
		})
	})
	client := newTestServer(t, mux)

	days, err := client.StoryArchive(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-01", days[0].Title)
	assert.Equal(t, "2024-01-02", days[1].Title)
	assert.Equal(t, 3, days[0].MediaCount)
}

func TestDownloadMedia(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/media/ok.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpegbytes"))
	})
	mux.HandleFunc("/media/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	client := newTestServer(t, mux)
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := client.DownloadMedia(ctx, client.baseURL+"/media/ok.jpg", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "jpegbytes", buf.String())

	_, err = client.DownloadMedia(ctx, client.baseURL+"/media/gone.jpg", &buf)
	assert.True(t, errs.IsType(err, errs.ErrorTypeAuth))

	_, err = client.DownloadMedia(ctx, "", &buf)
	assert.True(t, errs.IsType(err, errs.ErrorTypeDownload))
}

func TestDownloadMediaCancelled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/media/slow.mp4", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	client := newTestServer(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.DownloadMedia(ctx, client.baseURL+"/media/slow.mp4", &bytes.Buffer{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestItemMediaURL(t *testing.T) {
	var photo Item
	photo.MediaType = MediaTypePhoto
	photo.ImageVersions2.Candidates = []Candidate{
		{Width: 640, Height: 1136, URL: "mid"},
		{Width: 1080, Height: 1920, URL: "big"},
		{Width: 320, Height: 568, URL: "small"},
	}
	assert.Equal(t, "big", photo.MediaURL("high"))
	assert.Equal(t, "small", photo.MediaURL("low"))
	assert.Equal(t, ".jpg", photo.Ext())

	video := Item{MediaType: MediaTypeVideo, VideoVersions: []Candidate{{Width: 720, Height: 1280, URL: "v720"}, {Width: 480, Height: 854, URL: "v480"}}}
	video.ImageVersions2.Candidates = []Candidate{{Width: 1080, Height: 1920, URL: "cover"}}
	assert.Equal(t, "v720", video.MediaURL("high"))
	assert.Equal(t, "v480", video.MediaURL("LOW"))
	assert.Equal(t, ".mp4", video.Ext())

	assert.Empty(t, Item{}.MediaURL("high"))
	assert.Empty(t, Item{}.CaptionText())
}

func TestUsernameHelpers(t *testing.T) {
	assert.True(t, IsValidUsername("alice.b_2"))
	assert.False(t, IsValidUsername("alice!"))
	assert.False(t, IsValidUsername(""))
	assert.Equal(t, "alice", SanitizeUsername(" @alice "))
}
