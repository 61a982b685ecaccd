package instagram

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// AppID is the web application id sent as X-IG-App-ID
	AppID = "936619743392459"

	LoginPageEndpoint   = "/accounts/login/"
	LoginEndpoint       = "/api/v1/web/accounts/login/ajax/"
	TwoFactorEndpoint   = "/api/v1/web/accounts/login/ajax/two_factor/"
	CurrentUserEndpoint = "/api/v1/accounts/current_user/"
	ProfileEndpoint     = "/api/v1/users/web_profile_info/"
	ReelsMediaEndpoint  = "/api/v1/feed/reels_media/"
	ArchiveEndpoint     = "/api/v1/archive/reel/day_shells/"
)

// profilePath constructs the path for fetching a user's profile
func profilePath(username string) string {
	params := url.Values{}
	params.Set("username", username)
	return ProfileEndpoint + "?" + params.Encode()
}

// highlightsTrayPath constructs the path of a user's highlight tray
func highlightsTrayPath(userID string) string {
	return fmt.Sprintf("/api/v1/highlights/%s/highlights_tray/", url.PathEscape(userID))
}

// reelsMediaPath constructs the path that lists the items of a reel
func reelsMediaPath(reelID string) string {
	params := url.Values{}
	params.Set("reel_ids", reelID)
	return ReelsMediaEndpoint + "?" + params.Encode()
}

func archivePath(maxID string) string {
	if maxID == "" {
		return ArchiveEndpoint
	}
	params := url.Values{}
	params.Set("max_id", maxID)
	return ArchiveEndpoint + "?" + params.Encode()
}

// IsValidUsername checks the characters Instagram allows in usernames
func IsValidUsername(username string) bool {
	if username == "" || len(username) > 30 {
		return false
	}
	for _, r := range username {
		if !(r >= 'a' && r <= 'z') && !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') && r != '.' && r != '_' {
			return false
		}
	}
	return true
}

// SanitizeUsername strips a leading @ and surrounding spaces
func SanitizeUsername(username string) string {
	return strings.TrimPrefix(strings.TrimSpace(username), "@")
}
