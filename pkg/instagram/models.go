package instagram

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Media types reported in the media_type field
const (
	MediaTypePhoto = 1
	MediaTypeVideo = 2
)

// Profile is the subset of a user profile the backup needs
type Profile struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	FullName         string `json:"full_name"`
	IsPrivate        bool   `json:"is_private"`
	FollowedByViewer bool   `json:"followed_by_viewer"`
}

type profileResponse struct {
	Data struct {
		User *Profile `json:"user"`
	} `json:"data"`
	Status string `json:"status"`
}

// Highlight is one entry of a highlight tray or of the story archive
type Highlight struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	MediaCount int    `json:"media_count"`
	CreatedAt  int64  `json:"created_at"`
}

type trayResponse struct {
	Tray   []Highlight `json:"tray"`
	Status string      `json:"status"`
}

type archiveResponse struct {
	Items []struct {
		ID         string `json:"id"`
		Timestamp  int64  `json:"timestamp"`
		MediaCount int    `json:"media_count"`
	} `json:"items"`
	MoreAvailable bool   `json:"more_available"`
	MaxID         string `json:"max_id"`
	Status        string `json:"status"`
}

// Reel is a container of story items
type Reel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

type reelsMediaResponse struct {
	Reels  map[string]Reel `json:"reels"`
	Status string          `json:"status"`
}

// Candidate is one rendition of a photo or video
type Candidate struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

// Item is a single photo or video of a reel
type Item struct {
	ID             string `json:"id"`
	TakenAtUnix    int64  `json:"taken_at"`
	MediaType      int    `json:"media_type"`
	ImageVersions2 struct {
		Candidates []Candidate `json:"candidates"`
	} `json:"image_versions2"`
	VideoVersions []Candidate `json:"video_versions"`
	Caption       *Caption    `json:"caption"`
}

// Caption is the text attached to an item
type Caption struct {
	Text string `json:"text"`
}

// IsVideo reports whether the item is a video
func (i Item) IsVideo() bool {
	return i.MediaType == MediaTypeVideo || len(i.VideoVersions) > 0
}

// TakenAt is the capture time in UTC
func (i Item) TakenAt() time.Time {
	return time.Unix(i.TakenAtUnix, 0).UTC()
}

// Ext is the file extension the item is stored with
func (i Item) Ext() string {
	if i.IsVideo() {
		return ".mp4"
	}
	return ".jpg"
}

// CaptionText returns the caption, or an empty string
func (i Item) CaptionText() string {
	if i.Caption == nil {
		return ""
	}
	return i.Caption.Text
}

// MediaURL picks the rendition to download. "low" selects the smallest
// candidate, anything else the largest.
func (i Item) MediaURL(quality string) string {
	candidates := i.ImageVersions2.Candidates
	if i.IsVideo() && len(i.VideoVersions) > 0 {
		candidates = i.VideoVersions
	}
	if len(candidates) == 0 {
		return ""
	}

	low := strings.EqualFold(quality, "low")
	best := candidates[0]
	for _, c := range candidates[1:] {
		area, bestArea := c.Width*c.Height, best.Width*best.Height
		if (low && area < bestArea) || (!low && area > bestArea) {
			best = c
		}
	}
	return best.URL
}

// archiveDayTitle names an archived story day by its date
func archiveDayTitle(id string, timestamp int64) string {
	if timestamp == 0 {
		if i := strings.LastIndex(id, ":"); i >= 0 {
			timestamp, _ = strconv.ParseInt(id[i+1:], 10, 64)
		}
	}
	if timestamp == 0 {
		return id
	}
	return time.Unix(timestamp, 0).UTC().Format("2006-01-02")
}

type loginResponse struct {
	Authenticated     bool   `json:"authenticated"`
	User              bool   `json:"user"`
	UserID            string `json:"userId"`
	TwoFactorRequired bool   `json:"two_factor_required"`
	TwoFactorInfo     *struct {
		Identifier string `json:"two_factor_identifier"`
	} `json:"two_factor_info"`
	CheckpointURL string `json:"checkpoint_url"`
	Message       string `json:"message"`
	Status        string `json:"status"`
}

type currentUserResponse struct {
	User struct {
		PK       json.Number `json:"pk"`
		Username string      `json:"username"`
	} `json:"user"`
	Status string `json:"status"`
}
