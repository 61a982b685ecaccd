package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	errs "igsaver/pkg/errors"
)

// Profile resolves a username. A missing user yields
// ErrorTypeProfileNotFound; a private account the viewer does not follow
// yields ErrorTypePrivateProfile.
func (c *Client) Profile(ctx context.Context, username string) (*Profile, error) {
	c.logger.DebugWithFields("fetching user profile", map[string]interface{}{
		"username": username,
	})

	var resp profileResponse
	if err := c.getJSON(ctx, profilePath(username), &resp); err != nil {
		if errs.IsType(err, errs.ErrorTypeNotFound) {
			return nil, errs.New(errs.ErrorTypeProfileNotFound, "%s - Profile does not exist", username)
		}
		return nil, err
	}

	profile := resp.Data.User
	if profile == nil || profile.ID == "" {
		return nil, errs.New(errs.ErrorTypeProfileNotFound, "%s - Profile does not exist", username)
	}

	self := (c.userID != "" && profile.ID == c.userID) ||
		(c.username != "" && strings.EqualFold(profile.Username, c.username))
	if profile.IsPrivate && !profile.FollowedByViewer && !self {
		return nil, errs.New(errs.ErrorTypePrivateProfile, "%s is a private account and you don't follow them", username)
	}

	return profile, nil
}

// Highlights lists the highlight reels of a user
func (c *Client) Highlights(ctx context.Context, userID string) ([]Highlight, error) {
	var resp trayResponse
	if err := c.getJSON(ctx, highlightsTrayPath(userID), &resp); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("fetched highlight tray", map[string]interface{}{
		"user_id": userID,
		"count":   len(resp.Tray),
	})
	return resp.Tray, nil
}

// ReelItems lists the items of a reel (a highlight, an archived day or a
// user's active stories)
func (c *Client) ReelItems(ctx context.Context, reelID string) ([]Item, error) {
	reel, err := c.reel(ctx, reelID)
	if err != nil {
		return nil, err
	}
	if reel == nil {
		return []Item{}, nil
	}
	return reel.Items, nil
}

// Stories returns the active stories of a user, or nil when there are none
func (c *Client) Stories(ctx context.Context, userID string) (*Reel, error) {
	reel, err := c.reel(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reel == nil || len(reel.Items) == 0 {
		return nil, nil
	}
	if reel.ID == "" {
		reel.ID = userID
	}
	reel.Title = "stories"
	return reel, nil
}

func (c *Client) reel(ctx context.Context, reelID string) (*Reel, error) {
	var resp reelsMediaResponse
	if err := c.getJSON(ctx, reelsMediaPath(reelID), &resp); err != nil {
		return nil, err
	}
	reel, ok := resp.Reels[reelID]
	if !ok {
		return nil, nil
	}
	return &reel, nil
}

// StoryArchive lists the archived story days of the logged-in account.
// Each day is returned as a Highlight titled with its date.
func (c *Client) StoryArchive(ctx context.Context) ([]Highlight, error) {
	var days []Highlight
	maxID := ""
	for {
		var resp archiveResponse
		if err := c.getJSON(ctx, archivePath(maxID), &resp); err != nil {
			return nil, err
		}
		for _, item := range resp.Items {
			days = append(days, Highlight{
				ID:         item.ID,
				Title:      archiveDayTitle(item.ID, item.Timestamp),
				MediaCount: item.MediaCount,
				CreatedAt:  item.Timestamp,
			})
		}
		if !resp.MoreAvailable || resp.MaxID == "" || resp.MaxID == maxID {
			break
		}
		maxID = resp.MaxID
	}
	return days, nil
}

// DownloadMedia streams the media at mediaURL into w
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string, w io.Writer) (int64, error) {
	if mediaURL == "" {
		return 0, errs.New(errs.ErrorTypeDownload, "item has no media URL")
	}

	req, err := c.newRequest(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.doRequest(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &errs.Error{
			Type:    errs.ErrorTypeDownload,
			Message: fmt.Sprintf("failed to download media: %v", err),
			Code:    resp.StatusCode,
			Err:     err,
		}
	}

	c.logger.DebugWithFields("downloaded media", map[string]interface{}{
		"url":  mediaURL,
		"size": n,
	})
	return n, nil
}
