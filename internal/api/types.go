package api

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// UserIDResponse is returned by GET /api/get_user_id.
type UserIDResponse struct {
	UserID string `json:"user_id"`
}

// VideoResponse is one catalog entry in GET /api/videos.
type VideoResponse struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	IsAd       bool   `json:"is_ad"`
	TotalLikes int64  `json:"total_likes"`
	Liked      bool   `json:"liked"`
}

// EngagementRequest is the body of POST /api/like and POST /api/ad_click.
// UserID falls back to the session's anonymous identifier when empty.
type EngagementRequest struct {
	UserID  string `json:"user_id,omitempty"`
	VideoID *int64 `json:"video_id"`
}

// LikeResponse is returned by POST /api/like.
type LikeResponse struct {
	Liked      bool   `json:"liked"`
	TotalLikes int64  `json:"total_likes"`
	UserID     string `json:"user_id"`
}

// AdClickResponse is returned by POST /api/ad_click.
type AdClickResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AdStatResponse is one advertisement row in the stats breakdown.
type AdStatResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Likes    int64  `json:"likes"`
	Clicks   int64  `json:"clicks"`
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	TotalAdLikes          int64            `json:"total_ad_likes"`
	UniqueUsersLikedAds   int64            `json:"unique_users_liked_ads"`
	TotalAdClicks         int64            `json:"total_ad_clicks"`
	UniqueUsersClickedAds int64            `json:"unique_users_clicked_ads"`
	Ads                   []AdStatResponse `json:"ads"`
}

// MessageResponse carries a human-readable outcome.
type MessageResponse struct {
	Message string `json:"message"`
}

// RefreshResponse is returned by POST /api/refresh_videos.
type RefreshResponse struct {
	Message    string `json:"message"`
	Added      int    `json:"added"`
	Discovered int    `json:"discovered"`
	Skipped    int    `json:"skipped"`
	Missing    int    `json:"missing"`
}
