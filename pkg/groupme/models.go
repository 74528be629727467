package groupme

import (
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is a UTC instant carried on the wire as Unix seconds.
type Timestamp time.Time

// Time returns the timestamp as a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var secs int64
	if err := json.Unmarshal(data, &secs); err != nil {
		return err
	}
	*t = Timestamp(time.Unix(secs, 0).UTC())
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Unix())
}

// ResponseMeta is the metadata envelope on every API response.
type ResponseMeta struct {
	Code int64 `json:"code"`
}

// GroupsResponse is the envelope for the group list endpoint.
type GroupsResponse struct {
	Meta     ResponseMeta `json:"meta"`
	Response []Group      `json:"response"`
}

// Group is a group chat and its member roster.
type Group struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	CreatorUserID string    `json:"creator_user_id"`
	ImageURL      string    `json:"image_url"`
	ShareURL      string    `json:"share_url"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at"`
	Members       []Member  `json:"members"`
}

// Member is a member of a Group.
type Member struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	Muted    bool   `json:"muted"`
	ImageURL string `json:"image_url"`
}

// Nicknames returns a user_id -> nickname lookup for the group's roster.
func (g *Group) Nicknames() map[string]string {
	names := make(map[string]string, len(g.Members))
	for _, m := range g.Members {
		names[m.UserID] = m.Nickname
	}
	return names
}

// MessagesResponse is the envelope for the group messages endpoint.
type MessagesResponse struct {
	Meta     ResponseMeta `json:"meta"`
	Response MessagePage  `json:"response"`
}

// MessagePage is one page of messages, ordered newest to oldest. An empty
// page signals the end of history.
type MessagePage struct {
	Count    int64     `json:"count"`
	Messages []Message `json:"messages"`
}

// NextBeforeID returns the cursor for the next (older) page: the id of the
// page's last message, or "" if the page is empty.
func (p MessagePage) NextBeforeID() string {
	if len(p.Messages) == 0 {
		return ""
	}
	return p.Messages[len(p.Messages)-1].ID
}

// Message is a single message in a group. Immutable once fetched.
type Message struct {
	ID          string       `json:"id"`
	SourceGUID  string       `json:"source_guid"`
	CreatedAt   Timestamp    `json:"created_at"`
	UserID      string       `json:"user_id"`
	GroupID     string       `json:"group_id"`
	Name        string       `json:"name"`
	AvatarURL   string       `json:"avatar_url"`
	Text        string       `json:"text"`
	System      bool         `json:"system"`
	FavoritedBy []string     `json:"favorited_by"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment type discriminators as sent by the API.
const (
	AttachmentImage       = "image"
	AttachmentLinkedImage = "linked_image"
	AttachmentVideo       = "video"
	AttachmentFile        = "file"
	AttachmentLocation    = "location"
	AttachmentSplit       = "split"
	AttachmentEmoji       = "emoji"
	AttachmentReply       = "reply"
)

// Attachment is one attachment on a Message. The wire format is a tagged
// union; fields beyond Type are populated depending on the tag.
type Attachment struct {
	Type       string `json:"type"`
	URL        string `json:"url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`

	// location
	Lat  string `json:"lat,omitempty"`
	Lon  string `json:"lon,omitempty"`
	Name string `json:"name,omitempty"`

	// reply
	UserID      string `json:"user_id,omitempty"`
	ReplyID     string `json:"reply_id,omitempty"`
	BaseReplyID string `json:"base_reply_id,omitempty"`

	// split / emoji
	Token       string     `json:"token,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
	Charmap     [][]string `json:"charmap,omitempty"`
}

// DownloadURL returns the media URL and file extension for attachments
// that can be saved to disk. ok is false for non-media attachments and for
// media whose extension cannot be determined from the URL.
func (a Attachment) DownloadURL() (url, ext string, ok bool) {
	switch a.Type {
	case AttachmentImage, AttachmentLinkedImage, AttachmentVideo:
		url = a.URL
	default:
		return "", "", false
	}

	switch {
	case strings.Contains(url, ".jpeg."):
		ext = "jpeg"
	case strings.Contains(url, ".png."):
		ext = "png"
	case strings.HasSuffix(url, ".mp4"):
		ext = "mp4"
	default:
		return "", "", false
	}

	return url, ext, true
}
