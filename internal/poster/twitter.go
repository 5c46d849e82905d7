package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dghubble/oauth1"
)

const (
	defaultUploadURL   = "https://upload.twitter.com/1.1/media/upload.json"
	defaultMetadataURL = "https://upload.twitter.com/1.1/media/metadata/create.json"
	defaultTweetURL    = "https://api.twitter.com/2/tweets"
	defaultVerifyURL   = "https://api.twitter.com/1.1/account/verify_credentials.json"
)

// TwitterPoster publishes image posts to Twitter/X using OAuth1 user
// credentials. The v1.1 endpoints handle media, the v2 endpoint the tweets.
type TwitterPoster struct {
	httpClient *http.Client
	cooldown   time.Duration

	uploadURL   string
	metadataURL string
	tweetURL    string
	verifyURL   string
}

// TwitterConfig holds configuration for the Twitter poster.
type TwitterConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string

	// RateLimitCooldown is how long to pause when the upload endpoint
	// answers 429 before reporting the attempt as failed. Zero disables
	// the pause (fail fast).
	RateLimitCooldown time.Duration
}

// NewTwitterPoster creates a new Twitter poster with OAuth1-signed requests.
func NewTwitterPoster(cfg TwitterConfig) *TwitterPoster {
	oauthCfg := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessKey, cfg.AccessSecret)

	httpClient := oauthCfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = 60 * time.Second

	return &TwitterPoster{
		httpClient:  httpClient,
		cooldown:    cfg.RateLimitCooldown,
		uploadURL:   defaultUploadURL,
		metadataURL: defaultMetadataURL,
		tweetURL:    defaultTweetURL,
		verifyURL:   defaultVerifyURL,
	}
}

// Platform returns the platform name.
func (t *TwitterPoster) Platform() string {
	return "twitter"
}

// ValidateCredentials verifies the OAuth1 credentials against the API.
func (t *TwitterPoster) ValidateCredentials(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", t.verifyURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("credential check failed (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// Publish uploads the image with alt text, creates the primary tweet with
// the caption, then threads the description as replies. A 429 during upload
// pauses for the configured cooldown and returns ErrRateLimited without
// creating any tweet. A reply failure after a successful primary tweet is
// logged and not repaired.
func (t *TwitterPoster) Publish(ctx context.Context, post Post) (*PostResult, error) {
	mediaID, err := t.uploadMedia(ctx, post.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	if post.AltText != "" {
		if err := t.setAltText(ctx, mediaID, TruncateAltText(post.AltText)); err != nil {
			return nil, fmt.Errorf("attach alt text: %w", err)
		}
	}

	primaryID, err := t.createTweet(ctx, post.Caption, []string{mediaID}, "")
	if err != nil {
		return nil, fmt.Errorf("create tweet: %w", err)
	}

	result := &PostResult{
		PostID:  primaryID,
		PostURL: fmt.Sprintf("https://twitter.com/i/web/status/%s", primaryID),
	}

	// Thread the description below the primary tweet. If a reply fails the
	// primary tweet stays up; there is no partial-post cleanup.
	parent := primaryID
	for _, part := range SplitReply(post.ReplyText, TwitterMaxLength) {
		replyID, err := t.createTweet(ctx, part, nil, parent)
		if err != nil {
			slog.Warn("reply failed, primary tweet remains", "tweet_id", primaryID, "error", err)
			break
		}
		result.ReplyIDs = append(result.ReplyIDs, replyID)
		parent = replyID
	}

	slog.Info("published to Twitter",
		"tweet_id", result.PostID,
		"replies", len(result.ReplyIDs),
		"url", result.PostURL,
	)

	return result, nil
}

// mediaUploadResponse is the v1.1 media upload response.
type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

func (t *TwitterPoster) uploadMedia(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("media", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		if err := t.coolOff(ctx); err != nil {
			return "", err
		}
		return "", ErrRateLimited
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var upload mediaUploadResponse
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if upload.MediaIDString == "" {
		return "", fmt.Errorf("upload response missing media id")
	}

	return upload.MediaIDString, nil
}

// coolOff blocks for the configured cooldown after a 429. The attempt is
// still reported as failed afterwards; retrying is left to the next
// scheduled invocation.
func (t *TwitterPoster) coolOff(ctx context.Context) error {
	if t.cooldown <= 0 {
		return nil
	}

	slog.Warn("rate limited, pausing before reporting failure", "cooldown", t.cooldown)

	timer := time.NewTimer(t.cooldown)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// metadataRequest attaches alt text to uploaded media.
type metadataRequest struct {
	MediaID string       `json:"media_id"`
	AltText metadataText `json:"alt_text"`
}

type metadataText struct {
	Text string `json:"text"`
}

func (t *TwitterPoster) setAltText(ctx context.Context, mediaID, altText string) error {
	body, err := json.Marshal(metadataRequest{
		MediaID: mediaID,
		AltText: metadataText{Text: altText},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.metadataURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("metadata create failed (status %d): %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// tweetRequest is the v2 tweet creation request body.
type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

// tweetResponse is the v2 tweet creation response.
type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

func (t *TwitterPoster) createTweet(ctx context.Context, text string, mediaIDs []string, replyTo string) (string, error) {
	reqBody := tweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		reqBody.Media = &tweetMedia{MediaIDs: mediaIDs}
	}
	if replyTo != "" {
		reqBody.Reply = &tweetReply{InReplyToTweetID: replyTo}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.tweetURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("tweet failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var created tweetResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if created.Data.ID == "" {
		return "", fmt.Errorf("tweet response missing id")
	}

	return created.Data.ID, nil
}
